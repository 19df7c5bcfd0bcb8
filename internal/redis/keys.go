package redisx

import "fmt"

const ns = "cinetix:v1"

func KeyScreeningSummary(screeningID int64) string {
	return fmt.Sprintf("%s:screening:%d:summary", ns, screeningID)
}

func KeyScreeningSeatMap(screeningID int64) string {
	return fmt.Sprintf("%s:screening:%d:seatmap", ns, screeningID)
}

func KeyBookingsOverview() string {
	return ns + ":bookings:overview"
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelScreeningsChanged() string {
	return ns + ":screenings:changed"
}
