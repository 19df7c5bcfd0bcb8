package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkoval/cinetix/internal/domain"
)

const (
	// Operating hours: screenings must start and end between 9:00 and 23:00.
	// The check is hour-only, so 23:59 passes while 8:59 does not; this
	// mirrors the behavior the schedule has always had.
	openingHour = 9
	closingHour = 23

	minScreeningDuration = 30 * time.Minute
	maxScreeningDuration = 4 * time.Hour

	// A screening may run up to 30 minutes longer than the movie
	// (trailers, cleanup), never shorter.
	maxMovieOverrun = 30 * time.Minute

	maxConflictsShown = 5
)

// ValidateTimes applies the interval rules for a screening. When end is not
// after start the error is fatal: fatal=true tells the caller to skip the
// overlap check entirely. isUpdate relaxes the no-past-start rule, which
// binds new screenings only.
func ValidateTimes(now, start, end time.Time, isUpdate bool) (errs FieldErrors, fatal bool) {
	errs = FieldErrors{}

	if !end.After(start) {
		errs["end_time"] = "end time must be after start time"
		return errs, true
	}

	d := end.Sub(start)
	if d < minScreeningDuration {
		errs["duration"] = "screening must run at least 30 minutes"
	}
	if d > maxScreeningDuration {
		errs["duration"] = "screening cannot run longer than 4 hours"
	}

	if !isUpdate && start.Before(now) {
		errs["start_time"] = "cannot schedule a screening in the past"
	}

	if start.Hour() < openingHour || start.Hour() > closingHour {
		errs["start_time"] = "screenings run between 9:00 and 23:00 only"
	}
	if end.Hour() < openingHour || end.Hour() > closingHour {
		errs["end_time"] = "screenings run between 9:00 and 23:00 only"
	}

	return errs, false
}

// SlotOverlaps reports whether the half-open interval [start, end)
// intersects the slot's [Start, End). Back-to-back screenings, where one
// ends exactly when the next starts, do not overlap.
func SlotOverlaps(start, end time.Time, s domain.ScreeningSlot) bool {
	return s.Start.Before(end) && s.End.After(start)
}

// OverlapMessage formats the hall-is-busy error from the conflicting slots,
// listing at most maxConflictsShown of them plus a remainder count. Empty
// input means no conflict.
func OverlapMessage(conflicts []domain.ScreeningSlot) string {
	if len(conflicts) == 0 {
		return ""
	}

	shown := conflicts
	if len(shown) > maxConflictsShown {
		shown = shown[:maxConflictsShown]
	}

	parts := make([]string, 0, len(shown)+1)
	for _, c := range shown {
		parts = append(parts, fmt.Sprintf("'%s' (%s-%s)",
			c.Title, c.Start.Format("15:04"), c.End.Format("15:04")))
	}

	if rest := len(conflicts) - maxConflictsShown; rest > 0 {
		parts = append(parts, fmt.Sprintf("and %d more", rest))
	}

	return "hall is already busy at this time, conflicting screenings: " + strings.Join(parts, ", ")
}

// ValidateMovieFit requires the screening interval to cover the movie and
// not exceed it by more than 30 minutes.
func ValidateMovieFit(movieDuration int, start, end time.Time) FieldErrors {
	errs := FieldErrors{}

	screeningMin := int(end.Sub(start).Minutes())

	if screeningMin < movieDuration {
		errs["duration"] = fmt.Sprintf(
			"screening duration (%d min) is shorter than the movie (%d min)",
			screeningMin, movieDuration)
	}

	if maxAllowed := movieDuration + int(maxMovieOverrun.Minutes()); screeningMin > maxAllowed {
		errs["duration"] = fmt.Sprintf(
			"screening duration (%d min) is too long for this movie (max %d min)",
			screeningMin, maxAllowed)
	}

	return errs
}

// ValidatePrices requires 0 <= standard <= vip.
func ValidatePrices(priceStandard, priceVIP int) FieldErrors {
	errs := FieldErrors{}

	if priceStandard < 0 {
		errs["price_standard"] = "price cannot be negative"
	}
	if priceVIP < 0 {
		errs["price_vip"] = "price cannot be negative"
	}
	if priceVIP >= 0 && priceStandard >= 0 && priceVIP < priceStandard {
		errs["price_vip"] = "VIP seats cannot be cheaper than standard ones"
	}

	return errs
}
