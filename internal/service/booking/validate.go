package booking

import (
	"fmt"
	"slices"
	"time"

	"github.com/mkoval/cinetix/internal/domain"
)

const (
	// MaxSeatsPerUser caps confirmed+pending seats per user per screening.
	MaxSeatsPerUser = 5

	minBookingLead = 15 * time.Minute
	maxBookingLead = 7 * 24 * time.Hour
	minCancelLead  = 30 * time.Minute

	maxClusterRows = 2
)

// ValidateWindow checks that a screening starting at start is bookable at
// now. On success it returns the minutes remaining, for UI display.
func ValidateWindow(now, start time.Time) (int, error) {
	until := start.Sub(now)
	minutes := int(until.Minutes())

	if until <= 0 {
		return 0, &WindowError{Code: "past_screening"}
	}
	if until < minBookingLead {
		return 0, &WindowError{Code: "too_late", MinutesLeft: minutes}
	}
	if until > maxBookingLead {
		return 0, &WindowError{Code: "too_early", MinutesLeft: minutes}
	}

	return minutes, nil
}

// ValidateQuota enforces the per-user seat cap. Anonymous users (kiosk
// flow) are exempt; callers skip the check for them.
func ValidateQuota(existing, requested int) error {
	if existing+requested > MaxSeatsPerUser {
		return &QuotaError{
			Existing:   existing,
			Requested:  requested,
			MaxAllowed: MaxSeatsPerUser,
		}
	}
	return nil
}

// ClassifySeats resolves the requested seat IDs against the hall's seats
// and the already-booked set, splitting them into missing / inactive /
// booked / available. Purely advisory: the unique index on non-cancelled
// (screening, seat) pairs is the backstop under true contention.
func ClassifySeats(requested []int64, hallSeats []domain.Seat, booked []int64) domain.AvailabilityResult {
	res := domain.AvailabilityResult{Available: true}

	byID := make(map[int64]domain.Seat, len(hallSeats))
	for _, s := range hallSeats {
		byID[s.ID] = s
	}

	bookedSet := make(map[int64]bool, len(booked))
	for _, id := range booked {
		bookedSet[id] = true
	}

	seen := make(map[int64]bool, len(requested))
	for _, id := range requested {
		if seen[id] {
			continue
		}
		seen[id] = true

		seat, found := byID[id]
		switch {
		case !found:
			res.Details.Missing = append(res.Details.Missing, id)
		case !seat.Active:
			res.Details.Inactive = append(res.Details.Inactive, id)
		case bookedSet[id]:
			res.Details.Booked = append(res.Details.Booked, id)
		default:
			res.AvailableSeats = append(res.AvailableSeats, id)
		}
	}

	slices.Sort(res.AvailableSeats)
	slices.Sort(res.Details.Missing)
	slices.Sort(res.Details.Inactive)
	slices.Sort(res.Details.Booked)

	if len(res.Details.Missing) > 0 {
		res.Available = false
		res.UnavailableSeats = append(res.UnavailableSeats, res.Details.Missing...)
		res.Message += fmt.Sprintf("seats %v not found in this hall. ", res.Details.Missing)
	}
	if len(res.Details.Inactive) > 0 {
		res.Available = false
		res.UnavailableSeats = append(res.UnavailableSeats, res.Details.Inactive...)
		res.Message += fmt.Sprintf("seats %v are inactive. ", res.Details.Inactive)
	}
	if len(res.Details.Booked) > 0 {
		res.Available = false
		res.UnavailableSeats = append(res.UnavailableSeats, res.Details.Booked...)
		res.Message += fmt.Sprintf("seats %v are already taken. ", res.Details.Booked)
	}

	if res.Available {
		res.Message = "all seats are available"
	}

	return res
}

// ValidateCluster enforces the reasonable-cluster policy: at most 2
// distinct rows, and within each row the selected numbers form a
// contiguous run. A single seat always passes.
func ValidateCluster(seats []domain.Seat) error {
	if len(seats) <= 1 {
		return nil
	}

	byRow := make(map[int][]int)
	for _, s := range seats {
		byRow[s.Row] = append(byRow[s.Row], s.Number)
	}

	if len(byRow) > maxClusterRows {
		return &ClusterError{Code: "too_many_rows"}
	}

	for row, numbers := range byRow {
		slices.Sort(numbers)
		for i := 1; i < len(numbers); i++ {
			if numbers[i] != numbers[i-1]+1 {
				return &ClusterError{Code: "non_consecutive", Row: row}
			}
		}
	}

	return nil
}

// ValidateCancellation checks that a booking may still be cancelled:
// not in a terminal state and at least 30 minutes before start. Returns
// the minutes remaining on success.
func ValidateCancellation(now time.Time, status domain.BookingStatus, start time.Time) (int, error) {
	if status == domain.BookingCancelled {
		return 0, &CancelError{Code: "already_cancelled"}
	}
	if status == domain.BookingUsed {
		return 0, &CancelError{Code: "already_used"}
	}

	until := start.Sub(now)
	minutes := int(until.Minutes())

	if until < minCancelLead {
		return 0, &CancelError{Code: "too_late_to_cancel", MinutesLeft: minutes}
	}

	return minutes, nil
}
