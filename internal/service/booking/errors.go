package booking

import (
	"errors"
	"fmt"

	"github.com/mkoval/cinetix/internal/domain"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrScreeningNotFound = errors.New("screening not found")
	ErrSeatsUnavailable  = errors.New("some seats are unavailable")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// WindowError reports that the screening is outside its bookable window.
// Code is one of past_screening, too_late, too_early.
type WindowError struct {
	Code        string
	MinutesLeft int
}

func (e *WindowError) Error() string {
	switch e.Code {
	case "past_screening":
		return "cannot book tickets for a screening that already started"
	case "too_late":
		return fmt.Sprintf("too late to book (less than 15 minutes to start, %d left)", e.MinutesLeft)
	case "too_early":
		return "booking opens 7 days before the screening"
	default:
		return "screening is not bookable"
	}
}

// QuotaError reports the per-user seat limit for one screening.
type QuotaError struct {
	Existing   int
	Requested  int
	MaxAllowed int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf(
		"at most %d seats per screening per user; already booked: %d, requested: %d",
		e.MaxAllowed, e.Existing, e.Requested)
}

// SeatsUnavailableError carries the full availability classification.
type SeatsUnavailableError struct {
	Result domain.AvailabilityResult
}

func (e *SeatsUnavailableError) Error() string {
	return e.Result.Message
}

func (e *SeatsUnavailableError) Unwrap() error {
	return ErrSeatsUnavailable
}

// ClusterError reports a seat selection that is not a reasonable cluster.
// Code is too_many_rows or non_consecutive.
type ClusterError struct {
	Code string
	Row  int
}

func (e *ClusterError) Error() string {
	if e.Code == "too_many_rows" {
		return "selected seats must span at most 2 rows"
	}
	return fmt.Sprintf("seats in row %d must be consecutive", e.Row)
}

// CancelError reports why a booking cannot be cancelled. Code is one of
// already_cancelled, already_used, too_late_to_cancel.
type CancelError struct {
	Code        string
	MinutesLeft int
}

func (e *CancelError) Error() string {
	switch e.Code {
	case "already_cancelled":
		return "booking is already cancelled"
	case "already_used":
		return "cannot cancel a used ticket"
	default:
		return fmt.Sprintf(
			"cannot cancel less than 30 minutes before the screening (%d min left)",
			e.MinutesLeft)
	}
}
