package catalog

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrHallNotFound  = errors.New("hall not found")
	ErrSeatNotFound  = errors.New("seat not found")

	// ErrMovieInUse blocks deleting or shrinking a movie that still has
	// upcoming screenings.
	ErrMovieInUse = errors.New("movie has future screenings")

	// ErrHallInUse blocks deleting a hall with upcoming screenings or
	// active bookings.
	ErrHallInUse = errors.New("hall has future screenings or active bookings")

	// ErrSeatInUse blocks deactivating or retyping seats covered by
	// active bookings on future screenings.
	ErrSeatInUse = errors.New("seat has active bookings on future screenings")

	ErrHallNameTaken = errors.New("hall name already in use")
)

// FieldErrors maps field name to message for catalog input validation.
type FieldErrors map[string]string

type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}
