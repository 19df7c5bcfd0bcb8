package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrScreeningNotFound = errors.New("screening not found")
	ErrMovieNotFound     = errors.New("movie not found")
	ErrHallNotFound      = errors.New("hall not found")
	ErrScreeningConflict = errors.New("conflict creating screening")
)

// FieldErrors maps a field name to a single validation message, the way the
// API reports screening rule violations.
type FieldErrors map[string]string

func (f FieldErrors) merge(other FieldErrors) {
	for k, v := range other {
		if _, ok := f[k]; !ok {
			f[k] = v
		}
	}
}

// ValidationError wraps field-scoped screening validation failures.
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
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}

	return "screening validation failed: " + strings.Join(parts, "; ")
}
