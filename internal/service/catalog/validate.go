package catalog

import (
	"fmt"
	"strings"

	"github.com/mkoval/cinetix/internal/domain"
)

const (
	minTitleLen = 2
	maxTitleLen = 200

	minDurationMin = 30
	maxDurationMin = 300

	minReleaseYear = 1900

	maxHallRows        = 50
	maxHallSeatsPerRow = 30

	maxHallNameLen = 100
)

// ValidateMovie checks a movie's fields for create and update alike.
func ValidateMovie(m domain.Movie) FieldErrors {
	errs := FieldErrors{}

	title := strings.TrimSpace(m.Title)
	if len(title) < minTitleLen || len(title) > maxTitleLen {
		errs["title"] = fmt.Sprintf("title must be %d to %d characters", minTitleLen, maxTitleLen)
	}

	if m.Duration < minDurationMin || m.Duration > maxDurationMin {
		errs["duration_min"] = fmt.Sprintf("duration must be %d to %d minutes", minDurationMin, maxDurationMin)
	}

	if m.ReleaseDate != nil && m.ReleaseDate.Year() < minReleaseYear {
		errs["release_date"] = fmt.Sprintf("release year must be %d or later", minReleaseYear)
	}

	return errs
}

// ValidateHall checks hall dimensions and name.
func ValidateHall(h domain.Hall) FieldErrors {
	errs := FieldErrors{}

	name := strings.TrimSpace(h.Name)
	if name == "" || len(name) > maxHallNameLen {
		errs["name"] = fmt.Sprintf("name must be 1 to %d characters", maxHallNameLen)
	}

	if h.Rows < 1 || h.Rows > maxHallRows {
		errs["rows"] = fmt.Sprintf("rows must be 1 to %d", maxHallRows)
	}

	if h.SeatsPerRow < 1 || h.SeatsPerRow > maxHallSeatsPerRow {
		errs["seats_per_row"] = fmt.Sprintf("seats per row must be 1 to %d", maxHallSeatsPerRow)
	}

	return errs
}

// GenerateSeatGrid builds the full rows x seatsPerRow seat set a new hall
// starts with: every seat standard and active.
func GenerateSeatGrid(hallID int64, rows, seatsPerRow int) []domain.Seat {
	seats := make([]domain.Seat, 0, rows*seatsPerRow)
	for row := 1; row <= rows; row++ {
		for num := 1; num <= seatsPerRow; num++ {
			seats = append(seats, domain.Seat{
				HallID: hallID,
				Row:    row,
				Number: num,
				Type:   domain.SeatStandard,
				Active: true,
			})
		}
	}
	return seats
}

// ValidateSeatType rejects unknown seat types from update requests.
func ValidateSeatType(t domain.SeatType) error {
	switch t {
	case domain.SeatStandard, domain.SeatVIP:
		return nil
	}
	return &ValidationError{Fields: FieldErrors{
		"seat_type": fmt.Sprintf("unknown seat type %q", t),
	}}
}
