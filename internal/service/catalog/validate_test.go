package catalog

import (
	"strings"
	"testing"
	"time"

	"github.com/mkoval/cinetix/internal/domain"
)

func date(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestValidateMovie(t *testing.T) {
	valid := domain.Movie{Title: "Solaris", Duration: 167, ReleaseDate: date(1972, 3, 20)}

	tests := []struct {
		name       string
		mutate     func(m *domain.Movie)
		wantFields []string
	}{
		{"valid", func(m *domain.Movie) {}, nil},
		{"no release date", func(m *domain.Movie) { m.ReleaseDate = nil }, nil},
		{"title too short", func(m *domain.Movie) { m.Title = "X" }, []string{"title"}},
		{"title only whitespace", func(m *domain.Movie) { m.Title = "   " }, []string{"title"}},
		{"title too long", func(m *domain.Movie) { m.Title = strings.Repeat("a", 201) }, []string{"title"}},
		{"duration too short", func(m *domain.Movie) { m.Duration = 29 }, []string{"duration_min"}},
		{"duration too long", func(m *domain.Movie) { m.Duration = 301 }, []string{"duration_min"}},
		{"release before 1900", func(m *domain.Movie) { m.ReleaseDate = date(1899, 12, 31) }, []string{"release_date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)

			errs := ValidateMovie(m)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %v, want fields %v", errs, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := errs[f]; !ok {
					t.Errorf("missing field %q in %v", f, errs)
				}
			}
		})
	}
}

func TestValidateHall(t *testing.T) {
	valid := domain.Hall{Name: "Hall 1", Rows: 10, SeatsPerRow: 20}

	tests := []struct {
		name       string
		mutate     func(h *domain.Hall)
		wantFields []string
	}{
		{"valid", func(h *domain.Hall) {}, nil},
		{"max dimensions", func(h *domain.Hall) { h.Rows = 50; h.SeatsPerRow = 30 }, nil},
		{"empty name", func(h *domain.Hall) { h.Name = "" }, []string{"name"}},
		{"zero rows", func(h *domain.Hall) { h.Rows = 0 }, []string{"rows"}},
		{"too many rows", func(h *domain.Hall) { h.Rows = 51 }, []string{"rows"}},
		{"zero seats per row", func(h *domain.Hall) { h.SeatsPerRow = 0 }, []string{"seats_per_row"}},
		{"too many seats per row", func(h *domain.Hall) { h.SeatsPerRow = 31 }, []string{"seats_per_row"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := valid
			tt.mutate(&h)

			errs := ValidateHall(h)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %v, want fields %v", errs, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := errs[f]; !ok {
					t.Errorf("missing field %q in %v", f, errs)
				}
			}
		})
	}
}

func TestGenerateSeatGrid(t *testing.T) {
	seats := GenerateSeatGrid(7, 3, 4)

	if len(seats) != 12 {
		t.Fatalf("got %d seats, want 12", len(seats))
	}

	seen := make(map[[2]int]bool)
	for _, s := range seats {
		if s.HallID != 7 {
			t.Errorf("seat %+v has wrong hall id", s)
		}
		if s.Type != domain.SeatStandard || !s.Active {
			t.Errorf("seat %+v should start standard and active", s)
		}
		if s.Row < 1 || s.Row > 3 || s.Number < 1 || s.Number > 4 {
			t.Errorf("seat %+v out of grid bounds", s)
		}
		key := [2]int{s.Row, s.Number}
		if seen[key] {
			t.Errorf("duplicate position row=%d number=%d", s.Row, s.Number)
		}
		seen[key] = true
	}
}

func TestValidateSeatType(t *testing.T) {
	if err := ValidateSeatType(domain.SeatStandard); err != nil {
		t.Errorf("standard: %v", err)
	}
	if err := ValidateSeatType(domain.SeatVIP); err != nil {
		t.Errorf("vip: %v", err)
	}
	if err := ValidateSeatType("recliner"); err == nil {
		t.Error("unknown seat type should fail")
	}
}
