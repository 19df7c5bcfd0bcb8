package booking

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/mkoval/cinetix/internal/domain"
)

var now = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

func TestValidateWindow(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		wantCode string
	}{
		{"well inside window", now.Add(24 * time.Hour), ""},
		{"exactly 15 minutes before", now.Add(15 * time.Minute), ""},
		{"already started", now.Add(-time.Minute), "past_screening"},
		{"starting right now", now, "past_screening"},
		{"under 15 minutes", now.Add(10 * time.Minute), "too_late"},
		{"over 7 days ahead", now.Add(7*24*time.Hour + time.Minute), "too_early"},
		{"exactly 7 days ahead", now.Add(7 * 24 * time.Hour), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateWindow(now, tt.start)

			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var we *WindowError
			if !errors.As(err, &we) {
				t.Fatalf("want *WindowError, got %v", err)
			}
			if we.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", we.Code, tt.wantCode)
			}
		})
	}
}

func TestValidateQuota(t *testing.T) {
	tests := []struct {
		name                string
		existing, requested int
		wantErr             bool
	}{
		{"first booking", 0, 3, false},
		{"fills the quota exactly", 2, 3, false},
		{"one over", 3, 3, true},
		{"five at once", 0, 5, false},
		{"six at once", 0, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuota(tt.existing, tt.requested)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var qe *QuotaError
				if !errors.As(err, &qe) {
					t.Fatalf("want *QuotaError, got %v", err)
				}
				if qe.MaxAllowed != MaxSeatsPerUser {
					t.Errorf("MaxAllowed = %d, want %d", qe.MaxAllowed, MaxSeatsPerUser)
				}
			}
		})
	}
}

func TestClassifySeats(t *testing.T) {
	hallSeats := []domain.Seat{
		{ID: 1, Row: 1, Number: 1, Active: true},
		{ID: 2, Row: 1, Number: 2, Active: true},
		{ID: 3, Row: 1, Number: 3, Active: false},
		{ID: 4, Row: 2, Number: 1, Active: true},
	}

	t.Run("all available", func(t *testing.T) {
		res := ClassifySeats([]int64{1, 2}, hallSeats, nil)
		if !res.Available {
			t.Fatalf("want available, got %+v", res)
		}
		if !slices.Equal(res.AvailableSeats, []int64{1, 2}) {
			t.Errorf("AvailableSeats = %v", res.AvailableSeats)
		}
		if res.Message != "all seats are available" {
			t.Errorf("message = %q", res.Message)
		}
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		res := ClassifySeats([]int64{1, 1, 1}, hallSeats, nil)
		if !slices.Equal(res.AvailableSeats, []int64{1}) {
			t.Errorf("AvailableSeats = %v, want [1]", res.AvailableSeats)
		}
	})

	t.Run("missing, inactive and booked are split", func(t *testing.T) {
		res := ClassifySeats([]int64{1, 3, 4, 99}, hallSeats, []int64{4})
		if res.Available {
			t.Fatal("want unavailable")
		}
		if !slices.Equal(res.Details.Missing, []int64{99}) {
			t.Errorf("Missing = %v", res.Details.Missing)
		}
		if !slices.Equal(res.Details.Inactive, []int64{3}) {
			t.Errorf("Inactive = %v", res.Details.Inactive)
		}
		if !slices.Equal(res.Details.Booked, []int64{4}) {
			t.Errorf("Booked = %v", res.Details.Booked)
		}
		if !slices.Equal(res.AvailableSeats, []int64{1}) {
			t.Errorf("AvailableSeats = %v", res.AvailableSeats)
		}
		if len(res.UnavailableSeats) != 3 {
			t.Errorf("UnavailableSeats = %v, want 3 entries", res.UnavailableSeats)
		}
	})
}

func TestValidateCluster(t *testing.T) {
	seat := func(id int64, row, num int) domain.Seat {
		return domain.Seat{ID: id, Row: row, Number: num, Active: true}
	}

	tests := []struct {
		name     string
		seats    []domain.Seat
		wantCode string
	}{
		{"single seat", []domain.Seat{seat(1, 5, 5)}, ""},
		{"consecutive in one row", []domain.Seat{seat(1, 1, 3), seat(2, 1, 4), seat(3, 1, 5)}, ""},
		{"unsorted input still consecutive", []domain.Seat{seat(3, 1, 5), seat(1, 1, 3), seat(2, 1, 4)}, ""},
		{"two adjacent rows", []domain.Seat{seat(1, 1, 1), seat(2, 1, 2), seat(4, 2, 1)}, ""},
		{"three rows", []domain.Seat{seat(1, 1, 1), seat(2, 2, 1), seat(3, 3, 1)}, "too_many_rows"},
		{"gap within a row", []domain.Seat{seat(1, 1, 1), seat(2, 1, 3)}, "non_consecutive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCluster(tt.seats)

			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var ce *ClusterError
			if !errors.As(err, &ce) {
				t.Fatalf("want *ClusterError, got %v", err)
			}
			if ce.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", ce.Code, tt.wantCode)
			}
		})
	}
}

func TestValidateCancellation(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.BookingStatus
		start    time.Time
		wantCode string
	}{
		{"confirmed, plenty of time", domain.BookingConfirmed, now.Add(2 * time.Hour), ""},
		{"exactly 30 minutes before", domain.BookingConfirmed, now.Add(30 * time.Minute), ""},
		{"under 30 minutes", domain.BookingConfirmed, now.Add(20 * time.Minute), "too_late_to_cancel"},
		{"already started", domain.BookingConfirmed, now.Add(-time.Hour), "too_late_to_cancel"},
		{"already cancelled", domain.BookingCancelled, now.Add(2 * time.Hour), "already_cancelled"},
		{"already used", domain.BookingUsed, now.Add(2 * time.Hour), "already_used"},
		{"pending can cancel", domain.BookingPending, now.Add(2 * time.Hour), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateCancellation(now, tt.status, tt.start)

			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var ce *CancelError
			if !errors.As(err, &ce) {
				t.Fatalf("want *CancelError, got %v", err)
			}
			if ce.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", ce.Code, tt.wantCode)
			}
		})
	}
}
