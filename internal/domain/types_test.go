package domain

import "testing"

func TestBookingStatusCanTransition(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingUsed, false},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingUsed, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCancelled, BookingUsed, false},
		{BookingUsed, BookingCancelled, false},
		{BookingUsed, BookingConfirmed, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestBookingStatusIsActive(t *testing.T) {
	active := map[BookingStatus]bool{
		BookingPending:   true,
		BookingConfirmed: true,
		BookingCancelled: false,
		BookingUsed:      false,
	}
	for status, want := range active {
		if got := status.IsActive(); got != want {
			t.Errorf("%s.IsActive() = %v, want %v", status, got, want)
		}
	}
}

func TestScreeningSeatPrice(t *testing.T) {
	s := Screening{PriceStandard: 100, PriceVIP: 180}

	if got := s.SeatPrice(SeatStandard); got != 100 {
		t.Errorf("standard price = %d, want 100", got)
	}
	if got := s.SeatPrice(SeatVIP); got != 180 {
		t.Errorf("vip price = %d, want 180", got)
	}
}

func TestHallTotalSeats(t *testing.T) {
	h := Hall{Rows: 12, SeatsPerRow: 18}
	if got := h.TotalSeats(); got != 216 {
		t.Errorf("TotalSeats = %d, want 216", got)
	}
}
