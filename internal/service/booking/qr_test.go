package booking

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mkoval/cinetix/internal/domain"
)

func sampleDetail() *domain.BookingDetail {
	return &domain.BookingDetail{
		Booking: domain.Booking{
			Code:   "BK260910ABCDEF1234",
			Price:  150,
			Status: domain.BookingConfirmed,
		},
		MovieTitle: "Stalker",
		HallName:   "Hall 1",
		SeatRow:    3,
		SeatNumber: 7,
		Start:      time.Date(2026, 9, 10, 19, 30, 0, 0, time.UTC),
	}
}

func TestQRPayload(t *testing.T) {
	payload := QRPayload(sampleDetail())

	wantLines := []string{
		"booking_code: BK260910ABCDEF1234",
		"movie: Stalker",
		"hall: Hall 1",
		"row: 3",
		"seat: 7",
		"date: 10.09.2026",
		"time: 19:30",
		"price: 150",
		"status: confirmed",
	}

	lines := strings.Split(payload, "\n")
	if len(lines) != len(wantLines) {
		t.Fatalf("payload has %d lines, want %d:\n%s", len(lines), len(wantLines), payload)
	}
	for i, want := range wantLines {
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}

func TestDecodeQRPayload(t *testing.T) {
	d := sampleDetail()
	fields := DecodeQRPayload(QRPayload(d))

	if fields["booking_code"] != d.Code {
		t.Errorf("booking_code = %q, want %q", fields["booking_code"], d.Code)
	}
	if fields["movie"] != d.MovieTitle {
		t.Errorf("movie = %q, want %q", fields["movie"], d.MovieTitle)
	}
	if fields["status"] != string(d.Status) {
		t.Errorf("status = %q, want %q", fields["status"], d.Status)
	}
}

func TestRenderQRPNG(t *testing.T) {
	png, err := RenderQRPNG(QRPayload(sampleDetail()))
	if err != nil {
		t.Fatalf("RenderQRPNG: %v", err)
	}

	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("output does not look like a PNG (first bytes: %x)", png[:4])
	}
}
