package ticket

import (
	"bytes"
	"testing"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/mkoval/cinetix/internal/domain"
)

func TestRenderPDF(t *testing.T) {
	qr, err := qrcode.Encode("booking_code: BK260910ABCDEF1234", qrcode.Low, 256)
	if err != nil {
		t.Fatalf("qr encode: %v", err)
	}

	d := &domain.BookingDetail{
		Booking: domain.Booking{
			Code:   "BK260910ABCDEF1234",
			Price:  150,
			Status: domain.BookingConfirmed,
			QRPNG:  qr,
		},
		MovieTitle: "Stalker",
		HallName:   "Hall 1",
		SeatRow:    3,
		SeatNumber: 7,
		SeatType:   domain.SeatVIP,
		Start:      time.Date(2026, 9, 10, 19, 30, 0, 0, time.UTC),
	}

	pdf, err := RenderPDF(d)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF (first bytes: %q)", pdf[:4])
	}
}

func TestRenderPDFWithoutQR(t *testing.T) {
	d := &domain.BookingDetail{
		Booking:    domain.Booking{Code: "BK260910ABCDEF1234", Price: 100},
		MovieTitle: "Solaris",
		HallName:   "Hall 2",
		Start:      time.Date(2026, 9, 10, 19, 30, 0, 0, time.UTC),
	}

	pdf, err := RenderPDF(d)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if len(pdf) == 0 {
		t.Error("empty PDF output")
	}
}
