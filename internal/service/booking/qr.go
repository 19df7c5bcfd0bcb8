package booking

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/mkoval/cinetix/internal/domain"
)

const qrPNGSize = 256

// QRPayload renders the newline-delimited "key: value" text encoded into a
// ticket's QR image. Verification scanners only need booking_code, the rest
// is there for a human reading the decoded payload.
func QRPayload(d *domain.BookingDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "booking_code: %s\n", d.Code)
	fmt.Fprintf(&b, "movie: %s\n", d.MovieTitle)
	fmt.Fprintf(&b, "hall: %s\n", d.HallName)
	fmt.Fprintf(&b, "row: %d\n", d.SeatRow)
	fmt.Fprintf(&b, "seat: %d\n", d.SeatNumber)
	fmt.Fprintf(&b, "date: %s\n", d.Start.Format("02.01.2006"))
	fmt.Fprintf(&b, "time: %s\n", d.Start.Format("15:04"))
	fmt.Fprintf(&b, "price: %d\n", d.Price)
	fmt.Fprintf(&b, "status: %s", d.Status)
	return b.String()
}

// RenderQRPNG encodes the payload as a 256x256 PNG with low error correction.
func RenderQRPNG(payload string) ([]byte, error) {
	const op = "booking.RenderQRPNG"

	png, err := qrcode.Encode(payload, qrcode.Low, qrPNGSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return png, nil
}

// DecodeQRPayload parses a scanned payload back into its key/value pairs.
// Lines without a ": " separator are skipped.
func DecodeQRPayload(payload string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(payload, "\n") {
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		fields[key] = value
	}
	return fields
}
