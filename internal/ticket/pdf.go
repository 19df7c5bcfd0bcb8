// Package ticket renders printable tickets. The PDF embeds the same QR
// image stored with the booking, so a printout scans identically to the
// on-screen ticket.
package ticket

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/mkoval/cinetix/internal/domain"
)

const (
	pageWidthMM = 210.0
	qrSizeMM    = 80.0
)

// RenderPDF produces a single-page A4 ticket for one booking.
func RenderPDF(d *domain.BookingDetail) ([]byte, error) {
	const op = "ticket.RenderPDF"

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, d.MovieTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, d.HallName, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(d.QRPNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		name := "qr_" + d.Code
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(d.QRPNG))
		pdf.ImageOptions(name, (pageWidthMM-qrSizeMM)/2, pdf.GetY(), qrSizeMM, qrSizeMM, false, opts, 0, "")
		pdf.Ln(qrSizeMM + 6)
	}

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.5)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(8)

	row := func(label, value string) {
		pdf.SetFont("Arial", "", 12)
		pdf.SetX(40)
		pdf.CellFormat(50, 9, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, value, "", 1, "L", false, 0, "")
	}

	row("Date", d.Start.Format("02.01.2006"))
	row("Time", d.Start.Format("15:04"))
	row("Row", fmt.Sprintf("%d", d.SeatRow))
	row("Seat", fmt.Sprintf("%d", d.SeatNumber))
	row("Class", string(d.SeatType))
	row("Price", fmt.Sprintf("%d", d.Price))
	pdf.Ln(6)

	pdf.SetFont("Arial", "I", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 8, "Booking code: "+d.Code, "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, "Bring this ticket on paper or on screen.\nThe QR code is scanned at the hall entrance.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}
