package booking

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"event-explorer/internal/models"
)

type TicketPDFGenerator struct {
	qr *QRGenerator
}

func NewTicketPDFGenerator(qr *QRGenerator) *TicketPDFGenerator {
	return &TicketPDFGenerator{qr: qr}
}

// Generate renders a one-page A4 ticket with the booking QR code on it.
func (g *TicketPDFGenerator) Generate(c models.BookingConfirmation) ([]byte, error) {
	qrPNG, err := g.qr.PNG(c.Booking.QRCode)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Event Ticket")
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr(c.Event.Name))
	pdf.Ln(10)

	// Ticket Info
	pdf.SetFont("Arial", "", 11)
	for _, item := range ticketInfo(c) {
		pdf.Cell(45, 7, item.label+":")
		pdf.Cell(0, 7, tr(item.value))
		pdf.Ln(7)
	}

	// QR Code
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 45, 45, false, opts, 0, "")

	// Footer
	pdf.SetY(-30)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, "Present this QR code at the entrance. "+c.Booking.QRCode)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

type infoLine struct {
	label string
	value string
}

func ticketInfo(c models.BookingConfirmation) []infoLine {
	venue := c.Event.Venue.Name
	if c.Event.Venue.City != "" {
		venue += ", " + c.Event.Venue.City
	}
	return []infoLine{
		{"Booking ID", fmt.Sprintf("%d", c.Booking.ID)},
		{"Status", strings.ToUpper(c.Booking.Status)},
		{"Date", c.Event.StartDateTime.Format("Mon, Jan 2 2006 15:04")},
		{"Venue", venue},
		{"Ticket", fmt.Sprintf("%d x %s", c.Booking.TicketQuantity, c.Quote.TicketName)},
		{"Total", fmt.Sprintf("%.2f %s", c.Quote.Total, c.Quote.Currency)},
		{"Attendee", c.Attendee.Name},
		{"Booked", c.Booking.BookingDate.Format("2006-01-02 15:04 MST")},
	}
}
