package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// TicketService renders a booking e-ticket as PDF.
type TicketService struct {
	Bookings  BookingStore
	RequestID string
}

func (s TicketService) Generate(ctx context.Context, rc domain.RequestContext, id domain.ID) ([]byte, string, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !rc.CanAccess(b.UserID) {
		return nil, "", domain.ForbiddenError{Msg: "Not authorized to view this booking"}
	}
	pdf, name, err := buildTicketPDF(b)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render ticket", Err: err}
	}
	utils.LogEvent(s.RequestID, "tickets", "generate", fmt.Sprintf("booking_id=%d", id))
	return pdf, name, nil
}

func buildTicketPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	svcName, svcType, route, duration := "-", "-", "-", "-"
	if b.Service != nil {
		svcName = utils.Fallback(b.Service.Name, "-")
		svcType = utils.Fallback(string(b.Service.Type), "-")
		route = fmt.Sprintf("%s -> %s", utils.Fallback(b.Service.Source, "-"), utils.Fallback(b.Service.Destination, "-"))
		duration = utils.Fallback(b.Service.Duration, "-")
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking        : #%d", b.ID),
		fmt.Sprintf("Service        : %s (%s)", svcName, svcType),
		fmt.Sprintf("Route          : %s", route),
		fmt.Sprintf("Duration       : %s", duration),
		fmt.Sprintf("Travel date    : %s", utils.FormatDate(b.TravelDate)),
		fmt.Sprintf("Passengers     : %d", b.Passengers),
		fmt.Sprintf("Total          : %s", utils.FormatMoney(b.TotalAmount)),
		fmt.Sprintf("Status         : %s", b.Status),
		fmt.Sprintf("Payment        : %s (%s)", b.PaymentStatus, b.PaymentMethod),
		fmt.Sprintf("Contact        : %s / %s", utils.Fallback(b.ContactEmail, "-"), utils.Fallback(b.ContactPhone, "-")),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	if len(b.PassengerDetails) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Passenger list")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for i, p := range b.PassengerDetails {
			pdf.Cell(0, 6, fmt.Sprintf("%d. %s  age %d  %s", i+1, utils.Fallback(p.Name, "-"), p.Age, utils.Fallback(p.Gender, "-")))
			pdf.Ln(6)
		}
	}

	if b.Status == models.BookingCancelled {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Cell(0, 8, "CANCELLED - NOT VALID FOR TRAVEL")
		pdf.Ln(8)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this ticket with a photo ID at departure or check-in.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("ETICKET_%d_%s.pdf", b.ID, safeFilenamePart(svcName)), nil
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
