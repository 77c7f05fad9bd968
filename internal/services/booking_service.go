package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/repositories"
	"travelbooking/internal/utils"
)

const (
	myBookingsPageSize  = 10
	allBookingsPageSize = 20
	maxSpecialRequests  = 500
)

// BookingService owns the booking lifecycle and is the only writer that
// changes service capacity. Seat accounting happens inside the store's
// Reserve/CancelAndRestore transactions.
type BookingService struct {
	Bookings  BookingStore
	Catalog   CatalogStore
	Now       func() time.Time
	RequestID string
}

func seatShortage(available int) error {
	if available < 0 {
		available = 0
	}
	return domain.ValidationError{Msg: fmt.Sprintf("Only %d seats available", available)}
}

func validateBookingInput(in models.BookingInput) (models.BookingInput, error) {
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.SpecialRequests = strings.TrimSpace(in.SpecialRequests)
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentCard
	}

	switch {
	case in.ServiceID <= 0:
		return in, domain.ValidationError{Field: "serviceId", Msg: "is required"}
	case in.TravelDate.IsZero():
		return in, domain.ValidationError{Field: "travelDate", Msg: "is required"}
	case in.Passengers < 1:
		return in, domain.ValidationError{Field: "passengers", Msg: "must be at least 1"}
	case len(in.PassengerDetails) > in.Passengers:
		return in, domain.ValidationError{Field: "passengerDetails", Msg: "cannot list more people than passengers"}
	case in.ContactEmail == "":
		return in, domain.ValidationError{Field: "contactEmail", Msg: "is required"}
	case in.ContactPhone == "":
		return in, domain.ValidationError{Field: "contactPhone", Msg: "is required"}
	case !in.PaymentMethod.Valid():
		return in, domain.ValidationError{Field: "paymentMethod", Msg: "must be one of card, upi, netbanking, wallet"}
	case utils.TooLong(in.SpecialRequests, maxSpecialRequests):
		return in, domain.ValidationError{Field: "specialRequests", Msg: "must be at most 500 characters"}
	}

	for i, p := range in.PassengerDetails {
		p.Name = strings.TrimSpace(p.Name)
		p.Gender = strings.ToLower(strings.TrimSpace(p.Gender))
		if p.Name == "" {
			return in, domain.ValidationError{Field: fmt.Sprintf("passengerDetails[%d].name", i), Msg: "is required"}
		}
		if p.Age < 0 {
			return in, domain.ValidationError{Field: fmt.Sprintf("passengerDetails[%d].age", i), Msg: "must not be negative"}
		}
		in.PassengerDetails[i] = p
	}
	return in, nil
}

// Create books seats for the caller. The price is read now and frozen into
// TotalAmount. Payment is simulated, so the booking starts confirmed/paid.
func (s BookingService) Create(ctx context.Context, rc domain.RequestContext, in models.BookingInput) (models.Booking, error) {
	in, err := validateBookingInput(in)
	if err != nil {
		return models.Booking{}, err
	}

	svc, err := s.Catalog.GetByID(ctx, in.ServiceID)
	if err != nil {
		return models.Booking{}, err
	}
	if !svc.IsActive {
		return models.Booking{}, domain.ValidationError{Msg: "Travel service is not available for booking"}
	}
	if svc.AvailableSeats < in.Passengers {
		return models.Booking{}, seatShortage(svc.AvailableSeats)
	}

	now := clock(s.Now)
	b := models.Booking{
		UserID:           rc.UserID,
		TravelServiceID:  svc.ID,
		BookingDate:      now,
		TravelDate:       in.TravelDate,
		Passengers:       in.Passengers,
		PassengerDetails: in.PassengerDetails,
		TotalAmount:      utils.LineTotal(svc.Price, in.Passengers),
		Status:           models.BookingConfirmed,
		PaymentStatus:    models.PaymentPaid,
		PaymentMethod:    in.PaymentMethod,
		ContactEmail:     in.ContactEmail,
		ContactPhone:     in.ContactPhone,
		SpecialRequests:  in.SpecialRequests,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if b.PassengerDetails == nil {
		b.PassengerDetails = []models.PassengerDetail{}
	}

	if err := s.Bookings.Reserve(ctx, &b); err != nil {
		// The capacity may have moved since the read above; the store's
		// conditional decrement is what decides.
		var shortage repositories.SeatShortageError
		switch {
		case errors.As(err, &shortage):
			return models.Booking{}, seatShortage(shortage.Available)
		case errors.Is(err, repositories.ErrServiceInactive):
			return models.Booking{}, domain.ValidationError{Msg: "Travel service is not available for booking"}
		case domain.IsNotFound(err):
			return models.Booking{}, err
		}
		return models.Booking{}, domain.InternalError{Msg: "failed to create booking", Err: err}
	}
	utils.LogEvent(s.RequestID, "bookings", "create",
		fmt.Sprintf("booking_id=%d service_id=%d passengers=%d", b.ID, b.TravelServiceID, b.Passengers))

	created, err := s.Bookings.GetByID(ctx, b.ID)
	if err != nil {
		// The write committed; fall back to what we inserted.
		sum := svc.Summary()
		b.Service = &sum
		return b, nil
	}
	return created, nil
}

// Get returns a booking visible to the caller.
func (s BookingService) Get(ctx context.Context, rc domain.RequestContext, id domain.ID) (models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if !rc.CanAccess(b.UserID) {
		return models.Booking{}, domain.ForbiddenError{Msg: "Not authorized to view this booking"}
	}
	return b, nil
}

// Cancel cancels the booking and restores its seats exactly once.
func (s BookingService) Cancel(ctx context.Context, rc domain.RequestContext, id domain.ID) (models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if !rc.CanAccess(b.UserID) {
		return models.Booking{}, domain.ForbiddenError{Msg: "Not authorized to cancel this booking"}
	}
	if b.Status == models.BookingCancelled {
		return models.Booking{}, domain.ValidationError{Msg: "Booking is already cancelled"}
	}

	restored, err := s.Bookings.CancelAndRestore(ctx, id, clock(s.Now))
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrAlreadyCancelled):
			return models.Booking{}, domain.ValidationError{Msg: "Booking is already cancelled"}
		case domain.IsNotFound(err):
			return models.Booking{}, err
		}
		return models.Booking{}, domain.InternalError{Msg: "failed to cancel booking", Err: err}
	}
	if !restored {
		utils.LogEvent(s.RequestID, "bookings", "cancel",
			fmt.Sprintf("booking_id=%d service missing, seats not restored", id))
	} else {
		utils.LogEvent(s.RequestID, "bookings", "cancel",
			fmt.Sprintf("booking_id=%d restored=%d", id, b.Passengers))
	}

	return s.Bookings.GetByID(ctx, id)
}

// ListMine pages the caller's own bookings.
func (s BookingService) ListMine(ctx context.Context, rc domain.RequestContext, status models.BookingStatus, p domain.PageRequest) ([]models.Booking, domain.Pagination, error) {
	if status != "" && !status.Valid() {
		return nil, domain.Pagination{}, domain.ValidationError{Field: "status", Msg: "is not a booking status"}
	}
	p = p.Normalize(myBookingsPageSize)
	list, total, err := s.Bookings.List(ctx, models.BookingFilter{UserID: rc.UserID, Status: status}, p)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return list, domain.NewPagination(p, total), nil
}

// ListAll pages every booking; admin only.
func (s BookingService) ListAll(ctx context.Context, rc domain.RequestContext, status models.BookingStatus, p domain.PageRequest) ([]models.Booking, domain.Pagination, error) {
	if !rc.IsAdmin() {
		return nil, domain.Pagination{}, domain.ForbiddenError{Msg: "Admin access required"}
	}
	if status != "" && !status.Valid() {
		return nil, domain.Pagination{}, domain.ValidationError{Field: "status", Msg: "is not a booking status"}
	}
	p = p.Normalize(allBookingsPageSize)
	list, total, err := s.Bookings.List(ctx, models.BookingFilter{Status: status}, p)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return list, domain.NewPagination(p, total), nil
}

// UpdateStatus overwrites status and/or payment status. It is an admin
// correction path and never touches seats.
func (s BookingService) UpdateStatus(ctx context.Context, rc domain.RequestContext, id domain.ID, upd models.BookingStatusUpdate) (models.Booking, error) {
	if !rc.IsAdmin() {
		return models.Booking{}, domain.ForbiddenError{Msg: "Admin access required"}
	}
	if upd.Status == nil && upd.PaymentStatus == nil {
		return models.Booking{}, domain.ValidationError{Msg: "Provide status or paymentStatus"}
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: "must be one of pending, confirmed, cancelled, completed"}
	}
	if upd.PaymentStatus != nil && !upd.PaymentStatus.Valid() {
		return models.Booking{}, domain.ValidationError{Field: "paymentStatus", Msg: "must be one of pending, paid, refunded"}
	}

	if err := s.Bookings.UpdateStatus(ctx, id, upd, clock(s.Now)); err != nil {
		return models.Booking{}, err
	}
	utils.LogEvent(s.RequestID, "bookings", "admin_update", fmt.Sprintf("booking_id=%d", id))
	return s.Bookings.GetByID(ctx, id)
}
