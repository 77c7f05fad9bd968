package models

import (
	"time"

	"travelbooking/internal/domain"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// QualifiesForReview reports whether a booking in this status lets its owner
// review the service.
func (s BookingStatus) QualifiesForReview() bool {
	return s == BookingConfirmed || s == BookingCompleted
}

// ReviewQualifyingStatuses lists the statuses checked by QualifiesForReview.
var ReviewQualifyingStatuses = []BookingStatus{BookingConfirmed, BookingCompleted}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetbanking PaymentMethod = "netbanking"
	PaymentWallet     PaymentMethod = "wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentUPI, PaymentNetbanking, PaymentWallet:
		return true
	}
	return false
}

type PassengerDetail struct {
	Name   string `json:"name" db:"name"`
	Age    int    `json:"age" db:"age"`
	Gender string `json:"gender" db:"gender"`
}

// Booking references its owner and service by id; both are immutable.
// TotalAmount is frozen at creation.
type Booking struct {
	ID               domain.ID         `json:"id"`
	UserID           domain.ID         `json:"userId"`
	TravelServiceID  domain.ID         `json:"travelServiceId"`
	BookingDate      time.Time         `json:"bookingDate"`
	TravelDate       time.Time         `json:"travelDate"`
	Passengers       int               `json:"passengers"`
	PassengerDetails []PassengerDetail `json:"passengerDetails"`
	TotalAmount      float64           `json:"totalAmount"`
	Status           BookingStatus     `json:"status"`
	PaymentStatus    PaymentStatus     `json:"paymentStatus"`
	PaymentMethod    PaymentMethod     `json:"paymentMethod"`
	ContactEmail     string            `json:"contactEmail"`
	ContactPhone     string            `json:"contactPhone"`
	SpecialRequests  string            `json:"specialRequests,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`

	Service *ServiceSummary `json:"travelService,omitempty"`
	User    *UserSummary    `json:"user,omitempty"`
}

// BookingInput is what a user submits to create a booking.
type BookingInput struct {
	ServiceID        domain.ID
	TravelDate       time.Time
	Passengers       int
	PassengerDetails []PassengerDetail
	ContactEmail     string
	ContactPhone     string
	PaymentMethod    PaymentMethod
	SpecialRequests  string
}

// BookingStatusUpdate is the admin override; nil fields are left alone.
type BookingStatusUpdate struct {
	Status        *BookingStatus
	PaymentStatus *PaymentStatus
}

type BookingFilter struct {
	UserID domain.ID
	Status BookingStatus
}
