package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"travelbooking/internal/domain"
)

type ServiceType string

const (
	ServiceTypeBus   ServiceType = "bus"
	ServiceTypeHotel ServiceType = "hotel"
	ServiceTypeTrip  ServiceType = "trip"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceTypeBus, ServiceTypeHotel, ServiceTypeTrip:
		return true
	}
	return false
}

// StringList is stored as a JSON array column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("string list: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	*l = out
	return nil
}

// TravelService is a bookable bus, hotel or trip listing. Rating and
// ReviewCount are derived from reviews and never written by catalog edits.
type TravelService struct {
	ID             domain.ID   `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	Type           ServiceType `json:"type" db:"type"`
	Source         string      `json:"source" db:"source"`
	Destination    string      `json:"destination" db:"destination"`
	Price          float64     `json:"price" db:"price"`
	Duration       string      `json:"duration" db:"duration"`
	Description    string      `json:"description" db:"description"`
	Images         StringList  `json:"images" db:"images"`
	Amenities      StringList  `json:"amenities" db:"amenities"`
	Rating         float64     `json:"rating" db:"rating"`
	ReviewCount    int         `json:"reviewCount" db:"review_count"`
	AvailableSeats int         `json:"availableSeats" db:"available_seats"`
	DepartureDate  *time.Time  `json:"departureDate,omitempty" db:"departure_date"`
	DepartureTime  string      `json:"departureTime,omitempty" db:"departure_time"`
	IsActive       bool        `json:"isActive" db:"is_active"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" db:"updated_at"`
}

// ServiceSummary is the display-safe subset attached to bookings and reviews.
type ServiceSummary struct {
	ID          domain.ID   `json:"id"`
	Name        string      `json:"name"`
	Type        ServiceType `json:"type"`
	Source      string      `json:"source,omitempty"`
	Destination string      `json:"destination"`
	Price       float64     `json:"price,omitempty"`
	Duration    string      `json:"duration,omitempty"`
	Images      StringList  `json:"images,omitempty"`
}

func (s TravelService) Summary() ServiceSummary {
	return ServiceSummary{
		ID:          s.ID,
		Name:        s.Name,
		Type:        s.Type,
		Source:      s.Source,
		Destination: s.Destination,
		Price:       s.Price,
		Duration:    s.Duration,
		Images:      s.Images,
	}
}

// TravelServicePatch is a merge-patch: nil fields keep the stored value.
type TravelServicePatch struct {
	Name           *string      `json:"name"`
	Type           *ServiceType `json:"type"`
	Source         *string      `json:"source"`
	Destination    *string      `json:"destination"`
	Price          *float64     `json:"price"`
	Duration       *string      `json:"duration"`
	Description    *string      `json:"description"`
	Images         *StringList  `json:"images"`
	Amenities      *StringList  `json:"amenities"`
	AvailableSeats *int         `json:"availableSeats"`
	DepartureDate  *time.Time   `json:"departureDate"`
	DepartureTime  *string      `json:"departureTime"`
	IsActive       *bool        `json:"isActive"`
}

// Apply returns a copy of s with the present patch fields applied.
func (p TravelServicePatch) Apply(s TravelService) TravelService {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.Source != nil {
		s.Source = *p.Source
	}
	if p.Destination != nil {
		s.Destination = *p.Destination
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.Duration != nil {
		s.Duration = *p.Duration
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Images != nil {
		s.Images = *p.Images
	}
	if p.Amenities != nil {
		s.Amenities = *p.Amenities
	}
	if p.AvailableSeats != nil {
		s.AvailableSeats = *p.AvailableSeats
	}
	if p.DepartureDate != nil {
		d := *p.DepartureDate
		s.DepartureDate = &d
	}
	if p.DepartureTime != nil {
		s.DepartureTime = *p.DepartureTime
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
	return s
}

// Take returns a patch holding s's values for exactly the fields present in
// p. Absent fields stay nil and are never written.
func (p TravelServicePatch) Take(s TravelService) TravelServicePatch {
	var out TravelServicePatch
	if p.Name != nil {
		out.Name = &s.Name
	}
	if p.Type != nil {
		out.Type = &s.Type
	}
	if p.Source != nil {
		out.Source = &s.Source
	}
	if p.Destination != nil {
		out.Destination = &s.Destination
	}
	if p.Price != nil {
		out.Price = &s.Price
	}
	if p.Duration != nil {
		out.Duration = &s.Duration
	}
	if p.Description != nil {
		out.Description = &s.Description
	}
	if p.Images != nil {
		out.Images = &s.Images
	}
	if p.Amenities != nil {
		out.Amenities = &s.Amenities
	}
	if p.AvailableSeats != nil {
		out.AvailableSeats = &s.AvailableSeats
	}
	if p.DepartureDate != nil && s.DepartureDate != nil {
		d := *s.DepartureDate
		out.DepartureDate = &d
	}
	if p.DepartureTime != nil {
		out.DepartureTime = &s.DepartureTime
	}
	if p.IsActive != nil {
		out.IsActive = &s.IsActive
	}
	return out
}

// Empty reports whether no field is present.
func (p TravelServicePatch) Empty() bool {
	return p == TravelServicePatch{}
}
