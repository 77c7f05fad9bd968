package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/utils"
)

// CatalogService is the admin surface over travel services. Rating and
// review count are never accepted from callers.
type CatalogService struct {
	Catalog   CatalogStore
	Now       func() time.Time
	RequestID string
}

func normalizeService(s models.TravelService) models.TravelService {
	s.Name = utils.NormalizeSpace(s.Name)
	s.Source = strings.TrimSpace(s.Source)
	s.Destination = strings.TrimSpace(s.Destination)
	s.Duration = strings.TrimSpace(s.Duration)
	s.Description = strings.TrimSpace(s.Description)
	s.DepartureTime = strings.TrimSpace(s.DepartureTime)
	s.Images = utils.CleanList(s.Images)
	s.Amenities = utils.CleanList(s.Amenities)
	return s
}

func validateService(s models.TravelService) error {
	switch {
	case s.Name == "":
		return domain.ValidationError{Field: "name", Msg: "is required"}
	case utils.TooLong(s.Name, 100):
		return domain.ValidationError{Field: "name", Msg: "must be at most 100 characters"}
	case !s.Type.Valid():
		return domain.ValidationError{Field: "type", Msg: "must be one of bus, hotel, trip"}
	case s.Source == "":
		return domain.ValidationError{Field: "source", Msg: "is required"}
	case s.Destination == "":
		return domain.ValidationError{Field: "destination", Msg: "is required"}
	case s.Price < 0:
		return domain.ValidationError{Field: "price", Msg: "must not be negative"}
	case s.Duration == "":
		return domain.ValidationError{Field: "duration", Msg: "is required"}
	case s.Description == "":
		return domain.ValidationError{Field: "description", Msg: "is required"}
	case utils.TooLong(s.Description, 1000):
		return domain.ValidationError{Field: "description", Msg: "must be at most 1000 characters"}
	case s.AvailableSeats < 0:
		return domain.ValidationError{Field: "availableSeats", Msg: "must not be negative"}
	}
	return nil
}

func (s CatalogService) Get(ctx context.Context, id domain.ID) (models.TravelService, error) {
	return s.Catalog.GetByID(ctx, id)
}

func (s CatalogService) Create(ctx context.Context, in models.TravelService) (models.TravelService, error) {
	in = normalizeService(in)
	if err := validateService(in); err != nil {
		return models.TravelService{}, err
	}
	now := clock(s.Now)
	in.ID = 0
	in.Rating = 0
	in.ReviewCount = 0
	in.CreatedAt = now
	in.UpdatedAt = now
	if err := s.Catalog.Create(ctx, &in); err != nil {
		return models.TravelService{}, err
	}
	utils.LogEvent(s.RequestID, "catalog", "create", fmt.Sprintf("service_id=%d type=%s", in.ID, in.Type))
	return in, nil
}

// Update validates the patch merged over the stored service, then writes
// only the present fields. Seat counts moved by bookings in the meantime are
// kept unless the patch sets availableSeats itself.
func (s CatalogService) Update(ctx context.Context, id domain.ID, patch models.TravelServicePatch) (models.TravelService, error) {
	cur, err := s.Catalog.GetByID(ctx, id)
	if err != nil {
		return models.TravelService{}, err
	}
	if patch.Empty() {
		return cur, nil
	}
	next := normalizeService(patch.Apply(cur))
	if err := validateService(next); err != nil {
		return models.TravelService{}, err
	}
	if err := s.Catalog.Update(ctx, id, patch.Take(next), clock(s.Now)); err != nil {
		return models.TravelService{}, err
	}
	utils.LogEvent(s.RequestID, "catalog", "update", fmt.Sprintf("service_id=%d", id))
	return s.Catalog.GetByID(ctx, id)
}

// Delete does not cascade; bookings and reviews keep their service id.
func (s CatalogService) Delete(ctx context.Context, id domain.ID) error {
	if err := s.Catalog.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "catalog", "delete", fmt.Sprintf("service_id=%d", id))
	return nil
}
