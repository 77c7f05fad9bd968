package services

import (
	"context"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
)

// The stores below are satisfied by the MySQL repositories; services depend
// on them through these interfaces so tests can substitute fakes.

type CatalogStore interface {
	GetByID(ctx context.Context, id domain.ID) (models.TravelService, error)
	Create(ctx context.Context, s *models.TravelService) error
	Update(ctx context.Context, id domain.ID, p models.TravelServicePatch, at time.Time) error
	Delete(ctx context.Context, id domain.ID) error
	Popular(ctx context.Context, limit int) ([]models.TravelService, error)
}

type BookingStore interface {
	Reserve(ctx context.Context, b *models.Booking) error
	CancelAndRestore(ctx context.Context, id domain.ID, at time.Time) (bool, error)
	GetByID(ctx context.Context, id domain.ID) (models.Booking, error)
	List(ctx context.Context, f models.BookingFilter, p domain.PageRequest) ([]models.Booking, int, error)
	UpdateStatus(ctx context.Context, id domain.ID, upd models.BookingStatusUpdate, at time.Time) error
	HasQualifying(ctx context.Context, userID, serviceID domain.ID) (bool, error)
}

// ReviewStore writes commit together with the service aggregate recomputed
// by compute, or not at all.
type ReviewStore interface {
	Create(ctx context.Context, r *models.Review, compute models.RatingFunc) (models.RatingAggregate, error)
	GetByID(ctx context.Context, id domain.ID) (models.Review, error)
	ExistsForUser(ctx context.Context, userID, serviceID domain.ID) (bool, error)
	Update(ctx context.Context, r models.Review, compute models.RatingFunc) (models.RatingAggregate, error)
	Delete(ctx context.Context, id, serviceID domain.ID, compute models.RatingFunc) (models.RatingAggregate, error)
	ListByService(ctx context.Context, serviceID domain.ID, p domain.PageRequest) ([]models.Review, int, error)
	ListByUser(ctx context.Context, userID domain.ID) ([]models.Review, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id domain.ID) (models.User, error)
	List(ctx context.Context, p domain.PageRequest) ([]models.User, int, error)
	UpdateRole(ctx context.Context, id domain.ID, role domain.Role, at time.Time) error
	Delete(ctx context.Context, id domain.ID) error
}

type StatsStore interface {
	Counts(ctx context.Context) (models.DashboardStats, error)
}

func clock(now func() time.Time) time.Time {
	if now != nil {
		return now().UTC()
	}
	return time.Now().UTC()
}
