package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const serviceColumns = `id, name, type, source, destination, price, duration, description,
	images, amenities, rating, review_count, available_seats, departure_date,
	departure_time, is_active, created_at, updated_at`

type CatalogRepository struct {
	DB *sqlx.DB
}

func (r CatalogRepository) GetByID(ctx context.Context, id domain.ID) (models.TravelService, error) {
	var s models.TravelService
	err := r.DB.GetContext(ctx, &s, `SELECT `+serviceColumns+` FROM travel_services WHERE id = ? LIMIT 1`, id)
	if err != nil {
		if intdb.IsNoRows(err) {
			return s, domain.NotFoundError{Resource: "travel service", Err: err}
		}
		return s, fmt.Errorf("get travel service: %w", err)
	}
	return s, nil
}

func (r CatalogRepository) Create(ctx context.Context, s *models.TravelService) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO travel_services
			(name, type, source, destination, price, duration, description, images, amenities,
			 rating, review_count, available_seats, departure_date, departure_time, is_active,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.Type, s.Source, s.Destination, s.Price, s.Duration, s.Description,
		s.Images, s.Amenities, s.AvailableSeats, s.DepartureDate, s.DepartureTime, s.IsActive,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert travel service: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("travel service id: %w", err)
	}
	s.ID = domain.ID(id)
	s.Rating = 0
	s.ReviewCount = 0
	return nil
}

// Update writes only the columns present in the patch. rating and
// review_count are owned by review aggregation, and available_seats is only
// written when the admin sets it explicitly so concurrent reservations are
// not overwritten.
func (r CatalogRepository) Update(ctx context.Context, id domain.ID, p models.TravelServicePatch, at time.Time) error {
	sets := []string{}
	args := []any{}
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.Type != nil {
		set("type", *p.Type)
	}
	if p.Source != nil {
		set("source", *p.Source)
	}
	if p.Destination != nil {
		set("destination", *p.Destination)
	}
	if p.Price != nil {
		set("price", *p.Price)
	}
	if p.Duration != nil {
		set("duration", *p.Duration)
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.Images != nil {
		set("images", *p.Images)
	}
	if p.Amenities != nil {
		set("amenities", *p.Amenities)
	}
	if p.AvailableSeats != nil {
		set("available_seats", *p.AvailableSeats)
	}
	if p.DepartureDate != nil {
		set("departure_date", *p.DepartureDate)
	}
	if p.DepartureTime != nil {
		set("departure_time", *p.DepartureTime)
	}
	if p.IsActive != nil {
		set("is_active", *p.IsActive)
	}
	set("updated_at", at)
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx, `UPDATE travel_services SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update travel service: %w", err)
	}
	return requireAffected(res, "travel service")
}

func (r CatalogRepository) Delete(ctx context.Context, id domain.ID) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM travel_services WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete travel service: %w", err)
	}
	return requireAffected(res, "travel service")
}

// Popular lists active services ordered by review count then rating.
func (r CatalogRepository) Popular(ctx context.Context, limit int) ([]models.TravelService, error) {
	out := []models.TravelService{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT `+serviceColumns+`
		FROM travel_services
		WHERE is_active = 1
		ORDER BY review_count DESC, rating DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list popular services: %w", err)
	}
	return out, nil
}
