package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

type reviewRow struct {
	ID              domain.ID `db:"id"`
	UserID          domain.ID `db:"user_id"`
	TravelServiceID domain.ID `db:"travel_service_id"`
	Rating          int       `db:"rating"`
	Title           string    `db:"title"`
	Comment         string    `db:"comment"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`

	UserName       sql.NullString `db:"user_name"`
	SvcName        sql.NullString `db:"svc_name"`
	SvcType        sql.NullString `db:"svc_type"`
	SvcDestination sql.NullString `db:"svc_destination"`
}

func (row reviewRow) toModel() models.Review {
	r := models.Review{
		ID:              row.ID,
		UserID:          row.UserID,
		TravelServiceID: row.TravelServiceID,
		Rating:          row.Rating,
		Title:           row.Title,
		Comment:         row.Comment,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.UserName.Valid {
		r.User = &models.UserSummary{ID: row.UserID, Name: row.UserName.String}
	}
	if row.SvcName.Valid {
		r.Service = &models.ServiceSummary{
			ID:          row.TravelServiceID,
			Name:        row.SvcName.String,
			Type:        models.ServiceType(row.SvcType.String),
			Destination: row.SvcDestination.String,
		}
	}
	return r
}

const reviewSelect = `
	SELECT r.id, r.user_id, r.travel_service_id, r.rating, r.title, r.comment,
		r.created_at, r.updated_at,
		u.name AS user_name,
		s.name AS svc_name, s.type AS svc_type, s.destination AS svc_destination
	FROM reviews r
	LEFT JOIN users u ON u.id = r.user_id
	LEFT JOIN travel_services s ON s.id = r.travel_service_id`

type ReviewRepository struct {
	DB *sqlx.DB
}

// Create inserts the review and recomputes the service aggregate in the
// same transaction.
func (r ReviewRepository) Create(ctx context.Context, rv *models.Review, compute models.RatingFunc) (models.RatingAggregate, error) {
	var agg models.RatingAggregate
	err := intdb.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		found, err := lockService(ctx, tx, rv.TravelServiceID)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO reviews (user_id, travel_service_id, rating, title, comment, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rv.UserID, rv.TravelServiceID, rv.Rating, rv.Title, rv.Comment, rv.CreatedAt, rv.UpdatedAt,
		)
		if err != nil {
			if intdb.IsDuplicateKey(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("insert review: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("review id: %w", err)
		}
		rv.ID = domain.ID(id)
		if found {
			agg, err = reaggregate(ctx, tx, rv.TravelServiceID, compute)
		}
		return err
	})
	return agg, err
}

func (r ReviewRepository) GetByID(ctx context.Context, id domain.ID) (models.Review, error) {
	var row reviewRow
	if err := r.DB.GetContext(ctx, &row, reviewSelect+` WHERE r.id = ? LIMIT 1`, id); err != nil {
		if intdb.IsNoRows(err) {
			return models.Review{}, domain.NotFoundError{Resource: "review", Err: err}
		}
		return models.Review{}, fmt.Errorf("get review: %w", err)
	}
	return row.toModel(), nil
}

func (r ReviewRepository) ExistsForUser(ctx context.Context, userID, serviceID domain.ID) (bool, error) {
	var n int
	err := r.DB.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM reviews WHERE user_id = ? AND travel_service_id = ?`, userID, serviceID)
	if err != nil {
		return false, fmt.Errorf("count user reviews: %w", err)
	}
	return n > 0, nil
}

// Update rewrites the editable review fields and recomputes the service
// aggregate in the same transaction.
func (r ReviewRepository) Update(ctx context.Context, rv models.Review, compute models.RatingFunc) (models.RatingAggregate, error) {
	var agg models.RatingAggregate
	err := intdb.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		found, err := lockService(ctx, tx, rv.TravelServiceID)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE reviews SET rating = ?, title = ?, comment = ?, updated_at = ?
			WHERE id = ?`,
			rv.Rating, rv.Title, rv.Comment, rv.UpdatedAt, rv.ID,
		)
		if err != nil {
			return fmt.Errorf("update review: %w", err)
		}
		if err := requireAffected(res, "review"); err != nil {
			return err
		}
		if found {
			agg, err = reaggregate(ctx, tx, rv.TravelServiceID, compute)
		}
		return err
	})
	return agg, err
}

// Delete removes the review and recomputes its service's aggregate in the
// same transaction.
func (r ReviewRepository) Delete(ctx context.Context, id, serviceID domain.ID, compute models.RatingFunc) (models.RatingAggregate, error) {
	var agg models.RatingAggregate
	err := intdb.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		found, err := lockService(ctx, tx, serviceID)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		if err := requireAffected(res, "review"); err != nil {
			return err
		}
		if found {
			agg, err = reaggregate(ctx, tx, serviceID, compute)
		}
		return err
	})
	return agg, err
}

// ListByService pages a service's reviews newest first, with reviewer names.
func (r ReviewRepository) ListByService(ctx context.Context, serviceID domain.ID, p domain.PageRequest) ([]models.Review, int, error) {
	var total int
	if err := r.DB.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM reviews WHERE travel_service_id = ?`, serviceID); err != nil {
		return nil, 0, fmt.Errorf("count service reviews: %w", err)
	}

	rows := []reviewRow{}
	if err := r.DB.SelectContext(ctx, &rows,
		reviewSelect+` WHERE r.travel_service_id = ? ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?`,
		serviceID, p.Limit, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list service reviews: %w", err)
	}
	return toReviews(rows), total, nil
}

func (r ReviewRepository) ListByUser(ctx context.Context, userID domain.ID) ([]models.Review, error) {
	rows := []reviewRow{}
	if err := r.DB.SelectContext(ctx, &rows,
		reviewSelect+` WHERE r.user_id = ? ORDER BY r.created_at DESC, r.id DESC`, userID); err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	return toReviews(rows), nil
}

func toReviews(rows []reviewRow) []models.Review {
	out := make([]models.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out
}

// lockService takes the service row lock before any review row is touched,
// so review writes for one service serialize in a fixed lock order. A
// deleted service reports false.
func lockService(ctx context.Context, tx *sqlx.Tx, serviceID domain.ID) (bool, error) {
	var locked domain.ID
	err := tx.GetContext(ctx, &locked, `SELECT id FROM travel_services WHERE id = ? FOR UPDATE`, serviceID)
	if err != nil {
		if intdb.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("lock travel service: %w", err)
	}
	return true, nil
}

// reaggregate recomputes a locked service's rating from its current reviews.
func reaggregate(ctx context.Context, tx *sqlx.Tx, serviceID domain.ID, compute models.RatingFunc) (models.RatingAggregate, error) {
	ratings := []int{}
	if err := tx.SelectContext(ctx, &ratings,
		`SELECT rating FROM reviews WHERE travel_service_id = ?`, serviceID); err != nil {
		return models.RatingAggregate{}, fmt.Errorf("read ratings: %w", err)
	}
	agg := compute(ratings)
	if _, err := tx.ExecContext(ctx,
		`UPDATE travel_services SET rating = ?, review_count = ? WHERE id = ?`,
		agg.Rating, agg.ReviewCount, serviceID); err != nil {
		return models.RatingAggregate{}, fmt.Errorf("write rating: %w", err)
	}
	return agg, nil
}
