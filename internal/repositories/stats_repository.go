package repositories

import (
	"context"
	"fmt"

	"travelbooking/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

type StatsRepository struct {
	DB *sqlx.DB
}

// Counts gathers the dashboard totals in a single round trip. Revenue only
// counts paid bookings.
func (r StatsRepository) Counts(ctx context.Context) (models.DashboardStats, error) {
	var s models.DashboardStats
	err := r.DB.GetContext(ctx, &s, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'user') AS total_users,
			(SELECT COUNT(*) FROM travel_services) AS total_services,
			(SELECT COUNT(*) FROM bookings) AS total_bookings,
			(SELECT COUNT(*) FROM reviews) AS total_reviews,
			(SELECT COALESCE(SUM(total_amount), 0) FROM bookings WHERE payment_status = 'paid') AS total_revenue,
			(SELECT COUNT(*) FROM bookings WHERE status = 'confirmed') AS confirmed_bookings,
			(SELECT COUNT(*) FROM bookings WHERE status = 'cancelled') AS cancelled_bookings,
			(SELECT COUNT(*) FROM bookings WHERE status = 'pending') AS pending_bookings`)
	if err != nil {
		return s, fmt.Errorf("dashboard counts: %w", err)
	}
	return s, nil
}
