package services

import (
	"context"
	"fmt"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/utils"
)

const (
	dashboardRecent  = 5
	dashboardPopular = 5
	usersPageSize    = 20
)

type AdminService struct {
	Stats     StatsStore
	Bookings  BookingStore
	Catalog   CatalogStore
	Users     UserStore
	Now       func() time.Time
	RequestID string
}

func (s AdminService) Dashboard(ctx context.Context) (models.Dashboard, error) {
	stats, err := s.Stats.Counts(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}
	recent, _, err := s.Bookings.List(ctx, models.BookingFilter{}, domain.PageRequest{Page: 1, Limit: dashboardRecent})
	if err != nil {
		return models.Dashboard{}, err
	}
	popular, err := s.Catalog.Popular(ctx, dashboardPopular)
	if err != nil {
		return models.Dashboard{}, err
	}
	return models.Dashboard{
		Stats:           stats,
		RecentBookings:  recent,
		PopularServices: popular,
	}, nil
}

func (s AdminService) ListUsers(ctx context.Context, p domain.PageRequest) ([]models.User, domain.Pagination, error) {
	p = p.Normalize(usersPageSize)
	list, total, err := s.Users.List(ctx, p)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return list, domain.NewPagination(p, total), nil
}

func (s AdminService) UpdateUserRole(ctx context.Context, id domain.ID, raw string) (models.User, error) {
	role := domain.ParseRole(raw)
	if !role.Valid() {
		return models.User{}, domain.ValidationError{Msg: "Invalid role"}
	}
	if err := s.Users.UpdateRole(ctx, id, role, clock(s.Now)); err != nil {
		return models.User{}, err
	}
	utils.LogEvent(s.RequestID, "admin", "update_role", fmt.Sprintf("user_id=%d role=%s", id, role))
	return s.Users.GetByID(ctx, id)
}

// DeleteUser refuses to remove admins.
func (s AdminService) DeleteUser(ctx context.Context, id domain.ID) error {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == domain.RoleAdmin {
		return domain.ValidationError{Msg: "Cannot delete admin user"}
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "admin", "delete_user", fmt.Sprintf("user_id=%d", id))
	return nil
}
