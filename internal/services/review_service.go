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
	serviceReviewsPageSize = 10
	maxReviewTitle         = 100
	maxReviewComment       = 500
)

// ComputeAggregate averages ratings to one decimal, rounding half up.
// No ratings yields a zero aggregate.
func ComputeAggregate(ratings []int) models.RatingAggregate {
	if len(ratings) == 0 {
		return models.RatingAggregate{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	n := len(ratings)
	// tenths = round(sum*10/n) in integers, so 4.25 lands on 4.3 exactly.
	tenths := (sum*20 + n) / (2 * n)
	return models.RatingAggregate{
		Rating:      float64(tenths) / 10,
		ReviewCount: n,
	}
}

// ReviewService keeps each service's rating and review count equal to the
// aggregate of its reviews. Every write commits together with its
// recomputed aggregate.
type ReviewService struct {
	Reviews   ReviewStore
	Bookings  BookingStore
	Catalog   CatalogStore
	Now       func() time.Time
	RequestID string
}

func validateRating(r int) error {
	if r < 1 || r > 5 {
		return domain.ValidationError{Field: "rating", Msg: "must be between 1 and 5"}
	}
	return nil
}

func validateTitle(t string) error {
	if utils.TooLong(t, maxReviewTitle) {
		return domain.ValidationError{Field: "title", Msg: "must be at most 100 characters"}
	}
	return nil
}

func validateComment(c string) error {
	if c == "" {
		return domain.ValidationError{Field: "comment", Msg: "is required"}
	}
	if utils.TooLong(c, maxReviewComment) {
		return domain.ValidationError{Field: "comment", Msg: "must be at most 500 characters"}
	}
	return nil
}

func (s ReviewService) logAggregate(action string, serviceID domain.ID, agg models.RatingAggregate) {
	utils.LogEvent(s.RequestID, "reviews", action,
		fmt.Sprintf("service_id=%d rating=%.1f count=%d", serviceID, agg.Rating, agg.ReviewCount))
}

func (s ReviewService) Create(ctx context.Context, rc domain.RequestContext, in models.ReviewInput) (models.Review, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Comment = strings.TrimSpace(in.Comment)
	if in.ServiceID <= 0 {
		return models.Review{}, domain.ValidationError{Field: "travelServiceId", Msg: "is required"}
	}
	if err := validateRating(in.Rating); err != nil {
		return models.Review{}, err
	}
	if err := validateTitle(in.Title); err != nil {
		return models.Review{}, err
	}
	if err := validateComment(in.Comment); err != nil {
		return models.Review{}, err
	}

	if _, err := s.Catalog.GetByID(ctx, in.ServiceID); err != nil {
		return models.Review{}, err
	}
	ok, err := s.Bookings.HasQualifying(ctx, rc.UserID, in.ServiceID)
	if err != nil {
		return models.Review{}, err
	}
	if !ok {
		return models.Review{}, domain.ValidationError{Msg: "You can only review services you have booked"}
	}
	exists, err := s.Reviews.ExistsForUser(ctx, rc.UserID, in.ServiceID)
	if err != nil {
		return models.Review{}, err
	}
	if exists {
		return models.Review{}, domain.ValidationError{Msg: "You have already reviewed this service"}
	}

	now := clock(s.Now)
	rv := models.Review{
		UserID:          rc.UserID,
		TravelServiceID: in.ServiceID,
		Rating:          in.Rating,
		Title:           in.Title,
		Comment:         in.Comment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	agg, err := s.Reviews.Create(ctx, &rv, ComputeAggregate)
	if err != nil {
		// Lost a race with a concurrent create for the same pair.
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Review{}, domain.ValidationError{Msg: "You have already reviewed this service"}
		}
		return models.Review{}, err
	}
	s.logAggregate("create", rv.TravelServiceID, agg)

	if created, err := s.Reviews.GetByID(ctx, rv.ID); err == nil {
		return created, nil
	}
	return rv, nil
}

// Update applies a merge-patch to the caller's own review.
func (s ReviewService) Update(ctx context.Context, rc domain.RequestContext, id domain.ID, patch models.ReviewPatch) (models.Review, error) {
	rv, err := s.Reviews.GetByID(ctx, id)
	if err != nil {
		return models.Review{}, err
	}
	if rv.UserID != rc.UserID {
		return models.Review{}, domain.ForbiddenError{Msg: "Not authorized to update this review"}
	}
	if patch.Empty() {
		return rv, nil
	}

	if patch.Rating != nil {
		if err := validateRating(*patch.Rating); err != nil {
			return models.Review{}, err
		}
		rv.Rating = *patch.Rating
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if err := validateTitle(t); err != nil {
			return models.Review{}, err
		}
		rv.Title = t
	}
	if patch.Comment != nil {
		c := strings.TrimSpace(*patch.Comment)
		if err := validateComment(c); err != nil {
			return models.Review{}, err
		}
		rv.Comment = c
	}
	rv.UpdatedAt = clock(s.Now)

	agg, err := s.Reviews.Update(ctx, rv, ComputeAggregate)
	if err != nil {
		return models.Review{}, err
	}
	s.logAggregate("update", rv.TravelServiceID, agg)
	return rv, nil
}

// Delete removes a review; the owner or an admin may do so.
func (s ReviewService) Delete(ctx context.Context, rc domain.RequestContext, id domain.ID) error {
	rv, err := s.Reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !rc.CanAccess(rv.UserID) {
		return domain.ForbiddenError{Msg: "Not authorized to delete this review"}
	}
	agg, err := s.Reviews.Delete(ctx, id, rv.TravelServiceID, ComputeAggregate)
	if err != nil {
		return err
	}
	s.logAggregate("delete", rv.TravelServiceID, agg)
	return nil
}

func (s ReviewService) ListForService(ctx context.Context, serviceID domain.ID, p domain.PageRequest) ([]models.Review, domain.Pagination, error) {
	p = p.Normalize(serviceReviewsPageSize)
	list, total, err := s.Reviews.ListByService(ctx, serviceID, p)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return list, domain.NewPagination(p, total), nil
}

func (s ReviewService) ListMine(ctx context.Context, rc domain.RequestContext) ([]models.Review, error) {
	return s.Reviews.ListByUser(ctx, rc.UserID)
}
