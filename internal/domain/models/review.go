package models

import (
	"time"

	"travelbooking/internal/domain"
)

// Review is unique per (UserID, TravelServiceID).
type Review struct {
	ID              domain.ID `json:"id"`
	UserID          domain.ID `json:"userId"`
	TravelServiceID domain.ID `json:"travelServiceId"`
	Rating          int       `json:"rating"`
	Title           string    `json:"title,omitempty"`
	Comment         string    `json:"comment"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	User    *UserSummary    `json:"user,omitempty"`
	Service *ServiceSummary `json:"travelService,omitempty"`
}

type ReviewInput struct {
	ServiceID domain.ID
	Rating    int
	Title     string
	Comment   string
}

// ReviewPatch is a merge-patch over the owner-editable fields.
type ReviewPatch struct {
	Rating  *int
	Title   *string
	Comment *string
}

func (p ReviewPatch) Empty() bool {
	return p.Rating == nil && p.Title == nil && p.Comment == nil
}

// RatingAggregate is the derived rating state of one travel service.
type RatingAggregate struct {
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

// RatingFunc derives a service's aggregate from all of its ratings.
type RatingFunc func(ratings []int) RatingAggregate
