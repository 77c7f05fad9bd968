package handlers

import (
	"net/http"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/http/middleware"
	"travelbooking/internal/services"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	Reviews services.ReviewService
}

type createReviewRequest struct {
	TravelServiceID int64  `json:"travelServiceId"`
	Rating          int    `json:"rating"`
	Title           string `json:"title"`
	Comment         string `json:"comment"`
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Title   *string `json:"title"`
	Comment *string `json:"comment"`
}

func (h ReviewHandler) reviews(c *gin.Context) services.ReviewService {
	s := h.Reviews
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h ReviewHandler) Create(c *gin.Context) {
	var req createReviewRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rv, err := h.reviews(c).Create(c.Request.Context(), middleware.GetRequestContext(c), models.ReviewInput{
		ServiceID: domain.ID(req.TravelServiceID),
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, rv, "")
}

func (h ReviewHandler) ListForService(c *gin.Context) {
	id, ok := pathID(c, "serviceId")
	if !ok {
		return
	}
	list, page, err := h.reviews(c).ListForService(c.Request.Context(), id, pageQuery(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, list, page)
}

func (h ReviewHandler) ListMine(c *gin.Context) {
	list, err := h.reviews(c).ListMine(c.Request.Context(), middleware.GetRequestContext(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, list, "")
}

func (h ReviewHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateReviewRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rv, err := h.reviews(c).Update(c.Request.Context(), middleware.GetRequestContext(c), id, models.ReviewPatch{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, rv, "")
}

func (h ReviewHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.reviews(c).Delete(c.Request.Context(), middleware.GetRequestContext(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, nil, "Review deleted")
}
