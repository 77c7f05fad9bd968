package handlers

import (
	"net/http"

	"travelbooking/internal/domain/models"
	"travelbooking/internal/http/middleware"
	"travelbooking/internal/services"

	"github.com/gin-gonic/gin"
)

type TravelHandler struct {
	Catalog services.CatalogService
}

func (h TravelHandler) catalog(c *gin.Context) services.CatalogService {
	s := h.Catalog
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h TravelHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s, err := h.catalog(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, s, "")
}

// Create binds the full listing; rating and reviewCount in the body are ignored.
func (h TravelHandler) Create(c *gin.Context) {
	var req models.TravelService
	if !BindJSONOrError(c, &req) {
		return
	}
	s, err := h.catalog(c).Create(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, s, "")
}

func (h TravelHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch models.TravelServicePatch
	if !BindJSONOrError(c, &patch) {
		return
	}
	s, err := h.catalog(c).Update(c.Request.Context(), id, patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, s, "")
}

func (h TravelHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, nil, "Travel service deleted")
}
