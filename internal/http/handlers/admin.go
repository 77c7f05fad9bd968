package handlers

import (
	"net/http"

	"travelbooking/internal/http/middleware"
	"travelbooking/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	Admin services.AdminService
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (h AdminHandler) admin(c *gin.Context) services.AdminService {
	s := h.Admin
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.admin(c).Dashboard(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, d, "")
}

func (h AdminHandler) Users(c *gin.Context) {
	list, page, err := h.admin(c).ListUsers(c.Request.Context(), pageQuery(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, list, page)
}

func (h AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateRoleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	u, err := h.admin(c).UpdateUserRole(c.Request.Context(), id, req.Role)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, u, "")
}

func (h AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.admin(c).DeleteUser(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, nil, "User deleted")
}
