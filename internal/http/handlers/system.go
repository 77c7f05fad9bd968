package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

type SystemHandler struct {
	DB *sqlx.DB
}

func (h SystemHandler) Health(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{"status": "ok"}, "Travel booking API is running")
}

func (h SystemHandler) DBCheck(c *gin.Context) {
	if h.DB == nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "Database is not connected")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	missing, err := intdb.MissingTables(ctx, h.DB, intdb.Tables...)
	if err != nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "Database query failed")
		return
	}
	if len(missing) > 0 {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:     "Database schema is missing tables",
			Code:      "schema_incomplete",
			Message:   "Database schema is missing tables",
			RequestID: middleware.GetRequestID(c),
			Details:   gin.H{"missing": missing},
		})
		return
	}
	respondData(c, http.StatusOK, gin.H{"tables": intdb.Tables}, "Database connection OK")
}

func (h SystemHandler) Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "Router is not ready")
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method": rt.Method,
			"path":   rt.Path,
		})
	}
	respondData(c, http.StatusOK, out, "")
}
