package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type usersByID map[domain.ID]models.User

func (u usersByID) GetByID(_ context.Context, id domain.ID) (models.User, error) {
	if v, ok := u[id]; ok {
		return v, nil
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

func serveWithAuth(t *testing.T, users usersByID, token string) (int, domain.RequestContext) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var seen domain.RequestContext
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", Auth([]byte("secret"), users), func(c *gin.Context) {
		seen = GetRequestContext(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code, seen
}

func TestAuthUsesStoredRole(t *testing.T) {
	// Token still says admin, but the account was demoted.
	users := usersByID{4: {ID: 4, Role: domain.RoleUser}}
	tok, err := IssueToken([]byte("secret"), models.User{ID: 4, Role: domain.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	code, rc := serveWithAuth(t, users, tok)
	if code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", code)
	}
	if rc.UserID != 4 || rc.Role != domain.RoleUser {
		t.Fatalf("unexpected request context %+v", rc)
	}
	if rc.ReqID == "" {
		t.Fatalf("request id should be carried into the request context")
	}
}

func TestAuthRejectsExpiredAndUnknown(t *testing.T) {
	users := usersByID{4: {ID: 4, Role: domain.RoleUser}}

	expired, err := IssueToken([]byte("secret"), users[4], -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if code, _ := serveWithAuth(t, users, expired); code != http.StatusUnauthorized {
		t.Fatalf("expired token: expected 401, got %d", code)
	}

	ghost, err := IssueToken([]byte("secret"), models.User{ID: 77, Role: domain.RoleUser}, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if code, _ := serveWithAuth(t, users, ghost); code != http.StatusUnauthorized {
		t.Fatalf("deleted user: expected 401, got %d", code)
	}

	if code, _ := serveWithAuth(t, users, ""); code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", code)
	}
}
