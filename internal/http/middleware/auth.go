package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const requestContextKey = "request_context"

// Claims carried by bearer tokens.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// UserLookup resolves the token subject to a current user record.
type UserLookup interface {
	GetByID(ctx context.Context, id domain.ID) (models.User, error)
}

// IssueToken signs an HS256 token for the user.
func IssueToken(secret []byte, u models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: int64(u.ID),
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(secret []byte, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.UserID <= 0 {
		return nil, errors.New("token has no user")
	}
	return claims, nil
}

func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":    false,
		"error":      message,
		"code":       code,
		"message":    message,
		"request_id": GetRequestID(c),
	})
}

// Auth requires a valid bearer token. The role is read from the user record
// rather than the token so demotions take effect immediately.
func Auth(secret []byte, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "Not authorized, no token")
			return
		}

		claims, err := parseToken(secret, strings.TrimSpace(raw))
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "Not authorized, token failed")
			return
		}

		u, err := users.GetByID(c.Request.Context(), domain.ID(claims.UserID))
		if err != nil {
			if domain.IsNotFound(err) {
				abortJSON(c, http.StatusUnauthorized, "unauthorized", "Not authorized, user not found")
				return
			}
			abortJSON(c, http.StatusInternalServerError, "internal_error", "failed to load user")
			return
		}

		c.Set(requestContextKey, domain.RequestContext{
			UserID: u.ID,
			Role:   u.Role,
			ReqID:  GetRequestID(c),
		})
		c.Next()
	}
}

// GetRequestContext returns the caller set by Auth. Public routes get an
// anonymous context carrying only the request id.
func GetRequestContext(c *gin.Context) domain.RequestContext {
	if v, ok := c.Get(requestContextKey); ok {
		if rc, ok := v.(domain.RequestContext); ok {
			return rc
		}
	}
	return domain.RequestContext{ReqID: GetRequestID(c)}
}
