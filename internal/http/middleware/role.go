package middleware

import (
	"net/http"

	"travelbooking/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequireRoles lets the request through only when Auth has placed a caller
// whose role is in allowed.
//
//	admin.Use(Auth(secret, users), RequireRoles(domain.RoleAdmin))
func RequireRoles(allowed ...domain.Role) gin.HandlerFunc {
	set := make(map[domain.Role]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}

	return func(c *gin.Context) {
		rc := GetRequestContext(c)
		if rc.UserID == 0 {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "Not authorized")
			return
		}
		if _, ok := set[rc.Role]; !ok {
			abortJSON(c, http.StatusForbidden, "forbidden", "Not authorized as admin")
			return
		}
		c.Next()
	}
}
