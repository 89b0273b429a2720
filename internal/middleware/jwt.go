package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alpercimsit/emlak-website/internal/service"
)

const (
	// AdminTokenHeader carries the static shared admin secret.
	AdminTokenHeader = "X-ADMIN-TOKEN"

	ctxKeyIsAdmin = "is_admin"
)

// AdminAuth resolves whether the caller holds an admin credential (a bearer token for
// the configured admin or the static admin token) and stores the answer on the context.
// It never rejects; routes that require the credential add RequireAdmin.
func AdminAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin := auth.IsAdmin(c.GetHeader("Authorization"), c.GetHeader(AdminTokenHeader))
		c.Set(ctxKeyIsAdmin, isAdmin)
		c.Next()
	}
}

// RequireAdmin aborts with 403 and an empty body unless AdminAuth accepted the caller.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// IsAdmin reports the decision made by AdminAuth for this request.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ctxKeyIsAdmin)
}
