package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAuth redirects to loginPath when authenticated reports false.
func RequireAuth(authenticated func(*gin.Context) bool, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticated(c) {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
