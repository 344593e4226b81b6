package middleware

import (
	"net/http"
	"strings"

	"github.com/AtRiskMedia/tractstack-seo/internal/application/services"
	"github.com/gin-gonic/gin"
)

// AdminAuth requires a bearer admin token on the group it guards. With no
// JWT secret configured the routes stay open.
func AdminAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authService.Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			return
		}
		if !authService.ValidateAdminToken(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired admin token"})
			return
		}

		c.Set("role", "admin")
		c.Next()
	}
}
