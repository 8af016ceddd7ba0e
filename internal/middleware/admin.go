package middleware

import (
	"net/http"

	"payfesa/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route group to the given roles. Must run after
// AuthRequired, which puts the token's role into the context.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		have, _ := c.Get("role")
		haveRole, _ := have.(string)
		for _, want := range roles {
			if haveRole == want {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// AdminRequired gates the operator surface: batch jobs, KYC review,
// disbursements, settings.
func AdminRequired() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
