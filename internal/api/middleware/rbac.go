package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoleAdmin passes every role check.
const RoleAdmin = "admin"

func deny(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

// RequireRole limits a route to the given roles. It reads the role that
// RequireAuth stored on the context, so it must run after it.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles)+1)
	allowed[RoleAdmin] = struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := c.Get("user_role")
		if !ok {
			deny(c, http.StatusUnauthorized, "Unauthorized.")
			return
		}
		name, _ := role.(string)
		if _, ok := allowed[name]; !ok {
			deny(c, http.StatusForbidden, "You lack the required permissions.")
			return
		}
		c.Next()
	}
}
