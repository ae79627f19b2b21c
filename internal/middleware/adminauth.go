package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/askfloor/backend/pkg/response"
)

// AdminBasicAuth guards the installation-wide dashboard with HTTP basic auth.
// Only the password half of the credentials matters; it is the shared secret
// from the environment, unrelated to per-session admin passwords.
func AdminBasicAuth(password string) gin.HandlerFunc {
	secret := []byte(password)
	return func(c *gin.Context) {
		_, supplied, ok := c.Request.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(supplied), secret) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="Login Required"`)
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}
