package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/askfloor/backend/internal/voter"
)

// ContextVoterID is the key for the voter id in gin context.
const ContextVoterID = "voter_id"

// Voter ensures every browser carries a signed voter identity cookie and
// places the voter id in the request context. The identity persists across
// reconnects within the same browser session, keeping upvotes idempotent per
// client.
func Voter(voters *voter.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(voter.CookieName); err == nil {
			if voterID, err := voters.Validate(cookie); err == nil {
				c.Set(ContextVoterID, voterID)
				c.Next()
				return
			}
		}

		token, voterID, err := voters.Issue()
		if err != nil {
			logger.Error("issue voter token", zap.Error(err))
			c.Next()
			return
		}
		c.SetCookie(voter.CookieName, token, 0, "/", "", false, true)
		c.Set(ContextVoterID, voterID)
		c.Next()
	}
}

// VoterID returns the request's voter id, or empty when unavailable.
func VoterID(c *gin.Context) string {
	if v, ok := c.Get(ContextVoterID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
