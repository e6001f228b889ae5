package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	contextKeyUserID    = "user_id"
	contextKeySessionID = "session_id"
	contextKeyRole      = "role"
	contextKeyName      = "name"
)

// AuthRequired resolves the session cookie to an identity and attaches it
// to the request context. Requests without a valid session are rejected.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		identity, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextKeyUserID, identity.UserID.String())
		c.Set(contextKeySessionID, identity.SessionID.String())
		c.Set(contextKeyRole, identity.Role)
		c.Set(contextKeyName, identity.Name)

		c.Next()
	}
}

// requireAuthz checks the request role against the policy layer. It must
// run after AuthRequired.
func (s *Server) requireAuthz(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(contextKeyRole)
		if err := s.authzSvc.Authorize(c.Request.Context(), role, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// redeemRateLimit throttles redemption attempts per user. It fails open
// when the limiter is disabled or redis is unavailable.
func (s *Server) redeemRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.redeemLimiter.Enabled() {
			c.Next()
			return
		}

		userID := c.GetString(contextKeyUserID)
		result, err := s.redeemLimiter.AllowUser(c.Request.Context(), userID)
		if err != nil {
			s.log.Warn("redeem rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			AbortWithError(c, ErrRateLimited)
			return
		}

		c.Next()
	}
}
