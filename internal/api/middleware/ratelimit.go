package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/logger"
	"github.com/jlin/promptfinder/internal/ratelimit"
)

// RateLimit gates the request against the caller's quota for the named
// endpoint. Must run after RequireAuth so the identity and tier are known.
// The admission is recorded before the handler runs: a failed generation
// still consumes quota.
func RateLimit(limiter *ratelimit.Limiter, endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthorized", "message": "authentication required"},
			})
			return
		}

		decision, err := limiter.Admit(c.Request.Context(), identity.UserID, endpoint, identity.Tier)
		if err != nil {
			logger.FromContext(c.Request.Context()).WithError(err).Error("rate limit check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": string(apperr.CodeStorageFailure), "message": "could not verify request limit"},
			})
			return
		}

		if !decision.Allowed {
			rl := apperr.RateLimited(decision.RetryAfter)
			retryAfter := int(rl.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":        string(apperr.CodeRateLimited),
					"message":     rl.Message,
					"retry_after": retryAfter,
				},
			})
			return
		}

		c.Next()
	}
}
