package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/logger"
)

// respondError maps a taxonomy error to an HTTP status and a machine-readable
// body of the form {"error": {"code", "message"}}. Unknown errors become 500.
func respondError(c *gin.Context, err error) {
	var rl *apperr.RateLimitedError
	if errors.As(err, &rl) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": gin.H{
				"code":        string(apperr.CodeRateLimited),
				"message":     rl.Message,
				"retry_after": int(rl.RetryAfter.Seconds()),
			},
		})
		return
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(statusFor(appErr.Code), gin.H{
			"error": gin.H{
				"code":    string(appErr.Code),
				"message": appErr.Message,
			},
		})
		return
	}

	logger.FromContext(c.Request.Context()).WithError(err).Error("unclassified handler error")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "internal_error",
			"message": "something went wrong",
		},
	})
}

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeRateLimited:
		return http.StatusTooManyRequests
	case apperr.CodeUpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
