package middleware

import (
	"strconv"

	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadRateLimit applies the per-IP upload limiter. Redis errors let the
// request through.
func UploadRateLimit(limiter *security.UploadLimiter, logger *zap.Logger, audit *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("upload rate limiter unavailable",
				zap.String("request_id", c.GetString(response.RequestIDKey)),
				zap.Error(err),
			)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		if !allowed {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			audit.LogRateLimitTriggered(c.Request.Context(), AuditInfo(c), c.FullPath())
			response.AppError(c, apperror.TooManyRequests("Too many uploads. Please try again later."))
			c.Abort()
			return
		}

		c.Next()
	}
}
