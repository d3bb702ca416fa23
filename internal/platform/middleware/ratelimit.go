package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/havenstay/service-rental/internal/platform/ratelimit"
	"github.com/havenstay/service-rental/internal/platform/response"
)

// RateLimit limits requests per client IP. When the limiter backend fails
// the request is let through.
func RateLimit(limiter *ratelimit.Limiter, message string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("RateLimit-Limit", strconv.Itoa(limiter.Max()))
		c.Header("RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			response.Message(c, http.StatusTooManyRequests, message)
			return
		}
		c.Next()
	}
}
