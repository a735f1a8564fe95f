package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/infrastructure/cache"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// Limiter decides whether a client may make another request
type Limiter interface {
	Allow(ctx context.Context, key string) (cache.Decision, error)
}

// RateLimitMiddleware limits requests per client IP. Requests are let
// through when the limiter itself fails.
func RateLimitMiddleware(limiter Limiter) gin.HandlerFunc {
	log := logger.Get().WithFields(logger.Component("rate-limit"))

	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("rate limiter unavailable", logger.ClientIP(c.ClientIP()), logger.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retry := time.Until(decision.ResetAt).Round(time.Second)
			if retry < time.Second {
				retry = time.Second
			}
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error:   "too_many_requests",
				Message: "Too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}
