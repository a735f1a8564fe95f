package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// RecoveryConfig holds configuration for the recovery middleware
type RecoveryConfig struct {
	// Logger is the logger instance to use
	Logger *logger.Logger

	// StackTraceSize is the maximum size of stack trace to log, 0 disables it
	StackTraceSize int
}

// DefaultRecoveryConfig returns a default recovery configuration
func DefaultRecoveryConfig() *RecoveryConfig {
	return &RecoveryConfig{StackTraceSize: 4096}
}

// RecoveryMiddleware returns a Gin middleware for panic recovery with logging
func RecoveryMiddleware() gin.HandlerFunc {
	return RecoveryMiddlewareWithConfig(DefaultRecoveryConfig())
}

// RecoveryMiddlewareWithConfig returns a panic recovery middleware with custom configuration
func RecoveryMiddlewareWithConfig(cfg *RecoveryConfig) gin.HandlerFunc {
	if cfg == nil {
		cfg = DefaultRecoveryConfig()
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			log := cfg.Logger
			if log == nil {
				log = logger.Get()
			}

			fields := []logger.Field{
				logger.Any("panic", rec),
				logger.Method(c.Request.Method),
				logger.Path(c.Request.URL.Path),
				logger.ClientIP(c.ClientIP()),
			}
			if id := GetRequestID(c); id != "" {
				fields = append(fields, logger.RequestID(id))
			}
			if id := GetTraceID(c); id != "" {
				fields = append(fields, logger.TraceID(id))
			}
			if cfg.StackTraceSize > 0 {
				stack := debug.Stack()
				if len(stack) > cfg.StackTraceSize {
					stack = stack[:cfg.StackTraceSize]
				}
				fields = append(fields, logger.String("stacktrace", string(stack)))
			}
			log.Error("Panic recovered", fields...)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "internal_error",
				Message: "An unexpected error occurred",
			})
		}()

		c.Next()
	}
}
