package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/pkg/logger"
)

// Pinger checks a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerReporter reports circuit breaker state per upstream host
type BreakerReporter interface {
	BreakerStates() map[string]string
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string            `json:"status"`
	Database string            `json:"database"`
	Breakers map[string]string `json:"breakers,omitempty"`
}

// HealthHandler reports database reachability and readme fetch breakers
type HealthHandler struct {
	db       Pinger
	breakers BreakerReporter
	log      *logger.Logger
}

// NewHealthHandler creates a new HealthHandler. breakers may be nil.
func NewHealthHandler(db Pinger, breakers BreakerReporter) *HealthHandler {
	return &HealthHandler{
		db:       db,
		breakers: breakers,
		log:      logger.Get().WithFields(logger.Component("health")),
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Database: "ok"}
	if h.breakers != nil {
		resp.Breakers = h.breakers.BreakerStates()
	}

	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("database ping failed", logger.Error(err))
		resp.Status = "degraded"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
