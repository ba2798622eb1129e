package api

import (
	"context"
	"net/http"
	"time"

	"booking-core/internal/handler/httperr"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthTimeout = 2 * time.Second

// PingFunc checks one backing dependency.
type PingFunc func(ctx context.Context) error

type HoldSweeper interface {
	ReleaseExpiredHolds(ctx context.Context) (int, error)
}

type OpsHandler struct {
	checks   map[string]PingFunc
	sweeper  HoldSweeper
	registry *prometheus.Registry
}

func NewOpsHandler(checks map[string]PingFunc, sweeper HoldSweeper, registry *prometheus.Registry) *OpsHandler {
	return &OpsHandler{checks: checks, sweeper: sweeper, registry: registry}
}

// Healthz pings every dependency and reports 503 when any of them fails.
func (h *OpsHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(h.checks))
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "checks": results})
}

func (h *OpsHandler) Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{Registry: h.registry}))
}

// ReleaseHolds runs one expired-hold sweep on demand.
func (h *OpsHandler) ReleaseHolds(c *gin.Context) {
	n, err := h.sweeper.ReleaseExpiredHolds(c.Request.Context())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": n})
}
