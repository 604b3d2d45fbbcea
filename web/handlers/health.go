package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthChecker reports whether the upstream AI service is reachable.
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

type HealthHandler struct {
	upstream HealthChecker
	logger   *zap.Logger
}

func NewHealthHandler(upstream HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		upstream: upstream,
		logger:   logger,
	}
}

// Health reports service liveness. The upstream probe is best-effort and
// never fails the endpoint; a degraded upstream is reported in the body.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := gin.H{"status": "ok"}
	if err := h.upstream.Healthy(ctx); err != nil {
		h.logger.Warn("Upstream health probe failed", zap.Error(err))
		status["upstream"] = "unavailable"
	} else {
		status["upstream"] = "ok"
	}

	c.JSON(http.StatusOK, status)
}
