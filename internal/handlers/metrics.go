package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/mapscraper/internal/logger"
	"github.com/jonesrussell/mapscraper/internal/monitoring"
	"github.com/jonesrussell/mapscraper/internal/repository"
)

// MetricsHandler serves aggregate keyword counts plus system stats.
type MetricsHandler struct {
	keywords *repository.KeywordRepository
	monitor  *monitoring.Monitor
	logger   logger.Logger
}

// NewMetricsHandler creates a metrics handler.
func NewMetricsHandler(keywords *repository.KeywordRepository, monitor *monitoring.Monitor, log logger.Logger) *MetricsHandler {
	return &MetricsHandler{keywords: keywords, monitor: monitor, logger: log}
}

// Metrics handles GET /metrics. Counts are recomputed on every request
// so pollers never see a stale cache.
func (h *MetricsHandler) Metrics(c *gin.Context) {
	snapshot, err := h.keywords.CountsByStatus(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute metrics", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute metrics"})
		return
	}

	snapshot.System = h.monitor.Snapshot()

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, snapshot)
}
