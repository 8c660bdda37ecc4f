package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/mapscraper/internal/logger"
	"github.com/jonesrussell/mapscraper/internal/settings"
)

// ConfigHandler serves the runtime scraper settings.
type ConfigHandler struct {
	store  *settings.Store
	logger logger.Logger
}

// NewConfigHandler creates a config handler.
func NewConfigHandler(store *settings.Store, log logger.Logger) *ConfigHandler {
	return &ConfigHandler{store: store, logger: log}
}

// Get handles GET /config.
func (h *ConfigHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Load())
}

// Update handles POST /config. Unknown keys are stored as-is so the
// worker can carry settings this service does not interpret.
func (h *ConfigHandler) Update(c *gin.Context) {
	var updates settings.Settings
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}

	merged, err := h.store.Update(updates)
	if err != nil {
		h.logger.Error("Failed to persist settings", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist settings"})
		return
	}

	c.JSON(http.StatusOK, merged)
}
