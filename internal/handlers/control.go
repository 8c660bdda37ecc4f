package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/mapscraper/internal/events"
	"github.com/jonesrussell/mapscraper/internal/logger"
	"github.com/jonesrussell/mapscraper/internal/models"
	"github.com/jonesrussell/mapscraper/internal/scraper"
)

// ControlHandler exposes the scraper job controls and status.
type ControlHandler struct {
	engine    *scraper.Engine
	publisher *events.Publisher
	logger    logger.Logger
}

// NewControlHandler creates a control handler.
func NewControlHandler(engine *scraper.Engine, publisher *events.Publisher, log logger.Logger) *ControlHandler {
	return &ControlHandler{engine: engine, publisher: publisher, logger: log}
}

// Control handles POST /control/:action.
func (h *ControlHandler) Control(c *gin.Context) {
	action, err := models.ParseControlAction(c.Param("action"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if ctrlErr := h.engine.Control(action); ctrlErr != nil {
		h.logger.Warn("Control action rejected",
			logger.String("action", string(action)),
			logger.Error(ctrlErr),
		)
		c.JSON(http.StatusConflict, gin.H{"error": ctrlErr.Error()})
		return
	}

	h.publisher.PublishAsync(events.Event{
		EventType: events.EventControl,
		Action:    action,
	})

	c.JSON(http.StatusOK, models.OperationResult{
		Success: true,
		Message: fmt.Sprintf("Scraper %s accepted.", action),
	})
}

// Status handles GET /status.
func (h *ControlHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.State())
}
