package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/mapscraper/internal/logs"
)

const defaultLogLimit = 100

// LogsHandler serves the in-memory dashboard log buffer.
type LogsHandler struct {
	buffer *logs.Buffer
}

// NewLogsHandler creates a logs handler.
func NewLogsHandler(buffer *logs.Buffer) *LogsHandler {
	return &LogsHandler{buffer: buffer}
}

// Logs handles GET /logs?limit=
func (h *LogsHandler) Logs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLogLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLogLimit
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  h.buffer.Recent(limit),
		"total": h.buffer.Written(),
	})
}
