// Package api wires the HTTP routes for the scraper control plane.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/mapscraper/internal/events"
	"github.com/jonesrussell/mapscraper/internal/handlers"
	"github.com/jonesrussell/mapscraper/internal/logger"
	"github.com/jonesrussell/mapscraper/internal/logs"
	"github.com/jonesrussell/mapscraper/internal/metrics"
	"github.com/jonesrussell/mapscraper/internal/monitoring"
	"github.com/jonesrussell/mapscraper/internal/repository"
	"github.com/jonesrussell/mapscraper/internal/scraper"
	"github.com/jonesrussell/mapscraper/internal/settings"
)

const corsMaxAgeHours = 12

// Deps holds everything the router needs.
type Deps struct {
	Keywords  *repository.KeywordRepository
	Uploads   *repository.UploadHistoryRepository
	Engine    *scraper.Engine
	Settings  *settings.Store
	LogBuffer *logs.Buffer
	Monitor   *monitoring.Monitor
	Publisher *events.Publisher
	Logger    logger.Logger

	// AllowOrigins overrides the default CORS origins when non-empty.
	AllowOrigins []string
}

// NewRouter builds the gin engine with all dashboard endpoints.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()

	origins := deps.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	// CORS middleware - must be first
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"X-CSRF-Token", "Authorization", "accept", "origin",
			"Cache-Control", "X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeHours * time.Hour,
	}))

	tracker := metrics.NewTracker()
	router.Use(tracker.Middleware())
	router.Use(ginLogger(deps.Logger))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	keywordHandler := handlers.NewKeywordHandler(deps.Keywords, deps.Uploads, deps.Publisher, deps.Logger)
	controlHandler := handlers.NewControlHandler(deps.Engine, deps.Publisher, deps.Logger)
	metricsHandler := handlers.NewMetricsHandler(deps.Keywords, deps.Monitor, deps.Logger)
	logsHandler := handlers.NewLogsHandler(deps.LogBuffer)
	configHandler := handlers.NewConfigHandler(deps.Settings, deps.Logger)

	keywords := router.Group("/keywords")
	keywords.GET("", keywordHandler.List)
	keywords.POST("/upload", keywordHandler.Upload)
	keywords.GET("/upload-history", keywordHandler.UploadHistory)
	keywords.POST("/reset-failed", keywordHandler.ResetFailed)
	keywords.POST("/reset-skipped", keywordHandler.ResetSkipped)
	keywords.POST("/reset-all", keywordHandler.ResetAll)

	router.POST("/control/:action", controlHandler.Control)
	router.GET("/status", controlHandler.Status)
	router.GET("/metrics", metricsHandler.Metrics)
	router.GET("/metrics/prometheus", tracker.Handler())
	router.GET("/logs", logsHandler.Logs)
	router.GET("/config", configHandler.Get)
	router.POST("/config", configHandler.Update)

	return router
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", statusCode),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", duration),
		)
	}
}
