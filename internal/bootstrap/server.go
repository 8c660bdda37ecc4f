package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonesrussell/mapscraper/internal/api"
	"github.com/jonesrussell/mapscraper/internal/config"
	"github.com/jonesrussell/mapscraper/internal/database"
	"github.com/jonesrussell/mapscraper/internal/events"
	"github.com/jonesrussell/mapscraper/internal/logger"
	"github.com/jonesrussell/mapscraper/internal/logs"
	"github.com/jonesrussell/mapscraper/internal/models"
	"github.com/jonesrussell/mapscraper/internal/monitoring"
	"github.com/jonesrussell/mapscraper/internal/repository"
	"github.com/jonesrussell/mapscraper/internal/scraper"
	"github.com/jonesrussell/mapscraper/internal/settings"
)

// workerRequestTimeout bounds a single worker HTTP call. The engine
// enforces the per-keyword timeout from settings on top of this.
const workerRequestTimeout = 10 * time.Minute

// SetupHTTPServer wires repositories, the scraper engine, and the
// router into an HTTP server.
func SetupHTTPServer(
	cfg *config.Config,
	db *database.DB,
	logBuffer *logs.Buffer,
	publisher *events.Publisher,
	log logger.Logger,
) (*http.Server, *scraper.Engine) {
	keywordRepo := repository.NewKeywordRepository(db.DB(), log)
	uploadRepo := repository.NewUploadHistoryRepository(db.DB())
	settingsStore := settings.NewStore(cfg.Scraper.SettingsPath)

	processor := scraper.NewHTTPProcessor(cfg.Scraper.WorkerURL, workerRequestTimeout)
	engine := scraper.New(keywordRepo, processor, settingsStore, log)

	router := api.NewRouter(api.Deps{
		Keywords:     keywordRepo,
		Uploads:      uploadRepo,
		Engine:       engine,
		Settings:     settingsStore,
		LogBuffer:    logBuffer,
		Monitor:      monitoring.NewMonitor(),
		Publisher:    publisher,
		Logger:       log,
		AllowOrigins: cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return server, engine
}

// Run serves until SIGINT or SIGTERM, then drains the scraper engine
// and shuts the HTTP server down gracefully.
func Run(server *http.Server, engine *scraper.Engine, cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received")

	if err := engine.Control(models.ActionStop); err != nil {
		// Already idle or stopped; nothing to drain.
		log.Debug("Engine stop on shutdown", logger.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
