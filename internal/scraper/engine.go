// Package scraper drives the keyword processing job: one background loop
// claiming pending keywords, with start/stop/pause/resume control and
// watchdog auto-recovery. The actual Google Maps scraping is not
// implemented here; a Processor is injected.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonesrussell/mapscraper/internal/logger"
	"github.com/jonesrussell/mapscraper/internal/models"
	"github.com/jonesrussell/mapscraper/internal/repository"
	"github.com/jonesrussell/mapscraper/internal/settings"
)

const (
	defaultKeywordTimeout  = 180 * time.Second
	defaultWatchdogTimeout = 60 * time.Second
	watchdogCheckInterval  = 10 * time.Second
	stopDrainTimeout       = 30 * time.Second
)

// Processor performs the scraping work for one keyword. A nil return
// marks the keyword done; context deadline expiry marks it skipped; any
// other error marks it failed.
type Processor interface {
	Process(ctx context.Context, kw models.Keyword) error
}

// Recoverer is optionally implemented by processors that can rebuild
// their state (restart a browser, reconnect) when the watchdog fires.
type Recoverer interface {
	Recover(ctx context.Context) error
}

// KeywordStore is the slice of the repository the engine needs.
type KeywordStore interface {
	ClaimNextPending(ctx context.Context) (*models.Keyword, error)
	SetStatus(ctx context.Context, id string, to models.KeywordStatus) error
	ResetProcessing(ctx context.Context) (int, error)
}

// Engine owns the job status and the processing loop.
type Engine struct {
	store     KeywordStore
	processor Processor
	settings  *settings.Store
	logger    logger.Logger

	mu               sync.Mutex
	cond             *sync.Cond
	status           models.JobStatus
	current          string
	processed        int
	startedAt        time.Time
	lastProgress     time.Time
	watchdogRestarts int

	// watchdogInterval is how often the watchdog checks for stalled
	// progress. Tests shorten it.
	watchdogInterval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an idle engine.
func New(store KeywordStore, proc Processor, st *settings.Store, log logger.Logger) *Engine {
	e := &Engine{
		store:            store,
		processor:        proc,
		settings:         st,
		logger:           log,
		status:           models.JobIdle,
		watchdogInterval: watchdogCheckInterval,
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Control dispatches a named control action.
func (e *Engine) Control(action models.ControlAction) error {
	switch action {
	case models.ActionStart:
		return e.Start()
	case models.ActionStop:
		return e.Stop()
	case models.ActionPause:
		return e.Pause()
	case models.ActionResume:
		return e.Resume()
	default:
		return fmt.Errorf("unknown control action %q", action)
	}
}

// Start launches the processing loop. Valid from idle, stopped, or error.
// Keywords stuck in processing from an interrupted run are rescued back
// to pending first.
func (e *Engine) Start() error {
	e.mu.Lock()
	if err := models.ValidateJobTransition(e.status, models.JobRunning); err != nil {
		e.mu.Unlock()
		return err
	}

	if rescued, err := e.store.ResetProcessing(context.Background()); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("rescue stuck keywords: %w", err)
	} else if rescued > 0 {
		e.logger.Info("Rescued stuck keywords",
			logger.Int("count", rescued),
		)
	}

	e.status = models.JobRunning
	e.processed = 0
	e.current = ""
	e.startedAt = time.Now()
	e.lastProgress = time.Now()
	e.watchdogRestarts = 0

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.mu.Unlock()

	e.wg.Add(2)
	go e.run(ctx)
	go e.watchdog(ctx)

	e.logger.Info("Scraper started")
	return nil
}

// Stop halts the loop. The in-flight keyword is interrupted and keeps
// its processing status; the next start rescues it back to pending.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if err := models.ValidateJobTransition(e.status, models.JobStopped); err != nil {
		e.mu.Unlock()
		return err
	}
	e.status = models.JobStopped
	e.current = ""
	cancel := e.cancel
	e.cond.Broadcast() // unblock a paused loop so it can exit
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(stopDrainTimeout):
		e.logger.Warn("Scraper stop drain timed out")
	}

	e.logger.Info("Scraper stopped")
	return nil
}

// Pause blocks the loop before the next keyword. The in-flight keyword
// finishes first.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := models.ValidateJobTransition(e.status, models.JobPaused); err != nil {
		return err
	}
	e.status = models.JobPaused
	e.logger.Info("Scraper paused")
	return nil
}

// Resume unblocks a paused loop. Resuming an engine whose loop has
// already exited behaves like Start, matching the dashboard's resume
// button semantics.
func (e *Engine) Resume() error {
	e.mu.Lock()
	if e.status != models.JobPaused {
		status := e.status
		e.mu.Unlock()
		if status == models.JobIdle || status == models.JobStopped || status == models.JobError {
			return e.Start()
		}
		return fmt.Errorf("invalid job transition from %s to %s", status, models.JobRunning)
	}
	e.status = models.JobRunning
	e.cond.Broadcast()
	e.mu.Unlock()

	e.logger.Info("Scraper resumed")
	return nil
}

// State returns the status payload for GET /status.
func (e *Engine) State() models.JobState {
	e.mu.Lock()
	defer e.mu.Unlock()

	uptime := "0s"
	if e.status == models.JobRunning || e.status == models.JobPaused {
		uptime = time.Since(e.startedAt).Round(time.Second).String()
	}

	return models.JobState{
		Status:           e.status,
		CurrentKeyword:   e.current,
		Processed:        e.processed,
		Uptime:           uptime,
		WatchdogRestarts: e.watchdogRestarts,
		StartedAt:        e.startedAt,
	}
}

// run is the processing loop. It exits when the context is cancelled or
// the pending set drains.
func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	for {
		if !e.waitWhilePaused(ctx) {
			return
		}

		kw, err := e.store.ClaimNextPending(ctx)
		if errors.Is(err, repository.ErrNoPending) {
			e.finish(models.JobIdle)
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			e.logger.Error("Failed to claim keyword", logger.Error(err))
			e.finish(models.JobError)
			return
		}

		e.mu.Lock()
		e.current = kw.Text
		e.mu.Unlock()

		e.processKeyword(ctx, *kw)

		e.mu.Lock()
		e.processed++
		e.lastProgress = time.Now()
		e.mu.Unlock()
	}
}

// processKeyword runs the processor under the configured per-keyword
// timeout and records the terminal status.
func (e *Engine) processKeyword(ctx context.Context, kw models.Keyword) {
	timeout := defaultKeywordTimeout
	if e.settings != nil {
		cfg := e.settings.Load()
		timeout = time.Duration(cfg.IntValue("max_keyword_timeout", int(defaultKeywordTimeout/time.Second))) * time.Second
	}

	procCtx, cancel := context.WithTimeout(ctx, timeout)
	err := e.processor.Process(procCtx, kw)
	cancel()

	// Stop cancels the run context mid-keyword. That is an interruption,
	// not a scrape outcome: the record stays processing and the next
	// start rescues it back to pending.
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return
	}

	terminal := models.StatusDone
	switch {
	case err == nil:
		terminal = models.StatusDone
	case errors.Is(err, context.DeadlineExceeded):
		terminal = models.StatusSkipped
		e.logger.Warn("Keyword timed out, skipping",
			logger.String("keyword", kw.Text),
			logger.Duration("timeout", timeout),
		)
	default:
		terminal = models.StatusFailed
		e.logger.Error("Keyword failed",
			logger.String("keyword", kw.Text),
			logger.Error(err),
		)
	}

	// Status writes use a fresh context: a cancelled run must still
	// record the outcome of the drained keyword.
	if setErr := e.store.SetStatus(context.Background(), kw.ID, terminal); setErr != nil {
		e.logger.Error("Failed to record keyword outcome",
			logger.String("keyword_id", kw.ID),
			logger.Error(setErr),
		)
	}
}

// waitWhilePaused blocks while the engine is paused. Returns false when
// the loop should exit instead of continuing.
func (e *Engine) waitWhilePaused(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for e.status == models.JobPaused && ctx.Err() == nil {
		e.cond.Wait()
	}
	return e.status == models.JobRunning && ctx.Err() == nil
}

// finish records the loop's terminal status, unless a control action
// (stop) already moved the job elsewhere. Cancelling here also winds
// down the watchdog.
func (e *Engine) finish(to models.JobStatus) {
	e.mu.Lock()
	if e.status == models.JobRunning || e.status == models.JobPaused {
		e.status = to
		e.current = ""
	}
	cancel := e.cancel
	e.cond.Broadcast()
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// watchdog monitors progress and triggers processor recovery when the
// loop stalls. If recovery fails the job moves to error.
func (e *Engine) watchdog(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.watchdogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		timeout := defaultWatchdogTimeout
		if e.settings != nil {
			cfg := e.settings.Load()
			timeout = time.Duration(cfg.IntValue("watchdog_timeout", int(defaultWatchdogTimeout/time.Second))) * time.Second
		}

		e.mu.Lock()
		stalled := e.status == models.JobRunning && time.Since(e.lastProgress) > timeout
		e.mu.Unlock()
		if !stalled {
			continue
		}

		e.logger.Warn("Watchdog: no progress, triggering recovery",
			logger.Duration("timeout", timeout),
		)

		e.mu.Lock()
		e.watchdogRestarts++
		e.mu.Unlock()

		rec, ok := e.processor.(Recoverer)
		if !ok {
			e.logger.Error("Watchdog: processor has no recovery hook")
			continue
		}

		if err := rec.Recover(ctx); err != nil {
			e.logger.Error("Watchdog: recovery failed", logger.Error(err))
			e.finish(models.JobError)
			return
		}

		e.mu.Lock()
		e.lastProgress = time.Now()
		e.mu.Unlock()
		e.logger.Info("Watchdog: recovery completed")
	}
}
