package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonesrussell/mapscraper/internal/models"
)

// HTTPProcessor forwards each keyword to an external scrape worker over
// HTTP. The worker does the actual browser work; a non-2xx response or
// transport failure marks the keyword failed, and the engine's timeout
// turns into skipped.
type HTTPProcessor struct {
	workerURL  string
	httpClient *http.Client
}

// NewHTTPProcessor creates a processor posting to the given worker URL.
func NewHTTPProcessor(workerURL string, timeout time.Duration) *HTTPProcessor {
	return &HTTPProcessor{
		workerURL: workerURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Process posts the keyword to the worker and waits for completion.
func (p *HTTPProcessor) Process(ctx context.Context, kw models.Keyword) error {
	body, err := json.Marshal(map[string]string{
		"id":      kw.ID,
		"keyword": kw.Text,
		"city":    kw.City,
	})
	if err != nil {
		return fmt.Errorf("marshal keyword: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.workerURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create worker request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		// Surface the context error so timeouts map to skipped.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("worker request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("worker returned status %d: %s", resp.StatusCode, payload)
	}

	return nil
}

// Recover asks the worker to rebuild its browser state.
func (p *HTTPProcessor) Recover(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.workerURL+"/recover", http.NoBody)
	if err != nil {
		return fmt.Errorf("create recover request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("recover request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("recover returned status %d", resp.StatusCode)
	}
	return nil
}

// NoopProcessor marks every keyword done after a fixed delay. Used for
// dry runs when no worker URL is configured.
type NoopProcessor struct {
	Delay time.Duration
}

// Process waits out the delay, honoring cancellation.
func (p *NoopProcessor) Process(ctx context.Context, _ models.Keyword) error {
	if p.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(p.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
