// Package client provides an HTTP client for the scraper control
// plane, used by the CLI and the dashboard pollers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonesrussell/mapscraper/internal/logs"
	"github.com/jonesrussell/mapscraper/internal/models"
	"github.com/jonesrussell/mapscraper/internal/settings"
)

const (
	// DefaultBaseURL is the default address of the control plane.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds every request. Uploads of large keyword
	// files can take a while, so this is deliberately generous.
	DefaultTimeout = 60 * time.Second
)

// Client talks to the control-plane HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a function that configures a Client.
type Option func(*Client)

// WithBaseURL sets the base URL for the client.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a control-plane client.
func New(opts ...Option) *Client {
	client := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Status fetches the current job state.
func (c *Client) Status(ctx context.Context) (*models.JobState, error) {
	var state models.JobState
	if err := c.get(ctx, "status", "/status", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Metrics fetches aggregate keyword counts and system stats.
func (c *Client) Metrics(ctx context.Context) (*models.MetricsSnapshot, error) {
	var snapshot models.MetricsSnapshot
	if err := c.get(ctx, "metrics", "/metrics", nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

type logsResponse struct {
	Logs  []logs.Entry `json:"logs"`
	Total int          `json:"total"`
}

// Logs fetches the most recent dashboard log entries.
func (c *Client) Logs(ctx context.Context, limit int) ([]logs.Entry, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var response logsResponse
	if err := c.get(ctx, "logs", "/logs", query, &response); err != nil {
		return nil, err
	}
	return response.Logs, nil
}

// Keywords fetches one page of keywords, optionally filtered by
// status.
func (c *Client) Keywords(ctx context.Context, page, limit int, status models.KeywordStatus) (*models.KeywordPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if status != "" {
		query.Set("status", string(status))
	}
	var result models.KeywordPage
	if err := c.get(ctx, "keywords", "/keywords", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Upload sends a keyword file. Replace mode is refused locally unless
// confirmed, so a typo in a script cannot wipe the keyword set.
func (c *Client) Upload(
	ctx context.Context,
	filename string,
	content io.Reader,
	mode models.IngestMode,
	confirmed bool,
) (*models.OperationResult, error) {
	const op = "upload"

	if mode.Destructive() && !confirmed {
		return nil, &ValidationError{
			Op:     op,
			Detail: "replace mode deletes all keywords; pass the confirmation flag to proceed",
		}
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: build form: %w", op, err)
	}
	if _, err = io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("%s: read file: %w", op, err)
	}
	if err = writer.WriteField("mode", string(mode)); err != nil {
		return nil, fmt.Errorf("%s: build form: %w", op, err)
	}
	if mode.Destructive() {
		if err = writer.WriteField("confirm", models.ReplaceConfirmToken); err != nil {
			return nil, fmt.Errorf("%s: build form: %w", op, err)
		}
	}
	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("%s: build form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/keywords/upload", body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.doOperation(op, req)
}

// ResetFailed resets all failed keywords back to pending.
func (c *Client) ResetFailed(ctx context.Context) (*models.OperationResult, error) {
	return c.post(ctx, "reset-failed", "/keywords/reset-failed")
}

// ResetSkipped resets all skipped keywords back to pending.
func (c *Client) ResetSkipped(ctx context.Context) (*models.OperationResult, error) {
	return c.post(ctx, "reset-skipped", "/keywords/reset-skipped")
}

// ResetAll resets every non-done keyword back to pending.
func (c *Client) ResetAll(ctx context.Context) (*models.OperationResult, error) {
	return c.post(ctx, "reset-all", "/keywords/reset-all")
}

// Control sends a job control action.
func (c *Client) Control(ctx context.Context, action models.ControlAction) (*models.OperationResult, error) {
	return c.post(ctx, "control "+string(action), "/control/"+string(action))
}

// GetConfig fetches the runtime scraper settings.
func (c *Client) GetConfig(ctx context.Context) (settings.Settings, error) {
	var result settings.Settings
	if err := c.get(ctx, "config", "/config", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateConfig merges the given settings on the server and returns
// the full merged set.
func (c *Client) UpdateConfig(ctx context.Context, updates settings.Settings) (settings.Settings, error) {
	const op = "update config"

	payload, err := json.Marshal(updates)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal settings: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/config", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result settings.Settings
	if err = c.do(op, req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}

	return c.do(op, req, out)
}

func (c *Client) post(ctx context.Context, op, path string) (*models.OperationResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	return c.doOperation(op, req)
}

func (c *Client) doOperation(op string, req *http.Request) (*models.OperationResult, error) {
	var result models.OperationResult
	if err := c.do(op, req, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, &EmptyResultError{Op: op, Message: result.Message}
	}
	return &result, nil
}

// do executes the request and normalizes failures into the client
// error taxonomy.
func (c *Client) do(op string, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return &ServerError{Op: op, StatusCode: resp.StatusCode, Detail: errorDetail(body)}
	case resp.StatusCode >= http.StatusBadRequest:
		return &ValidationError{Op: op, StatusCode: resp.StatusCode, Detail: errorDetail(body)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// errorDetail extracts the server's error message from a failure
// body, tolerating both the gin envelope and plain text.
func errorDetail(body []byte) string {
	var envelope struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Detail != "" {
			return envelope.Detail
		}
	}
	return ""
}
