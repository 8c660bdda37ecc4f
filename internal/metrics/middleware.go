// Package metrics tracks per-route HTTP request metrics and exposes
// them in Prometheus text format.
package metrics

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Tracker accumulates request counts, durations, and error counts
// keyed by method and route pattern.
type Tracker struct {
	mu              sync.RWMutex
	requestCount    map[string]int64
	requestDuration map[string]time.Duration
	requestErrors   map[string]int64
	activeRequests  int64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		requestCount:    make(map[string]int64),
		requestDuration: make(map[string]time.Duration),
		requestErrors:   make(map[string]int64),
	}
}

// Middleware returns gin middleware that records metrics for every
// request. Keys use the route pattern, so /keywords?page=2 and
// /keywords?page=3 share one series.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		t.mu.Lock()
		t.activeRequests++
		t.mu.Unlock()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := c.Request.Method + " " + path

		duration := time.Since(start)
		t.mu.Lock()
		t.requestCount[key]++
		t.requestDuration[key] += duration
		if c.Writer.Status() >= 400 {
			t.requestErrors[key]++
		}
		t.activeRequests--
		t.mu.Unlock()
	}
}

// RequestCount returns the request count for a method and route.
func (t *Tracker) RequestCount(method, path string) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.requestCount[method+" "+path]
}

// RequestErrors returns the error count for a method and route.
func (t *Tracker) RequestErrors(method, path string) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.requestErrors[method+" "+path]
}

// ActiveRequests returns the number of in-flight requests.
func (t *Tracker) ActiveRequests() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeRequests
}

// Handler returns a gin handler exposing the tracker in Prometheus
// text format.
func (t *Tracker) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		t.mu.RLock()
		defer t.mu.RUnlock()

		var b strings.Builder

		b.WriteString("# HELP http_active_requests Number of currently active HTTP requests\n")
		b.WriteString("# TYPE http_active_requests gauge\n")
		b.WriteString("http_active_requests " + strconv.FormatInt(t.activeRequests, 10) + "\n\n")

		b.WriteString("# HELP http_requests_total Total number of HTTP requests\n")
		b.WriteString("# TYPE http_requests_total counter\n")
		for key, count := range t.requestCount {
			method, path := splitKey(key)
			b.WriteString(`http_requests_total{method="` + method + `",path="` + path + `"} `)
			b.WriteString(strconv.FormatInt(count, 10) + "\n")
		}
		b.WriteString("\n")

		b.WriteString("# HELP http_request_duration_seconds Total HTTP request duration in seconds\n")
		b.WriteString("# TYPE http_request_duration_seconds counter\n")
		for key, duration := range t.requestDuration {
			method, path := splitKey(key)
			b.WriteString(`http_request_duration_seconds{method="` + method + `",path="` + path + `"} `)
			b.WriteString(strconv.FormatFloat(duration.Seconds(), 'f', 6, 64) + "\n")
		}
		b.WriteString("\n")

		b.WriteString("# HELP http_request_errors_total Total number of HTTP request errors\n")
		b.WriteString("# TYPE http_request_errors_total counter\n")
		for key, count := range t.requestErrors {
			method, path := splitKey(key)
			b.WriteString(`http_request_errors_total{method="` + method + `",path="` + path + `"} `)
			b.WriteString(strconv.FormatInt(count, 10) + "\n")
		}

		c.Data(200, "text/plain; version=0.0.4", []byte(b.String()))
	}
}

func splitKey(key string) (method, path string) {
	if i := strings.IndexByte(key, ' '); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}
