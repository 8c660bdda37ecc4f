package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(tracker *Tracker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(tracker.Middleware())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/prometheus", tracker.Handler())
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestTracker_CountsRequests(t *testing.T) {
	tracker := NewTracker()
	router := newTestRouter(tracker)

	get(router, "/ok")
	get(router, "/ok")
	get(router, "/boom")

	assert.Equal(t, int64(2), tracker.RequestCount(http.MethodGet, "/ok"))
	assert.Equal(t, int64(1), tracker.RequestCount(http.MethodGet, "/boom"))
	assert.Equal(t, int64(1), tracker.RequestErrors(http.MethodGet, "/boom"))
	assert.Zero(t, tracker.RequestErrors(http.MethodGet, "/ok"))
	assert.Zero(t, tracker.ActiveRequests())
}

func TestTracker_GroupsByRoutePattern(t *testing.T) {
	tracker := NewTracker()
	router := newTestRouter(tracker)

	get(router, "/items/1")
	get(router, "/items/2")

	assert.Equal(t, int64(2), tracker.RequestCount(http.MethodGet, "/items/:id"))
}

func TestTracker_PrometheusExposition(t *testing.T) {
	tracker := NewTracker()
	router := newTestRouter(tracker)

	get(router, "/ok")
	get(router, "/boom")

	w := get(router, "/prometheus")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "# TYPE http_requests_total counter")
	assert.Contains(t, body, `http_requests_total{method="GET",path="/ok"} 1`)
	assert.Contains(t, body, `http_request_errors_total{method="GET",path="/boom"} 1`)
	assert.Contains(t, body, "http_active_requests 1", "the exposition request itself is in flight")
	assert.Contains(t, body, "http_request_duration_seconds")
}
