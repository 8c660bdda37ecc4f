package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/mapscraper/internal/models"
)

func TestHTTPProcessor_Process(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	proc := NewHTTPProcessor(server.URL, 5*time.Second)
	err := proc.Process(context.Background(), models.Keyword{
		ID:   "kw-1",
		Text: "plumber",
		City: "Toronto",
	})
	require.NoError(t, err)

	assert.Equal(t, "plumber", received["keyword"])
	assert.Equal(t, "Toronto", received["city"])
	assert.Equal(t, "kw-1", received["id"])
}

func TestHTTPProcessor_WorkerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "browser crashed", http.StatusInternalServerError)
	}))
	defer server.Close()

	proc := NewHTTPProcessor(server.URL, 5*time.Second)
	err := proc.Process(context.Background(), models.Keyword{Text: "plumber"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestHTTPProcessor_TimeoutSurfacesContextError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	proc := NewHTTPProcessor(server.URL, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := proc.Process(ctx, models.Keyword{Text: "plumber"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPProcessor_Recover(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	proc := NewHTTPProcessor(server.URL, 5*time.Second)
	require.NoError(t, proc.Recover(context.Background()))
	assert.Equal(t, "/recover", path)
}

func TestNoopProcessor(t *testing.T) {
	proc := &NoopProcessor{}
	assert.NoError(t, proc.Process(context.Background(), models.Keyword{Text: "x"}))

	proc = &NoopProcessor{Delay: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, proc.Process(ctx, models.Keyword{Text: "x"}), context.Canceled)
}
