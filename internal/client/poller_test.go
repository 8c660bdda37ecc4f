package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never satisfied")
}

func TestPoller_PublishesLatest(t *testing.T) {
	var calls atomic.Int64
	poller := NewPoller(func(ctx context.Context) (int64, error) {
		return calls.Add(1), nil
	}, 10*time.Millisecond)

	poller.Start(context.Background())
	defer poller.Stop()

	waitFor(t, func() bool {
		value, ok := poller.Latest()
		return ok && value >= 3
	})
	assert.NoError(t, poller.Err())
	assert.False(t, poller.LastUpdated().IsZero())
}

func TestPoller_KeepsLastGoodOnFailure(t *testing.T) {
	var calls atomic.Int64
	fetchErr := errors.New("connection refused")

	poller := NewPoller(func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "good", nil
		}
		return "", fetchErr
	}, 10*time.Millisecond)

	poller.Start(context.Background())
	defer poller.Stop()

	waitFor(t, func() bool { return poller.Err() != nil })

	value, ok := poller.Latest()
	require.True(t, ok)
	assert.Equal(t, "good", value, "failures keep the previous snapshot")
	assert.ErrorIs(t, poller.Err(), fetchErr)
}

func TestPoller_ErrClearsOnRecovery(t *testing.T) {
	var calls atomic.Int64
	poller := NewPoller(func(ctx context.Context) (int64, error) {
		n := calls.Add(1)
		if n == 2 {
			return 0, errors.New("blip")
		}
		return n, nil
	}, 10*time.Millisecond)

	poller.Start(context.Background())
	defer poller.Stop()

	waitFor(t, func() bool {
		value, ok := poller.Latest()
		return ok && value >= 3 && poller.Err() == nil
	})
}

func TestPoller_StaleResultsDropped(t *testing.T) {
	// The first fetch hangs until after several later fetches land; its
	// eventual result must not clobber the newer snapshot.
	var calls atomic.Int64
	firstDone := make(chan struct{})

	poller := NewPoller(func(ctx context.Context) (int64, error) {
		n := calls.Add(1)
		if n == 1 {
			<-firstDone
			return -1, nil
		}
		return n, nil
	}, 10*time.Millisecond)

	poller.Start(context.Background())
	defer poller.Stop()

	waitFor(t, func() bool {
		value, ok := poller.Latest()
		return ok && value > 1
	})

	close(firstDone)
	time.Sleep(30 * time.Millisecond)

	value, ok := poller.Latest()
	require.True(t, ok)
	assert.NotEqual(t, int64(-1), value, "stale fetch must be dropped")
}

func TestPoller_StopIsIdempotentAndFinal(t *testing.T) {
	var calls atomic.Int64
	poller := NewPoller(func(ctx context.Context) (int64, error) {
		return calls.Add(1), nil
	}, 10*time.Millisecond)

	poller.Start(context.Background())
	waitFor(t, func() bool {
		_, ok := poller.Latest()
		return ok
	})

	poller.Stop()
	poller.Stop() // second stop is a no-op

	// Let any fetch already launched before the stop settle.
	time.Sleep(30 * time.Millisecond)
	after := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no fetches after stop")
}

func TestPoller_StopBeforeStart(t *testing.T) {
	poller := NewPoller(func(ctx context.Context) (int, error) { return 0, nil }, time.Second)
	poller.Stop() // must not panic or block

	_, ok := poller.Latest()
	assert.False(t, ok)
}

func TestPoller_ParentContextCancellation(t *testing.T) {
	var calls atomic.Int64
	poller := NewPoller(func(ctx context.Context) (int64, error) {
		return calls.Add(1), nil
	}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	poller.Start(ctx)

	waitFor(t, func() bool {
		_, ok := poller.Latest()
		return ok
	})

	cancel()
	time.Sleep(30 * time.Millisecond)
	after := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}
