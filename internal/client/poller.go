package client

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is how often pollers refresh.
const DefaultPollInterval = 2 * time.Second

// Poller periodically fetches a snapshot and keeps the latest result.
// Failed fetches are swallowed: the previous good snapshot stays
// visible and Err reports the most recent failure.
type Poller[T any] struct {
	fetch    func(ctx context.Context) (T, error)
	interval time.Duration

	mu        sync.RWMutex
	latest    T
	ok        bool
	updatedAt time.Time
	lastErr   error
	applied   uint64

	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller creates a poller around fetch. A non-positive interval
// falls back to DefaultPollInterval.
func NewPoller[T any](fetch func(ctx context.Context) (T, error), interval time.Duration) *Poller[T] {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller[T]{
		fetch:    fetch,
		interval: interval,
	}
}

// Start begins polling until ctx is cancelled or Stop is called. The
// first fetch is issued immediately.
func (p *Poller[T]) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		var seq uint64
		seq++
		go p.poll(ctx, seq)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				seq++
				// Each fetch runs detached so one slow response
				// never delays the next tick. The sequence guard
				// drops results that arrive out of order.
				go p.poll(ctx, seq)
			}
		}
	}()
}

func (p *Poller[T]) poll(ctx context.Context, seq uint64) {
	value, err := p.fetch(ctx)

	select {
	case <-ctx.Done():
		// Stopped while in flight; never publish after stop.
		return
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if seq <= p.applied {
		return
	}
	p.applied = seq

	if err != nil {
		p.lastErr = err
		return
	}
	p.latest = value
	p.ok = true
	p.updatedAt = time.Now()
	p.lastErr = nil
}

// Stop cancels polling and waits for the loop to exit.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Latest returns the most recent good snapshot. ok is false until the
// first successful fetch.
func (p *Poller[T]) Latest() (value T, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest, p.ok
}

// LastUpdated returns when the snapshot was last refreshed. Zero until
// the first successful fetch.
func (p *Poller[T]) LastUpdated() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updatedAt
}

// Err returns the most recent fetch error, or nil after a success.
func (p *Poller[T]) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}
