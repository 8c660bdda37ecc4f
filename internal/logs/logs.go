// Package logs provides the bounded in-memory log window served by the
// /logs endpoint. The service keeps only a recent window; any history
// beyond it is the consumer's problem.
package logs

import (
	"sync"
	"time"
)

// Log levels exposed to the dashboard.
const (
	LevelInfo     = "INFO"
	LevelWarning  = "WARNING"
	LevelError    = "ERROR"
	LevelCritical = "CRITICAL"
)

const defaultCapacity = 1000

// Entry is a single log line, ordered by timestamp.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Buffer is a thread-safe circular buffer of log entries.
type Buffer struct {
	entries []Entry
	size    int
	head    int // oldest entry
	count   int
	written int // total lines ever appended
	mu      sync.RWMutex
}

// NewBuffer creates a buffer holding at most size entries.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = defaultCapacity
	}
	return &Buffer{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Append adds an entry, overwriting the oldest when full.
func (b *Buffer) Append(entry Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := (b.head + b.count) % b.size
	if b.count < b.size {
		b.entries[idx] = entry
		b.count++
	} else {
		b.entries[b.head] = entry
		b.head = (b.head + 1) % b.size
	}
	b.written++
}

// Recent returns up to limit entries in chronological order,
// most-recent-last. limit <= 0 returns everything buffered.
func (b *Buffer) Recent(limit int) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := b.count
	if limit > 0 && limit < n {
		n = limit
	}

	result := make([]Entry, n)
	start := b.count - n
	for i := range n {
		idx := (b.head + start + i) % b.size
		result[i] = b.entries[idx]
	}
	return result
}

// Size returns the number of buffered entries.
func (b *Buffer) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Written returns the total number of entries ever appended.
func (b *Buffer) Written() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.written
}

// Clear empties the buffer. The written counter is not reset.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.count = 0
}
