// Package models defines the keyword lifecycle contract shared by the
// control-plane service and the dashboard client.
package models

import (
	"fmt"
	"time"
)

// KeywordStatus represents the processing state of a keyword record.
type KeywordStatus string

const (
	// StatusPending means the keyword is waiting to be processed.
	StatusPending KeywordStatus = "pending"
	// StatusProcessing means a processing attempt is in flight.
	StatusProcessing KeywordStatus = "processing"
	// StatusDone means processing completed. Done records are permanent:
	// no reset operation touches them.
	StatusDone KeywordStatus = "done"
	// StatusFailed means the last processing attempt errored.
	StatusFailed KeywordStatus = "failed"
	// StatusSkipped means the keyword exceeded its processing timeout and
	// was auto-skipped.
	StatusSkipped KeywordStatus = "skipped"
)

// KeywordStatuses lists every valid keyword status.
var KeywordStatuses = []KeywordStatus{
	StatusPending,
	StatusProcessing,
	StatusDone,
	StatusFailed,
	StatusSkipped,
}

// Valid reports whether s is a known keyword status.
func (s KeywordStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDone, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// Terminal reports whether s ends a processing attempt.
func (s KeywordStatus) Terminal() bool {
	return s == StatusDone || s == StatusFailed || s == StatusSkipped
}

// ValidateKeywordTransition checks a status transition against the
// lifecycle contract. Within one attempt the flow is monotonic:
// pending -> processing -> {done|failed|skipped}. Only an explicit reset
// moves a record backward to pending, and done is never reset.
func ValidateKeywordTransition(from, to KeywordStatus) error {
	validTransitions := map[KeywordStatus][]KeywordStatus{
		StatusPending: {
			StatusProcessing, // Claimed by the engine
		},
		StatusProcessing: {
			StatusDone,    // Successful attempt
			StatusFailed,  // Attempt errored
			StatusSkipped, // Timeout exceeded
			StatusPending, // reset-all covers stuck processing records
		},
		StatusFailed: {
			StatusPending, // reset-failed / reset-all
		},
		StatusSkipped: {
			StatusPending, // reset-skipped / reset-all
		},
		// Done is terminal: completed work survives every reset.
		StatusDone: {},
	}

	allowed, exists := validTransitions[from]
	if !exists {
		return fmt.Errorf("unknown source status: %s", from)
	}

	for _, a := range allowed {
		if a == to {
			return nil
		}
	}

	return fmt.Errorf("invalid keyword transition from %s to %s", from, to)
}

// Keyword is one unit of scraping work tracked by status. The ID is opaque
// and stable across updates; identity for ingestion dedup is the
// (text, city) pair, case-sensitive.
type Keyword struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	City      string        `json:"city,omitempty"`
	Status    KeywordStatus `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// KeywordRow is one parsed row from an uploaded keyword file, before it
// is reconciled against existing records.
type KeywordRow struct {
	Text string
	City string
}

// KeywordPage is one page of the keyword listing.
type KeywordPage struct {
	Items      []Keyword `json:"items"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
}
