package models

import "fmt"

// IngestMode governs how an uploaded keyword file merges with existing
// records. It is a closed set: add and sync only ever insert, replace is
// the single destructive mode and requires an explicit confirmation token
// at the call site.
type IngestMode string

const (
	// ModeAdd inserts rows whose (text, city) identity is not already
	// present; existing records are untouched.
	ModeAdd IngestMode = "add"
	// ModeSync reconciles a refreshed master list: same insertions as add,
	// no deletions, and existing records keep their status (sync never
	// implicitly retries failed or skipped work).
	ModeSync IngestMode = "sync"
	// ModeReplace deletes every existing record and inserts the file fresh
	// at pending. Irreversible.
	ModeReplace IngestMode = "replace"
)

// ParseIngestMode validates a mode string.
func ParseIngestMode(s string) (IngestMode, error) {
	switch IngestMode(s) {
	case ModeAdd, ModeSync, ModeReplace:
		return IngestMode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q: use add, sync, or replace", s)
	}
}

// Destructive reports whether the mode can discard existing records.
func (m IngestMode) Destructive() bool {
	return m == ModeReplace
}

// ReplaceConfirmToken is the form value the upload endpoint requires
// alongside mode=replace before any deletion happens.
const ReplaceConfirmToken = "replace"
