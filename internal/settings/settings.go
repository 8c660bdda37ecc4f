// Package settings manages the scraper tunables served by GET/POST
// /config. Values live in a JSON file and always merge over defaults, so
// a missing or partial file never breaks the service.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Settings is a free-form key/value map. Known keys and their defaults
// are listed in Defaults.
type Settings map[string]any

// Defaults returns the production defaults for every known key.
func Defaults() Settings {
	return Settings{
		"headless":                     false, // headful for anti-detection
		"slow_mo":                      50,    // human-like interaction speed (ms)
		"max_keyword_timeout":          180,   // seconds per keyword before skip
		"max_business_timeout":         20,    // seconds per business page
		"browser_restart_interval":     10,    // restart browser every N keywords
		"watchdog_timeout":             60,    // auto-recover after N seconds without progress
		"heartbeat_interval":           5,     // seconds between heartbeats
		"delay_between_businesses_min": 2,
		"delay_between_businesses_max": 6,
		"delay_between_keywords_min":   5,
		"delay_between_keywords_max":   15,
	}
}

// Store reads and writes the settings file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store for the given file path. The file is created
// lazily on first update.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns defaults merged with whatever the file holds. A missing or
// unreadable file yields plain defaults.
func (s *Store) Load() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() Settings {
	merged := Defaults()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return merged
	}

	var user Settings
	if err := json.Unmarshal(data, &user); err != nil {
		return merged
	}

	for k, v := range user {
		merged[k] = v
	}
	return merged
}

// Update merges the given keys over the current settings and persists the
// result. Returns the merged settings.
func (s *Store) Update(updates Settings) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.loadLocked()
	for k, v := range updates {
		merged[k] = v
	}

	data, err := json.MarshalIndent(merged, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write settings file: %w", err)
	}

	return merged, nil
}

// IntValue reads a numeric setting, tolerating the float64 that JSON
// decoding produces. Falls back to def for missing or non-numeric values.
func (s Settings) IntValue(key string, def int) int {
	switch v := s[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}
