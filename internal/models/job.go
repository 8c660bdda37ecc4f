package models

import (
	"fmt"
	"time"
)

// JobStatus represents the scraper job state. The backend owns this value;
// clients only display it and request transitions.
type JobStatus string

const (
	JobIdle    JobStatus = "idle"
	JobRunning JobStatus = "running"
	JobPaused  JobStatus = "paused"
	JobStopped JobStatus = "stopped"
	JobError   JobStatus = "error"
)

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobIdle, JobRunning, JobPaused, JobStopped, JobError:
		return true
	default:
		return false
	}
}

// ValidateJobTransition checks whether a control action may move the job
// from one status to another.
func ValidateJobTransition(from, to JobStatus) error {
	validTransitions := map[JobStatus][]JobStatus{
		JobIdle: {
			JobRunning, // start
		},
		JobRunning: {
			JobPaused,  // pause
			JobStopped, // stop
			JobIdle,    // run drained the pending set
			JobError,   // processor crash / failed recovery
		},
		JobPaused: {
			JobRunning, // resume
			JobStopped, // stop while paused
		},
		JobStopped: {
			JobRunning, // start again
		},
		JobError: {
			JobRunning, // manual restart after failure
			JobStopped,
		},
	}

	allowed, exists := validTransitions[from]
	if !exists {
		return fmt.Errorf("unknown job status: %s", from)
	}

	for _, a := range allowed {
		if a == to {
			return nil
		}
	}

	return fmt.Errorf("invalid job transition from %s to %s", from, to)
}

// ControlAction is a job control request from the dashboard.
type ControlAction string

const (
	ActionStart  ControlAction = "start"
	ActionStop   ControlAction = "stop"
	ActionPause  ControlAction = "pause"
	ActionResume ControlAction = "resume"
)

// ParseControlAction validates a control action string.
func ParseControlAction(s string) (ControlAction, error) {
	switch ControlAction(s) {
	case ActionStart, ActionStop, ActionPause, ActionResume:
		return ControlAction(s), nil
	default:
		return "", fmt.Errorf("invalid action %q: use start, stop, pause, or resume", s)
	}
}

// JobState is the status payload served by GET /status.
type JobState struct {
	Status           JobStatus `json:"status"`
	CurrentKeyword   string    `json:"current_keyword,omitempty"`
	Processed        int       `json:"processed"`
	Uptime           string    `json:"uptime"`
	WatchdogRestarts int       `json:"watchdog_restarts,omitempty"`
	StartedAt        time.Time `json:"started_at,omitzero"`
}
