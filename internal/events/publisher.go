// Package events publishes keyword lifecycle events to Redis Streams.
// Publishing is optional: a nil Publisher is a no-op everywhere, so the
// service runs fully without Redis.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/mapscraper/internal/logger"
	"github.com/jonesrussell/mapscraper/internal/models"
)

// StreamName is the Redis stream lifecycle events are appended to.
const StreamName = "mapscraper:events"

const asyncPublishTimeout = 5 * time.Second

// EventType identifies what happened.
type EventType string

const (
	EventUpload  EventType = "keywords.uploaded"
	EventReset   EventType = "keywords.reset"
	EventControl EventType = "job.control"
)

// Event is one lifecycle event.
type Event struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`

	// Upload events
	Mode     models.IngestMode `json:"mode,omitempty"`
	FileHash string            `json:"file_hash,omitempty"`
	Inserted int               `json:"inserted,omitempty"`

	// Reset events
	ResetKind string `json:"reset_kind,omitempty"`
	Affected  int    `json:"affected,omitempty"`

	// Control events
	Action models.ControlAction `json:"action,omitempty"`
}

// Publisher appends events to the Redis stream.
type Publisher struct {
	client *redis.Client
	log    logger.Logger
}

// NewPublisher creates a publisher. Returns nil if client is nil.
func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{
		client: client,
		log:    log,
	}
}

// Publish appends one event to the stream.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		Values: map[string]any{
			"event": string(payload),
		},
	})
	if publishErr := result.Err(); publishErr != nil {
		if p.log != nil {
			p.log.Error("Failed to publish event",
				logger.String("event_type", string(event.EventType)),
				logger.Error(publishErr),
			)
		}
		return fmt.Errorf("publish to stream: %w", publishErr)
	}

	return nil
}

// PublishAsync publishes in the background. Errors are logged, never
// returned: event delivery must not slow down or fail an API request.
func (p *Publisher) PublishAsync(event Event) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()
		_ = p.Publish(ctx, event)
	}()
}
