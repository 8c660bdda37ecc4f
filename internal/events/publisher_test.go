package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/mapscraper/internal/logger"
	"github.com/jonesrussell/mapscraper/internal/models"
)

func TestNewPublisher_NilClient(t *testing.T) {
	assert.Nil(t, NewPublisher(nil, logger.NewNop()))
}

func TestPublisher_NilIsSafe(t *testing.T) {
	var p *Publisher

	err := p.Publish(context.Background(), Event{
		EventType: EventUpload,
		Mode:      models.ModeAdd,
	})
	assert.NoError(t, err)

	// Must not panic.
	p.PublishAsync(Event{EventType: EventReset, ResetKind: "failed"})
}
