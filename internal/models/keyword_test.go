package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordStatus_Valid(t *testing.T) {
	for _, status := range []KeywordStatus{
		StatusPending, StatusProcessing, StatusDone, StatusFailed, StatusSkipped,
	} {
		assert.True(t, status.Valid(), "expected %s to be valid", status)
	}

	assert.False(t, KeywordStatus("queued").Valid())
	assert.False(t, KeywordStatus("").Valid())
	assert.False(t, KeywordStatus("DONE").Valid())
}

func TestKeywordStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusDone.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusSkipped.Terminal())
}

func TestValidateKeywordTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    KeywordStatus
		to      KeywordStatus
		wantErr bool
	}{
		{name: "pending to processing", from: StatusPending, to: StatusProcessing},
		{name: "processing to done", from: StatusProcessing, to: StatusDone},
		{name: "processing to failed", from: StatusProcessing, to: StatusFailed},
		{name: "processing to skipped", from: StatusProcessing, to: StatusSkipped},
		{name: "processing to pending via reset", from: StatusProcessing, to: StatusPending},
		{name: "failed to pending via reset", from: StatusFailed, to: StatusPending},
		{name: "skipped to pending via reset", from: StatusSkipped, to: StatusPending},
		{name: "done is permanent", from: StatusDone, to: StatusPending, wantErr: true},
		{name: "done cannot reprocess", from: StatusDone, to: StatusProcessing, wantErr: true},
		{name: "pending cannot jump to done", from: StatusPending, to: StatusDone, wantErr: true},
		{name: "pending cannot jump to failed", from: StatusPending, to: StatusFailed, wantErr: true},
		{name: "failed cannot become done", from: StatusFailed, to: StatusDone, wantErr: true},
		{name: "skipped cannot become processing", from: StatusSkipped, to: StatusProcessing, wantErr: true},
		{name: "unknown source status", from: KeywordStatus("queued"), to: StatusPending, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKeywordTransition(tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
