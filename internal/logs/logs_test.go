package logs

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func entry(msg string) Entry {
	return Entry{Timestamp: time.Now(), Level: LevelInfo, Message: msg}
}

func TestBuffer_AppendAndRecent(t *testing.T) {
	buf := NewBuffer(5)

	assert.Empty(t, buf.Recent(10))
	assert.Equal(t, 0, buf.Size())

	buf.Append(entry("first"))
	buf.Append(entry("second"))
	buf.Append(entry("third"))

	recent := buf.Recent(10)
	require.Len(t, recent, 3)
	assert.Equal(t, "first", recent[0].Message)
	assert.Equal(t, "third", recent[2].Message)
}

func TestBuffer_Wraparound(t *testing.T) {
	buf := NewBuffer(3)

	for i := 1; i <= 5; i++ {
		buf.Append(entry(fmt.Sprintf("msg-%d", i)))
	}

	recent := buf.Recent(10)
	require.Len(t, recent, 3)
	assert.Equal(t, "msg-3", recent[0].Message)
	assert.Equal(t, "msg-4", recent[1].Message)
	assert.Equal(t, "msg-5", recent[2].Message)

	assert.Equal(t, 3, buf.Size())
	assert.Equal(t, 5, buf.Written())
}

func TestBuffer_RecentLimit(t *testing.T) {
	buf := NewBuffer(10)
	for i := 1; i <= 6; i++ {
		buf.Append(entry(fmt.Sprintf("msg-%d", i)))
	}

	recent := buf.Recent(2)
	require.Len(t, recent, 2)
	// Most recent entries, oldest first.
	assert.Equal(t, "msg-5", recent[0].Message)
	assert.Equal(t, "msg-6", recent[1].Message)
}

func TestBuffer_Clear(t *testing.T) {
	buf := NewBuffer(4)
	buf.Append(entry("one"))
	buf.Append(entry("two"))

	buf.Clear()

	assert.Empty(t, buf.Recent(10))
	assert.Equal(t, 0, buf.Size())
}

func TestBuffer_DefaultCapacity(t *testing.T) {
	buf := NewBuffer(0)
	buf.Append(entry("ok"))
	assert.Len(t, buf.Recent(10), 1)
}

func TestCore_MirrorsLogsIntoBuffer(t *testing.T) {
	buf := NewBuffer(10)
	log := zap.New(NewCore(buf, zapcore.InfoLevel))

	log.Debug("filtered out")
	log.Info("hello")
	log.Warn("careful")
	log.Error("boom")

	recent := buf.Recent(10)
	require.Len(t, recent, 3)

	assert.Equal(t, "hello", recent[0].Message)
	assert.Equal(t, LevelInfo, recent[0].Level)
	assert.Equal(t, LevelWarning, recent[1].Level)
	assert.Equal(t, LevelError, recent[2].Level)
	assert.False(t, recent[0].Timestamp.IsZero())
}

func TestCore_LevelMapping(t *testing.T) {
	tests := []struct {
		level zapcore.Level
		want  string
	}{
		{zapcore.DebugLevel, LevelInfo},
		{zapcore.InfoLevel, LevelInfo},
		{zapcore.WarnLevel, LevelWarning},
		{zapcore.ErrorLevel, LevelError},
		{zapcore.DPanicLevel, LevelCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, dashboardLevel(tt.level), "level %s", tt.level)
	}
}
