package logs

import (
	"go.uber.org/zap/zapcore"
)

// MinTeeLevel is the lowest level mirrored into the dashboard buffer.
// Debug output stays out of the /logs window.
const MinTeeLevel = zapcore.InfoLevel

// bufferCore is a zapcore.Core that mirrors log entries into a Buffer so
// the /logs window reflects live service logging.
type bufferCore struct {
	buf    *Buffer
	min    zapcore.Level
	fields []zapcore.Field
}

// NewCore returns a zap core writing into buf. Entries below min are
// dropped.
func NewCore(buf *Buffer, min zapcore.Level) zapcore.Core {
	return &bufferCore{buf: buf, min: min}
}

func (c *bufferCore) Enabled(level zapcore.Level) bool {
	return level >= c.min
}

func (c *bufferCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &bufferCore{buf: c.buf, min: c.min}
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *bufferCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *bufferCore) Write(entry zapcore.Entry, _ []zapcore.Field) error {
	c.buf.Append(Entry{
		Timestamp: entry.Time,
		Level:     dashboardLevel(entry.Level),
		Message:   entry.Message,
	})
	return nil
}

func (c *bufferCore) Sync() error {
	return nil
}

// dashboardLevel maps zap levels onto the levels the dashboard displays.
func dashboardLevel(level zapcore.Level) string {
	switch {
	case level >= zapcore.DPanicLevel:
		return LevelCritical
	case level == zapcore.ErrorLevel:
		return LevelError
	case level == zapcore.WarnLevel:
		return LevelWarning
	default:
		return LevelInfo
	}
}
