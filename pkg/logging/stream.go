package logging

import (
	"context"
	"io"
	"sync"
	"time"
)

// StreamLogger writes log lines to an io.Writer such as os.Stderr
type StreamLogger struct {
	mu     *sync.Mutex
	w      io.Writer
	format Format
	level  Level
	fields Fields
}

// NewStreamLogger creates a logger writing to w
func NewStreamLogger(w io.Writer, format Format, level Level) *StreamLogger {
	return &StreamLogger{
		mu:     &sync.Mutex{},
		w:      w,
		format: format,
		level:  level,
	}
}

// Debug logs a debug message
func (l *StreamLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

// Info logs an info message
func (l *StreamLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

// Warn logs a warning message
func (l *StreamLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

// Error logs an error message
func (l *StreamLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger with additional fields sharing the same writer
func (l *StreamLogger) WithFields(fields Fields) Logger {
	return &StreamLogger{
		mu:     l.mu,
		w:      l.w,
		format: l.format,
		level:  l.level,
		fields: mergeFields(l.fields, fields),
	}
}

// Close does nothing; the writer belongs to the caller
func (l *StreamLogger) Close() error {
	return nil
}

func (l *StreamLogger) log(level Level, msg string, err error, fields Fields) {
	if level < l.level {
		return
	}

	line, fmtErr := formatLine(l.format, time.Now(), level, msg, err, mergeFields(l.fields, fields))
	if fmtErr != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(line)
}
