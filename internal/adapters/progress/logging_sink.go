package progress

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// LogSink reports progress as structured log lines. Used for --json and
// non-interactive runs where a spinner would corrupt the output.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a progress sink backed by the logger
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log.With("component", "progress")}
}

// OnProgress logs the event at debug level
func (s *LogSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.log.DebugContext(ctx, event.Message, "stage", string(event.Stage))
}

// Info logs an info message
func (s *LogSink) Info(message string) {
	s.log.Info(message)
}

// Error logs an error message
func (s *LogSink) Error(message string) {
	s.log.Error(message)
}

var _ usecase.ProgressSink = (*LogSink)(nil)
