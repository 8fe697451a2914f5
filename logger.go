package sdrecon

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/sdrecon/model"
)

// Logger wraps slog.Logger with sdrecon-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithPartition adds a partition label field to the logger.
func (l *Logger) WithPartition(label model.Label) *Logger {
	return &Logger{
		Logger: l.Logger.With("partition", int(label)),
	}
}

// WithRunID adds an evaluation run ID field to the logger.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// LogTrain logs a training operation for a single sample.
func (l *Logger) LogTrain(ctx context.Context, label model.Label, key model.Key, err error) {
	if err != nil {
		l.ErrorContext(ctx, "train failed",
			"partition", int(label),
			"key", uint64(key),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "train completed",
			"partition", int(label),
			"key", uint64(key),
		)
	}
}

// LogReconstruct logs a reconstruction query.
func (l *Logger) LogReconstruct(ctx context.Context, label model.Label, neighbor model.Label, err error) {
	if err != nil {
		l.ErrorContext(ctx, "reconstruct failed",
			"partition", int(label),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "reconstruct completed",
			"partition", int(label),
			"neighbor", int(neighbor),
		)
	}
}

// LogSkipped logs a sample that could not be evaluated.
func (l *Logger) LogSkipped(ctx context.Context, name string, label model.Label, reason error) {
	l.WarnContext(ctx, "sample skipped",
		"sample", name,
		"partition", int(label),
		"reason", reason,
	)
}

// LogEvaluate logs the outcome of an evaluation run.
func (l *Logger) LogEvaluate(ctx context.Context, evaluated, skipped int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "evaluation failed",
			"evaluated", evaluated,
			"skipped", skipped,
			"error", err,
		)
	} else if skipped > 0 {
		l.WarnContext(ctx, "evaluation completed with skipped samples",
			"evaluated", evaluated,
			"skipped", skipped,
			"elapsed", elapsed,
		)
	} else {
		l.InfoContext(ctx, "evaluation completed",
			"evaluated", evaluated,
			"elapsed", elapsed,
		)
	}
}
