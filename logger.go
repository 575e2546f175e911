package retrieval

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with catalog-specific field helpers.
// Field names are kept consistent across all catalog operations.
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
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithUID adds a uid field to the logger.
func (l *Logger) WithUID(uid string) *Logger {
	return &Logger{Logger: l.Logger.With("uid", uid)}
}

// WithRID adds a rid field to the logger.
func (l *Logger) WithRID(rid int64) *Logger {
	return &Logger{Logger: l.Logger.With("rid", rid)}
}

// WithIndex adds an index name field to the logger.
func (l *Logger) WithIndex(name string) *Logger {
	return &Logger{Logger: l.Logger.With("index", name)}
}

// WithSchema adds a schema name field to the logger.
func (l *Logger) WithSchema(name string) *Logger {
	return &Logger{Logger: l.Logger.With("schema", name)}
}

// LogIndex logs an index operation.
func (l *Logger) LogIndex(ctx context.Context, uid string, rid int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index failed",
			"uid", uid,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "index completed",
		"uid", uid,
		"rid", rid,
	)
}

// LogUnindex logs an unindex operation.
func (l *Logger) LogUnindex(ctx context.Context, uid string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "unindex failed",
			"uid", uid,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "unindex completed",
		"uid", uid,
	)
}

// LogReindex logs a reindex pass. stale counts UIDs that no longer
// resolved and were unindexed.
func (l *Logger) LogReindex(ctx context.Context, count, stale int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "reindex failed",
			"count", count,
			"error", err,
		)
	case stale > 0:
		l.WarnContext(ctx, "reindex dropped stale records",
			"count", count,
			"stale", stale,
		)
	default:
		l.DebugContext(ctx, "reindex completed",
			"count", count,
		)
	}
}

// LogQuery logs a query evaluation.
func (l *Logger) LogQuery(ctx context.Context, q string, total int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"query", q,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "query completed",
		"query", q,
		"total", total,
	)
}

// LogSnapshot logs a snapshot save or load.
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot "+op+" failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot "+op+" completed",
		"name", name,
	)
}
