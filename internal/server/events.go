package server

import (
	"context"
	"log/slog"

	"github.com/zoobzio/capitan"
)

// observeEvents forwards every codec event to logger until the returned
// observer is closed.
func observeEvents(logger *slog.Logger) *capitan.Observer {
	return capitan.Observe(func(ctx context.Context, e *capitan.Event) {
		level := eventLevel(e.Severity())
		if !logger.Enabled(ctx, level) {
			return
		}
		fields := e.Fields()
		attrs := make([]slog.Attr, 0, len(fields))
		for _, f := range fields {
			attrs = append(attrs, slog.Any(f.Key().Name(), f.Value()))
		}
		logger.LogAttrs(ctx, level, e.Signal().Name(), attrs...)
	})
}

// eventLevel maps an event severity onto a log level.
func eventLevel(s capitan.Severity) slog.Level {
	switch s {
	case capitan.SeverityDebug:
		return slog.LevelDebug
	case capitan.SeverityWarn:
		return slog.LevelWarn
	case capitan.SeverityError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
