package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"notehub/internal/clients/notehub"
)

const liveRetryDelay = 5 * time.Second

type changeWatcher interface {
	Watch(ctx context.Context, fn func(notehub.ChangeEvent)) error
}

type invalidator interface {
	Invalidate()
}

// followChanges marks the note cache stale on every remote change until ctx
// is done. Dropped streams are redialed after retry. Any answer from the
// API other than an upgrade ends live updates for the session.
func followChanges(ctx context.Context, w changeWatcher, inv invalidator, retry time.Duration, logg *slog.Logger) error {
	for {
		err := w.Watch(ctx, func(ev notehub.ChangeEvent) {
			logg.Debug("remote change", "type", ev.Type, "note_id", ev.Note.ID)
			inv.Invalidate()
		})
		if ctx.Err() != nil {
			return nil
		}

		var apiErr *notehub.APIError
		var cfgErr *notehub.ConfigError
		if errors.As(err, &apiErr) || errors.As(err, &cfgErr) {
			logg.Warn("live updates unavailable", "err", err)
			return nil
		}
		if err != nil {
			logg.Warn("change stream dropped", "err", err, "retry_in", retry)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(retry):
		}
	}
}
