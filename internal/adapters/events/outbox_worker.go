package events

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Flusher is the slice of the application service the worker needs.
type Flusher interface {
	FlushOutbox(ctx context.Context) error
}

// OutboxWorker drains the event outbox on a fixed interval.
type OutboxWorker struct {
	logger   *slog.Logger
	flusher  Flusher
	interval time.Duration
}

func NewOutboxWorker(logger *slog.Logger, flusher Flusher, interval time.Duration) *OutboxWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &OutboxWorker{logger: logger, flusher: flusher, interval: interval}
}

func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if err := w.flusher.FlushOutbox(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "outbox flush failed",
				"module", "events.outbox_worker",
				"layer", "adapter",
				"operation", "flush",
				"outcome", "failure",
				"error", err,
			)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
