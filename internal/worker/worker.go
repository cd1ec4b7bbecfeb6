package worker

import (
	"context"
	"log/slog"
	"time"
)

type Config struct {
	Name     string
	Interval time.Duration
	Poller   Poller
}

type Poller interface {
	Poll(ctx context.Context)
}

// Worker drives a Poller on a fixed interval until the context is cancelled.
type Worker struct {
	name     string
	interval time.Duration
	poller   Poller
}

func New(cfg Config) *Worker {
	return &Worker{
		name:     cfg.Name,
		interval: cfg.Interval,
		poller:   cfg.Poller,
	}
}

func (w *Worker) Run(ctx context.Context) {
	slog.InfoContext(ctx, "Worker started...", "worker", w.name, "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Worker stopped...", "worker", w.name)
			return
		case <-ticker.C:
			w.poller.Poll(ctx)
		}
	}
}
