package worker

import (
	"context"
	"log/slog"
	"time"

	"global-gist/internal/blog"
	"global-gist/internal/localstore"
)

// Seeder periodically generates fresh articles so the blog never goes
// stale. A day marker in the local store keeps restarts from seeding the
// same day twice.
type Seeder struct {
	Service       *blog.Service
	Local         *localstore.Data
	Interval      time.Duration
	TopicsPerRun  int
	PostsPerTopic int
}

func (w *Seeder) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = time.Hour
	}

	// initial run
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Seeder) runOnce(ctx context.Context) {
	now := time.Now().UTC()
	if w.Local != nil {
		done, err := w.Local.SeededToday(ctx, now)
		if err != nil {
			slog.Error("seeder: day marker check failed", "error", err)
		} else if done {
			slog.Info("seeder: already seeded today, skipping", "day", now.Format("2006-01-02"))
			return
		}
	}

	res, err := w.Service.SeedNewContent(ctx, w.TopicsPerRun, w.PostsPerTopic)
	if err != nil {
		slog.Error("seeder: run failed", "error", err)
		return
	}
	slog.Info("seeder: completed", "topics", res.SeededTopics)
}
