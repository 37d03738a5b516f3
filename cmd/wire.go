package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"global-gist/internal/ai"
	"global-gist/internal/blog"
	"global-gist/internal/config"
	"global-gist/internal/imagegen"
	"global-gist/internal/localstore"
	"global-gist/internal/redisclient"
	"global-gist/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// env bundles the wired-up application for a command's lifetime.
type env struct {
	Service *blog.Service
	Local   *localstore.Data
	Store   *storage.PostgresStore
	Pool    *pgxpool.Pool
	Redis   *redis.Client
}

func (e *env) Close() {
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.Redis != nil {
		_ = e.Redis.Close()
	}
}

// buildEnv connects storage and assembles the blog service from config.
func buildEnv(ctx context.Context, cfg config.Config) (*env, error) {
	setupLogger(cfg)

	if cfg.Postgres.URL == "" {
		return nil, fmt.Errorf("postgres.url is required")
	}
	pool, err := storage.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	store := storage.NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	rdb := redisclient.New(cfg.Redis)
	var local *localstore.Data
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, using in-memory device store", "error", err)
		_ = rdb.Close()
		rdb = nil
		local = localstore.New(localstore.NewMemory())
	} else {
		local = localstore.New(localstore.NewRedis(rdb))
	}

	var gen ai.Generator
	if cfg.AI.APIKey != "" {
		gen = ai.NewOpenAI(ai.Config{APIKey: cfg.AI.APIKey, Model: cfg.AI.Model, BaseURL: cfg.AI.BaseURL})
	} else {
		slog.Warn("no AI key configured, generation actions will be unavailable")
	}

	svc := &blog.Service{
		Store:     store,
		Local:     local,
		CoversDir: cfg.Server.CoversDir,
		Topics:    cfg.Blog.Topics,
		PageSize:  cfg.Blog.PostsPerPage,
	}
	if gen != nil {
		svc.Gen = gen
	}
	if covers := imagegen.New(imagegen.Config{
		BaseURL:     cfg.Covers.BaseURL,
		APIKey:      cfg.Covers.APIKey,
		Model:       cfg.Covers.Model,
		WebPQuality: cfg.Covers.WebPQuality,
		Timeout:     120 * time.Second,
	}); covers != nil {
		svc.Covers = covers
	}

	return &env{Service: svc, Local: local, Store: store, Pool: pool, Redis: rdb}, nil
}

func setupLogger(cfg config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
