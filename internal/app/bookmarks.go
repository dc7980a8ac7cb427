package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deusflow/newsviews/internal/bookmark"
	"github.com/deusflow/newsviews/internal/config"
)

// OpenBookmarkStore opens the bookmark backend selected in cfg
func OpenBookmarkStore(ctx context.Context, cfg *config.Config) (bookmark.Store, error) {
	switch cfg.BookmarkBackend {
	case config.BookmarkBackendPostgres:
		store, err := bookmark.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres bookmark store: %w", err)
		}
		return store, nil

	case config.BookmarkBackendRedis:
		store, err := bookmark.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis bookmark store: %w", err)
		}
		slog.Info("Redis bookmark store connected")
		return store, nil

	default:
		store, err := bookmark.NewFileStore(cfg.BookmarkFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open bookmark file: %w", err)
		}
		slog.Info("file bookmark store loaded", "path", cfg.BookmarkFilePath, "stats", store.GetStats())
		return store, nil
	}
}
