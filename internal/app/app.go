// Package app assembles the HTTP service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/newsviews/internal/backend"
	"github.com/deusflow/newsviews/internal/bookmark"
	"github.com/deusflow/newsviews/internal/cache"
	"github.com/deusflow/newsviews/internal/config"
	"github.com/deusflow/newsviews/internal/feed"
	"github.com/deusflow/newsviews/internal/handler"
	"github.com/deusflow/newsviews/internal/logger"
	"github.com/deusflow/newsviews/internal/news"
	"github.com/deusflow/newsviews/internal/ratelimit"
	"github.com/deusflow/newsviews/internal/retry"
)

const shutdownTimeout = 10 * time.Second

// Server is the assembled service
type Server struct {
	cfg       *config.Config
	router    *gin.Engine
	items     *cache.Cache[news.Item]
	bookmarks bookmark.Store
}

// New builds the backend client, stores and routes described by cfg
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	client := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout, retry.RetryConfig{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Backoff:     true,
	}, backend.WithMaxBodyBytes(cfg.MaxBodyBytes))

	store, err := OpenBookmarkStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
	}

	normalizer := news.NewNormalizer(client.BaseURL())
	items := cache.New[news.Item](cfg.ItemCacheTTL)

	newsHandler := handler.NewNewsHandler(client, normalizer, items, feed.NewViewCounter(),
		handler.WithBookmarks(store),
		handler.WithFilterPresets(cfg.Filters),
		handler.WithDefaultPageSize(cfg.DefaultPageSize),
	)

	router := handler.NewRouter(newsHandler, handler.NewBookmarkHandler(store), handler.RouterConfig{
		FrontendURL: cfg.FrontendURL,
		Limiter:     limiter,
	})

	return &Server{
		cfg:       cfg,
		router:    router,
		items:     items,
		bookmarks: store,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		if err := s.bookmarks.Close(); err != nil {
			slog.Warn("failed to close bookmark store", "error", err)
		}
	}()

	go s.items.Run(ctx, s.cfg.ItemCacheTTL)

	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", s.cfg.Port, "backend", s.cfg.BackendURL, "bookmarks", s.cfg.BookmarkBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// Run loads configuration and serves until ctx is cancelled
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Init(cfg.Debug, cfg.LogFormat)

	srv, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
