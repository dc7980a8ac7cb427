package handler

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/deusflow/newsviews/internal/ratelimit"
)

const localFrontendURL = "http://localhost:3000"

type RouterConfig struct {
	// FrontendURL is allowed by CORS next to the local development origin
	FrontendURL string
	// Limiter throttles /api routes when set
	Limiter *ratelimit.Limiter
}

// NewRouter wires every route
func NewRouter(news *NewsHandler, bookmarks *BookmarkHandler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger())

	allowedOrigins := []string{localFrontendURL}
	if cfg.FrontendURL != "" && cfg.FrontendURL != localFrontendURL {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", ClientIDHeader, RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
	}))

	r.GET("/health", GetHealth)
	r.GET("/metrics", GetMetrics)

	api := r.Group("/api")
	if cfg.Limiter != nil {
		api.Use(RateLimit(cfg.Limiter))
	}
	api.GET("/news", news.GetNews)
	api.GET("/news/:id", news.GetNewsItem)
	api.GET("/feed", news.GetFeed)
	api.GET("/filters", news.GetFilters)

	api.GET("/bookmarks", bookmarks.List)
	api.GET("/bookmarks/:id", bookmarks.Get)
	api.PUT("/bookmarks/:id", bookmarks.Add)
	api.DELETE("/bookmarks/:id", bookmarks.Remove)
	api.POST("/bookmarks/:id/toggle", bookmarks.Toggle)

	return r
}
