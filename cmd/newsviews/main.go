package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/deusflow/newsviews/internal/app"
	"github.com/deusflow/newsviews/internal/logger"
)

func main() {
	logger.Init(os.Getenv("DEBUG") == "true", os.Getenv("LOG_FORMAT"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		slog.Error("newsviews stopped", "error", err)
		os.Exit(1)
	}
}
