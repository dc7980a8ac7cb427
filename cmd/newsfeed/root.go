package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/deusflow/newsviews/internal/backend"
	"github.com/deusflow/newsviews/internal/feed"
	"github.com/deusflow/newsviews/internal/logger"
	"github.com/deusflow/newsviews/internal/news"
	"github.com/deusflow/newsviews/internal/retry"
	"github.com/deusflow/newsviews/internal/sanitize"
)

type options struct {
	backendURL string
	city       string
	category   string
	status     string
	limit      int
	pages      int
	timeout    time.Duration
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:          "newsfeed",
		Short:        "Print the community news feed in the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.Init(opts.debug, "text")
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.backendURL, "backend", "http://localhost:8000", "submissions service base URL")
	flags.StringVar(&opts.city, "city", "", "only show items from this city")
	flags.StringVar(&opts.category, "category", "", "only show items in this category")
	flags.StringVar(&opts.status, "status", news.StatusApproved, "submission status to show")
	flags.IntVar(&opts.limit, "limit", news.DefaultPageSize, "items per page")
	flags.IntVar(&opts.pages, "pages", 1, "number of pages to load")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "backend request timeout")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	return cmd
}

func run(ctx context.Context, out io.Writer, opts options) error {
	if opts.limit <= 0 {
		return feed.ErrInvalidPageSize
	}

	client := backend.NewClient(opts.backendURL, opts.timeout, retry.RetryConfig{MaxAttempts: 1})
	ctrl := feed.NewController(client, news.NewNormalizer(client.BaseURL()), feed.NewViewCounter(),
		feed.WithPageSize(opts.limit),
		feed.WithFilters(feed.Filters{Status: opts.status, City: opts.city, Category: opts.category}),
	)

	if err := ctrl.Load(ctx); err != nil {
		state := ctrl.State()
		return fmt.Errorf("%s: %s", state.Error, state.ErrorDetail)
	}
	printPage(out, ctrl)

	for loaded := 1; loaded < opts.pages; loaded++ {
		more, err := ctrl.LoadMore(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", feed.LoadFailedMessage, err)
		}
		if !more {
			break
		}
		printPage(out, ctrl)
	}

	return nil
}

func printPage(out io.Writer, ctrl *feed.Controller) {
	state := ctrl.State()
	p := state.Pagination

	fmt.Fprintf(out, "== page %d of %d (%d total) ==\n", p.Page, p.Pages, p.Total)
	if len(state.Items) == 0 {
		fmt.Fprintln(out, "No news found")
		return
	}

	for _, item := range state.Items {
		fmt.Fprintf(out, "\n%s\n", item.Title)
		fmt.Fprintf(out, "  %s | %s | by %s | %d views\n",
			item.City, item.Category, sanitize.FirstName(item.PublisherName), ctrl.ViewCount(item.ID))
		if item.Excerpt != "" {
			fmt.Fprintf(out, "  %s\n", item.Excerpt)
		}
		fmt.Fprintf(out, "  %s\n", item.ImageURL)
	}

	if len(state.Cities) > 0 {
		fmt.Fprintf(out, "\ncities: %s\n", strings.Join(state.Cities, ", "))
	}
}
