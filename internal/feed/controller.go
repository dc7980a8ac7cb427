// Package feed keeps the loading, error, filter and pagination state of a news feed.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"

	"github.com/deusflow/newsviews/internal/backend"
	"github.com/deusflow/newsviews/internal/metrics"
	"github.com/deusflow/newsviews/internal/news"
)

// LoadFailedMessage is the user facing text shown for any failed load
const LoadFailedMessage = "Failed to load news"

var (
	// ErrStaleResponse is returned by Load when a newer load started while it was in flight
	ErrStaleResponse   = errors.New("response superseded by a newer request")
	ErrInvalidPageSize = errors.New("page size must be positive")
)

// Source fetches raw submission payloads
type Source interface {
	Submissions(ctx context.Context, q backend.Query) (any, error)
}

type State struct {
	Loading     bool            `json:"loading"`
	Error       string          `json:"error,omitempty"`
	ErrorDetail string          `json:"details,omitempty"`
	Items       []news.Item     `json:"items"`
	Pagination  news.Pagination `json:"pagination"`
	Filters     Filters         `json:"filters"`
	Cities      []string        `json:"cities"`
	Categories  []string        `json:"categories"`
}

type Controller struct {
	source     Source
	normalizer *news.Normalizer
	views      *ViewCounter

	mu       sync.Mutex
	seq      uint64
	pageSize int
	state    State
}

type Option func(*Controller)

func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
			c.state.Pagination.Limit = n
		}
	}
}

func WithFilters(f Filters) Option {
	return func(c *Controller) {
		c.state.Filters = f
	}
}

func WithPage(page int) Option {
	return func(c *Controller) {
		if page > 0 {
			c.state.Pagination.Page = page
		}
	}
}

// NewController creates a controller in its initial state: approved items,
// first page, nothing loaded yet. views is shared between controllers of the
// same session so view counts stay put across refetches.
func NewController(source Source, normalizer *news.Normalizer, views *ViewCounter, opts ...Option) *Controller {
	if views == nil {
		views = NewViewCounter()
	}
	c := &Controller{
		source:     source,
		normalizer: normalizer,
		views:      views,
		pageSize:   news.DefaultPageSize,
		state: State{
			Items:      []news.Item{},
			Pagination: news.Pagination{Total: 0, Page: 1, Pages: 1, Limit: news.DefaultPageSize},
			Filters:    DefaultFilters(),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Items = append([]news.Item(nil), c.state.Items...)
	s.Cities = append([]string(nil), c.state.Cities...)
	s.Categories = append([]string(nil), c.state.Categories...)
	return s
}

// ViewCount returns the stable view count for an item identifier
func (c *Controller) ViewCount(id string) int {
	return c.views.Count(id)
}

// Load fetches the page described by the current filters and pagination.
// Failures are recorded in the state and also returned.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state.Loading = true
	q := c.queryLocked()
	c.mu.Unlock()

	payload, err := c.source.Submissions(ctx, q)
	var res *news.Result
	if err == nil {
		res, err = c.normalizer.Normalize(payload, q.Limit)
		if err != nil {
			metrics.Global.IncrementNormalizeFailures()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		slog.Debug("discarding stale feed response", "request", seq, "latest", c.seq)
		return ErrStaleResponse
	}

	c.state.Loading = false

	if err != nil {
		slog.Warn("feed load failed", "skip", q.Skip, "limit", q.Limit, "error", err)
		c.state.Error = LoadFailedMessage
		c.state.ErrorDetail = err.Error()
		c.state.Items = []news.Item{}
		c.state.Cities = nil
		c.state.Categories = nil
		return err
	}

	for _, item := range res.Items {
		c.views.Count(item.ID)
	}
	metrics.Global.RecordNormalized(string(res.Shape), len(res.Items))

	c.state.Items = res.Items
	c.state.Pagination = res.Pagination
	c.state.Error = ""
	c.state.ErrorDetail = ""
	c.state.Cities = unique(res.Items, func(i news.Item) string { return i.City })
	c.state.Categories = unique(res.Items, func(i news.Item) string { return i.Category })
	return nil
}

// ChangeFilters merges a partial filter update, returns to the first page and reloads
func (c *Controller) ChangeFilters(ctx context.Context, u FilterUpdate) error {
	c.mu.Lock()
	c.state.Filters = c.state.Filters.Merge(u)
	c.state.Pagination.Page = 1
	c.mu.Unlock()

	return c.Load(ctx)
}

// Reset restores the default filters on the first page and reloads
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.state.Filters = DefaultFilters()
	c.state.Pagination.Page = 1
	c.mu.Unlock()

	return c.Load(ctx)
}

// LoadMore moves to the next page if there is one. It reports whether a
// load happened.
func (c *Controller) LoadMore(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if !c.state.Pagination.HasNext() {
		c.mu.Unlock()
		return false, nil
	}
	c.state.Pagination.Page++
	c.mu.Unlock()

	return true, c.Load(ctx)
}

// GoTo loads a specific page, clamping values below one
func (c *Controller) GoTo(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.state.Pagination.Page = page
	c.mu.Unlock()

	return c.Load(ctx)
}

// SetPageSize changes the number of items per page and returns to the first page
func (c *Controller) SetPageSize(ctx context.Context, n int) error {
	if n <= 0 {
		return ErrInvalidPageSize
	}
	c.mu.Lock()
	c.pageSize = n
	c.state.Pagination.Limit = n
	c.state.Pagination.Page = 1
	c.mu.Unlock()

	return c.Load(ctx)
}

func (c *Controller) queryLocked() backend.Query {
	page := c.state.Pagination.Page
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt / c.pageSize; page > maxPage {
		page = maxPage
	}
	return backend.Query{
		Skip:     (page - 1) * c.pageSize,
		Limit:    c.pageSize,
		Status:   c.state.Filters.Status,
		City:     c.state.Filters.City,
		Category: c.state.Filters.Category,
	}
}

// unique collects the distinct non-empty values of key in first seen order
func unique(items []news.Item, key func(news.Item) string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		v := key(item)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
