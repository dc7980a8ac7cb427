package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/newsviews/internal/backend"
	"github.com/deusflow/newsviews/internal/bookmark"
	"github.com/deusflow/newsviews/internal/cache"
	"github.com/deusflow/newsviews/internal/config"
	"github.com/deusflow/newsviews/internal/feed"
	"github.com/deusflow/newsviews/internal/metrics"
	"github.com/deusflow/newsviews/internal/news"
	"github.com/deusflow/newsviews/internal/sanitize"
)

// Backend is the part of the submissions service the handlers use
type Backend interface {
	Submissions(ctx context.Context, q backend.Query) (any, error)
	NewsByID(ctx context.Context, id string) (any, error)
}

type NewsHandler struct {
	backend    Backend
	normalizer *news.Normalizer
	items      *cache.Cache[news.Item]
	views      *feed.ViewCounter
	bookmarks  bookmark.Store
	presets    config.FilterPresets
	pageSize   int
}

// NewsHandlerOption configures optional NewsHandler collaborators
type NewsHandlerOption func(*NewsHandler)

func WithBookmarks(store bookmark.Store) NewsHandlerOption {
	return func(h *NewsHandler) { h.bookmarks = store }
}

func WithFilterPresets(p config.FilterPresets) NewsHandlerOption {
	return func(h *NewsHandler) { h.presets = p }
}

func WithDefaultPageSize(n int) NewsHandlerOption {
	return func(h *NewsHandler) {
		if n > 0 {
			h.pageSize = n
		}
	}
}

func NewNewsHandler(b Backend, normalizer *news.Normalizer, items *cache.Cache[news.Item], views *feed.ViewCounter, opts ...NewsHandlerOption) *NewsHandler {
	h := &NewsHandler{
		backend:    b,
		normalizer: normalizer,
		items:      items,
		views:      views,
		pageSize:   news.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GetNews proxies one page of submissions and returns it normalized
func (h *NewsHandler) GetNews(c *gin.Context) {
	limit := getQueryLimit(c, h.pageSize)
	page := getQueryPage(c, limit)

	q := backend.Query{
		Skip:     (page - 1) * limit,
		Limit:    limit,
		Status:   c.Query("status"),
		City:     c.Query("city"),
		Category: c.Query("category"),
	}

	payload, err := h.backend.Submissions(c.Request.Context(), q)
	if err != nil {
		respondBackendError(c, err)
		return
	}

	res, err := h.normalizer.Normalize(payload, limit)
	if err != nil {
		metrics.Global.IncrementNormalizeFailures()
		slog.Error("error normalizing news", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": feed.LoadFailedMessage, "details": err.Error()})
		return
	}

	h.remember(res.Items)
	metrics.Global.RecordNormalized(string(res.Shape), len(res.Items))

	c.JSON(http.StatusOK, NewsListResponse{
		Items:      res.Items,
		Pagination: res.Pagination,
	})
}

// GetNewsItem returns a single item, from cache when fresh
func (h *NewsHandler) GetNewsItem(c *gin.Context) {
	id := c.Param("id")

	if item, ok := h.items.Get(id); ok {
		c.JSON(http.StatusOK, item)
		return
	}

	notFound := gin.H{"error": fmt.Sprintf("Failed to fetch news with ID %s", id)}

	payload, err := h.backend.NewsByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("error fetching news item", "id", id, "error", err)
		c.JSON(http.StatusNotFound, notFound)
		return
	}

	item, err := h.normalizer.NormalizeOne(payload)
	if err != nil {
		metrics.Global.IncrementNormalizeFailures()
		slog.Error("error normalizing news item", "id", id, "error", err)
		c.JSON(http.StatusNotFound, notFound)
		return
	}

	h.items.Set(id, item)
	if item.ID != id {
		h.items.Set(item.ID, item)
	}

	c.JSON(http.StatusOK, item)
}

// GetFeed loads one feed page through a feed controller and renders its state.
// Load failures are part of the state, so the response is always 200.
func (h *NewsHandler) GetFeed(c *gin.Context) {
	filters := feed.DefaultFilters()
	if status, ok := c.GetQuery("status"); ok {
		filters.Status = status
	}
	filters.City = c.Query("city")
	filters.Category = c.Query("category")

	limit := getQueryLimit(c, h.pageSize)
	ctrl := feed.NewController(h.backend, h.normalizer, h.views,
		feed.WithPageSize(limit),
		feed.WithPage(getQueryPage(c, limit)),
		feed.WithFilters(filters),
	)

	if err := ctrl.Load(c.Request.Context()); err != nil {
		slog.Warn("feed load failed", "error", err)
	}

	state := ctrl.State()
	h.remember(state.Items)

	bookmarked := h.bookmarkedSet(c)

	items := make([]FeedItemResponse, 0, len(state.Items))
	for _, item := range state.Items {
		item.PublisherPhone = sanitize.MaskPhone(item.PublisherPhone)
		items = append(items, FeedItemResponse{
			Item:               item,
			PublisherFirstName: sanitize.FirstName(item.PublisherName),
			ViewCount:          ctrl.ViewCount(item.ID),
			Bookmarked:         bookmarked[item.ID],
		})
	}

	c.JSON(http.StatusOK, FeedResponse{
		Items:      items,
		Pagination: state.Pagination,
		Filters:    state.Filters,
		Cities:     nonNil(state.Cities),
		Categories: nonNil(state.Categories),
		Error:      state.Error,
		Details:    state.ErrorDetail,
	})
}

// GetFilters returns the configured filter presets
func (h *NewsHandler) GetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, FiltersResponse{
		Statuses:   []string{news.StatusApproved, news.StatusPending, news.StatusRejected},
		Cities:     nonNil(h.presets.Cities),
		Categories: nonNil(h.presets.Categories),
	})
}

func (h *NewsHandler) remember(items []news.Item) {
	for _, item := range items {
		h.items.Set(item.ID, item)
	}
}

func (h *NewsHandler) bookmarkedSet(c *gin.Context) map[string]bool {
	clientID := c.GetHeader(ClientIDHeader)
	if h.bookmarks == nil || clientID == "" {
		return nil
	}

	ids, err := h.bookmarks.List(c.Request.Context(), bookmark.Namespace(clientID))
	if err != nil {
		slog.Warn("error listing bookmarks for feed", "error", err)
		return nil
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func respondBackendError(c *gin.Context, err error) {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		slog.Error("backend returned error status", "status", statusErr.StatusCode)
		c.JSON(statusErr.StatusCode, gin.H{"error": statusErr.Error(), "details": statusErr.Body})
		return
	}

	slog.Error("error fetching news", "error", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch from backend", "details": err.Error()})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramValue := c.Query(name)

	if paramValue == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramValue)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", paramValue, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context, defaultLimit int) int {
	const maxLimit = 100

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

// getQueryPage clamps page so that (page-1)*limit stays representable
func getQueryPage(c *gin.Context, limit int) int {
	page := getQueryInt("page", 1, c)
	if page < 1 {
		slog.Warn("invalid query parameter, using default", "param", "page", "value", page, "default", 1)
		return 1
	}

	if maxPage := math.MaxInt / limit; page > maxPage {
		slog.Warn("query parameter exceeds max, clamping", "param", "page", "value", page, "max", maxPage)
		return maxPage
	}
	return page
}
