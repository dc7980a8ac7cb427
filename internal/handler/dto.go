package handler

import (
	"github.com/deusflow/newsviews/internal/feed"
	"github.com/deusflow/newsviews/internal/news"
)

type NewsListResponse struct {
	Items      []news.Item     `json:"items"`
	Pagination news.Pagination `json:"pagination"`
}

// FeedItemResponse is an item as rendered on a feed card
type FeedItemResponse struct {
	news.Item
	PublisherFirstName string `json:"publisher_first_name"`
	ViewCount          int    `json:"view_count"`
	Bookmarked         bool   `json:"bookmarked"`
}

type FeedResponse struct {
	Items      []FeedItemResponse `json:"items"`
	Pagination news.Pagination    `json:"pagination"`
	Filters    feed.Filters       `json:"filters"`
	Cities     []string           `json:"cities"`
	Categories []string           `json:"categories"`
	Error      string             `json:"error,omitempty"`
	Details    string             `json:"details,omitempty"`
}

type FiltersResponse struct {
	Statuses   []string `json:"statuses"`
	Cities     []string `json:"cities"`
	Categories []string `json:"categories"`
}

type BookmarkListResponse struct {
	Items []string `json:"items"`
}

type BookmarkStatusResponse struct {
	ID         string `json:"id"`
	Bookmarked bool   `json:"bookmarked"`
}
