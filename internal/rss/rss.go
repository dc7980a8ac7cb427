package rss

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/newsviews/internal/news"
)

// LooksLikeFeed reports whether a backend body should be parsed as RSS/Atom
func LooksLikeFeed(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "xml") || strings.Contains(ct, "rss") || strings.Contains(ct, "atom") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(body), []byte("<"))
}

// ParseFeed parses an RSS, Atom or JSON Feed document into raw submission
// records that the normalizer understands.
func ParseFeed(body []byte) ([]any, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error parsing feed: %w", err)
	}

	records := make([]any, 0, len(feed.Items))
	for _, item := range feed.Items {
		records = append(records, toRecord(item))
	}

	slog.Debug("parsed feed payload", "title", feed.Title, "type", feed.FeedType, "items", len(records))
	return records, nil
}

func toRecord(item *gofeed.Item) *news.Object {
	rec := news.NewObject()

	setIf(rec, "id", item.GUID)
	setIf(rec, "title", item.Title)
	setIf(rec, "description", item.Description)
	setIf(rec, "content", item.Content)
	setIf(rec, "link", item.Link)

	if item.Author != nil {
		setIf(rec, "author", item.Author.Name)
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		setIf(rec, "author", item.Authors[0].Name)
	}

	if len(item.Categories) > 0 {
		setIf(rec, "category", item.Categories[0])
	}

	switch {
	case item.PublishedParsed != nil:
		rec.Set("timestamp", item.PublishedParsed.UTC().Format(time.RFC3339))
	case item.Published != "":
		rec.Set("timestamp", item.Published)
	}
	if item.UpdatedParsed != nil {
		rec.Set("submission_date", item.UpdatedParsed.UTC().Format(time.RFC3339))
	}

	if image := imageOf(item); image != "" {
		rec.Set("image_url", image)
	}

	return rec
}

func imageOf(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

func setIf(rec *news.Object, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		rec.Set(key, value)
	}
}
