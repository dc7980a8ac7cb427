// Package bookmark persists the news items a visitor has bookmarked.
package bookmark

import (
	"context"
	"errors"
	"strings"
)

// KeyPrefix is the fixed namespace every bookmark list lives under
const KeyPrefix = "newsviews_bookmarks"

var (
	ErrInvalidID        = errors.New("bookmark id must not be empty")
	ErrInvalidNamespace = errors.New("bookmark namespace must not be empty")
)

// Store keeps an ordered, duplicate free list of news ids per namespace.
// Lists have no size bound and never expire.
type Store interface {
	List(ctx context.Context, namespace string) ([]string, error)
	Add(ctx context.Context, namespace, id string) error
	Remove(ctx context.Context, namespace, id string) error
	Contains(ctx context.Context, namespace, id string) (bool, error)
	// Toggle adds id when absent and removes it when present, returning
	// whether it is bookmarked afterwards.
	Toggle(ctx context.Context, namespace, id string) (bool, error)
	Close() error
}

// Namespace builds the storage key for one client's bookmarks
func Namespace(clientID string) string {
	return KeyPrefix + ":" + strings.TrimSpace(clientID)
}

func validate(namespace, id string) error {
	if strings.TrimSpace(namespace) == "" {
		return ErrInvalidNamespace
	}
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}
	return nil
}
