package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/newsviews/internal/metrics"
)

func TestBookmarks_RequireClientID(t *testing.T) {
	s := newTestServer(t, &fakeBackend{})

	w := s.do(http.MethodGet, "/api/bookmarks", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookmarks_Lifecycle(t *testing.T) {
	s := newTestServer(t, &fakeBackend{})
	client := http.Header{ClientIDHeader: {"browser-1"}}

	w := s.do(http.MethodPut, "/api/bookmarks/a1", client)
	require.Equal(t, http.StatusOK, w.Code)
	s.do(http.MethodPut, "/api/bookmarks/a2", client)
	s.do(http.MethodPut, "/api/bookmarks/a1", client)

	list := decode[BookmarkListResponse](t, s.do(http.MethodGet, "/api/bookmarks", client))
	assert.Equal(t, []string{"a1", "a2"}, list.Items)

	status := decode[BookmarkStatusResponse](t, s.do(http.MethodGet, "/api/bookmarks/a2", client))
	assert.True(t, status.Bookmarked)

	status = decode[BookmarkStatusResponse](t, s.do(http.MethodPost, "/api/bookmarks/a2/toggle", client))
	assert.False(t, status.Bookmarked)

	status = decode[BookmarkStatusResponse](t, s.do(http.MethodPost, "/api/bookmarks/a3/toggle", client))
	assert.True(t, status.Bookmarked)

	w = s.do(http.MethodDelete, "/api/bookmarks/a1", client)
	require.Equal(t, http.StatusOK, w.Code)

	list = decode[BookmarkListResponse](t, s.do(http.MethodGet, "/api/bookmarks", client))
	assert.Equal(t, []string{"a3"}, list.Items)

	other := decode[BookmarkListResponse](t, s.do(http.MethodGet, "/api/bookmarks", http.Header{ClientIDHeader: {"browser-2"}}))
	assert.Empty(t, other.Items)

	assert.EqualValues(t, 6, metrics.Global.GetStats()["bookmark_operations"])
}
