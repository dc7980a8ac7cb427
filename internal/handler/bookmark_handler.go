package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/newsviews/internal/bookmark"
	"github.com/deusflow/newsviews/internal/metrics"
)

// ClientIDHeader identifies the browser whose bookmarks a request touches
const ClientIDHeader = "X-Client-ID"

type BookmarkHandler struct {
	store bookmark.Store
}

func NewBookmarkHandler(store bookmark.Store) *BookmarkHandler {
	return &BookmarkHandler{store: store}
}

func (h *BookmarkHandler) List(c *gin.Context) {
	ns, ok := namespace(c)
	if !ok {
		return
	}

	ids, err := h.store.List(c.Request.Context(), ns)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, BookmarkListResponse{Items: nonNil(ids)})
}

func (h *BookmarkHandler) Get(c *gin.Context) {
	ns, ok := namespace(c)
	if !ok {
		return
	}
	id := c.Param("id")

	bookmarked, err := h.store.Contains(c.Request.Context(), ns, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, BookmarkStatusResponse{ID: id, Bookmarked: bookmarked})
}

func (h *BookmarkHandler) Add(c *gin.Context) {
	ns, ok := namespace(c)
	if !ok {
		return
	}
	id := c.Param("id")

	if err := h.store.Add(c.Request.Context(), ns, id); err != nil {
		respondStoreError(c, err)
		return
	}
	metrics.Global.IncrementBookmarkOperations()

	c.JSON(http.StatusOK, BookmarkStatusResponse{ID: id, Bookmarked: true})
}

func (h *BookmarkHandler) Remove(c *gin.Context) {
	ns, ok := namespace(c)
	if !ok {
		return
	}
	id := c.Param("id")

	if err := h.store.Remove(c.Request.Context(), ns, id); err != nil {
		respondStoreError(c, err)
		return
	}
	metrics.Global.IncrementBookmarkOperations()

	c.JSON(http.StatusOK, BookmarkStatusResponse{ID: id, Bookmarked: false})
}

func (h *BookmarkHandler) Toggle(c *gin.Context) {
	ns, ok := namespace(c)
	if !ok {
		return
	}
	id := c.Param("id")

	bookmarked, err := h.store.Toggle(c.Request.Context(), ns, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	metrics.Global.IncrementBookmarkOperations()

	c.JSON(http.StatusOK, BookmarkStatusResponse{ID: id, Bookmarked: bookmarked})
}

func namespace(c *gin.Context) (string, bool) {
	clientID := c.GetHeader(ClientIDHeader)
	if clientID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing " + ClientIDHeader + " header"})
		return "", false
	}
	return bookmark.Namespace(clientID), true
}

func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, bookmark.ErrInvalidID) || errors.Is(err, bookmark.ErrInvalidNamespace) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slog.Error("bookmark store error", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Bookmark storage error"})
}
