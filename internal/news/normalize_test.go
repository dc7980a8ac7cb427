package news

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://localhost:8000"

func newTestNormalizer() *Normalizer {
	n := NewNormalizer(testBaseURL)
	n.Now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return n
}

func mustDecode(t *testing.T, body string) any {
	t.Helper()
	payload, err := DecodePayload([]byte(body))
	require.NoError(t, err)
	return payload
}

func requireComplete(t *testing.T, items []Item) {
	t.Helper()
	for _, item := range items {
		assert.NotEmpty(t, item.ID)
		assert.NotEmpty(t, item.Title)
		assert.NotEmpty(t, item.City)
		assert.NotEmpty(t, item.Category)
		assert.NotEmpty(t, item.Status)
		assert.NotEmpty(t, item.PublisherName)
		assert.NotEmpty(t, item.ImageURL)
		assert.NotEmpty(t, item.SubmittedAt)
	}
}

func TestNormalize_PaginatedVerbatim(t *testing.T) {
	payload := mustDecode(t, `{"items":[{"id":"a1","title":"Flood warning"}],"total":25,"page":2,"pages":3}`)

	res, err := newTestNormalizer().Normalize(payload, 10)
	require.NoError(t, err)
	assert.Equal(t, ShapePaginated, res.Shape)
	assert.Equal(t, Pagination{Total: 25, Page: 2, Pages: 3, Limit: 10}, res.Pagination)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "a1", res.Items[0].ID)
	assert.Equal(t, "Flood warning", res.Items[0].Title)
	requireComplete(t, res.Items)
}

func TestNormalize_PaginatedDefaults(t *testing.T) {
	res, err := newTestNormalizer().Normalize(mustDecode(t, `{"items":[{}]}`), 20)
	require.NoError(t, err)
	assert.Equal(t, Pagination{Total: 0, Page: 1, Pages: 1, Limit: 20}, res.Pagination)
	requireComplete(t, res.Items)
}

func TestNormalize_BareArray(t *testing.T) {
	payload := mustDecode(t, `[{"id":"1","title":"A"},{"id":"2","title":"B"},{"title":"C"}]`)

	res, err := newTestNormalizer().Normalize(payload, 10)
	require.NoError(t, err)
	assert.Equal(t, ShapeArray, res.Shape)
	assert.Equal(t, Pagination{Total: 3, Page: 1, Pages: 1, Limit: 3}, res.Pagination)
	require.Len(t, res.Items, 3)
	requireComplete(t, res.Items)
}

func TestNormalize_EmptyArrayKeepsPositiveLimit(t *testing.T) {
	res, err := newTestNormalizer().Normalize(mustDecode(t, `[]`), 10)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, Pagination{Total: 0, Page: 1, Pages: 1, Limit: 10}, res.Pagination)
}

func TestNormalize_EmptyPayloads(t *testing.T) {
	for _, body := range []string{"", "null", "{}", "  "} {
		res, err := newTestNormalizer().Normalize(mustDecode(t, body), 10)
		require.NoError(t, err, "body %q", body)
		assert.Equal(t, ShapeEmpty, res.Shape)
		assert.Empty(t, res.Items)
		assert.NotNil(t, res.Items)
	}
}

func TestNormalize_UnknownUsesFirstArrayInDocumentOrder(t *testing.T) {
	payload := mustDecode(t, `{"meta":{"v":1},"count":2,"zeta":[{"id":"first"}],"alpha":[{"id":"x"},{"id":"y"}]}`)

	res, err := newTestNormalizer().Normalize(payload, 10)
	require.NoError(t, err)
	assert.Equal(t, ShapeUnknown, res.Shape)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "first", res.Items[0].ID)
	assert.Equal(t, Pagination{Total: 1, Page: 1, Pages: 1, Limit: 1}, res.Pagination)
}

func TestNormalize_ItemsNotArrayFallsThrough(t *testing.T) {
	payload := mustDecode(t, `{"items":"nope","results":[{"id":"r1"}]}`)

	res, err := newTestNormalizer().Normalize(payload, 10)
	require.NoError(t, err)
	assert.Equal(t, ShapeUnknown, res.Shape)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "r1", res.Items[0].ID)
}

func TestNormalize_Failures(t *testing.T) {
	for _, body := range []string{`{"message":"maintenance"}`, `"oops"`, `42`, `true`} {
		_, err := newTestNormalizer().Normalize(mustDecode(t, body), 10)
		require.ErrorIs(t, err, ErrUnrecognizedPayload, "body %s", body)
	}
}

func TestNormalize_AcceptsPlainMaps(t *testing.T) {
	payload := map[string]any{
		"items": []any{map[string]any{"id": "m1", "location": "Austin"}},
		"total": float64(1),
	}

	res, err := newTestNormalizer().Normalize(payload, 5)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Austin", res.Items[0].City)
	assert.Equal(t, 1, res.Pagination.Total)
}

func TestNormalize_SkipsNonObjectEntries(t *testing.T) {
	res, err := newTestNormalizer().Normalize(mustDecode(t, `[null, "x", {"id":"ok"}]`), 10)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "ok", res.Items[0].ID)
	assert.Equal(t, 3, res.Pagination.Total)
}

func TestItem_FieldPrecedence(t *testing.T) {
	rec, ok := asObject(mustDecode(t, `{
		"id": 42,
		"title": "Bridge repairs",
		"content": "From content",
		"description": "From description",
		"author": "Jane Roe",
		"publisher_name": "Ignored",
		"publisher_phone": "5551234567",
		"location": "Austin",
		"city": "Dallas",
		"category": "Infrastructure",
		"status": "pending",
		"timestamp": "2025-01-02T03:04:05Z",
		"submission_date": "2024-12-31",
		"media_files": ["/media/bridge.png"],
		"image_url": "https://example.com/other.png"
	}`))
	require.True(t, ok)

	item := newTestNormalizer().Item(rec)
	assert.Equal(t, Item{
		ID:             "42",
		Title:          "Bridge repairs",
		Description:    "From content",
		Excerpt:        "From content",
		PublisherName:  "Jane Roe",
		PublisherPhone: "5551234567",
		City:           "Austin",
		Category:       "Infrastructure",
		ImageURL:       "http://localhost:8000/media/bridge.png",
		Status:         "pending",
		SubmittedAt:    "2025-01-02T03:04:05Z",
	}, item)
}

func TestItem_Defaults(t *testing.T) {
	item := newTestNormalizer().Item(NewObject())

	assert.Equal(t, "generated-5a0", item.ID)
	assert.Equal(t, DefaultTitle, item.Title)
	assert.Equal(t, "", item.Description)
	assert.Equal(t, DefaultPublisher, item.PublisherName)
	assert.Equal(t, DefaultCity, item.City)
	assert.Equal(t, DefaultCategory, item.Category)
	assert.Equal(t, StatusApproved, item.Status)
	assert.Equal(t, PlaceholderImageURL, item.ImageURL)
	assert.Equal(t, "2025-03-01T12:00:00Z", item.SubmittedAt)
}

func TestItem_SecondaryFieldNames(t *testing.T) {
	rec, _ := asObject(mustDecode(t, `{
		"id": "s1",
		"description": "<p>Plain <em>words</em></p>",
		"publisher_name": "Sam",
		"phone": "123456",
		"city": "Dallas",
		"submission_date": "2024-12-31",
		"image_url": "https://drive.google.com/open?id=XYZ&usp=sharing"
	}`))

	item := newTestNormalizer().Item(rec)
	assert.Equal(t, "<p>Plain <em>words</em></p>", item.Description)
	assert.Equal(t, "Plain words", item.Excerpt)
	assert.Equal(t, "Sam", item.PublisherName)
	assert.Equal(t, "123456", item.PublisherPhone)
	assert.Equal(t, "Dallas", item.City)
	assert.Equal(t, "2024-12-31", item.SubmittedAt)
	assert.Equal(t, "https://drive.google.com/uc?export=view&id=XYZ", item.ImageURL)
}

func TestItem_EmptyStringsCountAsMissing(t *testing.T) {
	rec, _ := asObject(mustDecode(t, `{"id":"", "title":"", "location":"", "city":"Austin", "media_files":[]}`))

	item := newTestNormalizer().Item(rec)
	assert.True(t, IsGeneratedID(item.ID))
	assert.Equal(t, DefaultTitle, item.Title)
	assert.Equal(t, "Austin", item.City)
	assert.Equal(t, PlaceholderImageURL, item.ImageURL)
}

func TestNormalizeOne(t *testing.T) {
	n := newTestNormalizer()

	item, err := n.NormalizeOne(mustDecode(t, `{"id":"7","title":"Single"}`))
	require.NoError(t, err)
	assert.Equal(t, "7", item.ID)

	_, err = n.NormalizeOne(mustDecode(t, `[]`))
	require.ErrorIs(t, err, ErrUnrecognizedPayload)

	_, err = n.NormalizeOne(mustDecode(t, `{}`))
	require.ErrorIs(t, err, ErrUnrecognizedPayload)
}
