package news

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/deusflow/newsviews/internal/sanitize"
)

// ErrUnrecognizedPayload is the only failure of Normalize: no usable array of
// submissions could be found in the payload.
var ErrUnrecognizedPayload = errors.New("could not normalize payload: no submission list found")

// Shape names the payload layout a response was recognized as.
type Shape string

const (
	ShapePaginated Shape = "paginated"
	ShapeArray     Shape = "array"
	ShapeEmpty     Shape = "empty"
	ShapeUnknown   Shape = "unknown"
)

const defaultExcerptBytes = 280

type Result struct {
	Items      []Item     `json:"items"`
	Pagination Pagination `json:"pagination"`
	Shape      Shape      `json:"-"`
}

// Normalizer maps backend payloads onto Items
type Normalizer struct {
	BaseURL      string
	ExcerptBytes int
	Now          func() time.Time
}

func NewNormalizer(baseURL string) *Normalizer {
	return &Normalizer{
		BaseURL:      baseURL,
		ExcerptBytes: defaultExcerptBytes,
		Now:          time.Now,
	}
}

type shapeRule struct {
	shape  Shape
	detect func(payload any) bool
	build  func(n *Normalizer, payload any, limit int) (*Result, error)
}

// Rules are tried in order, first match wins.
var shapeRules = []shapeRule{
	{shape: ShapePaginated, detect: isPaginated, build: (*Normalizer).fromPaginated},
	{shape: ShapeArray, detect: isArray, build: (*Normalizer).fromArray},
	{shape: ShapeEmpty, detect: isEmpty, build: (*Normalizer).fromEmpty},
	{shape: ShapeUnknown, detect: isObject, build: (*Normalizer).fromUnknown},
}

// Normalize recognizes the payload shape and maps it to items plus pagination.
// limit is the page size the caller asked for.
func (n *Normalizer) Normalize(payload any, limit int) (*Result, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	for _, rule := range shapeRules {
		if !rule.detect(payload) {
			continue
		}
		res, err := rule.build(n, payload, limit)
		if err != nil {
			slog.Warn("payload normalization failed", "shape", rule.shape, "error", err)
			return nil, err
		}
		res.Shape = rule.shape
		slog.Debug("payload normalized", "shape", rule.shape, "items", len(res.Items))
		return res, nil
	}

	slog.Warn("payload normalization failed", "type", fmt.Sprintf("%T", payload))
	return nil, ErrUnrecognizedPayload
}

// NormalizeOne maps a single submission record
func (n *Normalizer) NormalizeOne(payload any) (Item, error) {
	rec, ok := asObject(payload)
	if !ok || rec.Len() == 0 {
		return Item{}, ErrUnrecognizedPayload
	}
	return n.Item(rec), nil
}

// Item maps one raw submission record, defaulting every missing field
func (n *Normalizer) Item(rec *Object) Item {
	id := firstNonEmpty(rec, "id")
	if id == "" {
		id = GenerateID(rec)
	}

	description := firstNonEmpty(rec, "content", "description")

	submittedAt := firstNonEmpty(rec, "timestamp", "submission_date")
	if submittedAt == "" {
		submittedAt = n.now().UTC().Format(time.RFC3339)
	}

	image := firstMediaFile(rec)
	if image == "" {
		image = firstNonEmpty(rec, "image_url")
	}

	excerptBytes := n.ExcerptBytes
	if excerptBytes <= 0 {
		excerptBytes = defaultExcerptBytes
	}

	return Item{
		ID:             id,
		Title:          firstOr(rec, DefaultTitle, "title"),
		Description:    description,
		Excerpt:        sanitize.Excerpt(sanitize.PlainText(description), excerptBytes),
		PublisherName:  firstOr(rec, DefaultPublisher, "author", "publisher_name"),
		PublisherPhone: firstNonEmpty(rec, "publisher_phone", "phone"),
		City:           firstOr(rec, DefaultCity, "location", "city"),
		Category:       firstOr(rec, DefaultCategory, "category"),
		ImageURL:       DirectImageURL(image, n.BaseURL),
		Status:         firstOr(rec, StatusApproved, "status"),
		SubmittedAt:    submittedAt,
	}
}

func (n *Normalizer) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

func (n *Normalizer) fromPaginated(payload any, limit int) (*Result, error) {
	obj, _ := asObject(payload)
	list, _ := obj.Get("items")

	total := number(field(obj, "total"))
	page := number(field(obj, "page"))
	if page == 0 {
		page = 1
	}
	pages := number(field(obj, "pages"))
	if pages == 0 {
		pages = 1
	}

	return &Result{
		Items:      n.items(list.([]any)),
		Pagination: Pagination{Total: total, Page: page, Pages: pages, Limit: limit},
	}, nil
}

func (n *Normalizer) fromArray(payload any, limit int) (*Result, error) {
	return n.single(payload.([]any), limit), nil
}

func (n *Normalizer) fromEmpty(_ any, limit int) (*Result, error) {
	return &Result{
		Items:      []Item{},
		Pagination: Pagination{Total: 0, Page: 1, Pages: 1, Limit: limit},
	}, nil
}

func (n *Normalizer) fromUnknown(payload any, limit int) (*Result, error) {
	obj, _ := asObject(payload)
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		if list, ok := v.([]any); ok {
			slog.Debug("using first array property of unrecognized payload", "key", key, "length", len(list))
			return n.single(list, limit), nil
		}
	}
	return nil, ErrUnrecognizedPayload
}

// single treats list as the only page of results
func (n *Normalizer) single(list []any, limit int) *Result {
	items := n.items(list)
	pageSize := len(list)
	if pageSize == 0 {
		pageSize = limit
	}
	return &Result{
		Items:      items,
		Pagination: Pagination{Total: len(list), Page: 1, Pages: 1, Limit: pageSize},
	}
}

func (n *Normalizer) items(list []any) []Item {
	items := make([]Item, 0, len(list))
	for i, entry := range list {
		rec, ok := asObject(entry)
		if !ok {
			slog.Debug("skipping non-object submission", "index", i)
			continue
		}
		items = append(items, n.Item(rec))
	}
	return items
}

func firstMediaFile(rec *Object) string {
	v, ok := rec.Get("media_files")
	if !ok {
		return ""
	}
	files, ok := v.([]any)
	if !ok || len(files) == 0 {
		return ""
	}
	return text(files[0])
}

func field(obj *Object, key string) any {
	v, _ := obj.Get(key)
	return v
}

func isPaginated(payload any) bool {
	obj, ok := asObject(payload)
	if !ok {
		return false
	}
	list, _ := obj.Get("items")
	_, isList := list.([]any)
	return isList
}

func isArray(payload any) bool {
	_, ok := payload.([]any)
	return ok
}

func isEmpty(payload any) bool {
	if payload == nil {
		return true
	}
	obj, ok := asObject(payload)
	return ok && obj.Len() == 0
}

func isObject(payload any) bool {
	_, ok := asObject(payload)
	return ok
}
