package news

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	DefaultTitle     = "Untitled"
	DefaultPublisher = "Anonymous"
	DefaultCity      = "Unknown"
	DefaultCategory  = "General"

	// DefaultPageSize is used when a caller asks for a non-positive page size
	DefaultPageSize = 10

	generatedIDPrefix = "generated-"
)

// Item is a submission after normalization. Every string field except
// PublisherPhone and Excerpt is always non-empty.
type Item struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Excerpt        string `json:"excerpt"`
	PublisherName  string `json:"publisher_name"`
	PublisherPhone string `json:"publisher_phone,omitempty"`
	City           string `json:"city"`
	Category       string `json:"category"`
	ImageURL       string `json:"image_url"`
	Status         string `json:"status"`
	SubmittedAt    string `json:"submission_date"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// HasNext reports whether a page after the current one exists
func (p Pagination) HasNext() bool {
	return p.Page < p.Pages
}

// GenerateID derives a stable identifier for a record without an id.
// The 32-bit rolling hash runs over UTF-16 code units so identifiers match
// the ones browsers already bookmarked.
func GenerateID(rec *Object) string {
	base := strings.Join([]string{
		firstNonEmpty(rec, "timestamp", "submission_date"),
		firstNonEmpty(rec, "title"),
		firstNonEmpty(rec, "description", "content"),
	}, "-")

	var h int32
	for _, unit := range utf16.Encode([]rune(base)) {
		h = h*31 + int32(unit)
	}

	n := int64(h)
	if n < 0 {
		n = -n
	}
	return generatedIDPrefix + strconv.FormatInt(n, 16)
}

// IsGeneratedID reports whether id was produced by GenerateID
func IsGeneratedID(id string) bool {
	return strings.HasPrefix(id, generatedIDPrefix)
}
