package feed

import "github.com/deusflow/newsviews/internal/news"

type Filters struct {
	Status   string `json:"status"`
	City     string `json:"city,omitempty"`
	Category string `json:"category,omitempty"`
}

func DefaultFilters() Filters {
	return Filters{Status: news.StatusApproved}
}

// FilterUpdate is a partial change. A nil field is left alone, an empty
// string clears the filter.
type FilterUpdate struct {
	Status   *string
	City     *string
	Category *string
}

func (f Filters) Merge(u FilterUpdate) Filters {
	if u.Status != nil {
		f.Status = *u.Status
	}
	if u.City != nil {
		f.City = *u.City
	}
	if u.Category != nil {
		f.Category = *u.Category
	}
	return f
}
