package catalog

import (
	"net/url"
	"strconv"
)

// Query — канонический минимальный набор параметров листинга.
// Zero value of a field means "no constraint"; Values() omits such keys
// entirely so the listing service never sees an empty-string constraint.
// The struct is comparable: equal filter states build ==-equal queries,
// which the controller's staleness guard and the client-side request
// de-duplication both rely on.
type Query struct {
	Page      int
	PageSize  int
	Search    string
	MinRating int
	Genre     string
	Authors   string
	Sort      SortKey
	Available bool
}

// BuildQuery maps a filter state snapshot to its query. Pure: the pending
// search buffer is the only field that never reaches the wire.
func BuildQuery(s FilterState) Query {
	return Query{
		Page:      s.Page,
		PageSize:  s.PageSize,
		Search:    s.SearchText,
		MinRating: s.MinRating,
		Genre:     s.Genre,
		Authors:   s.Author,
		Sort:      s.Sort,
		Available: s.OnlyAvailable,
	}
}

// Values renders the query for an HTTP listing collaborator. Only page and
// page_size are always present.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("page_size", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.MinRating > 0 {
		v.Set("min_rating", strconv.Itoa(q.MinRating))
	}
	if q.Genre != "" {
		v.Set("genre", q.Genre)
	}
	if q.Authors != "" {
		v.Set("authors", q.Authors)
	}
	if q.Sort != SortNone {
		v.Set("sort", string(q.Sort))
	}
	if q.Available {
		v.Set("available", "true")
	}
	return v
}
