// Package query turns feedback listing parameters into a filter and sort
// specification. It never touches storage; each store backend renders a
// Query into its own dialect.
package query

import (
	"net/url"
	"strings"

	"feedbackboard/internal/models"
)

// SortField names the field a listing is ordered by.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpvotes   SortField = "upvotes"
)

// Params holds the raw listing parameters. An empty string means the
// parameter was not supplied.
type Params struct {
	Q         string
	Status    string
	Category  string
	SortBy    string
	SortOrder string
}

// ParamsFromValues reads listing parameters from a URL query string.
func ParamsFromValues(v url.Values) Params {
	return Params{
		Q:         v.Get("q"),
		Status:    v.Get("status"),
		Category:  v.Get("category"),
		SortBy:    v.Get("sortBy"),
		SortOrder: v.Get("sortOrder"),
	}
}

// Filter is a conjunction of optional predicates. Zero values mean
// "no constraint".
type Filter struct {
	Text     string
	Status   models.Status
	Category models.Category
}

// Sort is the single ordering key of a listing. There is no secondary key;
// ties keep the store's natural order.
type Sort struct {
	Field     SortField
	Ascending bool
}

// Query is the translated form of Params.
type Query struct {
	Filter Filter
	Sort   Sort
}

// Default returns the unfiltered, newest-first listing.
func Default() Query {
	return Query{Sort: Sort{Field: SortCreatedAt}}
}

// Translate validates p and builds the corresponding Query. Unknown status,
// category or sortBy values are rejected rather than ignored. Any sortOrder
// other than "asc" means descending.
func Translate(p Params) (Query, error) {
	q := Default()
	q.Filter.Text = p.Q

	if p.Status != "" {
		st, err := models.ParseStatus(p.Status)
		if err != nil {
			return Query{}, models.Invalidf("Invalid status filter. Allowed statuses: %s", models.JoinStatuses())
		}
		q.Filter.Status = st
	}

	if p.Category != "" {
		c, err := models.ParseCategory(p.Category)
		if err != nil {
			return Query{}, err
		}
		q.Filter.Category = c
	}

	switch SortField(p.SortBy) {
	case "":
	case SortCreatedAt, SortUpvotes:
		q.Sort.Field = SortField(p.SortBy)
	default:
		return Query{}, models.Invalidf("Invalid sortBy value. Allowed values: upvotes, createdAt")
	}

	q.Sort.Ascending = p.SortOrder == "asc"
	return q, nil
}

// Matches reports whether f selects the given item. Text matching is a
// literal, case-insensitive substring test on title or description.
func (f Filter) Matches(fb *models.Feedback) bool {
	if f.Status != "" && fb.Status != f.Status {
		return false
	}
	if f.Category != "" && fb.Category != f.Category {
		return false
	}
	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		if !strings.Contains(strings.ToLower(fb.Title), needle) &&
			!strings.Contains(strings.ToLower(fb.Description), needle) {
			return false
		}
	}
	return true
}

// Less orders a before b according to s. Use with a stable sort so equal
// keys keep their natural order.
func (s Sort) Less(a, b *models.Feedback) bool {
	switch s.Field {
	case SortUpvotes:
		if s.Ascending {
			return a.Upvotes < b.Upvotes
		}
		return a.Upvotes > b.Upvotes
	default:
		if s.Ascending {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	}
}

// Direction returns "asc" or "desc".
func (s Sort) Direction() string {
	if s.Ascending {
		return "asc"
	}
	return "desc"
}

// Key returns a canonical string for q, suitable as a cache key. Two
// queries with the same semantics produce the same key.
func (q Query) Key() string {
	v := url.Values{}
	v.Set("q", q.Filter.Text)
	v.Set("status", string(q.Filter.Status))
	v.Set("category", string(q.Filter.Category))
	v.Set("sortBy", string(q.Sort.Field))
	v.Set("sortOrder", q.Sort.Direction())
	return v.Encode()
}
