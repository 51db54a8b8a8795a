package query

import (
	"net/url"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedbackboard/internal/models"
)

func TestTranslateDefaults(t *testing.T) {
	q, err := Translate(Params{})
	require.NoError(t, err)

	assert.Equal(t, Filter{}, q.Filter)
	assert.Equal(t, SortCreatedAt, q.Sort.Field)
	assert.False(t, q.Sort.Ascending, "default listing is newest first")
}

// TestTranslate covers every parameter, including the rule that invalid
// filter values are rejected rather than silently ignored.
func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		want    Query
		wantErr bool
	}{
		{
			name:   "text search",
			params: Params{Q: "login"},
			want:   Query{Filter: Filter{Text: "login"}, Sort: Sort{Field: SortCreatedAt}},
		},
		{
			name:   "status filter with space",
			params: Params{Status: "In Progress"},
			want:   Query{Filter: Filter{Status: models.StatusInProgress}, Sort: Sort{Field: SortCreatedAt}},
		},
		{
			name:   "category filter",
			params: Params{Category: "UI"},
			want:   Query{Filter: Filter{Category: models.CategoryUI}, Sort: Sort{Field: SortCreatedAt}},
		},
		{
			name:   "all filters combined",
			params: Params{Q: "dark", Status: "Open", Category: "Feature"},
			want: Query{
				Filter: Filter{Text: "dark", Status: models.StatusOpen, Category: models.CategoryFeature},
				Sort:   Sort{Field: SortCreatedAt},
			},
		},
		{
			name:   "sort by upvotes ascending",
			params: Params{SortBy: "upvotes", SortOrder: "asc"},
			want:   Query{Sort: Sort{Field: SortUpvotes, Ascending: true}},
		},
		{
			name:   "sort by upvotes defaults to descending",
			params: Params{SortBy: "upvotes"},
			want:   Query{Sort: Sort{Field: SortUpvotes}},
		},
		{
			name:   "unknown sort order falls back to descending",
			params: Params{SortBy: "createdAt", SortOrder: "sideways"},
			want:   Query{Sort: Sort{Field: SortCreatedAt}},
		},
		{
			name:   "uppercase ASC is not asc",
			params: Params{SortOrder: "ASC"},
			want:   Query{Sort: Sort{Field: SortCreatedAt}},
		},
		{
			name:   "sort order without sortBy applies to createdAt",
			params: Params{SortOrder: "asc"},
			want:   Query{Sort: Sort{Field: SortCreatedAt, Ascending: true}},
		},
		{name: "category value as status", params: Params{Status: "Bug"}, wantErr: true},
		{name: "status value as category", params: Params{Category: "Done"}, wantErr: true},
		{name: "unknown sortBy", params: Params{SortBy: "title"}, wantErr: true},
		{name: "lowercase status", params: Params{Status: "open"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate(tt.params)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, models.IsValidation(err), "want ValidationError, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestParamsFromValuesEmptyMeansAbsent mirrors a client that always sends
// every parameter, leaving unused ones blank.
func TestParamsFromValuesEmptyMeansAbsent(t *testing.T) {
	v, err := url.ParseQuery("q=&status=&category=&sortBy=createdAt&sortOrder=desc")
	require.NoError(t, err)

	q, err := Translate(ParamsFromValues(v))
	require.NoError(t, err)
	assert.Equal(t, Default(), q)
}

func TestFilterMatches(t *testing.T) {
	items := []models.Feedback{
		{Title: "Login issue", Description: "Session expires", Status: models.StatusOpen, Category: models.CategoryBug},
		{Title: "Sign-in page", Description: "cannot LOGIN with SSO", Status: models.StatusPlanned, Category: models.CategoryBug},
		{Title: "Dark mode", Description: "Please add dark mode", Status: models.StatusOpen, Category: models.CategoryFeature},
	}

	match := func(f Filter) []string {
		var titles []string
		for i := range items {
			if f.Matches(&items[i]) {
				titles = append(titles, items[i].Title)
			}
		}
		return titles
	}

	assert.Equal(t, []string{"Login issue", "Sign-in page"}, match(Filter{Text: "login"}))
	assert.Equal(t, []string{"Dark mode"}, match(Filter{Text: "DARK"}))
	assert.Equal(t, []string{"Login issue", "Dark mode"}, match(Filter{Status: models.StatusOpen}))
	assert.Equal(t, []string{"Login issue"}, match(Filter{Text: "login", Status: models.StatusOpen}))
	assert.Equal(t, []string{"Dark mode"}, match(Filter{Category: models.CategoryFeature}))
	assert.Empty(t, match(Filter{Text: "login", Category: models.CategoryFeature}))
	assert.Len(t, match(Filter{}), 3)
}

func TestFilterMatchesLiteralText(t *testing.T) {
	fb := &models.Feedback{Title: "Progress at 100%", Description: "a.b"}

	assert.True(t, Filter{Text: "100%"}.Matches(fb))
	assert.True(t, Filter{Text: "a.b"}.Matches(fb))
	assert.False(t, Filter{Text: "a_b"}.Matches(fb))
	assert.False(t, Filter{Text: ".*"}.Matches(fb))
}

func TestSortLess(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []models.Feedback{
		{Title: "b", Upvotes: 5, CreatedAt: base.Add(2 * time.Hour)},
		{Title: "a", Upvotes: 1, CreatedAt: base},
		{Title: "c", Upvotes: 3, CreatedAt: base.Add(time.Hour)},
	}

	order := func(s Sort) []string {
		sorted := append([]models.Feedback(nil), items...)
		sort.SliceStable(sorted, func(i, j int) bool { return s.Less(&sorted[i], &sorted[j]) })
		titles := make([]string, len(sorted))
		for i, fb := range sorted {
			titles[i] = fb.Title
		}
		return titles
	}

	assert.Equal(t, []string{"b", "c", "a"}, order(Sort{Field: SortCreatedAt}))
	assert.Equal(t, []string{"a", "c", "b"}, order(Sort{Field: SortCreatedAt, Ascending: true}))
	assert.Equal(t, []string{"a", "c", "b"}, order(Sort{Field: SortUpvotes, Ascending: true}))
	assert.Equal(t, []string{"b", "c", "a"}, order(Sort{Field: SortUpvotes}))
}

func TestQueryKey(t *testing.T) {
	a, err := Translate(Params{SortOrder: "sideways"})
	require.NoError(t, err)
	b, err := Translate(Params{SortBy: "createdAt", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, a.Key(), b.Key(), "equivalent queries share a key")

	c, err := Translate(Params{SortBy: "upvotes"})
	require.NoError(t, err)
	assert.NotEqual(t, a.Key(), c.Key())
}
