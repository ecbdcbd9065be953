package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildListingQuery_NoFilters(t *testing.T) {
	query, args := buildListingQuery(ListingFilter{})

	assert.Empty(t, args)
	assert.NotContains(t, query, "WHERE")
	assert.True(t, strings.HasSuffix(query, "ORDER BY l.created_at DESC, l.id DESC"))
}

func TestBuildListingQuery_AllFilters(t *testing.T) {
	query, args := buildListingQuery(ListingFilter{
		Category:   "Food & Snacks",
		University: "MUST",
		Search:     "chips",
		SortBy:     SortPriceAsc,
	})

	assert.Equal(t, []any{"Food & Snacks", "MUST", "%chips%"}, args)
	assert.Contains(t, query, "WHERE l.category = $1 AND l.university = $2 AND (l.name ILIKE $3 OR l.description ILIKE $3)")
	assert.True(t, strings.HasSuffix(query, "ORDER BY l.price ASC, l.id DESC"))
}

func TestBuildListingQuery_PlaceholdersFollowPresentFilters(t *testing.T) {
	query, args := buildListingQuery(ListingFilter{University: "UNIMA", Search: "notes"})

	assert.Equal(t, []any{"UNIMA", "%notes%"}, args)
	assert.Contains(t, query, "WHERE l.university = $1 AND (l.name ILIKE $2 OR l.description ILIKE $2)")
	assert.NotContains(t, query, "$3")
}

func TestBuildListingQuery_Sorting(t *testing.T) {
	cases := map[string]string{
		SortPriceAsc:  "ORDER BY l.price ASC, l.id DESC",
		SortPriceDesc: "ORDER BY l.price DESC, l.id DESC",
		"":            "ORDER BY l.created_at DESC, l.id DESC",
		"newest":      "ORDER BY l.created_at DESC, l.id DESC",
		"price; DROP": "ORDER BY l.created_at DESC, l.id DESC",
	}

	for sortBy, want := range cases {
		query, _ := buildListingQuery(ListingFilter{SortBy: sortBy})
		assert.True(t, strings.HasSuffix(query, want), "sortBy=%q", sortBy)
	}
}

func TestBuildListingQuery_ValuesNeverInlined(t *testing.T) {
	hostile := "x' OR '1'='1"
	query, args := buildListingQuery(ListingFilter{Category: hostile, University: hostile, Search: hostile})

	assert.NotContains(t, query, hostile)
	assert.Len(t, args, 3)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off`, escapeLike("50% off"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestInPlaceholders(t *testing.T) {
	assert.Equal(t, "$1", inPlaceholders(1, 1))
	assert.Equal(t, "$2, $3, $4", inPlaceholders(2, 3))
}
