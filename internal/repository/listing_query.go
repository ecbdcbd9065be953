package repository

import (
	"fmt"
	"strings"
)

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// argPlaceholder marks where a predicate's bound value goes. Every occurrence
// inside one predicate refers to the same positional parameter.
const argPlaceholder = "{arg}"

// ListingFilter holds the optional catalogue filters. Empty fields apply no filter.
type ListingFilter struct {
	Category   string
	University string
	Search     string
	SortBy     string
}

type predicate struct {
	clause string
	arg    any
}

var listingOrderings = map[string]string{
	SortPriceAsc:  "l.price ASC, l.id DESC",
	SortPriceDesc: "l.price DESC, l.id DESC",
}

const defaultListingOrdering = "l.created_at DESC, l.id DESC"

const listingViewColumns = `
	SELECT l.id, l.seller_uid, l.name, l.price, l.description, l.category, l.university,
	       l.photos, l.whatsapp_number, l.created_at,
	       s.business_name, s.business_logo, s.is_verified
	FROM listings l
	JOIN sellers s ON l.seller_uid = s.uid`

// predicates returns the filter conditions in a fixed order.
func (f ListingFilter) predicates() []predicate {
	var preds []predicate

	if f.Category != "" {
		preds = append(preds, predicate{clause: "l.category = " + argPlaceholder, arg: f.Category})
	}
	if f.University != "" {
		preds = append(preds, predicate{clause: "l.university = " + argPlaceholder, arg: f.University})
	}
	if f.Search != "" {
		preds = append(preds, predicate{
			clause: "(l.name ILIKE " + argPlaceholder + " OR l.description ILIKE " + argPlaceholder + ")",
			arg:    "%" + escapeLike(f.Search) + "%",
		})
	}

	return preds
}

func (f ListingFilter) ordering() string {
	if order, ok := listingOrderings[f.SortBy]; ok {
		return order
	}
	return defaultListingOrdering
}

// buildListingQuery composes the catalogue query. Values only ever travel as
// positional parameters.
func buildListingQuery(f ListingFilter) (string, []any) {
	var (
		sb    strings.Builder
		args  []any
		conds []string
	)

	for _, p := range f.predicates() {
		args = append(args, p.arg)
		conds = append(conds, strings.ReplaceAll(p.clause, argPlaceholder, fmt.Sprintf("$%d", len(args))))
	}

	sb.WriteString(listingViewColumns)
	if len(conds) > 0 {
		sb.WriteString("\n\tWHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString("\n\tORDER BY ")
	sb.WriteString(f.ordering())

	return sb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE metacharacters in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// inPlaceholders renders "$start, $start+1, ..." for n values.
func inPlaceholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}
