// Package catalog derives the visible catalog page from the full book list and
// the user's filter, sort and page selection.
package catalog

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Veraticus/toko/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CategoryAll matches books of every category.
const CategoryAll model.Category = "all"

// SortKey selects the ordering of filtered books.
type SortKey string

// Sort keys.
const (
	// SortNewest keeps the input order, which is newest first.
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortTitle     SortKey = "title"
)

// SortKeys lists the sort keys in the order the UI cycles through them.
var SortKeys = []SortKey{SortNewest, SortPriceAsc, SortPriceDesc, SortTitle}

// ParseSortKey validates a sort key name.
func ParseSortKey(raw string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(SortKeys, key) {
		return key, nil
	}
	return "", fmt.Errorf("unknown sort key %q (want one of newest, price-asc, price-desc, title)", raw)
}

// ParseCategoryFilter validates a category filter value, accepting "all".
func ParseCategoryFilter(raw string) (model.Category, error) {
	c := model.Category(strings.ToLower(strings.TrimSpace(raw)))
	if c == "" || c == CategoryAll {
		return CategoryAll, nil
	}
	if !c.IsValid() {
		return "", fmt.Errorf("unknown category %q", raw)
	}
	return c, nil
}

// FilterState is the user-selected combination of category, search text,
// price bounds and sort order.
type FilterState struct {
	Category model.Category
	Query    string
	Sort     SortKey
	MinPrice float64
	MaxPrice float64
}

// DefaultFilter matches every book in newest-first order.
func DefaultFilter() FilterState {
	return FilterState{
		Category: CategoryAll,
		Sort:     SortNewest,
		MinPrice: 0,
		MaxPrice: math.Inf(1),
	}
}

// IsDefault reports whether f narrows nothing and keeps the default order.
func (f FilterState) IsDefault() bool {
	return f == DefaultFilter()
}

// HasEmptyPriceRange reports whether the bounds are inverted.
func (f FilterState) HasEmptyPriceRange() bool {
	return f.MinPrice > f.MaxPrice
}

func (f FilterState) matches(b model.Book, fold cases.Caser, foldedQuery string) bool {
	if f.Category != CategoryAll && f.Category != "" && b.Category != f.Category {
		return false
	}
	if b.Price < f.MinPrice || b.Price > f.MaxPrice {
		return false
	}
	if foldedQuery != "" && !strings.Contains(fold.String(b.Title), foldedQuery) {
		return false
	}
	return true
}

// ApplyFilters returns the books matching f, ordered by f.Sort. The input is
// not modified. Inverted price bounds yield an empty result.
func ApplyFilters(items []model.Book, f FilterState, tag language.Tag) []model.Book {
	if f.HasEmptyPriceRange() {
		return []model.Book{}
	}

	fold := cases.Fold()
	query := fold.String(f.Query)
	results := make([]model.Book, 0, len(items))
	for _, b := range items {
		if f.matches(b, fold, query) {
			results = append(results, b)
		}
	}

	switch f.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(results, func(a, b model.Book) int {
			return compareFloat(a.Price, b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(results, func(a, b model.Book) int {
			return compareFloat(b.Price, a.Price)
		})
	case SortTitle:
		col := collate.New(tag)
		slices.SortStableFunc(results, func(a, b model.Book) int {
			return col.CompareString(a.Title, b.Title)
		})
	case SortNewest:
		// upstream order is newest first
	}

	return results
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
