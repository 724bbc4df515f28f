// Package pagination filters, sorts, projects and slices in-memory result sets
// for the list endpoints.
package pagination

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const DefaultPageSize = 10

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder maps anything other than "desc" to ascending.
func ParseOrder(raw string) Order {
	if strings.EqualFold(strings.TrimSpace(raw), string(Desc)) {
		return Desc
	}
	return Asc
}

// Fielder exposes named fields for filtering and sorting. Keys are the JSON
// names of the item.
type Fielder interface {
	Field(key string) (any, bool)
}

type Options[T Fielder] struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder Order
	// FilterBy keeps items whose every listed field equals the given value.
	FilterBy map[string]any
	// Filter is ANDed with FilterBy.
	Filter func(T) bool
}

type Page[R any] struct {
	Items       []R  `json:"items"`
	TotalCount  int  `json:"totalCount"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// Paginate applies filter, sort, transform and slicing in that order.
// totalCount is taken after filtering and before slicing. A page past the end
// yields an empty slice.
func Paginate[T Fielder, R any](items []T, opts Options[T], transform func(T) R) Page[R] {
	page, pageSize := opts.Page, opts.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, opts.FilterBy) && (opts.Filter == nil || opts.Filter(item)) {
			filtered = append(filtered, item)
		}
	}

	if opts.SortBy != "" {
		sortItems(filtered, opts.SortBy, opts.SortOrder)
	}

	total := len(filtered)
	if !OffsetFits(page, pageSize) {
		return Page[R]{Items: []R{}, TotalCount: total, HasPrevious: true}
	}
	offset := (page - 1) * pageSize

	start := offset
	if start > total {
		start = total
	}
	end := offset + pageSize
	if end > total {
		end = total
	}

	out := make([]R, 0, end-start)
	for _, item := range filtered[start:end] {
		out = append(out, transform(item))
	}

	return Page[R]{
		Items:       out,
		TotalCount:  total,
		HasPrevious: offset > 0,
		HasNext:     offset+pageSize < total,
	}
}

// OffsetFits reports whether the page's end offset is representable as an
// int. Both arguments must be positive.
func OffsetFits(page int, pageSize int) bool {
	return page-1 <= (math.MaxInt-pageSize)/pageSize
}

// TotalPages rounds up; zero items means zero pages.
func TotalPages(total int, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func matchesAll[T Fielder](item T, filterBy map[string]any) bool {
	for key, want := range filterBy {
		got, ok := item.Field(key)
		if !ok || !equal(got, want) {
			return false
		}
	}
	return true
}

func sortItems[T Fielder](items []T, key string, order Order) {
	coll := collate.New(language.Und)

	sort.SliceStable(items, func(i int, j int) bool {
		a, okA := items[i].Field(key)
		b, okB := items[j].Field(key)
		// missing values go last in both directions
		aNil, bNil := !okA || a == nil, !okB || b == nil
		if aNil || bNil {
			return !aNil && bNil
		}
		if order == Desc {
			return compare(coll, b, a) < 0
		}
		return compare(coll, a, b) < 0
	})
}
