package collection

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders two records: negative when a sorts first.
type Comparator[T any] func(a, b T) int

// Schema describes how a collection of T is searched, filtered and sorted.
type Schema[T any] struct {
	// SearchFields are matched case-insensitively; a record matches when any
	// field contains the search term.
	SearchFields []func(T) string
	// Filters maps a filter name to the field it compares by exact equality.
	Filters map[string]func(T) string
	// Price, when set, enables the MinPrice/MaxPrice range.
	Price func(T) string
	Sorts map[string]Comparator[T]
}

type Query struct {
	Search   string            `json:"search,omitempty"`
	Filters  map[string]string `json:"filters,omitempty"`
	MinPrice string            `json:"minPrice,omitempty"`
	MaxPrice string            `json:"maxPrice,omitempty"`
	Sort     string            `json:"sort,omitempty"`
	Page     int               `json:"page,omitempty"`
}

const (
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortNameAsc    = "name-asc"
	SortNameDesc   = "name-desc"
	SortEmailAsc   = "email-asc"
	SortEmailDesc  = "email-desc"
	SortDateNewest = "date-newest"
	SortDateOldest = "date-oldest"
)

// Apply returns the records of items matching q, in q.Sort order. An empty
// or unknown sort key keeps insertion order.
func (s Schema[T]) Apply(items []T, q Query) []T {
	term := strings.ToLower(q.Search)
	minPrice, hasMin := ParsePrice(q.MinPrice)
	maxPrice, hasMax := ParsePrice(q.MaxPrice)
	if s.Price == nil {
		hasMin, hasMax = false, false
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if term != "" && !s.matchesSearch(item, term) {
			continue
		}
		if !s.matchesFilters(item, q.Filters) {
			continue
		}
		if hasMin || hasMax {
			price, ok := ParsePrice(s.Price(item))
			if !ok {
				continue
			}
			if hasMin && price.LessThan(minPrice) {
				continue
			}
			if hasMax && price.GreaterThan(maxPrice) {
				continue
			}
		}
		out = append(out, item)
	}

	if cmp, ok := s.Sorts[q.Sort]; ok {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

// SortKeys lists the sort keys the schema understands.
func (s Schema[T]) SortKeys() []string {
	keys := make([]string, 0, len(s.Sorts))
	for k := range s.Sorts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s Schema[T]) matchesSearch(item T, term string) bool {
	for _, field := range s.SearchFields {
		if strings.Contains(strings.ToLower(field(item)), term) {
			return true
		}
	}
	return false
}

func (s Schema[T]) matchesFilters(item T, filters map[string]string) bool {
	for name, want := range filters {
		if want == "" {
			continue
		}
		field, ok := s.Filters[name]
		if !ok {
			continue
		}
		if field(item) != want {
			return false
		}
	}
	return true
}

// ParsePrice parses a decimal price string. Blank and malformed values
// report false.
func ParsePrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ByPrice compares decimal prices. Records whose price does not parse sort
// after every priced record in both directions.
func ByPrice[T any](price func(T) string, desc bool) Comparator[T] {
	return func(a, b T) int {
		pa, okA := ParsePrice(price(a))
		pb, okB := ParsePrice(price(b))
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		if desc {
			return pb.Cmp(pa)
		}
		return pa.Cmp(pb)
	}
}

// ByText compares strings with English collation rules, so "apple" sorts
// before "Banana".
func ByText[T any](field func(T) string, desc bool) Comparator[T] {
	var mu sync.Mutex
	col := collate.New(language.English)
	return func(a, b T) int {
		mu.Lock()
		c := col.CompareString(field(a), field(b))
		mu.Unlock()
		if desc {
			return -c
		}
		return c
	}
}

// ByTime compares timestamps, oldest first unless newestFirst.
func ByTime[T any](field func(T) time.Time, newestFirst bool) Comparator[T] {
	return func(a, b T) int {
		c := field(a).Compare(field(b))
		if newestFirst {
			return -c
		}
		return c
	}
}
