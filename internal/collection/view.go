package collection

import "maps"

// View is the mutable list state behind one admin screen.
type View struct {
	query Query
}

func NewView() *View {
	return &View{query: Query{Filters: map[string]string{}, Page: 1}}
}

// Query returns a copy of the current criteria.
func (v *View) Query() Query {
	q := v.query
	q.Filters = maps.Clone(v.query.Filters)
	return q
}

func (v *View) SetSearch(term string) {
	if v.query.Search != term {
		v.query.Search = term
		v.query.Page = 1
	}
}

// SetFilter sets one named filter; an empty value clears it.
func (v *View) SetFilter(name, value string) {
	if v.query.Filters[name] == value {
		return
	}
	if value == "" {
		delete(v.query.Filters, name)
	} else {
		v.query.Filters[name] = value
	}
	v.query.Page = 1
}

func (v *View) SetPriceRange(minPrice, maxPrice string) {
	if v.query.MinPrice != minPrice || v.query.MaxPrice != maxPrice {
		v.query.MinPrice, v.query.MaxPrice = minPrice, maxPrice
		v.query.Page = 1
	}
}

func (v *View) SetSort(key string) {
	if v.query.Sort != key {
		v.query.Sort = key
		v.query.Page = 1
	}
}

func (v *View) SetPage(page int) {
	v.query.Page = max(page, 1)
}
