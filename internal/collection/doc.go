// Package collection implements the list view model shared by the admin
// screens: a search, filter and sort pipeline over an in-memory collection,
// followed by fixed-size pagination.
//
// The pipeline is pure. Schema.Apply never reorders its input; it returns a
// new slice holding the matching records in sort order. Paginate slices the
// result and clamps the requested page into range.
//
// View holds the criteria a caller keeps between requests. Changing the
// search term, a filter, the price range or the sort key sends the view back
// to page 1; changing the page leaves every other criterion alone.
package collection
