package services

import (
	"strconv"
	"time"

	"backoffice/internal/collection"
	"backoffice/internal/models"
)

// Filter names accepted by the list operations.
const (
	FilterStatus = "status"
	FilterBrand  = "brand"
	FilterColor  = "color"
	FilterRole   = "role"
)

var ProductSchema = func() collection.Schema[models.Product] {
	name := func(p models.Product) string { return p.Name }
	price := func(p models.Product) string { return p.Price }
	created := func(p models.Product) time.Time { return p.CreatedAt }
	return collection.Schema[models.Product]{
		SearchFields: []func(models.Product) string{
			name,
			func(p models.Product) string { return p.SKU },
		},
		Filters: map[string]func(models.Product) string{
			FilterStatus: func(p models.Product) string { return string(p.Status) },
			FilterBrand:  func(p models.Product) string { return p.Brand },
			FilterColor:  func(p models.Product) string { return p.Color },
		},
		Price: price,
		Sorts: map[string]collection.Comparator[models.Product]{
			collection.SortPriceAsc:   collection.ByPrice(price, false),
			collection.SortPriceDesc:  collection.ByPrice(price, true),
			collection.SortNameAsc:    collection.ByText(name, false),
			collection.SortNameDesc:   collection.ByText(name, true),
			collection.SortDateNewest: collection.ByTime(created, true),
			collection.SortDateOldest: collection.ByTime(created, false),
		},
	}
}()

var OrderSchema = func() collection.Schema[models.Order] {
	product := func(o models.Order) string { return o.Product }
	price := func(o models.Order) string { return o.Price }
	created := func(o models.Order) time.Time { return o.CreatedAt }
	return collection.Schema[models.Order]{
		SearchFields: []func(models.Order) string{
			func(o models.Order) string { return strconv.FormatInt(o.ID, 10) },
			product,
			func(o models.Order) string { return o.SenderName },
			func(o models.Order) string { return o.Phone },
		},
		Filters: map[string]func(models.Order) string{
			FilterStatus: func(o models.Order) string { return string(o.Status) },
		},
		Price: price,
		Sorts: map[string]collection.Comparator[models.Order]{
			collection.SortPriceAsc:   collection.ByPrice(price, false),
			collection.SortPriceDesc:  collection.ByPrice(price, true),
			collection.SortNameAsc:    collection.ByText(product, false),
			collection.SortNameDesc:   collection.ByText(product, true),
			collection.SortDateNewest: collection.ByTime(created, true),
			collection.SortDateOldest: collection.ByTime(created, false),
		},
	}
}()

var UserSchema = func() collection.Schema[models.User] {
	name := func(u models.User) string { return u.Name }
	email := func(u models.User) string { return u.Email }
	created := func(u models.User) time.Time { return u.CreatedAt }
	return collection.Schema[models.User]{
		SearchFields: []func(models.User) string{
			func(u models.User) string { return strconv.FormatInt(u.ID, 10) },
			name,
			email,
		},
		Filters: map[string]func(models.User) string{
			FilterStatus: func(u models.User) string { return string(u.Status) },
			FilterRole:   func(u models.User) string { return string(u.Role) },
		},
		Sorts: map[string]collection.Comparator[models.User]{
			collection.SortNameAsc:    collection.ByText(name, false),
			collection.SortNameDesc:   collection.ByText(name, true),
			collection.SortEmailAsc:   collection.ByText(email, false),
			collection.SortEmailDesc:  collection.ByText(email, true),
			collection.SortDateNewest: collection.ByTime(created, true),
			collection.SortDateOldest: collection.ByTime(created, false),
		},
	}
}()
