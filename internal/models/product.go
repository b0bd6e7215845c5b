package models

import (
	"strings"
	"time"
)

type Product struct {
	ID           int64         `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	SKU          string        `json:"sku" yaml:"sku"`
	MainImage    string        `json:"mainImage,omitempty" yaml:"mainImage"`
	SubImages    []string      `json:"subImages,omitempty" yaml:"subImages"`
	Color        string        `json:"color" yaml:"color"`
	Sizes        []Size        `json:"sizes" yaml:"sizes"`
	Brand        string        `json:"brand" yaml:"brand"`
	Description  string        `json:"description,omitempty" yaml:"description"`
	Price        string        `json:"price" yaml:"price"` // decimal as string, formatted at render time
	PurchaseUnit int           `json:"purchaseUnit" yaml:"purchaseUnit"`
	Stock        int           `json:"stock" yaml:"stock"`
	Status       ProductStatus `json:"status" yaml:"status"`
	CreatedAt    time.Time     `json:"createdAt" yaml:"createdAt"`
}

type Size struct {
	Size     string `json:"size" yaml:"size"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
	ProductDeleted  ProductStatus = "deleted"
)

// ParseProductStatus maps the legacy spellings ("Released", "Unreleased",
// "Deleted", "0", "Active", "Inactive") onto the closed set.
func ParseProductStatus(s string) (ProductStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "released":
		return ProductActive, true
	case "inactive", "unreleased":
		return ProductInactive, true
	case "deleted", "0":
		return ProductDeleted, true
	}
	return "", false
}

// StockOf sums the per-size quantities.
func StockOf(sizes []Size) int {
	total := 0
	for _, s := range sizes {
		total += s.Quantity
	}
	return total
}

// Normalize recomputes derived fields and folds legacy status values.
func (p *Product) Normalize() {
	p.Stock = StockOf(p.Sizes)
	if status, ok := ParseProductStatus(string(p.Status)); ok {
		p.Status = status
	} else if p.Status == "" {
		p.Status = ProductActive
	}
}

// DuplicateKey is the normalised (name, brand, color) triple used to detect
// duplicate products.
func (p Product) DuplicateKey() string {
	fold := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return fold(p.Name) + "\x00" + fold(p.Brand) + "\x00" + fold(p.Color)
}
