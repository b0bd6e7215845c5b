package services

import (
	"context"
	"fmt"
	"maps"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/collection"
	"backoffice/internal/models"
	"backoffice/internal/repository"
)

// ProductDraft carries the editable fields of a product form.
type ProductDraft struct {
	Name        string        `json:"name"`
	MainImage   string        `json:"mainImage"`
	SubImages   []string      `json:"subImages"`
	Color       string        `json:"color"`
	Sizes       []models.Size `json:"sizes"`
	Brand       string        `json:"brand"`
	Description string        `json:"description"`
	Price       string        `json:"price"`
	Status      string        `json:"status"`
}

type ProductService interface {
	ListProducts(ctx context.Context, query collection.Query) (collection.Page[models.Product], error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, draft ProductDraft) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, draft ProductDraft) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type productService struct {
	productRepo repository.ProductRepository
	notifier    Notifier
	pageSize    int

	now func() time.Time
	sku func() string
}

func NewProductService(productRepo repository.ProductRepository, notifier Notifier, pageSize int) ProductService {
	return &productService{
		productRepo: productRepo,
		notifier:    notifier,
		pageSize:    pageSize,
		now:         time.Now,
		sku:         func() string { return fmt.Sprintf("SKU-%04d", rand.IntN(10000)) },
	}
}

// ListProducts hides deleted products unless the status filter asks for them.
func (s *productService) ListProducts(ctx context.Context, query collection.Query) (collection.Page[models.Product], error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return collection.Page[models.Product]{}, err
	}

	query.Filters = maps.Clone(query.Filters)
	if raw := query.Filters[FilterStatus]; raw != "" {
		if status, ok := models.ParseProductStatus(raw); ok {
			query.Filters[FilterStatus] = string(status)
		}
	}
	if query.Filters[FilterStatus] != string(models.ProductDeleted) {
		visible := products[:0]
		for _, p := range products {
			if p.Status != models.ProductDeleted {
				visible = append(visible, p)
			}
		}
		products = visible
	}

	return collection.Paginate(ProductSchema.Apply(products, query), s.pageSize, query.Page), nil
}

func (s *productService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *productService) CreateProduct(ctx context.Context, draft ProductDraft) (*models.Product, error) {
	var created models.Product
	err := s.productRepo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		status, err := validateProduct(draft)
		if err != nil {
			return nil, err
		}
		switch status {
		case "":
			status = models.ProductActive
		case models.ProductDeleted:
			return nil, invalid("status", "new products cannot be created as deleted")
		}

		candidate := models.Product{Name: draft.Name, Brand: draft.Brand, Color: draft.Color}
		key := candidate.DuplicateKey()
		ids := make(map[int64]bool, len(products))
		skus := make(map[string]bool, len(products))
		for _, p := range products {
			if p.Status != models.ProductDeleted && p.DuplicateKey() == key {
				return nil, fmt.Errorf("%w: %s by %s in %s already exists", ErrDuplicateProduct, p.Name, p.Brand, p.Color)
			}
			ids[p.ID] = true
			skus[p.SKU] = true
		}

		now := s.now()
		created = models.Product{
			ID:           nextID(now, func(id int64) bool { return ids[id] }),
			SKU:          s.uniqueSKU(skus),
			PurchaseUnit: 0,
			Status:       status,
			CreatedAt:    now.UTC(),
		}
		applyProductDraft(&created, draft)
		return append(products, created), nil
	})
	if err := report(s.notifier, "Create product", "Product created successfully", err); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct does not re-run the duplicate check.
func (s *productService) UpdateProduct(ctx context.Context, id int64, draft ProductDraft) (*models.Product, error) {
	var updated models.Product
	err := s.productRepo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		status, err := validateProduct(draft)
		if err != nil {
			return nil, err
		}
		for i := range products {
			if products[i].ID != id {
				continue
			}
			applyProductDraft(&products[i], draft)
			if status != "" {
				products[i].Status = status
			}
			updated = products[i]
			return products, nil
		}
		return nil, repository.ErrNotFound
	})
	if err := report(s.notifier, "Update product", "Product updated successfully", err); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct is a soft delete: the record stays with status deleted.
func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	err := s.productRepo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		for i := range products {
			if products[i].ID == id && products[i].Status != models.ProductDeleted {
				products[i].Status = models.ProductDeleted
				return products, nil
			}
		}
		return nil, repository.ErrNotFound
	})
	return report(s.notifier, "Delete product", "Product deleted successfully", err)
}

func (s *productService) uniqueSKU(taken map[string]bool) string {
	sku := s.sku()
	for i := 0; taken[sku] && i < 100; i++ {
		sku = s.sku()
	}
	return sku
}

func applyProductDraft(p *models.Product, draft ProductDraft) {
	p.Name = strings.TrimSpace(draft.Name)
	p.MainImage = draft.MainImage
	p.SubImages = draft.SubImages
	p.Color = strings.TrimSpace(draft.Color)
	p.Sizes = append([]models.Size(nil), draft.Sizes...)
	p.Brand = strings.TrimSpace(draft.Brand)
	p.Description = draft.Description
	p.Price = strings.TrimSpace(draft.Price)
	p.Stock = models.StockOf(p.Sizes)
}

// validateProduct checks fields in form order and stops at the first
// failure. It returns the parsed status, empty when none was given.
func validateProduct(d ProductDraft) (models.ProductStatus, error) {
	if strings.TrimSpace(d.Name) == "" {
		return "", invalid("name", "product name is required")
	}
	if strings.TrimSpace(d.Brand) == "" {
		return "", invalid("brand", "brand is required")
	}
	if strings.TrimSpace(d.Color) == "" {
		return "", invalid("color", "color is required")
	}
	price, ok := collection.ParsePrice(d.Price)
	if !ok {
		return "", invalid("price", "price must be a number")
	}
	if !price.IsPositive() {
		return "", invalid("price", "price must be greater than zero")
	}
	if len(d.Sizes) == 0 {
		return "", invalid("sizes", "at least one size is required")
	}
	seen := make(map[string]bool, len(d.Sizes))
	for _, size := range d.Sizes {
		if _, err := strconv.ParseFloat(strings.TrimSpace(size.Size), 64); err != nil {
			return "", invalid("sizes", fmt.Sprintf("size %q is not numeric", size.Size))
		}
		if seen[size.Size] {
			return "", invalid("sizes", fmt.Sprintf("size %s is listed twice", size.Size))
		}
		seen[size.Size] = true
		if size.Quantity < 0 {
			return "", invalid("sizes", fmt.Sprintf("quantity for size %s cannot be negative", size.Size))
		}
	}
	if d.Status == "" {
		return "", nil
	}
	status, ok := models.ParseProductStatus(d.Status)
	if !ok {
		return "", invalid("status", fmt.Sprintf("unknown status %q", d.Status))
	}
	return status, nil
}
