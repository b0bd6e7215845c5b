package repository

import (
	"context"

	"backoffice/internal/models"
	"backoffice/internal/store"
)

type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
	Mutate(ctx context.Context, fn func(products []models.Product) ([]models.Product, error)) error
}

func NewProductRepository(s *store.Store, seed []models.Product) ProductRepository {
	return newCollectionRepository(s, ProductsKey, seed, func(p models.Product) int64 { return p.ID })
}
