package repository

import (
	"context"

	"backoffice/internal/models"
	"backoffice/internal/store"
)

type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id int64) error
	Mutate(ctx context.Context, fn func(orders []models.Order) ([]models.Order, error)) error
}

func NewOrderRepository(s *store.Store, seed []models.Order) OrderRepository {
	return newCollectionRepository(s, OrdersKey, seed, func(o models.Order) int64 { return o.ID })
}
