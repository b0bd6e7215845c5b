package repository

import (
	"context"

	"backoffice/internal/models"
	"backoffice/internal/store"
)

type UserRepository interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	Mutate(ctx context.Context, fn func(users []models.User) ([]models.User, error)) error
}

func NewUserRepository(s *store.Store, seed []models.User) UserRepository {
	return newCollectionRepository(s, UsersKey, seed, func(u models.User) int64 { return u.ID })
}
