package migrations

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"backoffice/internal/models"
	"backoffice/internal/repository"
	"backoffice/internal/services"
	"backoffice/internal/store"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Data is the default content of the back-office collections.
type Data struct {
	Products []models.Product `yaml:"products"`
	Orders   []models.Order   `yaml:"orders"`
	Users    []models.User    `yaml:"users"`
}

// DefaultData decodes the embedded seed data. User passwords are hashed.
func DefaultData() (*Data, error) {
	return ParseData(seedYAML)
}

func ParseData(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}

	for i := range data.Users {
		hashed, err := services.HashPassword(data.Users[i].Password)
		if err != nil {
			return nil, err
		}
		data.Users[i].Password = hashed
	}
	for i := range data.Products {
		data.Products[i].Normalize()
	}
	for i := range data.Orders {
		data.Orders[i].Normalize()
	}
	for i := range data.Users {
		data.Users[i].Normalize()
	}
	return &data, nil
}

// RunMigrations makes sure every collection exists in s. Missing or
// unreadable collections are seeded from data; existing ones are read and
// written back so legacy status spellings and derived fields are stored in
// their current form. With force every collection is replaced by data.
func RunMigrations(ctx context.Context, s *store.Store, data *Data, force bool) error {
	log.Println("Running collection migrations...")

	if err := migrate(ctx, s, repository.UsersKey, data.Users, force); err != nil {
		return err
	}
	if err := migrate(ctx, s, repository.ProductsKey, data.Products, force); err != nil {
		return err
	}
	if err := migrate(ctx, s, repository.OrdersKey, data.Orders, force); err != nil {
		return err
	}

	log.Println("Collection migrations completed successfully!")
	return nil
}

func migrate[T any](ctx context.Context, s *store.Store, key string, seed []T, force bool) error {
	items := seed
	if !force {
		loaded, err := store.Load(ctx, s, key, seed)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", key, err)
		}
		items = loaded
	}
	if err := store.Save(ctx, s, key, items); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	log.Printf("Collection %s ready with %d records", key, len(items))
	return nil
}
