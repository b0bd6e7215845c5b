package migrations

import (
	"context"
	"testing"

	"backoffice/internal/models"
	"backoffice/internal/repository"
	"backoffice/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDefaultData(t *testing.T) {
	data, err := DefaultData()
	require.NoError(t, err)

	require.NotEmpty(t, data.Products)
	require.NotEmpty(t, data.Orders)
	require.Len(t, data.Users, 3)

	admin := data.Users[0]
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin123")))

	pegasus := data.Products[0]
	assert.Equal(t, 8, pegasus.Stock)
	assert.False(t, pegasus.CreatedAt.IsZero())

	for _, o := range data.Orders {
		assert.Equal(t, o.Status == models.OrderCancelled, o.IsCancelled, "order %d", o.ID)
		if o.Status == models.OrderDelivering {
			assert.True(t, o.Shipment.Complete())
		}
	}
}

func TestParseData_NormalizesLegacyValues(t *testing.T) {
	data, err := ParseData([]byte(`
products:
  - id: 1
    name: Legacy
    status: Released
    sizes: [{size: "40", quantity: 2}]
users:
  - id: 1
    name: Old
    email: old@shop.io
    password: secret1
    role: Product Manager
    status: active
`))
	require.NoError(t, err)
	assert.Equal(t, models.ProductActive, data.Products[0].Status)
	assert.Equal(t, 2, data.Products[0].Stock)
	assert.Equal(t, models.RoleProductManager, data.Users[0].Role)
	assert.Equal(t, models.UserActive, data.Users[0].Status)
}

func TestParseData_Malformed(t *testing.T) {
	_, err := ParseData([]byte("products: {not: a list"))
	assert.Error(t, err)
}

func TestRunMigrations(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	s := store.New(kv)
	data, err := DefaultData()
	require.NoError(t, err)

	require.NoError(t, kv.Set(ctx, repository.ProductsKey, []byte(`[{"id":42,"name":"Kept","status":"Unreleased","sizes":[{"size":"40","quantity":3}]}]`)))
	require.NoError(t, RunMigrations(ctx, s, data, false))

	products, err := store.Load(ctx, s, repository.ProductsKey, data.Products)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, models.ProductInactive, products[0].Status)
	assert.Equal(t, 3, products[0].Stock)

	raw, err := kv.Get(ctx, repository.ProductsKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"status":"inactive"`)

	orders, err := store.Load(ctx, s, repository.OrdersKey, []models.Order(nil))
	require.NoError(t, err)
	assert.Len(t, orders, len(data.Orders))

	require.NoError(t, RunMigrations(ctx, s, data, true))
	products, err = store.Load(ctx, s, repository.ProductsKey, []models.Product(nil))
	require.NoError(t, err)
	assert.Len(t, products, len(data.Products))
}
