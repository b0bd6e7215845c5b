package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"backoffice/internal/collection"
	"backoffice/internal/config"
	"backoffice/internal/migrations"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		StoreDriver:     DriverMemory,
		PageSize:        collection.DefaultPageSize,
		NotificationTTL: 5 * time.Second,
		ResetCodeTTL:    time.Minute,
	}
}

func TestNew_Memory(t *testing.T) {
	a, err := New(testConfig())
	require.NoError(t, err)
	defer a.Close()

	page, err := a.ProductService.ListProducts(context.Background(), collection.Query{})
	require.NoError(t, err)
	assert.Equal(t, collection.DefaultPageSize, page.PageSize)
	assert.NotZero(t, page.TotalItems)
}

func TestNew_SQLite(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "backoffice.db")

	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, migrations.RunMigrations(context.Background(), a.Store, a.Data, false))
	a.Close()

	reopened, err := New(cfg)
	require.NoError(t, err)
	defer reopened.Close()
	users, err := reopened.UserService.ListUsers(context.Background(), collection.Query{})
	require.NoError(t, err)
	assert.Equal(t, len(reopened.Data.Users), users.TotalItems)
}

func TestNew_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.StoreDriver = DriverRedis
	cfg.RedisURL = "redis://" + mr.Addr()

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.OrderService.ListOrders(context.Background(), collection.Query{})
	require.NoError(t, err)
	assert.True(t, mr.Exists("doc:orders"))
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "mongo"
	_, err := New(cfg)
	assert.ErrorContains(t, err, "unsupported STORE_DRIVER")
}
