package database

import (
	"context"
	"path/filepath"
	"testing"

	"backoffice/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DocumentKV {
	t.Helper()
	db, err := Initialize(DriverSQLite, filepath.Join(t.TempDir(), "backoffice.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewDocumentKV(db)
}

func TestInitialize_UnsupportedDriver(t *testing.T) {
	_, err := Initialize("oracle", "")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDocumentKV_GetMissing(t *testing.T) {
	kv := openTestDB(t)
	_, err := kv.Get(context.Background(), "orders")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDocumentKV_SetOverwrites(t *testing.T) {
	kv := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "orders", []byte(`[]`)))
	require.NoError(t, kv.Set(ctx, "orders", []byte(`[{"id":1}]`)))

	got, err := kv.Get(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))

	var count int64
	require.NoError(t, kv.db.Model(&Document{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDocumentKV_BacksStore(t *testing.T) {
	kv := openTestDB(t)
	ctx := context.Background()
	s := store.New(kv)

	require.NoError(t, store.Save(ctx, s, "brands", []string{"Nike", "Vans"}))
	got, err := store.Load[string](ctx, s, "brands", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nike", "Vans"}, got)
}
