package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"backoffice/internal/app"
	"backoffice/internal/config"
	"backoffice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(t *testing.T, driver string) *RootOptions {
	t.Helper()
	cfg := &config.Config{
		StoreDriver:     driver,
		SQLitePath:      filepath.Join(t.TempDir(), "backoffice.db"),
		PageSize:        3,
		NotificationTTL: time.Second,
		ResetCodeTTL:    time.Minute,
	}
	return &RootOptions{NewApp: func() (*app.App, error) { return app.New(cfg) }}
}

func execute(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, path := range [][]string{{"seed"}, {"products", "list"}, {"orders", "list"}, {"users", "list"}} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, testOptions(t, "memory"), "products", "list", "--format", "xml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestProductsList_JSON(t *testing.T) {
	out, err := execute(t, testOptions(t, "memory"),
		"products", "list", "--filter", "brand=Nike", "--sort", "price-asc", "--format", "json")
	require.NoError(t, err)

	var page struct {
		Items      []models.Product `json:"items"`
		PageSize   int              `json:"pageSize"`
		TotalItems int              `json:"totalItems"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 3, page.PageSize)
	require.Equal(t, 2, page.TotalItems)
	assert.Equal(t, "Air Force 1", page.Items[0].Name)
	assert.Equal(t, "Air Zoom Pegasus", page.Items[1].Name)
}

func TestProductsList_PriceRange(t *testing.T) {
	out, err := execute(t, testOptions(t, "memory"),
		"products", "list", "--min-price", "150", "--max-price", "170", "--format", "json")
	require.NoError(t, err)

	var page struct {
		Items []models.Product `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Items, 2)
	for _, p := range page.Items {
		assert.Contains(t, []string{"Gel-Kayano 30", "Fresh Foam 1080"}, p.Name)
	}
}

func TestOrdersList_Text(t *testing.T) {
	out, err := execute(t, testOptions(t, "memory"), "orders", "list", "--page", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "SENDER")
	assert.Contains(t, out, "Page 2 of 2 (5 items)")
}

func TestUsersList_HidesPasswords(t *testing.T) {
	out, err := execute(t, testOptions(t, "memory"), "users", "list", "--format", "json", "--search", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@backoffice.local")
	assert.NotContains(t, out, "password")
}

func TestListRejectsUnknownSort(t *testing.T) {
	_, err := execute(t, testOptions(t, "memory"), "users", "list", "--sort", "price-asc")
	assert.ErrorContains(t, err, `invalid sort "price-asc"`)

	_, err = execute(t, testOptions(t, "memory"), "users", "list", "--sort", "email-desc")
	assert.NoError(t, err)
}

func TestListRejectsBadFilter(t *testing.T) {
	_, err := execute(t, testOptions(t, "memory"), "users", "list", "--filter", "role")
	assert.ErrorContains(t, err, "expected key=value")
}

func TestSeed_SQLite(t *testing.T) {
	opts := testOptions(t, "sqlite")

	out, err := execute(t, opts, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 9 products, 5 orders, 3 users")

	out, err = execute(t, opts, "seed", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded")

	out, err = execute(t, opts, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "linh@backoffice.local")
}
