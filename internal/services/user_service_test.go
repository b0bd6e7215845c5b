package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"backoffice/internal/collection"
	"backoffice/internal/models"
	"backoffice/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	svc      *userService
	notifier Notifier
	temp     *fakeTemp
	whatsapp *fakeWhatsApp
}

func newTestUserService(t *testing.T, seed ...models.User) userFixture {
	t.Helper()
	f := userFixture{notifier: NewNotifier(time.Minute), temp: newFakeTemp(), whatsapp: &fakeWhatsApp{}}
	repo := repository.NewUserRepository(newTestStore(), seed)
	f.svc = NewUserService(repo, f.notifier, f.temp, f.whatsapp, collection.DefaultPageSize, 5*time.Minute).(*userService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func adminDraft() UserDraft {
	return UserDraft{Name: "Lan Nguyen", Email: "lan@shop.io", Password: "secret1", Role: "admin", Phone: "0912345678"}
}

func TestCreateUser_HashesPasswordAndHidesIt(t *testing.T) {
	f := newTestUserService(t)
	ctx := context.Background()

	u, err := f.svc.CreateUser(ctx, adminDraft())
	require.NoError(t, err)
	assert.Empty(t, u.Password)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, models.UserActive, u.Status)

	stored, err := f.svc.GetUserByEmail(ctx, "LAN@shop.io")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.Regexp(t, regexp.MustCompile(`^\$2[aby]\$`), stored.Password)
}

func TestCreateUser_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	f := newTestUserService(t)
	ctx := context.Background()
	_, err := f.svc.CreateUser(ctx, adminDraft())
	require.NoError(t, err)

	dup := adminDraft()
	dup.Email = "LAN@SHOP.IO"
	_, err = f.svc.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUpdateUser_DuplicateCheckExcludesSelf(t *testing.T) {
	f := newTestUserService(t)
	ctx := context.Background()
	lan, err := f.svc.CreateUser(ctx, adminDraft())
	require.NoError(t, err)
	other := adminDraft()
	other.Email = "minh@shop.io"
	other.Role = "Sale Manager"
	minh, err := f.svc.CreateUser(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSaleManager, minh.Role)

	draft := adminDraft()
	draft.Password = ""
	draft.Name = "Lan N."
	updated, err := f.svc.UpdateUser(ctx, lan.ID, draft)
	require.NoError(t, err)
	assert.Equal(t, "Lan N.", updated.Name)

	_, err = f.svc.Authenticate(ctx, "lan@shop.io", "secret1")
	assert.NoError(t, err, "empty password on update keeps the old one")

	draft.Email = "Minh@shop.io"
	_, err = f.svc.UpdateUser(ctx, lan.ID, draft)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestCreateUser_ValidationOrder(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(d *UserDraft)
		field string
	}{
		{"name first", func(d *UserDraft) { d.Name, d.Email = "", "" }, "name"},
		{"missing email", func(d *UserDraft) { d.Email = "" }, "email"},
		{"bad email", func(d *UserDraft) { d.Email = "lan at shop" }, "email"},
		{"short password", func(d *UserDraft) { d.Password = "123" }, "password"},
		{"bad role", func(d *UserDraft) { d.Role = "staff" }, "role"},
		{"bad status", func(d *UserDraft) { d.Status = "banned" }, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestUserService(t)
			d := adminDraft()
			tt.edit(&d)
			_, err := f.svc.CreateUser(context.Background(), d)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestListUsers_FiltersAndHidesPasswords(t *testing.T) {
	f := newTestUserService(t,
		models.User{ID: 1, Name: "A", Email: "a@shop.io", Password: "x", Role: "admin", Status: "Active"},
		models.User{ID: 2, Name: "B", Email: "b@shop.io", Password: "x", Role: "Admin", Status: "Inactive"},
		models.User{ID: 3, Name: "C", Email: "c@shop.io", Password: "x", Role: "sale_manager", Status: "Active"},
	)

	page, err := f.svc.ListUsers(context.Background(), collection.Query{
		Filters: map[string]string{FilterStatus: "active", FilterRole: "ADMIN"},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Items[0].ID)
	assert.Empty(t, page.Items[0].Password)
}

func TestAuthenticate(t *testing.T) {
	f := newTestUserService(t)
	ctx := context.Background()
	_, err := f.svc.CreateUser(ctx, adminDraft())
	require.NoError(t, err)

	u, err := f.svc.Authenticate(ctx, "Lan@Shop.io", "secret1")
	require.NoError(t, err)
	assert.Empty(t, u.Password)

	_, err = f.svc.Authenticate(ctx, "lan@shop.io", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Authenticate(ctx, "nobody@shop.io", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Authenticate(ctx, "lan@shop.io", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UpgradesPlaintextPassword(t *testing.T) {
	f := newTestUserService(t, models.User{ID: 1, Name: "Legacy", Email: "old@shop.io", Password: "plain123", Role: "admin", Status: "Active"})
	ctx := context.Background()

	_, err := f.svc.Authenticate(ctx, "old@shop.io", "plain123")
	require.NoError(t, err)

	stored, err := f.svc.GetUserByEmail(ctx, "old@shop.io")
	require.NoError(t, err)
	assert.NotEqual(t, "plain123", stored.Password)

	_, err = f.svc.Authenticate(ctx, "old@shop.io", "plain123")
	assert.NoError(t, err)
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	f := newTestUserService(t)
	ctx := context.Background()
	d := adminDraft()
	d.Status = "Inactive"
	_, err := f.svc.CreateUser(ctx, d)
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, "lan@shop.io", "secret1")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestPasswordReset(t *testing.T) {
	f := newTestUserService(t)
	ctx := context.Background()
	_, err := f.svc.CreateUser(ctx, adminDraft())
	require.NoError(t, err)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "lan@shop.io"))
	require.Len(t, f.whatsapp.sent, 1)
	assert.Equal(t, "0912345678", f.whatsapp.sent[0].Phone)
	code := regexp.MustCompile(`\d{6}`).FindString(f.whatsapp.sent[0].Message)
	require.NotEmpty(t, code)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "lan@shop.io", wrong, "newpass1"), ErrInvalidResetCode)
	require.NoError(t, f.svc.ResetPassword(ctx, "LAN@shop.io", code, "newpass1"))

	_, err = f.svc.Authenticate(ctx, "lan@shop.io", "newpass1")
	assert.NoError(t, err)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "lan@shop.io", code, "another1"), ErrInvalidResetCode, "codes are single use")
}

func TestPasswordReset_LocksAfterTooManyAttempts(t *testing.T) {
	f := newTestUserService(t)
	ctx := context.Background()
	_, err := f.svc.CreateUser(ctx, adminDraft())
	require.NoError(t, err)
	require.NoError(t, f.svc.RequestPasswordReset(ctx, "lan@shop.io"))
	code := regexp.MustCompile(`\d{6}`).FindString(f.whatsapp.sent[0].Message)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	for i := 0; i < maxResetAttempts; i++ {
		assert.ErrorIs(t, f.svc.ResetPassword(ctx, "lan@shop.io", wrong, "newpass1"), ErrInvalidResetCode)
	}
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "lan@shop.io", code, "newpass1"), ErrInvalidResetCode)
}

func TestRequestPasswordReset_Errors(t *testing.T) {
	f := newTestUserService(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.RequestPasswordReset(ctx, "nobody@shop.io"), repository.ErrNotFound)

	d := adminDraft()
	d.Phone = ""
	_, err := f.svc.CreateUser(ctx, d)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.RequestPasswordReset(ctx, "lan@shop.io"), ErrValidation)

	f.whatsapp.err = errors.New("gateway down")
	d.Email, d.Phone = "minh@shop.io", "0900000000"
	_, err = f.svc.CreateUser(ctx, d)
	require.NoError(t, err)
	assert.ErrorContains(t, f.svc.RequestPasswordReset(ctx, "minh@shop.io"), "gateway down")
}

func TestValidateUserRole(t *testing.T) {
	f := newTestUserService(t)
	admin := &models.User{Role: models.RoleAdmin}
	pm := &models.User{Role: models.RoleProductManager}

	assert.NoError(t, f.svc.ValidateUserRole(admin, models.RoleSaleManager))
	assert.NoError(t, f.svc.ValidateUserRole(pm, models.RoleProductManager))
	assert.ErrorIs(t, f.svc.ValidateUserRole(pm, models.RoleSaleManager), ErrInsufficientRole)
	assert.ErrorIs(t, f.svc.ValidateUserRole(nil), ErrInsufficientRole)
}

func TestPasswordReset_Unavailable(t *testing.T) {
	repo := repository.NewUserRepository(newTestStore(), nil)
	svc := NewUserService(repo, NewNotifier(time.Minute), nil, nil, collection.DefaultPageSize, time.Minute)
	ctx := context.Background()

	assert.ErrorIs(t, svc.RequestPasswordReset(ctx, "lan@shop.io"), ErrResetUnavailable)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "lan@shop.io", "123456", "newpass1"), ErrResetUnavailable)
}

func TestUpdateUser_EmptyStatusKeepsCurrent(t *testing.T) {
	f := newTestUserService(t)
	ctx := context.Background()
	d := adminDraft()
	d.Status = "Inactive"
	u, err := f.svc.CreateUser(ctx, d)
	require.NoError(t, err)

	d.Status = ""
	d.Password = ""
	d.Name = "Lan Renamed"
	updated, err := f.svc.UpdateUser(ctx, u.ID, d)
	require.NoError(t, err)
	assert.Equal(t, "Lan Renamed", updated.Name)
	assert.Equal(t, models.UserInactive, updated.Status)

	_, err = f.svc.Authenticate(ctx, "lan@shop.io", "secret1")
	assert.ErrorIs(t, err, ErrInactiveUser)

	d.Status = "active"
	updated, err = f.svc.UpdateUser(ctx, u.ID, d)
	require.NoError(t, err)
	assert.Equal(t, models.UserActive, updated.Status)
}
