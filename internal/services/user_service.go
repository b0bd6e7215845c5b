package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"maps"
	"math/big"
	"net/mail"
	"slices"
	"strings"
	"time"

	"backoffice/internal/collection"
	"backoffice/internal/models"
	"backoffice/internal/redis"
	"backoffice/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	maxResetAttempts  = 5
)

// UserDraft carries the editable fields of a user form. An empty Password
// or Status on update keeps the current one.
type UserDraft struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// TempStore keeps short-lived values such as password reset codes.
type TempStore interface {
	SetTempData(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetTempData(ctx context.Context, key string, dest interface{}) error
	DeleteTempData(ctx context.Context, key string) error
}

type UserService interface {
	ListUsers(ctx context.Context, query collection.Query) (collection.Page[models.User], error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, draft UserDraft) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, draft UserDraft) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	ValidateUserRole(user *models.User, allowed ...models.UserRole) error
}

type userService struct {
	userRepo repository.UserRepository
	notifier Notifier
	temp     TempStore
	whatsapp WhatsAppService
	pageSize int
	resetTTL time.Duration

	now func() time.Time
}

func NewUserService(
	userRepo repository.UserRepository,
	notifier Notifier,
	temp TempStore,
	whatsapp WhatsAppService,
	pageSize int,
	resetTTL time.Duration,
) UserService {
	return &userService{
		userRepo: userRepo,
		notifier: notifier,
		temp:     temp,
		whatsapp: whatsapp,
		pageSize: pageSize,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *userService) ListUsers(ctx context.Context, query collection.Query) (collection.Page[models.User], error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return collection.Page[models.User]{}, err
	}
	query.Filters = maps.Clone(query.Filters)
	if status, ok := models.ParseUserStatus(query.Filters[FilterStatus]); ok {
		query.Filters[FilterStatus] = string(status)
	}
	if role, ok := models.ParseUserRole(query.Filters[FilterRole]); ok {
		query.Filters[FilterRole] = string(role)
	}

	page := collection.Paginate(UserSchema.Apply(users, query), s.pageSize, query.Page)
	for i := range page.Items {
		page.Items[i] = page.Items[i].Public()
	}
	return page, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *userService) CreateUser(ctx context.Context, draft UserDraft) (*models.User, error) {
	var created models.User
	err := s.userRepo.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		role, status, err := validateUser(draft, true)
		if err != nil {
			return nil, err
		}
		if emailTaken(users, draft.Email, 0) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, draft.Email)
		}
		hashed, err := HashPassword(draft.Password)
		if err != nil {
			return nil, err
		}

		now := s.now()
		created = models.User{
			ID: nextID(now, func(id int64) bool {
				return slices.ContainsFunc(users, func(u models.User) bool { return u.ID == id })
			}),
			Password:  hashed,
			Role:      role,
			Status:    status,
			CreatedAt: now.UTC(),
		}
		applyUserDraft(&created, draft)
		return append(users, created), nil
	})
	if err := report(s.notifier, "Create user", "User created successfully", err); err != nil {
		return nil, err
	}
	public := created.Public()
	return &public, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int64, draft UserDraft) (*models.User, error) {
	var updated models.User
	err := s.userRepo.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		role, status, err := validateUser(draft, false)
		if err != nil {
			return nil, err
		}
		if emailTaken(users, draft.Email, id) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, draft.Email)
		}
		for i := range users {
			if users[i].ID != id {
				continue
			}
			if draft.Password != "" {
				hashed, err := HashPassword(draft.Password)
				if err != nil {
					return nil, err
				}
				users[i].Password = hashed
			}
			applyUserDraft(&users[i], draft)
			users[i].Role = role
			if status != "" {
				users[i].Status = status
			}
			updated = users[i]
			return users, nil
		}
		return nil, repository.ErrNotFound
	})
	if err := report(s.notifier, "Update user", "User updated successfully", err); err != nil {
		return nil, err
	}
	public := updated.Public()
	return &public, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	err := s.userRepo.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID == id {
				return append(users[:i], users[i+1:]...), nil
			}
		}
		return nil, repository.ErrNotFound
	})
	return report(s.notifier, "Delete user", "User deleted successfully", err)
}

// Authenticate looks the user up by email and checks the password.
// Records still holding a plaintext password are upgraded to a bcrypt hash
// on their first successful login.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if _, costErr := bcrypt.Cost([]byte(user.Password)); costErr == nil {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	} else {
		if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
			return nil, ErrInvalidCredentials
		}
		if err := s.setPassword(ctx, user.ID, password); err != nil {
			log.Printf("Warning: failed to upgrade password hash for user %d: %v", user.ID, err)
		}
	}

	if user.Status != models.UserActive {
		return nil, ErrInactiveUser
	}
	public := user.Public()
	return &public, nil
}

type resetCode struct {
	Code     string `json:"code"`
	Attempts int    `json:"attempts"`
}

func resetKey(email string) string {
	return "reset:" + strings.ToLower(strings.TrimSpace(email))
}

// RequestPasswordReset issues a six digit one-time code and sends it to the
// phone on the user's record.
func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	if s.temp == nil || s.whatsapp == nil {
		return ErrResetUnavailable
	}
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if strings.TrimSpace(user.Phone) == "" {
		return invalid("phone", "no phone number on file for this account")
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := s.temp.SetTempData(ctx, resetKey(user.Email), resetCode{Code: code}, s.resetTTL); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	message := fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.", code, int(s.resetTTL.Minutes()))
	if err := s.whatsapp.SendMessage(ctx, user.Phone, message); err != nil {
		return fmt.Errorf("failed to send reset code: %w", err)
	}
	log.Printf("Password reset code sent to user %d", user.ID)
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return invalid("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if s.temp == nil {
		return ErrResetUnavailable
	}

	key := resetKey(email)
	var stored resetCode
	if err := s.temp.GetTempData(ctx, key, &stored); err != nil {
		if errors.Is(err, redis.ErrTempNotFound) {
			return ErrInvalidResetCode
		}
		return fmt.Errorf("failed to read reset code: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored.Code), []byte(strings.TrimSpace(code))) != 1 {
		stored.Attempts++
		if stored.Attempts >= maxResetAttempts {
			_ = s.temp.DeleteTempData(ctx, key)
		} else {
			_ = s.temp.SetTempData(ctx, key, stored, s.resetTTL)
		}
		return ErrInvalidResetCode
	}

	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.setPassword(ctx, user.ID, newPassword); err != nil {
		return report(s.notifier, "Reset password", "", err)
	}
	_ = s.temp.DeleteTempData(ctx, key)
	return report(s.notifier, "Reset password", "Password changed successfully", nil)
}

func (s *userService) ValidateUserRole(user *models.User, allowed ...models.UserRole) error {
	if user == nil {
		return ErrInsufficientRole
	}
	if user.Role == models.RoleAdmin || slices.Contains(allowed, user.Role) {
		return nil
	}
	return ErrInsufficientRole
}

func (s *userService) setPassword(ctx context.Context, id int64, password string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.userRepo.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID == id {
				users[i].Password = hashed
				return users, nil
			}
		}
		return nil, repository.ErrNotFound
	})
}

func emailTaken(users []models.User, email string, exceptID int64) bool {
	email = strings.TrimSpace(email)
	for _, u := range users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func applyUserDraft(u *models.User, draft UserDraft) {
	u.Name = strings.TrimSpace(draft.Name)
	u.Email = strings.TrimSpace(draft.Email)
	u.Description = draft.Description
	u.Avatar = draft.Avatar
	u.Phone = strings.TrimSpace(draft.Phone)
	u.Address = draft.Address
}

func validateUser(d UserDraft, creating bool) (models.UserRole, models.UserStatus, error) {
	if strings.TrimSpace(d.Name) == "" {
		return "", "", invalid("name", "name is required")
	}
	email := strings.TrimSpace(d.Email)
	if email == "" {
		return "", "", invalid("email", "email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", "", invalid("email", "email is not valid")
	}
	if creating || d.Password != "" {
		if len(d.Password) < minPasswordLength {
			return "", "", invalid("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
	}
	role, ok := models.ParseUserRole(d.Role)
	if !ok {
		return "", "", invalid("role", "role must be admin, product_manager or sale_manager")
	}
	if d.Status == "" {
		if creating {
			return role, models.UserActive, nil
		}
		return role, "", nil
	}
	status, ok := models.ParseUserStatus(d.Status)
	if !ok {
		return "", "", invalid("status", "status must be Active or Inactive")
	}
	return role, status, nil
}
