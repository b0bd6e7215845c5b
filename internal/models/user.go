package models

import (
	"strings"
	"time"
)

type User struct {
	ID          int64      `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Email       string     `json:"email" yaml:"email"`
	Password    string     `json:"password,omitempty" yaml:"password"` // bcrypt hash
	Role        UserRole   `json:"role" yaml:"role"`
	Status      UserStatus `json:"status" yaml:"status"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	Description string     `json:"description,omitempty" yaml:"description"`
	Avatar      string     `json:"avatar,omitempty" yaml:"avatar"`
	Phone       string     `json:"phone,omitempty" yaml:"phone"`
	Address     string     `json:"address,omitempty" yaml:"address"`
}

type UserRole string

const (
	RoleAdmin          UserRole = "admin"
	RoleProductManager UserRole = "product_manager"
	RoleSaleManager    UserRole = "sale_manager"
)

type UserStatus string

const (
	UserActive   UserStatus = "Active"
	UserInactive UserStatus = "Inactive"
)

// ParseUserRole accepts the capitalised and spaced variants ("Admin",
// "Product Manager", "Sale_Manager").
func ParseUserRole(s string) (UserRole, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	role := UserRole(normalized)
	switch role {
	case RoleAdmin, RoleProductManager, RoleSaleManager:
		return role, true
	}
	return "", false
}

func ParseUserStatus(s string) (UserStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "released":
		return UserActive, true
	case "inactive", "unreleased":
		return UserInactive, true
	}
	return "", false
}

func (u *User) Normalize() {
	if role, ok := ParseUserRole(string(u.Role)); ok {
		u.Role = role
	}
	if status, ok := ParseUserStatus(string(u.Status)); ok {
		u.Status = status
	} else if u.Status == "" {
		u.Status = UserActive
	}
}

// Public returns a copy safe to hand to API clients.
func (u User) Public() User {
	u.Password = ""
	return u
}
