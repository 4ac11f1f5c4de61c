package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[string]bool{
	"admin": true, "user": true,
}

type User struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	CompanyID string
	CreatedAt time.Time
}

type UserInput struct {
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name" validate:"max=120"`
	Role      string `json:"role" validate:"required,oneof=admin user"`
	CompanyID string `json:"companyId"`
}

// CanManage reports whether the user may change catalog and company data.
func (u *User) CanManage() bool {
	return u != nil && u.Role == RoleAdmin
}

// BelongsTo reports whether the user is attached to the given company.
// Administrators without a company may act on any company.
func (u *User) BelongsTo(companyID string) bool {
	if u == nil {
		return false
	}
	if u.Role == RoleAdmin && u.CompanyID == "" {
		return true
	}
	return u.CompanyID == companyID
}

// DisplayName prefers the configured name and falls back to the email local part.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if i := strings.IndexByte(u.Email, '@'); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}
