// Package models holds platform operator accounts and their per-tenant
// grants. Operators are the vendor's own staff, not tenant users.
package models

import (
	"strings"
	"time"

	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
)

// PlatformUser is a vendor staff account. Scopes carry the capability set
// minted into the operator's session token at login.
type PlatformUser struct {
	ID           domain.UserID `json:"id"`
	Email        string        `json:"email"`
	FullName     string        `json:"full_name"`
	PasswordHash string        `json:"-"`
	Scopes       []string      `json:"scopes"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
}

// UserTenantGrant records that a platform user may manage a specific tenant.
// Operators with the full operator role bypass grants; grants scope the
// narrower support accounts.
type UserTenantGrant struct {
	UserID    domain.UserID   `json:"user_id"`
	TenantID  domain.TenantID `json:"tenant_id"`
	GrantedBy string          `json:"granted_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// LoginRequest is the operator login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password are required")
	}
	return nil
}

// LoginResult carries the minted operator session.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Scopes    []string  `json:"scopes"`
}
