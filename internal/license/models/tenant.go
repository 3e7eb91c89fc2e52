package models

import (
	"time"

	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
)

// Tenant is the license record for one isolated customer instance of the
// course product. The ID is a stable slug derived from the display name at
// creation and is immutable afterwards.
type Tenant struct {
	ID           domain.TenantID `json:"id"`
	Name         string          `json:"name"`
	City         string          `json:"city,omitempty"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"` // never serialize
	ContactEmail string          `json:"contact_email"`
	ContactPhone string          `json:"contact_phone,omitempty"`
	ExpireDate   *time.Time      `json:"expire_date,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewTenant(id domain.TenantID, name, username, passwordHash, contactEmail string, now time.Time) (*Tenant, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if username == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant username cannot be empty")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant password hash cannot be empty")
	}
	return &Tenant{
		ID:           id,
		Name:         name,
		Username:     username,
		PasswordHash: passwordHash,
		ContactEmail: contactEmail,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Enable transitions the tenant to active. Returns false when it already is,
// so bulk callers can report an idempotent skip instead of an error.
func (t *Tenant) Enable(now time.Time) bool {
	if t.IsActive {
		return false
	}
	t.IsActive = true
	t.UpdatedAt = now
	return true
}

// Disable transitions the tenant to inactive. Returns false when it already is.
func (t *Tenant) Disable(now time.Time) bool {
	if !t.IsActive {
		return false
	}
	t.IsActive = false
	t.UpdatedAt = now
	return true
}

// IsExpired reports whether the license expiry has passed.
func (t *Tenant) IsExpired(now time.Time) bool {
	return t.ExpireDate != nil && t.ExpireDate.Before(now)
}

// Status is the derived license state used in CSV exports and listings.
func (t *Tenant) Status(now time.Time) string {
	switch {
	case t.IsExpired(now):
		return "expired"
	case t.IsActive:
		return "active"
	default:
		return "inactive"
	}
}
