// Package models holds the credential records the control plane issues on
// behalf of tenants: long-lived API tokens and short-lived impersonation
// grants.
package models

import (
	"strings"
	"time"

	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
)

// APIToken is a tenant-bound API credential. Only the bcrypt hash of the
// secret is stored; the prefix is non-secret and used for lookup and display.
type APIToken struct {
	ID            domain.TokenID  `json:"id"`
	TenantID      domain.TenantID `json:"tenant_id"`
	Label         string          `json:"label"`
	Description   string          `json:"description,omitempty"`
	TokenPrefix   string          `json:"token_prefix"`
	TokenHash     string          `json:"-"`
	Permissions   []string        `json:"permissions"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	IsRevoked     bool            `json:"is_revoked"`
	RevokedAt     *time.Time      `json:"revoked_at,omitempty"`
	RevokedReason string          `json:"revoked_reason,omitempty"`
	LastUsedAt    *time.Time      `json:"last_used_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Usable reports whether the token can authenticate right now. Revocation and
// expiry are both checked at time of use, not only at issue.
func (t *APIToken) Usable(now time.Time) bool {
	if t.IsRevoked {
		return false
	}
	if t.ExpiresAt != nil && t.ExpiresAt.Before(now) {
		return false
	}
	return true
}

// IssueTokenRequest carries the fields for a new API token. When both
// ExpiresInDays and ExpiresAt are set, the explicit ExpiresAt wins.
type IssueTokenRequest struct {
	Label         string     `json:"label"`
	Description   string     `json:"description,omitempty"`
	Permissions   []string   `json:"permissions"`
	ExpiresInDays int        `json:"expires_in_days,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

func (r *IssueTokenRequest) Normalize() {
	r.Label = strings.TrimSpace(r.Label)
	r.Description = strings.TrimSpace(r.Description)
	for i, p := range r.Permissions {
		r.Permissions[i] = strings.TrimSpace(p)
	}
}

func (r *IssueTokenRequest) Validate() error {
	if r.Label == "" {
		return dErrors.New(dErrors.CodeValidation, "label is required")
	}
	if len(r.Permissions) == 0 {
		return dErrors.New(dErrors.CodeValidation, "permissions cannot be empty")
	}
	for _, p := range r.Permissions {
		if p == "" {
			return dErrors.New(dErrors.CodeValidation, "permissions cannot contain blanks")
		}
	}
	return nil
}

// EffectiveExpiry resolves the requested expiry against now. A nil result
// means the token never expires.
func (r *IssueTokenRequest) EffectiveExpiry(now time.Time) (*time.Time, error) {
	if r.ExpiresAt != nil {
		if r.ExpiresAt.Before(now) {
			return nil, dErrors.New(dErrors.CodeValidation, "expiry cannot be in the past")
		}
		return r.ExpiresAt, nil
	}
	if r.ExpiresInDays > 0 {
		expiry := now.Add(time.Duration(r.ExpiresInDays) * 24 * time.Hour)
		return &expiry, nil
	}
	return nil, nil
}

// IssuedToken pairs the persisted record with the plaintext secret. The
// plaintext exists only in this response; it cannot be recovered later.
type IssuedToken struct {
	Token     APIToken `json:"token"`
	Plaintext string   `json:"plaintext"`
}

// ImpersonationGrant is a short-lived tenant-admin session minted for a
// platform operator.
type ImpersonationGrant struct {
	Token     string          `json:"token"`
	TenantID  domain.TenantID `json:"tenant_id"`
	ExpiresAt time.Time       `json:"expires_at"`
}
