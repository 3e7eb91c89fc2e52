// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "kurspanel/pkg/domain-errors"
)

// TenantID is the stable slug that identifies a licensed tenant
// (e.g. "MAVI-BEYAZ-AKADEMI"). It is derived from the tenant name at
// creation time and never changes afterwards.
type TenantID string

// Distinct UUID-backed ID types - the compiler prevents passing a UserID
// where a TokenID is expected.
type (
	UserID  uuid.UUID
	TokenID uuid.UUID
	AuditID uuid.UUID
)

// New functions - fresh random ids for records created server-side.

func NewUserID() UserID   { return UserID(uuid.New()) }
func NewTokenID() TokenID { return TokenID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseTenantID(s string) (TenantID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "tenant ID cannot be empty")
	}
	return TenantID(s), nil
}

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseTokenID(s string) (TokenID, error) {
	id, err := parseUUID(s, "token ID")
	return TokenID(id), err
}

// String methods - for logging and debugging.

func (id TenantID) String() string { return string(id) }
func (id UserID) String() string   { return uuid.UUID(id).String() }
func (id TokenID) String() string  { return uuid.UUID(id).String() }
func (id AuditID) String() string  { return uuid.UUID(id).String() }

// Text marshalling - defined types do not inherit uuid.UUID's methods, and
// without these the ids would serialize as raw byte arrays.

func (id UserID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id TokenID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id AuditID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = UserID(parsed)
	return nil
}

func (id *TokenID) UnmarshalText(b []byte) error {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = TokenID(parsed)
	return nil
}

func (id *AuditID) UnmarshalText(b []byte) error {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = AuditID(parsed)
	return nil
}

// IsNil checks - used for service-layer validation.

func (id TenantID) IsNil() bool { return id == "" }
func (id UserID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id TokenID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic. Nil UUIDs are allowed here;
// use IsNil() at the service layer for business validation so store lookups
// can return proper "not found" errors.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "invalid "+label)
	}
	return id, nil
}
