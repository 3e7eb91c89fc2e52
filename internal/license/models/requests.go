package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
)

var validate = validator.New()

// CreateTenantRequest carries the fields for a new license record.
type CreateTenantRequest struct {
	Name         string     `json:"name"`
	City         string     `json:"city"`
	Username     string     `json:"username"`
	Password     string     `json:"password"`
	ContactEmail string     `json:"contact_email"`
	ContactPhone string     `json:"contact_phone"`
	ExpireDate   *time.Time `json:"expire_date"`
}

func (r *CreateTenantRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.City = strings.TrimSpace(r.City)
	r.Username = strings.TrimSpace(r.Username)
	r.ContactEmail = strings.TrimSpace(r.ContactEmail)
	r.ContactPhone = strings.TrimSpace(r.ContactPhone)
}

func (r *CreateTenantRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.Username == "" {
		return dErrors.New(dErrors.CodeValidation, "username is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	if err := validate.Var(r.ContactEmail, "required,email"); err != nil {
		return dErrors.New(dErrors.CodeValidation, "contact email is invalid")
	}
	return nil
}

// UpdateTenantRequest mutates contact and licensing fields. The slug is
// immutable; the username stays globally unique.
type UpdateTenantRequest struct {
	Name         *string    `json:"name"`
	City         *string    `json:"city"`
	ContactEmail *string    `json:"contact_email"`
	ContactPhone *string    `json:"contact_phone"`
	ExpireDate   *time.Time `json:"expire_date"`
	ClearExpire  bool       `json:"clear_expire"`
}

func (r *UpdateTenantRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name cannot be blank")
	}
	if r.ContactEmail != nil {
		if err := validate.Var(*r.ContactEmail, "required,email"); err != nil {
			return dErrors.New(dErrors.CodeValidation, "contact email is invalid")
		}
	}
	return nil
}

// BulkAction is one of the batch transitions applied to a tenant set.
type BulkAction string

const (
	BulkEnable  BulkAction = "enable"
	BulkDisable BulkAction = "disable"
	BulkDelete  BulkAction = "delete"
)

// BulkUpdateRequest applies one action to a set of tenants.
type BulkUpdateRequest struct {
	Action    BulkAction        `json:"action"`
	TenantIDs []domain.TenantID `json:"tenant_ids"`
}

func (r *BulkUpdateRequest) Validate() error {
	switch r.Action {
	case BulkEnable, BulkDisable, BulkDelete:
	default:
		return dErrors.New(dErrors.CodeValidation, "action must be enable, disable, or delete")
	}
	if len(r.TenantIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "tenant_ids cannot be empty")
	}
	return nil
}
