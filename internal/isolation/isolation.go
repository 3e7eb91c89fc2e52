// Package isolation is the single enforcement point for tenant row isolation.
// Every tenant-scoped entity goes through a Collection, which constrains reads
// to the ambient tenant and stamps ownership on inserts. There is no implicit
// bypass flag: suspension of filtering only happens when the caller derived a
// bypass scope through tenantctx.AsBypass.
package isolation

import (
	"context"
	"time"

	"kurspanel/internal/tenantctx"
	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
)

// Record is implemented by every tenant-scoped entity. Embedding Scoped
// satisfies it.
type Record interface {
	OwnerTenant() domain.TenantID
	AssignTenant(domain.TenantID)
	StampCreated(time.Time)
	StampUpdated(time.Time)
}

// Scoped carries the ownership tag and timestamps shared by all
// tenant-scoped rows. The tenant is assigned exactly once, at creation,
// from the ambient scope, and is never reassigned.
type Scoped struct {
	TenantID  domain.TenantID `json:"tenant_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (s *Scoped) OwnerTenant() domain.TenantID { return s.TenantID }

func (s *Scoped) AssignTenant(id domain.TenantID) { s.TenantID = id }

// StampCreated sets createdAt if absent; updatedAt always follows.
func (s *Scoped) StampCreated(now time.Time) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
}

func (s *Scoped) StampUpdated(now time.Time) { s.UpdatedAt = now }

// visible reports whether a record may be returned under the given scope.
func visible(scope tenantctx.Scope, rec Record) bool {
	if scope.Bypass {
		return true
	}
	return rec.OwnerTenant() == scope.Tenant
}

// stampOwnership enforces the insert contract: under a tenant scope the
// ambient tenant is assigned (or must match an explicit one); under bypass
// the record must already name its owner.
func stampOwnership(scope tenantctx.Scope, rec Record) error {
	if scope.Bypass {
		if rec.OwnerTenant().IsNil() {
			return dErrors.New(dErrors.CodeMissingTenantContext, "tenant-scoped write with no owner tenant")
		}
		return nil
	}
	if rec.OwnerTenant().IsNil() {
		rec.AssignTenant(scope.Tenant)
		return nil
	}
	if rec.OwnerTenant() != scope.Tenant {
		return dErrors.New(dErrors.CodeForbidden, "cannot write another tenant's record")
	}
	return nil
}

// resolveScope funnels every collection operation through the tenant context.
func resolveScope(ctx context.Context) (tenantctx.Scope, error) {
	return tenantctx.Resolve(ctx)
}
