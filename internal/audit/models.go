package audit

import (
	"time"

	"kurspanel/pkg/domain"
)

// Entry is an immutable record of one control-plane action. Keep it
// transport-agnostic so stores and sinks can fan out.
type Entry struct {
	ID         domain.AuditID  `json:"id"`
	ActorName  string          `json:"actor_name"`
	ActorRole  string          `json:"actor_role"`
	Action     Action          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	TenantID   domain.TenantID `json:"tenant_id,omitempty"` // empty for platform-wide actions
	Metadata   map[string]any  `json:"metadata,omitempty"`  // structured snapshot of the change
	CreatedAt  time.Time       `json:"created_at"`
}

// Action enumerates the control-plane actions worth an audit trail.
type Action string

const (
	ActionLicenseCreate     Action = "license_create"
	ActionLicenseUpdate     Action = "license_update"
	ActionLicenseDelete     Action = "license_delete"
	ActionLicenseBulk       Action = "license_bulk_action"
	ActionLicenseCSVImport  Action = "license_csv_import"
	ActionLicenseCSVExport  Action = "license_csv_export"
	ActionTenantImpersonate Action = "tenant_impersonate"
	ActionTokenIssue        Action = "api_token_issue"
	ActionTokenRevoke       Action = "api_token_revoke"
	ActionOperatorLogin     Action = "operator_login"
)
