package models

import (
	"time"

	"kurspanel/pkg/domain"
)

// LicenseSummary is the fleet-wide dashboard rollup.
type LicenseSummary struct {
	TotalLicenses    int `json:"total_licenses"`
	ActiveLicenses   int `json:"active_licenses"`
	ExpiringSoon     int `json:"expiring_soon"`
	Expired          int `json:"expired"`
	CreatedThisMonth int `json:"created_this_month"`
}

// UsageSummary joins a tenant's license row with its roster usage.
type UsageSummary struct {
	TenantID             domain.TenantID `json:"tenant_id"`
	Name                 string          `json:"name"`
	Status               string          `json:"status"`
	ExpireDate           *time.Time      `json:"expire_date,omitempty"`
	TotalStudents        int             `json:"total_students"`
	ActiveStudents       int             `json:"active_students"`
	LastStudentCreatedAt *time.Time      `json:"last_student_created_at,omitempty"`
}

// BulkMessage reports the outcome for a single tenant in a batch.
type BulkMessage struct {
	TenantID domain.TenantID `json:"tenant_id"`
	Message  string          `json:"message"`
}

// BulkOutcome summarizes a batch run. Skipped counts tenants already in the
// requested state and deletes refused over dependent records, each with an
// explanatory message; Errors lists tenants that failed outright.
type BulkOutcome struct {
	Processed       int           `json:"processed"`
	Skipped         int           `json:"skipped"`
	SkippedMessages []BulkMessage `json:"skipped_messages,omitempty"`
	Errors          []BulkMessage `json:"errors,omitempty"`
}

// RowError ties an import failure to its file line. Row numbers are
// 1-indexed and include the header line.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportOutcome summarizes a CSV import. Failed rows never block the
// rows around them.
type ImportOutcome struct {
	TotalRows int        `json:"total_rows"`
	Imported  int        `json:"imported"`
	Failed    int        `json:"failed"`
	Errors    []RowError `json:"errors,omitempty"`
}
