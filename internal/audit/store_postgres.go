package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"kurspanel/pkg/domain"
)

// PostgresStore persists audit entries in PostgreSQL. The audit_entries table
// has no UPDATE or DELETE grants in the schema; this type only ever inserts.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}
	query := `
		INSERT INTO audit_entries (id, actor_name, actor_role, action, entity_type, entity_id, tenant_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(entry.ID),
		entry.ActorName,
		entry.ActorRole,
		string(entry.Action),
		entry.EntityType,
		entry.EntityID,
		string(entry.TenantID),
		metadata,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID string, limit int) ([]Entry, error) {
	query := `
		SELECT id, actor_name, actor_role, action, entity_type, entity_id, COALESCE(tenant_id, ''), metadata, created_at
		FROM audit_entries
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, tenantID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list audit entries by tenant: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, actor_name, actor_role, action, entity_type, entity_id, COALESCE(tenant_id, ''), metadata, created_at
		FROM audit_entries
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list recent audit entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var (
			entry    Entry
			id       uuid.UUID
			action   string
			tenantID string
			metadata []byte
		)
		if err := rows.Scan(&id, &entry.ActorName, &entry.ActorRole, &action, &entry.EntityType, &entry.EntityID, &tenantID, &metadata, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.ID = domain.AuditID(id)
		entry.Action = Action(action)
		entry.TenantID = domain.TenantID(tenantID)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal audit metadata: %w", err)
			}
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
