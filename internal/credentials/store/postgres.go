package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"kurspanel/internal/credentials/models"
	"kurspanel/internal/sentinel"
	"kurspanel/pkg/domain"
)

// PostgresStore persists API tokens in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const tokenColumns = `id, tenant_id, label, description, token_prefix, token_hash, permissions, expires_at, is_revoked, revoked_at, revoked_reason, last_used_at, created_at`

func (s *PostgresStore) Insert(ctx context.Context, token *models.APIToken) error {
	perms, err := json.Marshal(token.Permissions)
	if err != nil {
		return fmt.Errorf("marshal token permissions: %w", err)
	}
	query := `
		INSERT INTO api_tokens (` + tokenColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(token.ID),
		string(token.TenantID),
		token.Label,
		token.Description,
		token.TokenPrefix,
		token.TokenHash,
		perms,
		token.ExpiresAt,
		token.IsRevoked,
		token.RevokedAt,
		token.RevokedReason,
		token.LastUsedAt,
		token.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "api_tokens_token_prefix_key" {
				return sentinel.ErrDuplicatePrefix
			}
			return sentinel.ErrDuplicateID
		}
		return fmt.Errorf("insert api token: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id domain.TokenID) (*models.APIToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM api_tokens WHERE id = $1`
	return scanToken(s.db.QueryRowContext(ctx, query, uuid.UUID(id)).Scan)
}

func (s *PostgresStore) GetByPrefix(ctx context.Context, prefix string) (*models.APIToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM api_tokens WHERE token_prefix = $1`
	return scanToken(s.db.QueryRowContext(ctx, query, prefix).Scan)
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenant domain.TenantID) ([]*models.APIToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM api_tokens WHERE tenant_id = $1 ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, string(tenant))
	if err != nil {
		return nil, fmt.Errorf("list api tokens: %w", err)
	}
	defer rows.Close()

	var out []*models.APIToken
	for rows.Next() {
		token, err := scanToken(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, token)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, token *models.APIToken) error {
	query := `
		UPDATE api_tokens
		SET is_revoked = $2, revoked_at = $3, revoked_reason = $4, last_used_at = $5
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		uuid.UUID(token.ID),
		token.IsRevoked,
		token.RevokedAt,
		token.RevokedReason,
		token.LastUsedAt,
	)
	if err != nil {
		return fmt.Errorf("update api token: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update api token rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanToken(scan func(...any) error) (*models.APIToken, error) {
	var (
		token    models.APIToken
		id       uuid.UUID
		tenantID string
		perms    []byte
	)
	err := scan(
		&id,
		&tenantID,
		&token.Label,
		&token.Description,
		&token.TokenPrefix,
		&token.TokenHash,
		&perms,
		&token.ExpiresAt,
		&token.IsRevoked,
		&token.RevokedAt,
		&token.RevokedReason,
		&token.LastUsedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan api token: %w", err)
	}
	token.ID = domain.TokenID(id)
	token.TenantID = domain.TenantID(tenantID)
	if len(perms) > 0 {
		if err := json.Unmarshal(perms, &token.Permissions); err != nil {
			return nil, fmt.Errorf("unmarshal token permissions: %w", err)
		}
	}
	return &token, nil
}
