package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"kurspanel/internal/accounts/models"
	"kurspanel/internal/sentinel"
	"kurspanel/pkg/domain"
)

// PostgresStore persists platform users and tenant grants in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) InsertUser(ctx context.Context, user *models.PlatformUser) error {
	scopes, err := json.Marshal(user.Scopes)
	if err != nil {
		return fmt.Errorf("marshal user scopes: %w", err)
	}
	query := `
		INSERT INTO platform_users (id, email, full_name, password_hash, scopes, is_active, created_at)
		VALUES ($1, LOWER($2), $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(user.ID),
		user.Email,
		user.FullName,
		user.PasswordHash,
		scopes,
		user.IsActive,
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrDuplicateUsername
		}
		return fmt.Errorf("insert platform user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.PlatformUser, error) {
	query := `
		SELECT id, email, full_name, password_hash, scopes, is_active, created_at
		FROM platform_users
		WHERE email = LOWER($1)
	`
	var (
		user   models.PlatformUser
		id     uuid.UUID
		scopes []byte
	)
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&id, &user.Email, &user.FullName, &user.PasswordHash, &scopes, &user.IsActive, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get platform user: %w", err)
	}
	user.ID = domain.UserID(id)
	if len(scopes) > 0 {
		if err := json.Unmarshal(scopes, &user.Scopes); err != nil {
			return nil, fmt.Errorf("unmarshal user scopes: %w", err)
		}
	}
	return &user, nil
}

func (s *PostgresStore) AddGrant(ctx context.Context, grant models.UserTenantGrant) error {
	query := `
		INSERT INTO user_tenant_grants (user_id, tenant_id, granted_by, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(grant.UserID),
		string(grant.TenantID),
		grant.GrantedBy,
		grant.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrDuplicateID
		}
		return fmt.Errorf("add tenant grant: %w", err)
	}
	return nil
}

func (s *PostgresStore) GrantsFor(ctx context.Context, userID domain.UserID) ([]models.UserTenantGrant, error) {
	query := `
		SELECT user_id, tenant_id, granted_by, created_at
		FROM user_tenant_grants
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list tenant grants: %w", err)
	}
	defer rows.Close()

	var out []models.UserTenantGrant
	for rows.Next() {
		var (
			grant    models.UserTenantGrant
			id       uuid.UUID
			tenantID string
		)
		if err := rows.Scan(&id, &tenantID, &grant.GrantedBy, &grant.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant grant: %w", err)
		}
		grant.UserID = domain.UserID(id)
		grant.TenantID = domain.TenantID(tenantID)
		out = append(out, grant)
	}
	return out, rows.Err()
}
