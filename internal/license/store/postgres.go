package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"kurspanel/internal/license/models"
	"kurspanel/internal/sentinel"
	"kurspanel/pkg/domain"
)

// PostgresStore persists tenant license records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const tenantColumns = `id, name, city, username, password_hash, contact_email, contact_phone, expire_date, is_active, created_at, updated_at`

func (s *PostgresStore) Insert(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (` + tenantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		string(tenant.ID),
		tenant.Name,
		tenant.City,
		tenant.Username,
		tenant.PasswordHash,
		tenant.ContactEmail,
		tenant.ContactPhone,
		tenant.ExpireDate,
		tenant.IsActive,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "insert tenant")
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id domain.TenantID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, string(id)))
}

func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE username = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, username))
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var out []*models.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, tenant)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $2, city = $3, username = $4, password_hash = $5,
		    contact_email = $6, contact_phone = $7, expire_date = $8,
		    is_active = $9, updated_at = $10
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		string(tenant.ID),
		tenant.Name,
		tenant.City,
		tenant.Username,
		tenant.PasswordHash,
		tenant.ContactEmail,
		tenant.ContactPhone,
		tenant.ExpireDate,
		tenant.IsActive,
		tenant.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "update tenant")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tenant rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.TenantID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete tenant rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) scanOne(row *sql.Row) (*models.Tenant, error) {
	tenant, err := scanTenant(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return tenant, err
}

func scanTenant(scan func(...any) error) (*models.Tenant, error) {
	var (
		tenant models.Tenant
		id     string
	)
	err := scan(
		&id,
		&tenant.Name,
		&tenant.City,
		&tenant.Username,
		&tenant.PasswordHash,
		&tenant.ContactEmail,
		&tenant.ContactPhone,
		&tenant.ExpireDate,
		&tenant.IsActive,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan tenant: %w", err)
	}
	tenant.ID = domain.TenantID(id)
	return &tenant, nil
}

// translateError maps PostgreSQL errors onto sentinel errors. Unique
// violations are discriminated by constraint name so the service can tell a
// slug collision from a username collision; serialization failures and
// deadlocks surface as ErrUnavailable so callers may retry.
func translateError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			switch pgErr.ConstraintName {
			case "tenants_pkey":
				return sentinel.ErrDuplicateID
			case "tenants_username_key":
				return sentinel.ErrDuplicateUsername
			}
			return sentinel.ErrDuplicateID
		case "40001", "40P01":
			return fmt.Errorf("%s: %w", op, sentinel.ErrUnavailable)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
