// Package service authenticates platform operators and manages their
// per-tenant grants.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"kurspanel/internal/accounts/models"
	"kurspanel/internal/audit"
	credjwt "kurspanel/internal/credentials/jwt"
	"kurspanel/internal/sentinel"
	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
	"kurspanel/pkg/requestcontext"
	"kurspanel/pkg/secrets"
)

type AccountStore interface {
	InsertUser(ctx context.Context, user *models.PlatformUser) error
	GetUserByEmail(ctx context.Context, email string) (*models.PlatformUser, error)
	AddGrant(ctx context.Context, grant models.UserTenantGrant) error
	GrantsFor(ctx context.Context, userID domain.UserID) ([]models.UserTenantGrant, error)
}

// AuditRecorder captures audit entries fire-and-forget.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// Service owns operator authentication.
type Service struct {
	store    AccountStore
	signer   *credjwt.Signer
	tokenTTL time.Duration
	auditor  AuditRecorder
	logger   *slog.Logger
}

type Option func(*Service)

func WithAuditRecorder(auditor AuditRecorder) Option {
	return func(s *Service) { s.auditor = auditor }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(store AccountStore, signer *credjwt.Signer, tokenTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		store:    store,
		signer:   signer,
		tokenTTL: tokenTTL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate verifies an operator's credentials and mints a session token
// carrying the account's capability scopes. Unknown accounts and wrong
// passwords fail identically.
func (s *Service) Authenticate(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "login lookup failed")
	}
	if !user.IsActive {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err := secrets.Verify(req.Password, user.PasswordHash); err != nil {
		s.logger.Warn("failed operator login", "email", req.Email)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	now := requestcontext.Now(ctx)
	token, expiresAt, err := s.signer.IssueOperator(user.Email, user.Scopes, now, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	if s.auditor != nil {
		s.auditor.Record(ctx, audit.Entry{
			ActorName:  user.Email,
			ActorRole:  "platform_operator",
			Action:     audit.ActionOperatorLogin,
			EntityType: "platform_user",
			EntityID:   user.ID.String(),
		})
	}
	return &models.LoginResult{Token: token, ExpiresAt: expiresAt, Scopes: user.Scopes}, nil
}

// Register creates a platform user with a hashed password. Used by seed
// tooling; there is no self-service signup.
func (s *Service) Register(ctx context.Context, email, fullName, password string, scopes []string) (*models.PlatformUser, error) {
	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	user := &models.PlatformUser{
		ID:           domain.NewUserID(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Scopes:       scopes,
		IsActive:     true,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrDuplicateUsername) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create platform user")
	}
	return user, nil
}

// GrantTenant records that a user may manage a tenant.
func (s *Service) GrantTenant(ctx context.Context, userID domain.UserID, tenantID domain.TenantID, grantedBy string) error {
	grant := models.UserTenantGrant{
		UserID:    userID,
		TenantID:  tenantID,
		GrantedBy: grantedBy,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.AddGrant(ctx, grant); err != nil {
		if errors.Is(err, sentinel.ErrDuplicateID) {
			return dErrors.New(dErrors.CodeConflict, "grant already exists")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to add grant")
	}
	return nil
}

// GrantsFor lists the tenants a user may manage.
func (s *Service) GrantsFor(ctx context.Context, userID domain.UserID) ([]models.UserTenantGrant, error) {
	grants, err := s.store.GrantsFor(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list grants")
	}
	return grants, nil
}
