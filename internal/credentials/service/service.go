// Package service owns credential issuance: tenant impersonation grants and
// tenant-bound API tokens, plus verification of both at time of use.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"kurspanel/internal/audit"
	credjwt "kurspanel/internal/credentials/jwt"
	"kurspanel/internal/credentials/models"
	"kurspanel/internal/events"
	licensemodels "kurspanel/internal/license/models"
	"kurspanel/internal/platform/config"
	"kurspanel/internal/sentinel"
	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
	"kurspanel/pkg/platform/middleware/operator"
	"kurspanel/pkg/requestcontext"
	"kurspanel/pkg/secrets"
)

// maxPrefixAttempts bounds the retry loop on the astronomically unlikely
// prefix collision.
const maxPrefixAttempts = 3

type TokenStore interface {
	Insert(ctx context.Context, token *models.APIToken) error
	Get(ctx context.Context, id domain.TokenID) (*models.APIToken, error)
	GetByPrefix(ctx context.Context, prefix string) (*models.APIToken, error)
	ListByTenant(ctx context.Context, tenant domain.TenantID) ([]*models.APIToken, error)
	Update(ctx context.Context, token *models.APIToken) error
}

// TenantResolver looks up license records so issuance can refuse inactive or
// expired tenants.
type TenantResolver interface {
	GetTenant(ctx context.Context, id domain.TenantID) (*licensemodels.Tenant, error)
}

// AuditRecorder captures audit entries fire-and-forget.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// Service issues and verifies credentials.
type Service struct {
	tokens    TokenStore
	tenants   TenantResolver
	signer    *credjwt.Signer
	auditor   AuditRecorder
	publisher events.Publisher
	logger    *slog.Logger
}

type Option func(*Service)

func WithAuditRecorder(auditor AuditRecorder) Option {
	return func(s *Service) { s.auditor = auditor }
}

func WithEventPublisher(publisher events.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(tokens TokenStore, tenants TenantResolver, signer *credjwt.Signer, opts ...Option) *Service {
	s := &Service{
		tokens:    tokens,
		tenants:   tenants,
		signer:    signer,
		publisher: events.Noop{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Impersonate mints a tenant-admin session for the calling operator. The TTL
// is fixed at fifteen minutes and not negotiable per call; every grant lands
// in the audit trail with the operator's identity.
func (s *Service) Impersonate(ctx context.Context, tenantID domain.TenantID) (*models.ImpersonationGrant, error) {
	tenant, err := s.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	if !tenant.IsActive || tenant.IsExpired(now) {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot impersonate an inactive or expired tenant")
	}

	p := operator.GetPrincipal(ctx)
	if p == nil || !p.IsOperator() {
		return nil, dErrors.New(dErrors.CodeForbidden, "impersonation requires a platform operator session")
	}

	token, expiresAt, err := s.signer.IssueImpersonation(p.Name, tenantID, now, config.ImpersonationTTL)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionTenantImpersonate,
		EntityType: "tenant",
		EntityID:   tenantID.String(),
		TenantID:   tenantID,
		Metadata:   map[string]any{"expires_at": expiresAt},
	})
	return &models.ImpersonationGrant{Token: token, TenantID: tenantID, ExpiresAt: expiresAt}, nil
}

// IssueToken creates a tenant-bound API token. The plaintext secret appears
// once in the response and is never retrievable afterwards.
func (s *Service) IssueToken(ctx context.Context, tenantID domain.TenantID, req models.IssueTokenRequest) (*models.IssuedToken, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	tenant, err := s.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	if !tenant.IsActive || tenant.IsExpired(now) {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot issue tokens for an inactive or expired tenant")
	}
	expiresAt, err := req.EffectiveExpiry(now)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxPrefixAttempts; attempt++ {
		secret, err := secrets.Generate()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate token secret")
		}
		prefix, err := secrets.GeneratePrefix()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate token prefix")
		}
		hash, err := secrets.Hash(secret)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash token secret")
		}

		token := models.APIToken{
			ID:          domain.NewTokenID(),
			TenantID:    tenantID,
			Label:       req.Label,
			Description: req.Description,
			TokenPrefix: prefix,
			TokenHash:   hash,
			Permissions: req.Permissions,
			ExpiresAt:   expiresAt,
			CreatedAt:   now,
		}
		err = s.tokens.Insert(ctx, &token)
		switch {
		case err == nil:
			s.recordAudit(ctx, audit.Entry{
				Action:     audit.ActionTokenIssue,
				EntityType: "api_token",
				EntityID:   token.ID.String(),
				TenantID:   tenantID,
				Metadata:   map[string]any{"label": req.Label, "token_prefix": prefix},
			})
			s.publisher.Publish(ctx, events.Event{
				Type:       events.TypeTokenIssued,
				TenantID:   tenantID,
				OccurredAt: now,
				Payload:    map[string]any{"label": req.Label},
			})
			return &models.IssuedToken{Token: token, Plaintext: prefix + "." + secret}, nil
		case errors.Is(err, sentinel.ErrDuplicatePrefix):
			continue
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist api token")
		}
	}
	return nil, dErrors.New(dErrors.CodeInternal, "could not allocate a unique token prefix")
}

// ListTokens returns a tenant's tokens, revoked ones included.
func (s *Service) ListTokens(ctx context.Context, tenantID domain.TenantID) ([]*models.APIToken, error) {
	tokens, err := s.tokens.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list api tokens")
	}
	return tokens, nil
}

// RevokeToken revokes a token immediately. Revoking twice is a conflict so
// automation notices it is chasing a stale token list.
func (s *Service) RevokeToken(ctx context.Context, tenantID domain.TenantID, tokenID domain.TokenID, reason string) error {
	token, err := s.tokens.Get(ctx, tokenID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "token not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load api token")
	}
	// A token belonging to another tenant reads as not found.
	if token.TenantID != tenantID {
		return dErrors.New(dErrors.CodeNotFound, "token not found")
	}
	if token.IsRevoked {
		return dErrors.New(dErrors.CodeConflict, "token already revoked")
	}

	now := requestcontext.Now(ctx)
	token.IsRevoked = true
	token.RevokedAt = &now
	token.RevokedReason = strings.TrimSpace(reason)
	if err := s.tokens.Update(ctx, token); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke api token")
	}

	meta := map[string]any{"token_prefix": token.TokenPrefix}
	if token.RevokedReason != "" {
		meta["reason"] = token.RevokedReason
	}
	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionTokenRevoke,
		EntityType: "api_token",
		EntityID:   tokenID.String(),
		TenantID:   tenantID,
		Metadata:   meta,
	})
	s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeTokenRevoked,
		TenantID:   tenantID,
		OccurredAt: now,
	})
	return nil
}

// Verify resolves a bearer credential to a principal. JWT sessions (operator
// logins, impersonation grants) have two dots; API tokens are prefix.secret.
// Expiry and revocation are checked here, at time of use.
func (s *Service) Verify(ctx context.Context, credential string) (*operator.Principal, error) {
	now := requestcontext.Now(ctx)
	if strings.Count(credential, ".") == 2 {
		return s.signer.Verify(credential, now)
	}

	prefix, secret, ok := strings.Cut(credential, ".")
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "malformed credential")
	}
	token, err := s.tokens.GetByPrefix(ctx, prefix)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown credential")
	}
	if !token.Usable(now) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "credential revoked or expired")
	}
	if err := secrets.Verify(secret, token.TokenHash); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown credential")
	}

	token.LastUsedAt = &now
	if err := s.tokens.Update(ctx, token); err != nil {
		s.logger.Warn("failed to stamp token last_used_at", "token_id", token.ID, "error", err)
	}

	return &operator.Principal{
		Name:     token.Label,
		Role:     operator.RoleAPIClient,
		TenantID: token.TenantID,
		Scopes:   token.Permissions,
	}, nil
}

func (s *Service) recordAudit(ctx context.Context, entry audit.Entry) {
	if s.auditor == nil {
		return
	}
	if p := operator.GetPrincipal(ctx); p != nil {
		entry.ActorName = p.Name
		entry.ActorRole = p.Role
		if p.Impersonated {
			entry.ActorName = p.ActorName
		}
	}
	s.auditor.Record(ctx, entry)
}
