package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credjwt "kurspanel/internal/credentials/jwt"
	"kurspanel/internal/credentials/models"
	"kurspanel/internal/credentials/store"
	licensemodels "kurspanel/internal/license/models"
	licenseservice "kurspanel/internal/license/service"
	licensestore "kurspanel/internal/license/store"
	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
	"kurspanel/pkg/platform/middleware/operator"
	"kurspanel/pkg/requestcontext"
)

func operatorCtx(now time.Time) context.Context {
	ctx := requestcontext.WithNow(context.Background(), now)
	return operator.WithPrincipal(ctx, &operator.Principal{
		Name:   "ops@kurspanel.example",
		Role:   operator.RolePlatformOperator,
		Scopes: []string{operator.ScopeLicenseManage, operator.ScopeLicenseImpersonate},
	})
}

func newCredentialService(t *testing.T, now time.Time) (*Service, domain.TenantID) {
	t.Helper()
	tenants := licenseservice.New(licensestore.NewMemory())
	tenant, err := tenants.CreateTenant(requestcontext.WithNow(context.Background(), now), licensemodels.CreateTenantRequest{
		Name:         "Mavi-Beyaz Akademi",
		Username:     "mavibeyaz",
		Password:     "parola",
		ContactEmail: "info@mavibeyaz.com",
	})
	require.NoError(t, err)

	signer := credjwt.NewSigner("test-signing-key")
	svc := New(store.NewMemory(), tenants, signer)
	return svc, tenant.ID
}

func TestImpersonationGrantHasFixedTTL(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, tenantID := newCredentialService(t, now)

	grant, err := svc.Impersonate(operatorCtx(now), tenantID)
	require.NoError(t, err)
	assert.Equal(t, now.Add(15*time.Minute), grant.ExpiresAt)

	// One minute later the grant still verifies as the tenant admin.
	later := requestcontext.WithNow(context.Background(), now.Add(1*time.Minute))
	p, err := svc.Verify(later, grant.Token)
	require.NoError(t, err)
	assert.Equal(t, operator.RoleTenantAdmin, p.Role)
	assert.Equal(t, tenantID, p.TenantID)
	assert.True(t, p.Impersonated)
	assert.Equal(t, "ops@kurspanel.example", p.ActorName)

	// Twenty minutes later it is dead.
	expired := requestcontext.WithNow(context.Background(), now.Add(20*time.Minute))
	_, err = svc.Verify(expired, grant.Token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestImpersonateInactiveTenantRefused(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	tenants := licenseservice.New(licensestore.NewMemory())
	ctx := requestcontext.WithNow(context.Background(), now)
	expired := now.Add(-time.Hour)
	tenant, err := tenants.CreateTenant(ctx, licensemodels.CreateTenantRequest{
		Name: "Biten Kurs", Username: "biten", Password: "p", ContactEmail: "b@example.com",
		ExpireDate: &expired,
	})
	require.NoError(t, err)

	svc := New(store.NewMemory(), tenants, credjwt.NewSigner("test-signing-key"))
	_, err = svc.Impersonate(operatorCtx(now), tenant.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestImpersonateRequiresOperator(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, tenantID := newCredentialService(t, now)

	// No principal at all.
	_, err := svc.Impersonate(requestcontext.WithNow(context.Background(), now), tenantID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestIssueTokenPlaintextShownOnce(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, tenantID := newCredentialService(t, now)
	ctx := operatorCtx(now)

	issued, err := svc.IssueToken(ctx, tenantID, models.IssueTokenRequest{
		Label:       "provisioning bot",
		Permissions: []string{"license:manage"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Plaintext)
	assert.True(t, strings.HasPrefix(issued.Plaintext, issued.Token.TokenPrefix+"."))
	assert.NotContains(t, issued.Token.TokenHash, strings.TrimPrefix(issued.Plaintext, issued.Token.TokenPrefix+"."))

	// Listing returns the record without any secret material.
	tokens, err := svc.ListTokens(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, issued.Token.TokenPrefix, tokens[0].TokenPrefix)
}

func TestIssueTokenExplicitExpiryWinsOverDays(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, tenantID := newCredentialService(t, now)

	explicit := now.Add(48 * time.Hour)
	issued, err := svc.IssueToken(operatorCtx(now), tenantID, models.IssueTokenRequest{
		Label:         "short bot",
		Permissions:   []string{"license:manage"},
		ExpiresInDays: 30,
		ExpiresAt:     &explicit,
	})
	require.NoError(t, err)
	require.NotNil(t, issued.Token.ExpiresAt)
	assert.Equal(t, explicit, *issued.Token.ExpiresAt)
}

func TestIssueTokenPastExpiryRejected(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, tenantID := newCredentialService(t, now)

	past := now.Add(-time.Minute)
	_, err := svc.IssueToken(operatorCtx(now), tenantID, models.IssueTokenRequest{
		Label:       "time traveler",
		Permissions: []string{"license:manage"},
		ExpiresAt:   &past,
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestVerifyAPITokenAndRevocation(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, tenantID := newCredentialService(t, now)
	ctx := operatorCtx(now)

	issued, err := svc.IssueToken(ctx, tenantID, models.IssueTokenRequest{
		Label:       "ci",
		Permissions: []string{"license:export"},
	})
	require.NoError(t, err)

	p, err := svc.Verify(ctx, issued.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, operator.RoleAPIClient, p.Role)
	assert.Equal(t, tenantID, p.TenantID)
	assert.True(t, p.HasScope("license:export"))
	assert.False(t, p.HasScope("license:manage"))

	require.NoError(t, svc.RevokeToken(ctx, tenantID, issued.Token.ID, "rotated"))

	// Revocation takes effect at time of use.
	_, err = svc.Verify(ctx, issued.Plaintext)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestRevokeTwiceConflicts(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, tenantID := newCredentialService(t, now)
	ctx := operatorCtx(now)

	issued, err := svc.IssueToken(ctx, tenantID, models.IssueTokenRequest{
		Label:       "once",
		Permissions: []string{"license:manage"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(ctx, tenantID, issued.Token.ID, "rotated"))
	err = svc.RevokeToken(ctx, tenantID, issued.Token.ID, "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestRevokeOtherTenantsTokenReadsNotFound(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, tenantID := newCredentialService(t, now)
	ctx := operatorCtx(now)

	issued, err := svc.IssueToken(ctx, tenantID, models.IssueTokenRequest{
		Label:       "mine",
		Permissions: []string{"license:manage"},
	})
	require.NoError(t, err)

	err = svc.RevokeToken(ctx, domain.TenantID("BASKA-KURS"), issued.Token.ID, "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestVerifyExpiredTokenRejected(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, tenantID := newCredentialService(t, now)

	issued, err := svc.IssueToken(operatorCtx(now), tenantID, models.IssueTokenRequest{
		Label:         "fleeting",
		Permissions:   []string{"license:manage"},
		ExpiresInDays: 1,
	})
	require.NoError(t, err)

	later := requestcontext.WithNow(context.Background(), now.Add(48*time.Hour))
	_, err = svc.Verify(later, issued.Plaintext)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestVerifyWrongSecretRejected(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, tenantID := newCredentialService(t, now)
	ctx := operatorCtx(now)

	issued, err := svc.IssueToken(ctx, tenantID, models.IssueTokenRequest{
		Label:       "target",
		Permissions: []string{"license:manage"},
	})
	require.NoError(t, err)

	_, err = svc.Verify(ctx, issued.Token.TokenPrefix+".guessed-secret")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
