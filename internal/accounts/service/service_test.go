package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kurspanel/internal/accounts/models"
	"kurspanel/internal/accounts/store"
	credjwt "kurspanel/internal/credentials/jwt"
	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
	"kurspanel/pkg/platform/middleware/operator"
	"kurspanel/pkg/requestcontext"
)

func newAccountService(t *testing.T) (*Service, *credjwt.Signer) {
	t.Helper()
	signer := credjwt.NewSigner("test-signing-key")
	return New(store.NewMemory(), signer, 8*time.Hour), signer
}

func TestAuthenticateMintsScopedSession(t *testing.T) {
	svc, signer := newAccountService(t)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithNow(context.Background(), now)

	scopes := []string{operator.ScopeLicenseManage, operator.ScopeLicenseExport}
	_, err := svc.Register(ctx, "Ops@Kurspanel.Example", "Ops Person", "parola", scopes)
	require.NoError(t, err)

	result, err := svc.Authenticate(ctx, models.LoginRequest{Email: "ops@kurspanel.example", Password: "parola"})
	require.NoError(t, err)
	assert.Equal(t, now.Add(8*time.Hour), result.ExpiresAt)

	p, err := signer.Verify(result.Token, now)
	require.NoError(t, err)
	assert.Equal(t, operator.RolePlatformOperator, p.Role)
	assert.True(t, p.HasScope(operator.ScopeLicenseManage))
	assert.False(t, p.HasScope(operator.ScopeLicenseImpersonate))
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ops@kurspanel.example", "Ops Person", "parola", nil)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, models.LoginRequest{Email: "ops@kurspanel.example", Password: "yanlis"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	// Unknown account fails the same way.
	_, err = svc.Authenticate(ctx, models.LoginRequest{Email: "kimse@kurspanel.example", Password: "parola"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ops@kurspanel.example", "Ops", "p", nil)
	require.NoError(t, err)
	_, err = svc.Register(ctx, "OPS@kurspanel.example", "Ops Again", "p", nil)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestGrantsAreIdempotentConflicts(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "destek@kurspanel.example", "Destek", "p", nil)
	require.NoError(t, err)
	tenant := domain.TenantID("MAVI-BEYAZ-AKADEMI")

	require.NoError(t, svc.GrantTenant(ctx, user.ID, tenant, "ops@kurspanel.example"))
	err = svc.GrantTenant(ctx, user.ID, tenant, "ops@kurspanel.example")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	grants, err := svc.GrantsFor(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, tenant, grants[0].TenantID)
}
