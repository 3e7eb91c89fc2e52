package tenantctx

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
)

func TestBindAndResolve(t *testing.T) {
	ctx := WithRequest(context.Background())
	require.NoError(t, Bind(ctx, domain.TenantID("ACME")))

	scope, err := Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TenantID("ACME"), scope.Tenant)
	assert.False(t, scope.Bypass)
}

func TestBindAfterResolveFails(t *testing.T) {
	ctx := WithRequest(context.Background())
	require.NoError(t, Bind(ctx, domain.TenantID("ACME")))

	_, err := Resolve(ctx)
	require.NoError(t, err)

	err = Bind(ctx, domain.TenantID("OTHER"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeContextAlreadyResolved))

	// The original binding is unchanged.
	scope, err := Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TenantID("ACME"), scope.Tenant)
}

func TestRebindBeforeResolveIsAllowed(t *testing.T) {
	// An operator override may replace the claim-derived tenant as long as
	// nothing has read the scope yet.
	ctx := WithRequest(context.Background())
	require.NoError(t, Bind(ctx, domain.TenantID("ACME")))
	require.NoError(t, BindBypass(ctx))

	scope, err := Resolve(ctx)
	require.NoError(t, err)
	assert.True(t, scope.Bypass)
}

func TestResolveUnboundFails(t *testing.T) {
	ctx := WithRequest(context.Background())
	_, err := Resolve(ctx)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingTenantContext))
}

func TestResolveWithoutHolderFails(t *testing.T) {
	_, err := Resolve(context.Background())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingTenantContext))
}

func TestAsBypassDoesNotMutateRequestScope(t *testing.T) {
	ctx := WithRequest(context.Background())
	require.NoError(t, Bind(ctx, domain.TenantID("ACME")))

	bypassCtx := AsBypass(ctx)
	scope, err := Resolve(bypassCtx)
	require.NoError(t, err)
	assert.True(t, scope.Bypass)

	scope, err = Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TenantID("ACME"), scope.Tenant)
	assert.False(t, scope.Bypass)
}

func TestAsTenantDerivesCallScope(t *testing.T) {
	ctx := WithRequest(context.Background())
	require.NoError(t, BindBypass(ctx))

	scoped := AsTenant(ctx, domain.TenantID("MAVI"))
	scope, err := Resolve(scoped)
	require.NoError(t, err)
	assert.Equal(t, domain.TenantID("MAVI"), scope.Tenant)
	assert.False(t, scope.Bypass)
}

func TestConcurrentResolveIsRaceFree(t *testing.T) {
	ctx := WithRequest(context.Background())
	require.NoError(t, Bind(ctx, domain.TenantID("ACME")))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scope, err := Resolve(ctx)
			assert.NoError(t, err)
			assert.Equal(t, domain.TenantID("ACME"), scope.Tenant)
		}()
	}
	wg.Wait()
}
