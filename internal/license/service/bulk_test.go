package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kurspanel/internal/isolation"
	"kurspanel/internal/license/models"
	"kurspanel/internal/license/store"
	"kurspanel/internal/roster"
	"kurspanel/internal/tenantctx"
	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
)

func seedTenants(t *testing.T, svc *Service, names map[string]string) map[string]domain.TenantID {
	t.Helper()
	ids := make(map[string]domain.TenantID, len(names))
	for name, username := range names {
		tenant, err := svc.CreateTenant(context.Background(), createReq(name, username))
		require.NoError(t, err)
		ids[name] = tenant.ID
	}
	return ids
}

func TestBulkDisableIsIdempotent(t *testing.T) {
	svc := New(store.NewMemory())
	ctx := context.Background()
	ids := seedTenants(t, svc, map[string]string{"Kurs A": "ka", "Kurs B": "kb"})

	// Disable Kurs B up front so the batch finds it already inactive.
	_, err := svc.BulkUpdate(ctx, models.BulkUpdateRequest{
		Action:    models.BulkDisable,
		TenantIDs: []domain.TenantID{ids["Kurs B"]},
	})
	require.NoError(t, err)

	outcome, err := svc.BulkUpdate(ctx, models.BulkUpdateRequest{
		Action:    models.BulkDisable,
		TenantIDs: []domain.TenantID{ids["Kurs A"], ids["Kurs B"]},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Processed)
	assert.Equal(t, 1, outcome.Skipped)
	assert.Empty(t, outcome.Errors)

	for _, id := range ids {
		tenant, err := svc.GetTenant(ctx, id)
		require.NoError(t, err)
		assert.False(t, tenant.IsActive)
	}
}

func TestBulkEnableReactivates(t *testing.T) {
	svc := New(store.NewMemory())
	ctx := context.Background()
	ids := seedTenants(t, svc, map[string]string{"Kurs A": "ka"})

	_, err := svc.BulkUpdate(ctx, models.BulkUpdateRequest{
		Action:    models.BulkDisable,
		TenantIDs: []domain.TenantID{ids["Kurs A"]},
	})
	require.NoError(t, err)

	outcome, err := svc.BulkUpdate(ctx, models.BulkUpdateRequest{
		Action:    models.BulkEnable,
		TenantIDs: []domain.TenantID{ids["Kurs A"]},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Processed)

	tenant, err := svc.GetTenant(ctx, ids["Kurs A"])
	require.NoError(t, err)
	assert.True(t, tenant.IsActive)
}

func TestBulkDeleteBlockedTenantDoesNotStopBatch(t *testing.T) {
	registry := isolation.NewRegistry()
	rosterStore := roster.NewStore(registry)
	svc := New(store.NewMemory(), WithDependencyChecker(registry))
	ctx := context.Background()
	ids := seedTenants(t, svc, map[string]string{"Dolu Kurs": "dolu", "Bos Kurs": "bos"})

	scoped := tenantctx.AsTenant(ctx, ids["Dolu Kurs"])
	require.NoError(t, rosterStore.AddStudent(scoped, &roster.Student{ID: "s1", FullName: "Ali Veli", IsActive: true}))

	outcome, err := svc.BulkUpdate(ctx, models.BulkUpdateRequest{
		Action:    models.BulkDelete,
		TenantIDs: []domain.TenantID{ids["Dolu Kurs"], ids["Bos Kurs"]},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Processed)
	assert.Equal(t, 1, outcome.Skipped)
	assert.Empty(t, outcome.Errors)
	require.Len(t, outcome.SkippedMessages, 1)
	assert.Equal(t, ids["Dolu Kurs"], outcome.SkippedMessages[0].TenantID)
	assert.Contains(t, outcome.SkippedMessages[0].Message, "students")

	// The blocked tenant survives; the clean one is gone.
	_, err = svc.GetTenant(ctx, ids["Dolu Kurs"])
	require.NoError(t, err)
	_, err = svc.GetTenant(ctx, ids["Bos Kurs"])
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestBulkDeleteWithDependentsIsSkippedNotProcessed(t *testing.T) {
	registry := isolation.NewRegistry()
	rosterStore := roster.NewStore(registry)
	svc := New(store.NewMemory(), WithDependencyChecker(registry))
	ctx := context.Background()
	ids := seedTenants(t, svc, map[string]string{"Dolu Kurs": "dolu"})

	scoped := tenantctx.AsTenant(ctx, ids["Dolu Kurs"])
	require.NoError(t, rosterStore.AddStudent(scoped, &roster.Student{ID: "s1", FullName: "Ali Veli", IsActive: true}))

	outcome, err := svc.BulkUpdate(ctx, models.BulkUpdateRequest{
		Action:    models.BulkDelete,
		TenantIDs: []domain.TenantID{ids["Dolu Kurs"]},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Processed)
	assert.Equal(t, 1, outcome.Skipped)

	_, err = svc.GetTenant(ctx, ids["Dolu Kurs"])
	require.NoError(t, err)
}

func TestBulkUnknownTenantReportsError(t *testing.T) {
	svc := New(store.NewMemory())

	outcome, err := svc.BulkUpdate(context.Background(), models.BulkUpdateRequest{
		Action:    models.BulkEnable,
		TenantIDs: []domain.TenantID{"HAYALET-KURS"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Processed)
	require.Len(t, outcome.Errors, 1)
	assert.Contains(t, outcome.Errors[0].Message, "not found")
}

func TestBulkValidatesAction(t *testing.T) {
	svc := New(store.NewMemory())

	_, err := svc.BulkUpdate(context.Background(), models.BulkUpdateRequest{
		Action:    "archive",
		TenantIDs: []domain.TenantID{"X"},
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
