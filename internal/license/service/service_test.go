package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"kurspanel/internal/license/models"
	"kurspanel/internal/license/store"
	"kurspanel/internal/roster"
	"kurspanel/internal/sentinel"
	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
	"kurspanel/pkg/requestcontext"
)

func usageOf(total, active int, last *time.Time) roster.Usage {
	return roster.Usage{TotalStudents: total, ActiveStudents: active, LastStudentCreatedAt: last}
}

func createReq(name, username string) models.CreateTenantRequest {
	return models.CreateTenantRequest{
		Name:         name,
		Username:     username,
		Password:     "gizli-parola",
		ContactEmail: username + "@example.com",
	}
}

func TestCreateTenantDerivesSlug(t *testing.T) {
	svc := New(store.NewMemory())

	tenant, err := svc.CreateTenant(context.Background(), createReq("Mavi-Beyaz Akademi", "mavibeyaz"))
	require.NoError(t, err)
	assert.Equal(t, domain.TenantID("MAVI-BEYAZ-AKADEMI"), tenant.ID)
	assert.True(t, tenant.IsActive)
	assert.NotEmpty(t, tenant.PasswordHash)
	assert.NotEqual(t, "gizli-parola", tenant.PasswordHash)
}

func TestCreateTenantTransliteratesTurkish(t *testing.T) {
	svc := New(store.NewMemory())

	tenant, err := svc.CreateTenant(context.Background(), createReq("Çağdaş Sürücü Kursu", "cagdas"))
	require.NoError(t, err)
	assert.Equal(t, domain.TenantID("CAGDAS-SURUCU-KURSU"), tenant.ID)
}

func TestCreateTenantSlugCollisionTakesSuffix(t *testing.T) {
	svc := New(store.NewMemory())
	ctx := context.Background()

	first, err := svc.CreateTenant(ctx, createReq("Ankara Kurs", "ankara1"))
	require.NoError(t, err)
	second, err := svc.CreateTenant(ctx, createReq("Ankara Kurs", "ankara2"))
	require.NoError(t, err)
	third, err := svc.CreateTenant(ctx, createReq("Ankara Kurs", "ankara3"))
	require.NoError(t, err)

	assert.Equal(t, domain.TenantID("ANKARA-KURS"), first.ID)
	assert.Equal(t, domain.TenantID("ANKARA-KURS-1"), second.ID)
	assert.Equal(t, domain.TenantID("ANKARA-KURS-2"), third.ID)
}

func TestCreateTenantUsernameConflictIsHard(t *testing.T) {
	svc := New(store.NewMemory())
	ctx := context.Background()

	_, err := svc.CreateTenant(ctx, createReq("Izmir Kurs", "ortak"))
	require.NoError(t, err)

	// Different name, same username: must conflict, never suffix.
	_, err = svc.CreateTenant(ctx, createReq("Bursa Kurs", "ortak"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	tenants, err := svc.ListTenants(ctx)
	require.NoError(t, err)
	assert.Len(t, tenants, 1)
}

func TestCreateTenantValidation(t *testing.T) {
	svc := New(store.NewMemory())
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.CreateTenantRequest
	}{
		{"empty name", createReq("", "u1")},
		{"empty username", createReq("Kurs", "")},
		{"bad email", models.CreateTenantRequest{Name: "Kurs", Username: "u1", Password: "p", ContactEmail: "not-an-email"}},
		{"empty password", models.CreateTenantRequest{Name: "Kurs", Username: "u1", ContactEmail: "a@b.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTenant(ctx, tc.req)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestUpdateTenantIDIsImmutable(t *testing.T) {
	svc := New(store.NewMemory())
	ctx := context.Background()

	tenant, err := svc.CreateTenant(ctx, createReq("Eski Ad", "sabit"))
	require.NoError(t, err)
	originalID := tenant.ID

	newName := "Yepyeni Akademi"
	updated, err := svc.UpdateTenant(ctx, originalID, models.UpdateTenantRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, originalID, updated.ID)
	assert.Equal(t, newName, updated.Name)

	// Still reachable under the original id.
	fetched, err := svc.GetTenant(ctx, originalID)
	require.NoError(t, err)
	assert.Equal(t, newName, fetched.Name)
}

func TestGetLicenseSummary(t *testing.T) {
	svc := New(store.NewMemory())
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithNow(context.Background(), now)

	soon := now.Add(10 * 24 * time.Hour)
	past := now.Add(-24 * time.Hour)
	far := now.Add(200 * 24 * time.Hour)

	mk := func(name, username string, expire *time.Time) {
		req := createReq(name, username)
		req.ExpireDate = expire
		_, err := svc.CreateTenant(ctx, req)
		require.NoError(t, err)
	}
	mk("Kurs Bir", "k1", &soon)
	mk("Kurs Iki", "k2", &past)
	mk("Kurs Uc", "k3", &far)
	mk("Kurs Dort", "k4", nil)

	summary, err := svc.GetLicenseSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalLicenses)
	assert.Equal(t, 3, summary.ActiveLicenses)
	assert.Equal(t, 1, summary.ExpiringSoon)
	assert.Equal(t, 1, summary.Expired)
	assert.Equal(t, 4, summary.CreatedThisMonth)
}

func (s *ServiceSuite) TestDeleteTenantBlockedByDependents() {
	ctx := context.Background()
	id := domain.TenantID("MAVI-BEYAZ-AKADEMI")
	tenant := &models.Tenant{ID: id, Name: "Mavi-Beyaz Akademi"}

	s.mockStore.EXPECT().Get(gomock.Any(), id).Return(tenant, nil)
	s.mockChecker.EXPECT().Dependents(gomock.Any(), id).Return([]string{"students", "course groups"}, nil)
	// No Delete expectation: the call must never reach the store.

	err := s.service.DeleteTenant(ctx, id)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDependency))
	s.Contains(err.Error(), "students")
	s.Contains(err.Error(), "course groups")
}

func (s *ServiceSuite) TestDeleteTenantSucceedsAndAudits() {
	ctx := context.Background()
	id := domain.TenantID("BOS-KURS")
	tenant := &models.Tenant{ID: id, Name: "Bos Kurs"}

	s.mockStore.EXPECT().Get(gomock.Any(), id).Return(tenant, nil)
	s.mockChecker.EXPECT().Dependents(gomock.Any(), id).Return(nil, nil)
	s.mockStore.EXPECT().Delete(gomock.Any(), id).Return(nil)
	s.mockAuditor.EXPECT().Record(gomock.Any(), gomock.Any())

	s.Require().NoError(s.service.DeleteTenant(ctx, id))
}

func (s *ServiceSuite) TestGetTenantTranslatesNotFound() {
	id := domain.TenantID("YOK")
	s.mockStore.EXPECT().Get(gomock.Any(), id).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.GetTenant(context.Background(), id)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestCreateTenantRetriesTransientInsert() {
	ctx := context.Background()
	gomock.InOrder(
		s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(sentinel.ErrUnavailable),
		s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil),
	)
	s.mockAuditor.EXPECT().Record(gomock.Any(), gomock.Any())

	tenant, err := s.service.CreateTenant(ctx, createReq("Dirençli Kurs", "direnc"))
	s.Require().NoError(err)
	s.Equal(domain.TenantID("DIRENCLI-KURS"), tenant.ID)
}

func (s *ServiceSuite) TestUsageSummariesJoinRosterUsage() {
	ctx := context.Background()
	id := domain.TenantID("DOLU-KURS")
	last := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	s.mockStore.EXPECT().List(gomock.Any()).Return([]*models.Tenant{
		{ID: id, Name: "Dolu Kurs", IsActive: true},
	}, nil)
	s.mockUsage.EXPECT().UsageFor(gomock.Any(), id).Return(usageOf(12, 9, &last), nil)

	rows, err := s.service.GetUsageSummaries(ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(12, rows[0].TotalStudents)
	s.Equal(9, rows[0].ActiveStudents)
	s.Equal("active", rows[0].Status)
	s.Equal(&last, rows[0].LastStudentCreatedAt)
}
