package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kurspanel/internal/license/models"
	"kurspanel/internal/sentinel"
	"kurspanel/pkg/domain"
)

func tenantFixture(id, username string) *models.Tenant {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.Tenant{
		ID:           domain.TenantID(id),
		Name:         id,
		Username:     username,
		PasswordHash: "hash",
		ContactEmail: username + "@example.com",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestMemoryStoreUsernameUnique(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, tenantFixture("KURS-A", "ortak")))
	err := s.Insert(ctx, tenantFixture("KURS-B", "ortak"))
	assert.ErrorIs(t, err, sentinel.ErrDuplicateUsername)
}

func TestMemoryStoreUsernameMatchIsExact(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, tenantFixture("KURS-A", "Ortak")))
	assert.NoError(t, s.Insert(ctx, tenantFixture("KURS-B", "ortak")))
}

func TestMemoryStoreDuplicateID(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, tenantFixture("KURS-A", "bir")))
	err := s.Insert(ctx, tenantFixture("KURS-A", "iki"))
	assert.ErrorIs(t, err, sentinel.ErrDuplicateID)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, tenantFixture("KURS-A", "bir")))

	first, err := s.Get(ctx, "KURS-A")
	require.NoError(t, err)
	first.Name = "mutated"

	second, err := s.Get(ctx, "KURS-A")
	require.NoError(t, err)
	assert.Equal(t, "KURS-A", second.Name)
}

func TestMemoryStoreUpdateFreesOldUsername(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, tenantFixture("KURS-A", "eski")))

	updated := tenantFixture("KURS-A", "yeni")
	require.NoError(t, s.Update(ctx, updated))

	// The old username is free again.
	require.NoError(t, s.Insert(ctx, tenantFixture("KURS-B", "eski")))

	_, err := s.GetByUsername(ctx, "yeni")
	require.NoError(t, err)
}
