// Package store provides tenant license persistence. Both implementations
// return the shared sentinel errors; translating them into domain errors is
// the service layer's job.
package store

import (
	"context"
	"sort"
	"sync"

	"kurspanel/internal/license/models"
	"kurspanel/internal/sentinel"
	"kurspanel/pkg/domain"
)

// MemoryStore is an in-memory tenant store for tests and local development.
type MemoryStore struct {
	mu        sync.RWMutex
	tenants   map[domain.TenantID]models.Tenant
	usernames map[string]domain.TenantID
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		tenants:   make(map[domain.TenantID]models.Tenant),
		usernames: make(map[string]domain.TenantID),
	}
}

func (s *MemoryStore) Insert(_ context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tenants[tenant.ID]; exists {
		return sentinel.ErrDuplicateID
	}
	if _, exists := s.usernames[tenant.Username]; exists {
		return sentinel.ErrDuplicateUsername
	}
	s.tenants[tenant.ID] = *tenant
	s.usernames[tenant.Username] = tenant.ID
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id domain.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenant, ok := s.tenants[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := tenant
	return &copied, nil
}

func (s *MemoryStore) GetByUsername(_ context.Context, username string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	tenant := s.tenants[id]
	return &tenant, nil
}

func (s *MemoryStore) List(_ context.Context) ([]*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Tenant, 0, len(s.tenants))
	for _, tenant := range s.tenants {
		copied := tenant
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tenants[tenant.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if tenant.Username != existing.Username {
		if _, taken := s.usernames[tenant.Username]; taken {
			return sentinel.ErrDuplicateUsername
		}
		delete(s.usernames, existing.Username)
		s.usernames[tenant.Username] = tenant.ID
	}
	s.tenants[tenant.ID] = *tenant
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id domain.TenantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, ok := s.tenants[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.usernames, tenant.Username)
	delete(s.tenants, id)
	return nil
}
