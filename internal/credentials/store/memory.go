// Package store provides API token persistence.
package store

import (
	"context"
	"sort"
	"sync"

	"kurspanel/internal/credentials/models"
	"kurspanel/internal/sentinel"
	"kurspanel/pkg/domain"
)

// MemoryStore is an in-memory token store for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	tokens   map[domain.TokenID]models.APIToken
	prefixes map[string]domain.TokenID
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		tokens:   make(map[domain.TokenID]models.APIToken),
		prefixes: make(map[string]domain.TokenID),
	}
}

func (s *MemoryStore) Insert(_ context.Context, token *models.APIToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[token.ID]; exists {
		return sentinel.ErrDuplicateID
	}
	if _, exists := s.prefixes[token.TokenPrefix]; exists {
		return sentinel.ErrDuplicatePrefix
	}
	s.tokens[token.ID] = *token
	s.prefixes[token.TokenPrefix] = token.ID
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id domain.TokenID) (*models.APIToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := token
	return &copied, nil
}

func (s *MemoryStore) GetByPrefix(_ context.Context, prefix string) (*models.APIToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.prefixes[prefix]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	token := s.tokens[id]
	return &token, nil
}

func (s *MemoryStore) ListByTenant(_ context.Context, tenant domain.TenantID) ([]*models.APIToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.APIToken
	for _, token := range s.tokens {
		if token.TenantID == tenant {
			copied := token
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, token *models.APIToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[token.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.tokens[token.ID] = *token
	return nil
}
