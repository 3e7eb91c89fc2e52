// Package store provides platform user and grant persistence.
package store

import (
	"context"
	"strings"
	"sync"

	"kurspanel/internal/accounts/models"
	"kurspanel/internal/sentinel"
	"kurspanel/pkg/domain"
)

// MemoryStore is an in-memory accounts store for tests and local development.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[domain.UserID]models.PlatformUser
	emails map[string]domain.UserID
	grants []models.UserTenantGrant
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		users:  make(map[domain.UserID]models.PlatformUser),
		emails: make(map[string]domain.UserID),
	}
}

func (s *MemoryStore) InsertUser(_ context.Context, user *models.PlatformUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := s.emails[email]; exists {
		return sentinel.ErrDuplicateUsername
	}
	s.users[user.ID] = *user
	s.emails[email] = user.ID
	return nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.PlatformUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (s *MemoryStore) AddGrant(_ context.Context, grant models.UserTenantGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.grants {
		if g.UserID == grant.UserID && g.TenantID == grant.TenantID {
			return sentinel.ErrDuplicateID
		}
	}
	s.grants = append(s.grants, grant)
	return nil
}

func (s *MemoryStore) GrantsFor(_ context.Context, userID domain.UserID) ([]models.UserTenantGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.UserTenantGrant
	for _, g := range s.grants {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}
