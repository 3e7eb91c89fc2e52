package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"kurspanel/internal/license/models"
	"kurspanel/internal/platform/cache"
	platformredis "kurspanel/internal/platform/redis"
	"kurspanel/pkg/domain"
)

// TenantStore is the persistence surface CachedStore decorates.
type TenantStore interface {
	Insert(ctx context.Context, tenant *models.Tenant) error
	Get(ctx context.Context, id domain.TenantID) (*models.Tenant, error)
	GetByUsername(ctx context.Context, username string) (*models.Tenant, error)
	List(ctx context.Context) ([]*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	Delete(ctx context.Context, id domain.TenantID) error
}

// CachedStore is a read-through Redis decorator over a TenantStore. Single
// record reads are served from Redis when possible; every write evicts the
// record's entry. List results are held in an in-process generational cache:
// any write to any tenant retires the whole generation, so a stale listing
// is never served after a write. Cache failures degrade to the underlying
// store, never to the caller.
type CachedStore struct {
	inner    TenantStore
	client   *platformredis.Client
	logger   *slog.Logger
	ttl      time.Duration
	listings *cache.Generational[[]*models.Tenant]
}

func NewCached(inner TenantStore, client *platformredis.Client, logger *slog.Logger, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedStore{
		inner:    inner,
		client:   client,
		logger:   logger,
		ttl:      ttl,
		listings: cache.New[[]*models.Tenant](ttl),
	}
}

func cacheKey(id domain.TenantID) string {
	return fmt.Sprintf("kurspanel:tenant:%s", id)
}

// cacheEnvelope carries every tenant field, including the password hash that
// the API representation deliberately omits.
type cacheEnvelope struct {
	Tenant       models.Tenant `json:"tenant"`
	PasswordHash string        `json:"password_hash"`
}

func (s *CachedStore) Insert(ctx context.Context, tenant *models.Tenant) error {
	if err := s.inner.Insert(ctx, tenant); err != nil {
		return err
	}
	s.listings.InvalidateAll()
	return nil
}

func (s *CachedStore) Get(ctx context.Context, id domain.TenantID) (*models.Tenant, error) {
	if cached := s.lookup(ctx, id); cached != nil {
		return cached, nil
	}
	tenant, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, tenant)
	return tenant, nil
}

func (s *CachedStore) GetByUsername(ctx context.Context, username string) (*models.Tenant, error) {
	// Username lookups are rare (login path only); no cache.
	return s.inner.GetByUsername(ctx, username)
}

const listKey = "all"

func (s *CachedStore) List(ctx context.Context) ([]*models.Tenant, error) {
	if tenants, ok := s.listings.Get(listKey); ok {
		return tenants, nil
	}
	tenants, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	s.listings.Set(listKey, tenants)
	return tenants, nil
}

func (s *CachedStore) Update(ctx context.Context, tenant *models.Tenant) error {
	if err := s.inner.Update(ctx, tenant); err != nil {
		return err
	}
	s.evict(ctx, tenant.ID)
	s.listings.InvalidateAll()
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, id domain.TenantID) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	s.listings.InvalidateAll()
	return nil
}

func (s *CachedStore) lookup(ctx context.Context, id domain.TenantID) *models.Tenant {
	payload, err := s.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		return nil
	}
	var envelope cacheEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		s.logger.Warn("corrupt tenant cache entry, evicting", "tenant_id", id, "error", err)
		s.evict(ctx, id)
		return nil
	}
	tenant := envelope.Tenant
	tenant.PasswordHash = envelope.PasswordHash
	return &tenant
}

func (s *CachedStore) fill(ctx context.Context, tenant *models.Tenant) {
	payload, err := json.Marshal(cacheEnvelope{Tenant: *tenant, PasswordHash: tenant.PasswordHash})
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, cacheKey(tenant.ID), payload, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to cache tenant", "tenant_id", tenant.ID, "error", err)
	}
}

func (s *CachedStore) evict(ctx context.Context, id domain.TenantID) {
	if err := s.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		s.logger.Warn("failed to evict tenant cache entry", "tenant_id", id, "error", err)
	}
}
