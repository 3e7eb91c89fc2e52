package isolation

import (
	"context"
	"sort"
	"sync"

	"kurspanel/internal/sentinel"
	"kurspanel/internal/tenantctx"
	"kurspanel/pkg/domain"
	"kurspanel/pkg/requestcontext"
)

// Collection is an in-memory scoped store for one tenant-scoped entity type.
// All access resolves the ambient tenant scope first; rows belonging to other
// tenants are invisible, not just refused.
type Collection[T Record] struct {
	name string
	mu   sync.RWMutex
	rows map[string]T
}

// NewCollection creates a named scoped collection. The name shows up in
// dependency-check messages ("students", "course groups").
func NewCollection[T Record](name string) *Collection[T] {
	return &Collection[T]{
		name: name,
		rows: make(map[string]T),
	}
}

// Name returns the collection's display name.
func (c *Collection[T]) Name() string { return c.name }

// Insert stores a record under the ambient tenant. The owner tag is stamped
// from the scope when absent; createdAt is stamped when absent.
func (c *Collection[T]) Insert(ctx context.Context, key string, rec T) error {
	scope, err := resolveScope(ctx)
	if err != nil {
		return err
	}
	if err := stampOwnership(scope, rec); err != nil {
		return err
	}
	rec.StampCreated(requestcontext.Now(ctx))

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.rows[key]; exists {
		return sentinel.ErrDuplicateID
	}
	c.rows[key] = rec
	return nil
}

// Get returns the record for key if it is visible under the ambient scope.
// Another tenant's record reads as not found, never as forbidden, so key
// probing cannot reveal existence.
func (c *Collection[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T
	scope, err := resolveScope(ctx)
	if err != nil {
		return zero, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.rows[key]
	if !ok || !visible(scope, rec) {
		return zero, sentinel.ErrNotFound
	}
	return rec, nil
}

// List returns all visible records in deterministic key order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	scope, err := resolveScope(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.rows))
	for k, rec := range c.rows {
		if visible(scope, rec) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.rows[k])
	}
	return out, nil
}

// Update applies mutate to a visible record and stamps updatedAt.
func (c *Collection[T]) Update(ctx context.Context, key string, mutate func(T) error) error {
	scope, err := resolveScope(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.rows[key]
	if !ok || !visible(scope, rec) {
		return sentinel.ErrNotFound
	}
	if err := mutate(rec); err != nil {
		return err
	}
	rec.StampUpdated(requestcontext.Now(ctx))
	return nil
}

// Delete removes a visible record.
func (c *Collection[T]) Delete(ctx context.Context, key string) error {
	scope, err := resolveScope(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.rows[key]
	if !ok || !visible(scope, rec) {
		return sentinel.ErrNotFound
	}
	delete(c.rows, key)
	return nil
}

// Count returns the number of visible records.
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	scope, err := resolveScope(ctx)
	if err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, rec := range c.rows {
		if visible(scope, rec) {
			n++
		}
	}
	return n, nil
}

// Counter is the slice of a collection the dependency checker needs.
type Counter interface {
	Name() string
	Count(ctx context.Context) (int, error)
}

// Registry tracks every tenant-scoped collection so tenant deletion can be
// refused while any of them still owns rows for that tenant. Registering a
// collection is what makes it count; a scoped type nobody registers is a bug.
type Registry struct {
	mu          sync.RWMutex
	collections []Counter
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(c Counter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections = append(r.collections, c)
}

// Dependents returns the names of collections that still hold rows owned by
// the given tenant.
func (r *Registry) Dependents(ctx context.Context, tenant domain.TenantID) ([]string, error) {
	r.mu.RLock()
	collections := append([]Counter(nil), r.collections...)
	r.mu.RUnlock()

	scoped := tenantctx.AsTenant(ctx, tenant)
	var names []string
	for _, c := range collections {
		n, err := c.Count(scoped)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			names = append(names, c.Name())
		}
	}
	return names, nil
}
