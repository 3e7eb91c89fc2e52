package audit

import (
	"context"
)

// Store persists audit entries. Implementations are insert-only: there is no
// update or delete path at any level of the API.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByTenant(ctx context.Context, tenantID string, limit int) ([]Entry, error)
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}
