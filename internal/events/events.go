// Package events publishes outbound control-plane events to interested
// listeners (webhook bridges, provisioning workers). Delivery is best-effort,
// at-least-once: a failed publish is logged and never fails the triggering
// request.
package events

import (
	"context"
	"time"

	"kurspanel/pkg/domain"
)

// Event is one outbound notification about a control-plane change.
type Event struct {
	Type       Type
	TenantID   domain.TenantID
	OccurredAt time.Time
	Payload    map[string]any
}

// Type enumerates the published event kinds.
type Type string

const (
	TypeLicenseCreated Type = "license.created"
	TypeLicenseUpdated Type = "license.updated"
	TypeLicenseDeleted Type = "license.deleted"
	TypeLicenseBulk    Type = "license.bulk_action"
	TypeTokenIssued    Type = "license.token_issued"
	TypeTokenRevoked   Type = "license.token_revoked"
)

// Publisher delivers events to the outbound transport. Implementations must
// not block the caller beyond a short timeout.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) {}
