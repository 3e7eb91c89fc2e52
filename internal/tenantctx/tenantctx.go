// Package tenantctx holds the single tenant relevant to the current request.
// The scope is bound once, early in the request, from an authenticated claim.
// After the first read it is frozen: late binding attempts fail with
// context_already_resolved so a request can never silently switch tenants.
//
// Cross-tenant platform-operator code paths do not mutate the request scope.
// They derive a bypass scope through the explicitly named AsBypass, which
// keeps every suspension of isolation greppable at its call site.
package tenantctx

import (
	"context"
	"sync"

	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
)

// Scope is the resolved tenant visibility of a request: exactly one tenant,
// or the bypass marker used by platform-operator cross-tenant operations.
type Scope struct {
	Tenant domain.TenantID
	Bypass bool
}

type holder struct {
	mu       sync.Mutex
	scope    Scope
	bound    bool
	resolved bool
}

type contextKeyHolder struct{}

// WithRequest installs an unbound tenant scope holder. Called once per
// request by the middleware, before authentication runs.
func WithRequest(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKeyHolder{}, &holder{})
}

// Bind assigns the request's tenant. It is write-once: rebinding after the
// scope has been read fails with context_already_resolved.
func Bind(ctx context.Context, tenant domain.TenantID) error {
	return bind(ctx, Scope{Tenant: tenant})
}

// BindBypass marks the whole request as platform-operator bypass scope.
// Used for authenticated operator sessions on cross-tenant endpoints.
func BindBypass(ctx context.Context) error {
	return bind(ctx, Scope{Bypass: true})
}

func bind(ctx context.Context, scope Scope) error {
	h, ok := ctx.Value(contextKeyHolder{}).(*holder)
	if !ok {
		return dErrors.New(dErrors.CodeMissingTenantContext, "no tenant scope holder on context")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.resolved {
		return dErrors.New(dErrors.CodeContextAlreadyResolved, "tenant scope already resolved for this request")
	}
	h.scope = scope
	h.bound = true
	return nil
}

// Resolve returns the request scope and freezes it against further binds.
// A request that reaches tenant-scoped persistence without a bound scope is a
// programming error, reported as missing_tenant_context.
func Resolve(ctx context.Context) (Scope, error) {
	// Explicit bypass scopes derived via AsBypass win over the request holder.
	if s, ok := ctx.Value(contextKeyScope{}).(Scope); ok {
		return s, nil
	}
	h, ok := ctx.Value(contextKeyHolder{}).(*holder)
	if !ok {
		return Scope{}, dErrors.New(dErrors.CodeMissingTenantContext, "no tenant scope holder on context")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resolved = true
	if !h.bound {
		return Scope{}, dErrors.New(dErrors.CodeMissingTenantContext, "tenant scope not bound for this request")
	}
	return h.scope, nil
}

type contextKeyScope struct{}

// AsBypass derives a context whose scope is the bypass marker for that call
// chain only. The request's own scope is untouched. This is the single
// suspension point for isolation filtering; call sites are easy to audit.
func AsBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKeyScope{}, Scope{Bypass: true})
}

// AsTenant derives a context scoped to a specific tenant for that call chain
// only. Used by operator endpoints that act on one named tenant.
func AsTenant(ctx context.Context, tenant domain.TenantID) context.Context {
	return context.WithValue(ctx, contextKeyScope{}, Scope{Tenant: tenant})
}
