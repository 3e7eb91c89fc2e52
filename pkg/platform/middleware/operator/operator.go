// Package operator authenticates control-plane callers. It accepts platform
// operator JWTs, impersonation JWTs, and tenant API tokens, and exposes the
// resolved principal to downstream handlers.
package operator

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"kurspanel/pkg/domain"
	"kurspanel/pkg/requestcontext"
)

// Roles carried in verified credentials.
const (
	RolePlatformOperator = "platform_operator"
	RoleTenantAdmin      = "tenant_admin"
	RoleAPIClient        = "api_client"
)

// Capability scopes checked per endpoint.
const (
	ScopeLicenseCreate      = "license:create"
	ScopeLicenseManage      = "license:manage"
	ScopeLicenseExport      = "license:export"
	ScopeLicenseImport      = "license:import"
	ScopeLicenseImpersonate = "license:impersonate"
)

// Principal is the authenticated caller of a control-plane request.
type Principal struct {
	Name         string
	Role         string
	TenantID     domain.TenantID // set for impersonated sessions and API tokens
	Impersonated bool
	ActorName    string // real operator identity behind an impersonated session
	Scopes       []string
}

// IsOperator reports whether the caller holds the platform operator role.
// Impersonated sessions carry the tenant's role, never the operator's own.
func (p *Principal) IsOperator() bool {
	return p != nil && p.Role == RolePlatformOperator && !p.Impersonated
}

// HasScope reports whether the principal carries the given capability.
// Operators with the wildcard scope pass every check.
func (p *Principal) HasScope(scope string) bool {
	if p == nil {
		return false
	}
	for _, s := range p.Scopes {
		if s == scope || s == "*" {
			return true
		}
	}
	return false
}

// Verifier validates a bearer credential and resolves it to a principal.
type Verifier interface {
	Verify(ctx context.Context, credential string) (*Principal, error)
}

type contextKeyPrincipal struct{}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(ctx context.Context) *Principal {
	p, _ := ctx.Value(contextKeyPrincipal{}).(*Principal)
	return p
}

// WithPrincipal injects a principal into the context. Exported for tests.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal{}, p)
}

// RequireAuth extracts and verifies the bearer credential, rejecting the
// request with 401 when it is missing, malformed, expired, or revoked.
func RequireAuth(verifier Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			credential, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || credential == "" {
				logger.WarnContext(ctx, "unauthorized access - missing credential",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			principal, err := verifier.Verify(ctx, credential)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid credential",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired credential")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
		})
	}
}

// RequireOperator rejects callers that do not hold the platform operator role.
// Impersonated sessions are rejected here: they act with tenant privileges only.
func RequireOperator(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			p := GetPrincipal(ctx)
			if !p.IsOperator() {
				logger.WarnContext(ctx, "forbidden - operator role required",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeForbidden(w, "platform operator role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireScope rejects principals missing the given capability scope.
func RequireScope(scope string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			p := GetPrincipal(ctx)
			if !p.HasScope(scope) {
				logger.WarnContext(ctx, "forbidden - missing capability",
					"scope", scope,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeForbidden(w, "missing capability: "+scope)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}

func writeForbidden(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"` + description + `"}`))
}
