package tenantctx

import (
	"log/slog"
	"net/http"

	"kurspanel/pkg/platform/httputil"
	"kurspanel/pkg/platform/middleware/operator"
)

// Install puts an unbound scope holder on every request. Must run before any
// authentication middleware.
func Install(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithRequest(r.Context())))
	})
}

// BindFromPrincipal binds the request scope from the authenticated principal:
// operators get the bypass scope, everyone else is pinned to their tenant.
// Runs once, right after authentication; a second bind attempt after the
// scope has been read surfaces as context_already_resolved.
func BindFromPrincipal(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			p := operator.GetPrincipal(ctx)
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}

			var err error
			if p.IsOperator() {
				err = BindBypass(ctx)
			} else {
				err = Bind(ctx, p.TenantID)
			}
			if err != nil {
				logger.ErrorContext(ctx, "tenant scope bind failed", "error", err)
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
