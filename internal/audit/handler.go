package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kurspanel/pkg/domain"
	"kurspanel/pkg/platform/httputil"
	"kurspanel/pkg/requestcontext"
)

// Handler exposes the audit trail read side. Entries are append-only; there
// is no write endpoint, services record entries directly.
type Handler struct {
	store  Store
	logger *slog.Logger
}

func NewHandler(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/audit", h.HandleListRecent)
	r.Get("/admin/tenants/{id}/audit", h.HandleListByTenant)
}

func (h *Handler) HandleListRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries, err := h.store.ListRecent(ctx, limitParam(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "audit listing failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) HandleListByTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.store.ListByTenant(ctx, tenantID.String(), limitParam(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "audit listing failed", "error", err, "request_id", requestcontext.RequestID(ctx), "tenant_id", tenantID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func limitParam(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return 100
	}
	return limit
}
