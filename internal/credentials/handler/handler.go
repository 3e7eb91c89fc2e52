// Package handler exposes credential issuance over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kurspanel/internal/credentials/models"
	"kurspanel/pkg/domain"
	"kurspanel/pkg/platform/httputil"
	"kurspanel/pkg/platform/middleware/operator"
	"kurspanel/pkg/requestcontext"
)

// Service defines the credential operations the handler needs.
type Service interface {
	Impersonate(ctx context.Context, tenantID domain.TenantID) (*models.ImpersonationGrant, error)
	IssueToken(ctx context.Context, tenantID domain.TenantID, req models.IssueTokenRequest) (*models.IssuedToken, error)
	ListTokens(ctx context.Context, tenantID domain.TenantID) ([]*models.APIToken, error)
	RevokeToken(ctx context.Context, tenantID domain.TenantID, tokenID domain.TokenID, reason string) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(operator.RequireOperator(h.logger))
		r.Use(operator.RequireScope(operator.ScopeLicenseImpersonate, h.logger))
		r.Post("/admin/tenants/{id}/impersonate", h.HandleImpersonate)
	})
	r.Group(func(r chi.Router) {
		r.Use(operator.RequireScope(operator.ScopeLicenseManage, h.logger))
		r.Post("/admin/tenants/{id}/tokens", h.HandleIssueToken)
		r.Get("/admin/tenants/{id}/tokens", h.HandleListTokens)
		r.Delete("/admin/tenants/{id}/tokens/{tokenID}", h.HandleRevokeToken)
	})
}

func (h *Handler) HandleImpersonate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	grant, err := h.service.Impersonate(ctx, tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "impersonation failed", "error", err, "request_id", requestcontext.RequestID(ctx), "tenant_id", tenantID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, grant)
}

func (h *Handler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.IssueTokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	issued, err := h.service.IssueToken(ctx, tenantID, *req)
	if err != nil {
		h.logger.ErrorContext(ctx, "token issuance failed", "error", err, "request_id", requestID, "tenant_id", tenantID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, issued)
}

func (h *Handler) HandleListTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	tokens, err := h.service.ListTokens(ctx, tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "token listing failed", "error", err, "request_id", requestcontext.RequestID(ctx), "tenant_id", tenantID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

func (h *Handler) HandleRevokeToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tokenID, err := domain.ParseTokenID(chi.URLParam(r, "tokenID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.RevokeToken(ctx, tenantID, tokenID, r.URL.Query().Get("reason")); err != nil {
		h.logger.ErrorContext(ctx, "token revocation failed", "error", err, "request_id", requestcontext.RequestID(ctx), "tenant_id", tenantID, "token_id", tokenID)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
