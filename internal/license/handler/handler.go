// Package handler exposes the license lifecycle over HTTP. Every route here
// is operator-facing; capability scopes are enforced per route group by the
// operator middleware.
package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kurspanel/internal/license/models"
	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
	"kurspanel/pkg/platform/httputil"
	"kurspanel/pkg/platform/middleware/operator"
	"kurspanel/pkg/requestcontext"
)

// maxImportBytes caps CSV uploads; a full fleet export is well under this.
const maxImportBytes = 10 << 20

// Service defines the license operations the handler needs.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	CreateTenant(ctx context.Context, req models.CreateTenantRequest) (*models.Tenant, error)
	GetTenant(ctx context.Context, id domain.TenantID) (*models.Tenant, error)
	ListTenants(ctx context.Context) ([]*models.Tenant, error)
	UpdateTenant(ctx context.Context, id domain.TenantID, req models.UpdateTenantRequest) (*models.Tenant, error)
	DeleteTenant(ctx context.Context, id domain.TenantID) error
	BulkUpdate(ctx context.Context, req models.BulkUpdateRequest) (*models.BulkOutcome, error)
	ExportCSV(ctx context.Context, w io.Writer) (int, error)
	ImportCSV(ctx context.Context, r io.Reader) (*models.ImportOutcome, error)
	GetLicenseSummary(ctx context.Context) (*models.LicenseSummary, error)
	GetUsageSummaries(ctx context.Context) ([]models.UsageSummary, error)
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
		r.Use(operator.RequireScope(operator.ScopeLicenseCreate, h.logger))
		r.Post("/admin/tenants", h.HandleCreateTenant)
	})
	r.Group(func(r chi.Router) {
		r.Use(operator.RequireScope(operator.ScopeLicenseManage, h.logger))
		r.Get("/admin/tenants", h.HandleListTenants)
		r.Get("/admin/tenants/{id}", h.HandleGetTenant)
		r.Patch("/admin/tenants/{id}", h.HandleUpdateTenant)
		r.Delete("/admin/tenants/{id}", h.HandleDeleteTenant)
		r.Post("/admin/tenants/bulk", h.HandleBulkUpdate)
		r.Get("/admin/summary/licenses", h.HandleLicenseSummary)
		r.Get("/admin/summary/usage", h.HandleUsageSummary)
	})
	r.Group(func(r chi.Router) {
		r.Use(operator.RequireScope(operator.ScopeLicenseExport, h.logger))
		r.Get("/admin/tenants/export", h.HandleExportCSV)
	})
	r.Group(func(r chi.Router) {
		r.Use(operator.RequireScope(operator.ScopeLicenseImport, h.logger))
		r.Post("/admin/tenants/import", h.HandleImportCSV)
	})
}

func (h *Handler) HandleCreateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateTenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	tenant, err := h.service.CreateTenant(ctx, *req)
	if err != nil {
		h.logger.ErrorContext(ctx, "create tenant failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tenant)
}

func (h *Handler) HandleListTenants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenants, err := h.service.ListTenants(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tenants failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"tenants": tenants})
}

func (h *Handler) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tenant, err := h.service.GetTenant(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "get tenant failed", "error", err, "request_id", requestcontext.RequestID(ctx), "tenant_id", id)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tenant)
}

func (h *Handler) HandleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id, err := domain.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateTenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	tenant, err := h.service.UpdateTenant(ctx, id, *req)
	if err != nil {
		h.logger.ErrorContext(ctx, "update tenant failed", "error", err, "request_id", requestID, "tenant_id", id)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tenant)
}

func (h *Handler) HandleDeleteTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteTenant(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "delete tenant failed", "error", err, "request_id", requestcontext.RequestID(ctx), "tenant_id", id)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[models.BulkUpdateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	outcome, err := h.service.BulkUpdate(ctx, *req)
	if err != nil {
		h.logger.ErrorContext(ctx, "bulk update failed", "error", err, "request_id", requestID, "action", req.Action)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=tenants-%s.csv", requestcontext.Now(ctx).Format("2006-01-02")))

	if _, err := h.service.ExportCSV(ctx, w); err != nil {
		// Headers are already on the wire; log and cut the stream.
		h.logger.ErrorContext(ctx, "csv export failed", "error", err, "request_id", requestcontext.RequestID(ctx))
	}
}

func (h *Handler) HandleImportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, err := importBody(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer body.Close()

	outcome, err := h.service.ImportCSV(ctx, body)
	if err != nil {
		h.logger.ErrorContext(ctx, "csv import failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

// importBody returns the CSV payload: the "file" part of a multipart upload,
// or the raw request body for text/csv posts.
func importBody(r *http.Request) (io.ReadCloser, error) {
	if err := r.ParseMultipartForm(maxImportBytes); err == nil {
		file, _, fErr := r.FormFile("file")
		if fErr != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "multipart upload is missing the file part")
		}
		return file, nil
	}
	return http.MaxBytesReader(nil, r.Body, maxImportBytes), nil
}

func (h *Handler) HandleLicenseSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary, err := h.service.GetLicenseSummary(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "license summary failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) HandleUsageSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rows, err := h.service.GetUsageSummaries(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "usage summary failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"usage": rows})
}
