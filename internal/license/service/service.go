// Package service orchestrates the tenant license lifecycle: creation with
// slug derivation, updates, deletion guarded by dependency checks, bulk
// transitions, CSV import/export, and the dashboard summaries.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"kurspanel/internal/audit"
	"kurspanel/internal/events"
	licensemetrics "kurspanel/internal/license/metrics"
	"kurspanel/internal/license/models"
	"kurspanel/internal/platform/tracer"
	"kurspanel/internal/roster"
	"kurspanel/internal/sentinel"
	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
	"kurspanel/pkg/platform/middleware/operator"
	"kurspanel/pkg/requestcontext"
	"kurspanel/pkg/secrets"
)

// maxSlugAttempts bounds the collision-suffix search when a derived tenant id
// is already taken: base, base-1, ... base-49.
const maxSlugAttempts = 50

// expiringSoonWindow is the dashboard's definition of "expiring soon".
const expiringSoonWindow = 30 * 24 * time.Hour

type TenantStore interface {
	Insert(ctx context.Context, tenant *models.Tenant) error
	Get(ctx context.Context, id domain.TenantID) (*models.Tenant, error)
	GetByUsername(ctx context.Context, username string) (*models.Tenant, error)
	List(ctx context.Context) ([]*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	Delete(ctx context.Context, id domain.TenantID) error
}

// DependencyChecker reports the tenant-scoped collections that still hold
// rows for a tenant, blocking its deletion.
type DependencyChecker interface {
	Dependents(ctx context.Context, tenant domain.TenantID) ([]string, error)
}

// UsageReporter aggregates one tenant's roster usage for summaries.
type UsageReporter interface {
	UsageFor(ctx context.Context, tenant domain.TenantID) (roster.Usage, error)
}

// AuditRecorder captures audit entries fire-and-forget.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// Service owns the license lifecycle.
type Service struct {
	store     TenantStore
	checker   DependencyChecker
	usage     UsageReporter
	auditor   AuditRecorder
	publisher events.Publisher
	tracer    tracer.Tracer
	metrics   *licensemetrics.Metrics
	logger    *slog.Logger
}

type Option func(*Service)

func WithDependencyChecker(checker DependencyChecker) Option {
	return func(s *Service) { s.checker = checker }
}

func WithUsageReporter(usage UsageReporter) Option {
	return func(s *Service) { s.usage = usage }
}

func WithAuditRecorder(auditor AuditRecorder) Option {
	return func(s *Service) { s.auditor = auditor }
}

func WithEventPublisher(publisher events.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func WithMetrics(m *licensemetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(store TenantStore, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: events.Noop{},
		tracer:    tracer.NewNoop(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTenant provisions a new license. The tenant id is derived from the
// display name; on collision the next free numeric suffix is taken. A
// username collision is a hard conflict, never suffixed.
func (s *Service) CreateTenant(ctx context.Context, req models.CreateTenantRequest) (tenant *models.Tenant, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanTenantCreate)
	defer func() { span.End(err) }()

	req.Normalize()
	if err = req.Validate(); err != nil {
		return nil, err
	}

	tenant, err = s.createOne(ctx, req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracer.String("tenant_id", tenant.ID.String()))

	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionLicenseCreate,
		EntityType: "tenant",
		EntityID:   tenant.ID.String(),
		TenantID:   tenant.ID,
		Metadata: map[string]any{
			"name":     tenant.Name,
			"username": tenant.Username,
		},
	})
	s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeLicenseCreated,
		TenantID:   tenant.ID,
		OccurredAt: requestcontext.Now(ctx),
		Payload:    map[string]any{"name": tenant.Name},
	})
	return tenant, nil
}

// createOne runs the derive-hash-insert sequence without audit or events so
// the CSV importer can reuse it per row.
func (s *Service) createOne(ctx context.Context, req models.CreateTenantRequest) (*models.Tenant, error) {
	hash, err := secrets.Hash(req.Password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash tenant password")
	}

	base := models.DeriveTenantID(req.Name)
	if base.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "name yields an empty tenant id")
	}
	now := requestcontext.Now(ctx)

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		id := models.SuffixTenantID(base, attempt)
		tenant, err := models.NewTenant(id, req.Name, req.Username, hash, req.ContactEmail, now)
		if err != nil {
			return nil, err
		}
		tenant.City = req.City
		tenant.ContactPhone = req.ContactPhone
		tenant.ExpireDate = req.ExpireDate

		err = s.withRetry(ctx, func() error { return s.store.Insert(ctx, tenant) })
		switch {
		case err == nil:
			if attempt > 0 && s.metrics != nil {
				s.metrics.SlugCollisions.Inc()
			}
			if s.metrics != nil {
				s.metrics.TenantsCreated.Inc()
			}
			return tenant, nil
		case errors.Is(err, sentinel.ErrDuplicateID):
			continue
		case errors.Is(err, sentinel.ErrDuplicateUsername):
			return nil, dErrors.New(dErrors.CodeConflict, "username already in use")
		default:
			return nil, s.translate(err, "create tenant")
		}
	}
	return nil, dErrors.New(dErrors.CodeConflict, "could not find a free tenant id for name "+req.Name)
}

// GetTenant returns one license record.
func (s *Service) GetTenant(ctx context.Context, id domain.TenantID) (*models.Tenant, error) {
	tenant, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.translate(err, "get tenant")
	}
	return tenant, nil
}

// ListTenants returns every license record ordered by id.
func (s *Service) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	tenants, err := s.store.List(ctx)
	if err != nil {
		return nil, s.translate(err, "list tenants")
	}
	return tenants, nil
}

// UpdateTenant applies partial updates to a license record. The tenant id is
// immutable; renaming never re-derives it.
func (s *Service) UpdateTenant(ctx context.Context, id domain.TenantID, req models.UpdateTenantRequest) (*models.Tenant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	tenant, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.translate(err, "update tenant")
	}

	changed := map[string]any{}
	if req.Name != nil && *req.Name != tenant.Name {
		tenant.Name = *req.Name
		changed["name"] = *req.Name
	}
	if req.City != nil && *req.City != tenant.City {
		tenant.City = *req.City
		changed["city"] = *req.City
	}
	if req.ContactEmail != nil && *req.ContactEmail != tenant.ContactEmail {
		tenant.ContactEmail = *req.ContactEmail
		changed["contact_email"] = *req.ContactEmail
	}
	if req.ContactPhone != nil && *req.ContactPhone != tenant.ContactPhone {
		tenant.ContactPhone = *req.ContactPhone
		changed["contact_phone"] = *req.ContactPhone
	}
	switch {
	case req.ClearExpire:
		tenant.ExpireDate = nil
		changed["expire_date"] = nil
	case req.ExpireDate != nil:
		tenant.ExpireDate = req.ExpireDate
		changed["expire_date"] = req.ExpireDate.Format("2006-01-02")
	}
	if len(changed) == 0 {
		return tenant, nil
	}
	tenant.UpdatedAt = requestcontext.Now(ctx)

	if err := s.withRetry(ctx, func() error { return s.store.Update(ctx, tenant) }); err != nil {
		return nil, s.translate(err, "update tenant")
	}

	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionLicenseUpdate,
		EntityType: "tenant",
		EntityID:   id.String(),
		TenantID:   id,
		Metadata:   changed,
	})
	s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeLicenseUpdated,
		TenantID:   id,
		OccurredAt: requestcontext.Now(ctx),
		Payload:    changed,
	})
	return tenant, nil
}

// DeleteTenant removes a license record. Deletion is refused while any
// tenant-scoped collection still owns rows for the tenant.
func (s *Service) DeleteTenant(ctx context.Context, id domain.TenantID) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanTenantDelete, tracer.String("tenant_id", id.String()))
	defer func() { span.End(err) }()

	tenant, err := s.store.Get(ctx, id)
	if err != nil {
		return s.translate(err, "delete tenant")
	}
	if err = s.checkDependents(ctx, id); err != nil {
		return err
	}
	if err = s.withRetry(ctx, func() error { return s.store.Delete(ctx, id) }); err != nil {
		return s.translate(err, "delete tenant")
	}
	if s.metrics != nil {
		s.metrics.TenantsDeleted.Inc()
	}

	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionLicenseDelete,
		EntityType: "tenant",
		EntityID:   id.String(),
		TenantID:   id,
		Metadata:   map[string]any{"name": tenant.Name},
	})
	s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeLicenseDeleted,
		TenantID:   id,
		OccurredAt: requestcontext.Now(ctx),
	})
	return nil
}

func (s *Service) checkDependents(ctx context.Context, id domain.TenantID) error {
	if s.checker == nil {
		return nil
	}
	dependents, err := s.checker.Dependents(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "dependency check failed")
	}
	if len(dependents) > 0 {
		msg := "tenant has dependent records"
		for i, name := range dependents {
			if i == 0 {
				msg += ": "
			} else {
				msg += ", "
			}
			msg += name
		}
		return dErrors.New(dErrors.CodeDependency, msg)
	}
	return nil
}

// GetLicenseSummary computes the fleet-wide dashboard rollup.
func (s *Service) GetLicenseSummary(ctx context.Context) (*models.LicenseSummary, error) {
	tenants, err := s.store.List(ctx)
	if err != nil {
		return nil, s.translate(err, "license summary")
	}
	now := requestcontext.Now(ctx)
	summary := &models.LicenseSummary{TotalLicenses: len(tenants)}
	for _, t := range tenants {
		expired := t.IsExpired(now)
		if expired {
			summary.Expired++
		} else {
			if t.IsActive {
				summary.ActiveLicenses++
			}
			if t.ExpireDate != nil && t.ExpireDate.Before(now.Add(expiringSoonWindow)) {
				summary.ExpiringSoon++
			}
		}
		if t.CreatedAt.Year() == now.Year() && t.CreatedAt.Month() == now.Month() {
			summary.CreatedThisMonth++
		}
	}
	return summary, nil
}

// GetUsageSummaries joins every license row with its roster usage. Tenants
// with no roster rows still appear, with zero counts.
func (s *Service) GetUsageSummaries(ctx context.Context) ([]models.UsageSummary, error) {
	tenants, err := s.store.List(ctx)
	if err != nil {
		return nil, s.translate(err, "usage summary")
	}
	now := requestcontext.Now(ctx)
	out := make([]models.UsageSummary, 0, len(tenants))
	for _, t := range tenants {
		row := models.UsageSummary{
			TenantID:   t.ID,
			Name:       t.Name,
			Status:     t.Status(now),
			ExpireDate: t.ExpireDate,
		}
		if s.usage != nil {
			usage, err := s.usage.UsageFor(ctx, t.ID)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "usage lookup failed for tenant "+t.ID.String())
			}
			row.TotalStudents = usage.TotalStudents
			row.ActiveStudents = usage.ActiveStudents
			row.LastStudentCreatedAt = usage.LastStudentCreatedAt
		}
		out = append(out, row)
	}
	return out, nil
}

// withRetry retries fn once when the store reports a transient failure.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err != nil && errors.Is(err, sentinel.ErrUnavailable) {
		s.logger.Warn("store transiently unavailable, retrying once", "error", err)
		err = fn()
	}
	return err
}

// translate maps sentinel errors to domain errors exactly once.
func (s *Service) translate(err error, op string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "tenant not found")
	case errors.Is(err, sentinel.ErrDuplicateID):
		return dErrors.New(dErrors.CodeConflict, "tenant id already in use")
	case errors.Is(err, sentinel.ErrDuplicateUsername):
		return dErrors.New(dErrors.CodeConflict, "username already in use")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeTransient, op+" temporarily unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, op+" failed")
	}
}

func (s *Service) recordAudit(ctx context.Context, entry audit.Entry) {
	if s.auditor == nil {
		return
	}
	if p := operator.GetPrincipal(ctx); p != nil {
		entry.ActorName = p.Name
		entry.ActorRole = p.Role
		if p.Impersonated {
			entry.ActorName = p.ActorName
		}
	}
	s.auditor.Record(ctx, entry)
}
