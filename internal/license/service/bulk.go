package service

import (
	"context"
	"errors"

	"kurspanel/internal/audit"
	"kurspanel/internal/events"
	"kurspanel/internal/license/models"
	"kurspanel/internal/platform/tracer"
	"kurspanel/internal/sentinel"
	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
	"kurspanel/pkg/requestcontext"
)

// BulkUpdate applies one lifecycle action to a set of tenants. Transitions
// are idempotent: a tenant already in the requested state counts as skipped,
// not as an error. A delete is refused per tenant while dependent records
// exist; the rest of the batch proceeds. The whole batch produces a single
// audit entry.
func (s *Service) BulkUpdate(ctx context.Context, req models.BulkUpdateRequest) (outcome *models.BulkOutcome, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanBulkUpdate,
		tracer.String("action", string(req.Action)),
		tracer.Int("batch_size", len(req.TenantIDs)),
	)
	defer func() { span.End(err) }()

	if err = req.Validate(); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.BulkBatchSize.Observe(float64(len(req.TenantIDs)))
	}

	now := requestcontext.Now(ctx)
	outcome = &models.BulkOutcome{}
	for _, id := range req.TenantIDs {
		switch aErr := s.applyOne(ctx, req.Action, id); {
		case aErr == nil:
			outcome.Processed++
			s.countBulk(string(req.Action), "processed")
		case errors.Is(aErr, errAlreadyInState), dErrors.HasCode(aErr, dErrors.CodeDependency):
			// A delete refused over dependent records is a skip, not a
			// failure; the rest of the batch proceeds.
			outcome.Skipped++
			outcome.SkippedMessages = append(outcome.SkippedMessages, models.BulkMessage{
				TenantID: id,
				Message:  aErr.Error(),
			})
			s.countBulk(string(req.Action), "skipped")
		default:
			outcome.Errors = append(outcome.Errors, models.BulkMessage{
				TenantID: id,
				Message:  aErr.Error(),
			})
			s.countBulk(string(req.Action), "error")
		}
	}

	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionLicenseBulk,
		EntityType: "tenant_batch",
		EntityID:   string(req.Action),
		Metadata: map[string]any{
			"action":    string(req.Action),
			"requested": len(req.TenantIDs),
			"processed": outcome.Processed,
			"skipped":   outcome.Skipped,
			"failed":    len(outcome.Errors),
		},
	})
	s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeLicenseBulk,
		OccurredAt: now,
		Payload: map[string]any{
			"action":    string(req.Action),
			"processed": outcome.Processed,
		},
	})
	return outcome, nil
}

// errAlreadyInState marks an idempotent skip inside a batch.
var errAlreadyInState = errors.New("already in requested state")

func (s *Service) applyOne(ctx context.Context, action models.BulkAction, id domain.TenantID) error {
	if action == models.BulkDelete {
		// Inlined rather than delegated to DeleteTenant: the batch produces
		// one aggregate audit entry, not one per tenant.
		if _, err := s.store.Get(ctx, id); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return errors.New("tenant not found")
			}
			return s.translate(err, "bulk delete")
		}
		if err := s.checkDependents(ctx, id); err != nil {
			return err
		}
		if err := s.withRetry(ctx, func() error { return s.store.Delete(ctx, id) }); err != nil {
			return s.translate(err, "bulk delete")
		}
		if s.metrics != nil {
			s.metrics.TenantsDeleted.Inc()
		}
		return nil
	}

	tenant, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return errors.New("tenant not found")
		}
		return s.translate(err, "bulk "+string(action))
	}

	now := requestcontext.Now(ctx)
	var changed bool
	switch action {
	case models.BulkEnable:
		changed = tenant.Enable(now)
	case models.BulkDisable:
		changed = tenant.Disable(now)
	}
	if !changed {
		return errAlreadyInState
	}
	if err := s.withRetry(ctx, func() error { return s.store.Update(ctx, tenant) }); err != nil {
		return s.translate(err, "bulk "+string(action))
	}
	return nil
}

func (s *Service) countBulk(action, outcome string) {
	if s.metrics != nil {
		s.metrics.BulkActions.WithLabelValues(action, outcome).Inc()
	}
}
