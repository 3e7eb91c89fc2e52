package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"kurspanel/pkg/domain"
	"kurspanel/pkg/requestcontext"
)

var droppedEntries = promauto.NewCounter(prometheus.CounterOpts{
	Name: "kurspanel_audit_entries_dropped_total",
	Help: "Audit entries dropped because the async buffer was full",
})

// Recorder captures audit entries fire-and-forget: a failure to persist an
// entry is logged internally but never propagates to the triggering business
// operation. Entries carry the actor's client device summary when available.
type Recorder struct {
	store  Store
	logger *slog.Logger

	entries chan Entry
	wg      sync.WaitGroup
	async   bool
}

// RecorderOption configures the Recorder.
type RecorderOption func(*Recorder)

// WithAsyncBuffer enables async persistence with the specified buffer size.
// Entries are queued and written from a background goroutine.
func WithAsyncBuffer(size int) RecorderOption {
	return func(r *Recorder) {
		if size > 0 {
			r.entries = make(chan Entry, size)
			r.async = true
		}
	}
}

func NewRecorder(store Store, logger *slog.Logger, opts ...RecorderOption) *Recorder {
	r := &Recorder{store: store, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	if r.async {
		r.wg.Add(1)
		go r.drain()
	}
	return r
}

func (r *Recorder) drain() {
	defer r.wg.Done()
	for entry := range r.entries {
		if err := r.store.Append(context.Background(), entry); err != nil {
			r.logger.Error("failed to persist audit entry",
				"error", err,
				"action", entry.Action,
				"tenant_id", entry.TenantID,
			)
		}
	}
}

// Close shuts down the async recorder and waits for pending entries to drain.
func (r *Recorder) Close() {
	if r.async && r.entries != nil {
		close(r.entries)
		r.wg.Wait()
	}
}

// Record appends one audit entry. It never returns an error: audit failures
// must not fail or roll back the action they describe.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if entry.ID == (domain.AuditID{}) {
		entry.ID = domain.AuditID(uuid.New())
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = requestcontext.Now(ctx)
	}
	if device := requestcontext.Device(ctx); device != "" {
		if entry.Metadata == nil {
			entry.Metadata = make(map[string]any)
		}
		if _, exists := entry.Metadata["device"]; !exists {
			entry.Metadata["device"] = device
		}
	}

	if r.async {
		// Non-blocking send; drop the entry rather than stall the hot path.
		select {
		case r.entries <- entry:
		default:
			droppedEntries.Inc()
			r.logger.Warn("audit buffer full, entry dropped",
				"action", entry.Action,
				"tenant_id", entry.TenantID,
			)
		}
		return
	}

	if err := r.store.Append(ctx, entry); err != nil {
		r.logger.Error("failed to persist audit entry",
			"error", err,
			"action", entry.Action,
			"tenant_id", entry.TenantID,
		)
	}
}
