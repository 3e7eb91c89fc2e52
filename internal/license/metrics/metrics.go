package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for license lifecycle operations.
type Metrics struct {
	TenantsCreated    prometheus.Counter
	TenantsDeleted    prometheus.Counter
	SlugCollisions    prometheus.Counter
	BulkActions       *prometheus.CounterVec
	BulkBatchSize     prometheus.Histogram
	ImportRows        *prometheus.CounterVec
	ExportRows        prometheus.Counter
	ImportDurationMs  prometheus.Histogram
	IsolationRefusals prometheus.Counter
}

// New registers and returns license metrics collectors.
func New() *Metrics {
	return &Metrics{
		TenantsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kurspanel_tenants_created_total",
			Help: "Total number of tenant licenses created",
		}),
		TenantsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kurspanel_tenants_deleted_total",
			Help: "Total number of tenant licenses deleted",
		}),
		SlugCollisions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kurspanel_tenant_slug_collisions_total",
			Help: "Total number of derived tenant ids that needed a collision suffix",
		}),
		BulkActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kurspanel_bulk_actions_total",
			Help: "Total number of bulk lifecycle actions by action and outcome",
		}, []string{"action", "outcome"}),
		BulkBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kurspanel_bulk_batch_size",
			Help:    "Number of tenants per bulk action request",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 250},
		}),
		ImportRows: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kurspanel_csv_import_rows_total",
			Help: "Total number of CSV import rows by outcome",
		}, []string{"outcome"}),
		ExportRows: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kurspanel_csv_export_rows_total",
			Help: "Total number of tenant rows exported to CSV",
		}),
		ImportDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kurspanel_csv_import_duration_ms",
			Help:    "CSV import duration in milliseconds",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 30000},
		}),
		IsolationRefusals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kurspanel_isolation_refusals_total",
			Help: "Total number of operations refused for missing or mismatched tenant scope",
		}),
	}
}
