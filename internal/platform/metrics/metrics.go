package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AuditIssuesFound    prometheus.Counter
	UnpublishedFindings prometheus.Counter
	BuildsReported      prometheus.Counter
	MalformedEvents     prometheus.Counter
	PipelineFailures    *prometheus.CounterVec
	RunDuration         prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AuditIssuesFound: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wheelhouse_audit_issues_found_total",
			Help: "Total catalog issues (violations and unpublished findings) reported by audit runs",
		}),
		UnpublishedFindings: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wheelhouse_audit_unpublished_total",
			Help: "Total components found tagged for the builder but not published",
		}),
		BuildsReported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wheelhouse_builds_reported_total",
			Help: "Total abandoned builds delivered in drain reports",
		}),
		MalformedEvents: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wheelhouse_builds_malformed_total",
			Help: "Total queued build events skipped because they failed to decode",
		}),
		PipelineFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wheelhouse_pipeline_failures_total",
			Help: "Total failed pipeline executions by pipeline",
		}, []string{"pipeline"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wheelhouse_run_duration_seconds",
			Help:    "Duration of full scheduled runs",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveRun records the duration of one scheduled run.
func (m *Metrics) ObserveRun(d time.Duration) {
	m.RunDuration.Observe(d.Seconds())
}
