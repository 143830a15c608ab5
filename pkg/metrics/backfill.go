package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BackfillMetrics records per-section outcomes of a backfill run.
type BackfillMetrics struct {
	duration *prometheus.HistogramVec
	created  *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewBackfillMetrics registers the backfill metrics on the provided registerer.
func NewBackfillMetrics(reg prometheus.Registerer) *BackfillMetrics {
	if reg == nil {
		return &BackfillMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backfill_section_duration_seconds",
		Help:    "Duration of backfill sections in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"section"})
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backfill_records_created_total",
		Help: "Source records materialized by the backfill.",
	}, []string{"section"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backfill_records_skipped_total",
		Help: "Source records skipped by the backfill.",
	}, []string{"section"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backfill_section_failure_total",
		Help: "Backfill sections aborted by an error.",
	}, []string{"section"})
	reg.MustRegister(duration, created, skipped, failure)
	return &BackfillMetrics{
		duration: duration,
		created:  created,
		skipped:  skipped,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named section.
func (m *BackfillMetrics) ObserveDuration(section string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(section)).Observe(duration.Seconds())
}

// AddCounts adds the created and skipped tallies of a finished section.
func (m *BackfillMetrics) AddCounts(section string, created, skipped int) {
	if m == nil || m.created == nil || m.skipped == nil {
		return
	}
	label := normalizeLabel(section)
	m.created.WithLabelValues(label).Add(float64(created))
	m.skipped.WithLabelValues(label).Add(float64(skipped))
}

// IncFailure increments the failure counter for the named section.
func (m *BackfillMetrics) IncFailure(section string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(section)).Inc()
}

func normalizeLabel(section string) string {
	if section == "" {
		return "unknown"
	}
	return section
}
