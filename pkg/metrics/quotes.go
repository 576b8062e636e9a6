package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics records pricing activity for the quote pipeline.
type QuoteMetrics struct {
	duration *prometheus.HistogramVec
	accepted *prometheus.CounterVec
	rejected *prometheus.CounterVec
	totals   *prometheus.HistogramVec
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_duration_seconds",
		Help:    "Duration of quote computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"tier"})
	accepted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_accepted",
		Help: "Quote requests that produced a price.",
	}, []string{"tier"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_rejected",
		Help: "Quote requests rejected before a price was produced.",
	}, []string{"reason"})
	totals := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_total_gbp",
		Help:    "Distribution of quoted totals in GBP.",
		Buckets: []float64{10, 25, 50, 100, 200, 400, 800},
	}, []string{"tier"})
	reg.MustRegister(duration, accepted, rejected, totals)
	return &QuoteMetrics{
		duration: duration,
		accepted: accepted,
		rejected: rejected,
		totals:   totals,
	}
}

// ObserveDuration records how long a quote computation took.
func (q *QuoteMetrics) ObserveDuration(tier string, duration time.Duration) {
	if q == nil || q.duration == nil {
		return
	}
	q.duration.WithLabelValues(normalizeLabel(tier)).Observe(duration.Seconds())
}

// IncAccepted increments the accepted counter for the given tier.
func (q *QuoteMetrics) IncAccepted(tier string) {
	if q == nil || q.accepted == nil {
		return
	}
	q.accepted.WithLabelValues(normalizeLabel(tier)).Inc()
}

// IncRejected increments the rejected counter for the given reason.
func (q *QuoteMetrics) IncRejected(reason string) {
	if q == nil || q.rejected == nil {
		return
	}
	q.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveTotal records a quoted total in GBP.
func (q *QuoteMetrics) ObserveTotal(tier string, total float64) {
	if q == nil || q.totals == nil {
		return
	}
	q.totals.WithLabelValues(normalizeLabel(tier)).Observe(total)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
