package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RefreshMetrics covers the refresh pipeline and the read surface around it.
type RefreshMetrics struct {
	// Refresh cycles by outcome
	RefreshTotal prometheus.CounterVec

	// End-to-end cycle duration
	RefreshDuration prometheus.Histogram

	// Failed upstream calls by source
	UpstreamErrorsTotal prometheus.CounterVec

	// Records written by the most recent successful cycle
	CountriesTotal prometheus.Gauge

	// Summary image renders that failed after the data was committed
	RenderFailuresTotal prometheus.Counter
}

func NewRefreshMetrics() *RefreshMetrics {
	return &RefreshMetrics{
		RefreshTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "country_refresh_total",
				Help: "Refresh cycles by outcome (success, upstream_error, persistence_error)",
			},
			[]string{"status"},
		),

		RefreshDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "country_refresh_duration_seconds",
				Help:    "End-to-end refresh cycle duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
		),

		UpstreamErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "country_refresh_upstream_errors_total",
				Help: "Failed upstream fetches by source",
			},
			[]string{"source"},
		),

		CountriesTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "countries_total",
				Help: "Countries written by the most recent successful refresh",
			},
		),

		RenderFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "summary_render_failures_total",
				Help: "Summary image renders that failed after data commit",
			},
		),
	}
}

func (m *RefreshMetrics) RecordRefreshSuccess(totalCountries int64, durationSeconds float64) {
	m.RefreshTotal.WithLabelValues("success").Inc()
	m.RefreshDuration.Observe(durationSeconds)
	m.CountriesTotal.Set(float64(totalCountries))
}

func (m *RefreshMetrics) RecordUpstreamError(source string) {
	m.RefreshTotal.WithLabelValues("upstream_error").Inc()
	m.UpstreamErrorsTotal.WithLabelValues(source).Inc()
}

func (m *RefreshMetrics) RecordPersistenceError() {
	m.RefreshTotal.WithLabelValues("persistence_error").Inc()
}

func (m *RefreshMetrics) RecordRenderFailure() {
	m.RenderFailuresTotal.Inc()
}
