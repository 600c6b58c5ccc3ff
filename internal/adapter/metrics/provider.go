package metrics

import "github.com/prometheus/client_golang/prometheus"

// ProviderMetrics holds Prometheus metrics for outbound GitHub and Jira calls.
type ProviderMetrics struct {
	FetchesTotal  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
}

// NewProviderMetrics creates and registers provider fetch metrics on the
// given registry.
func NewProviderMetrics(reg prometheus.Registerer) *ProviderMetrics {
	m := &ProviderMetrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "fetches_total",
			Help:      "Total provider fetch operations, by provider, operation and outcome.",
		}, []string{"provider", "operation", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of provider fetch operations in seconds.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"provider", "operation"}),
	}

	reg.MustRegister(m.FetchesTotal, m.FetchDuration)
	return m
}

// Observe records one completed fetch against a provider.
func (m *ProviderMetrics) Observe(provider, operation string, seconds float64, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.FetchesTotal.WithLabelValues(provider, operation, outcome).Inc()
	m.FetchDuration.WithLabelValues(provider, operation).Observe(seconds)
}
