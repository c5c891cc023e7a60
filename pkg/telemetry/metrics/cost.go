package metrics

import (
	"polyglot-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CostMetrics tracks estimated spend across translation backends.
//
// Metrics:
//   - polyglot_hermes_cost_total: Total estimated cost in USD by backend
//   - polyglot_hermes_cost_per_request: Cost distribution per request (histogram)
//
// Costs are estimates derived from per-character pricing, not invoiced
// amounts.
type CostMetrics struct {
	// Total estimated cost counter (in USD)
	costTotal *prometheus.CounterVec

	// Cost per request histogram (in USD)
	costPerRequest *prometheus.HistogramVec
}

// NewCostMetrics creates and registers cost metrics with the provided registry.
func NewCostMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CostMetrics {
	cm := &CostMetrics{
		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cost_total",
				Help:      "Total estimated cost in USD by backend",
			},
			[]string{"provider"},
		),

		costPerRequest: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cost_per_request",
				Help:      "Estimated cost distribution per request in USD",
				// Per-character pricing tops out around 3e-5 USD/char, so a
				// request lands between fractions of a cent and a few dollars
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		cm.costTotal,
		cm.costPerRequest,
	)

	return cm
}

// RecordRequestCost records the estimated cost of a single request.
// Free backends (zero cost) are skipped.
func (cm *CostMetrics) RecordRequestCost(provider string, costUSD float64) {
	if costUSD <= 0 {
		return
	}

	cm.costTotal.WithLabelValues(provider).Add(costUSD)
	cm.costPerRequest.WithLabelValues(provider).Observe(costUSD)
}
