package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		exchangesTotal,
		exchangeRejects,
		exchangeLatencyMs,
	)
}

var (
	exchangesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "exchanges_total",
			Help: "Count of completed message exchanges (both messages persisted).",
		},
	)

	exchangeRejects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exchange_rejects_total",
			Help: "Count of exchanges rejected before any write.",
		},
		[]string{"reason"}, // 'rate_limit', 'session_not_found', 'invalid_argument'
	)

	exchangeLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "exchange_latency_ms",
			Help:    "End-to-end exchange latency distribution in milliseconds.",
			Buckets: []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 15000},
		},
	)
)

func ExchangeCompleted(latencyMs int64) {
	exchangesTotal.Inc()
	exchangeLatencyMs.Observe(float64(latencyMs))
}

func ExchangeRejected(reason string) {
	exchangeRejects.WithLabelValues(reason).Inc()
}
