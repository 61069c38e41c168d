package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		completionAttempts,
		completionDegraded,
		completionLatencyMs,
	)
}

var (
	completionAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_attempts_total",
			Help: "HTTP attempts against the completion provider per status class.",
		},
		[]string{"status"},
	)

	completionDegraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_degraded_total",
			Help: "Completion calls absorbed into a substitute reply, per reason.",
		},
		[]string{"reason"},
	)

	completionLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "completion_latency_ms",
			Help:    "Completion call latency distribution in milliseconds, including retries.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 15000},
		},
		[]string{"success"},
	)
)

func CompletionAttempt(status string) {
	completionAttempts.WithLabelValues(status).Inc()
}

func CompletionDegraded(reason string) {
	completionDegraded.WithLabelValues(reason).Inc()
}

func ObserveCompletion(latencyMs int64, success bool) {
	lbl := "false"
	if success {
		lbl = "true"
	}
	completionLatencyMs.WithLabelValues(lbl).Observe(float64(latencyMs))
}
