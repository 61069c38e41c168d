package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(eventsPublished, eventsDropped)
}

var (
	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events accepted by the broker, per stream.",
		},
		[]string{"stream"},
	)

	eventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Domain events lost to publish errors or a saturated queue, per stream.",
		},
		[]string{"stream"},
	)
)

func EventPublished(stream string) {
	eventsPublished.WithLabelValues(stream).Inc()
}

func EventDropped(stream string) {
	eventsDropped.WithLabelValues(stream).Inc()
}
