package cgdkg

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	dealingsCreated     prometheus.Counter
	dealingsValidated   *prometheus.CounterVec
	aggregations        *prometheus.CounterVec
	aggregationDuration prometheus.Histogram
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	if registerer == nil {
		// Metrics are always recorded; without a registerer they are simply not exported.
		registerer = prometheus.NewRegistry()
	}
	factory := promauto.With(registerer)

	return &metrics{
		factory.NewCounter(prometheus.CounterOpts{
			Name: "cgdkg_dealings_created_total",
			Help: "Number of dealings created by this node.",
		}),
		factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cgdkg_dealings_validated_total",
			Help: "Number of dealing validations, partitioned by result.",
		}, []string{"result"}),
		factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cgdkg_aggregations_total",
			Help: "Number of aggregation calls, partitioned by result.",
		}, []string{"result"}),
		factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cgdkg_aggregation_duration_seconds",
			Help:    "Duration of aggregation calls in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
