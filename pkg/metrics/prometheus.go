package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	ReportsIngested    prometheus.Counter
	ExtractionFailures prometheus.Counter
	ExtractionTime     prometheus.Histogram
	SyncPulls          prometheus.Counter
	SyncPushes         prometheus.Counter
	SyncErrors         *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered against reg. Tests
// pass a private registry so repeated construction does not collide.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ReportsIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_ingested_total",
			Help:      "The total number of flight reports ingested",
		}),
		ExtractionFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_failures_total",
			Help:      "The total number of documents that failed recognition",
		}),
		ExtractionTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_time_seconds",
			Help:      "Time taken to extract one document",
			Buckets:   prometheus.DefBuckets,
		}),
		SyncPulls: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_pulls_total",
			Help:      "The total number of successful remote pulls",
		}),
		SyncPushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_pushes_total",
			Help:      "The total number of successful remote pushes",
		}),
		SyncErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_errors_total",
			Help:      "The total number of failed sync operations",
		}, []string{"operation"}),
	}
}
