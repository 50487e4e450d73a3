package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes all metric names.
const Namespace = "proptest"

// Metrics holds the Prometheus metrics of property checks.
type Metrics struct {
	ChecksTotal      *prometheus.CounterVec
	TriesTotal       *prometheus.CounterVec
	DiscardsTotal    *prometheus.CounterVec
	ShrinkStepsTotal *prometheus.CounterVec
	CheckDuration    *prometheus.HistogramVec
	StoreErrorsTotal *prometheus.CounterVec
	ExhaustiveChecks prometheus.Counter
	ShrinkBoundsHit  prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg. A nil reg
// creates unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "checks_total",
				Help:      "Total number of property checks by result status",
			},
			[]string{"property", "status"},
		),
		TriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "tries_total",
				Help:      "Total number of generated samples",
			},
			[]string{"property"},
		),
		DiscardsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "discards_total",
				Help:      "Total number of samples rejected by assumptions",
			},
			[]string{"property"},
		),
		ShrinkStepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "shrink_steps_total",
				Help:      "Total number of accepted shrinking steps",
			},
			[]string{"property"},
		),
		CheckDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "check_duration_seconds",
				Help:      "Duration of property checks in seconds",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
			},
			[]string{"property"},
		),
		StoreErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "store_errors_total",
				Help:      "Total number of failure store errors",
			},
			[]string{"operation"},
		),
		ExhaustiveChecks: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "exhaustive_checks_total",
				Help:      "Total number of checks that enumerated all values",
			},
		),
		ShrinkBoundsHit: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "shrink_bound_reached_total",
				Help:      "Total number of shrink runs stopped by the step bound",
			},
		),
	}
}
