package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Flight lookup outcomes
const (
	LookupFound     = "found"
	LookupNotFound  = "not_found"
	LookupError     = "error"
	LookupDiscarded = "discarded"
)

// Schedule cache results
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	FlightLookups        *prometheus.CounterVec
	ScheduleCache        *prometheus.CounterVec
	SubmissionsTotal     *prometheus.CounterVec
	Promotions           prometheus.Counter
	SubmissionRejections *prometheus.CounterVec
	SubmissionTime       prometheus.Histogram
	ActiveWorkflows      prometheus.Gauge
	ErrorsCount          *prometheus.CounterVec
}

// NewMetrics creates the booking metrics and registers them on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FlightLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_lookups_total",
			Help:      "Flight schedule lookups by outcome",
		}, []string{"outcome"}),
		ScheduleCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_schedule_cache_total",
			Help:      "Flight schedule cache reads by result",
		}, []string{"result"}),
		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Accepted booking submissions by payload shape",
		}, []string{"kind"}),
		Promotions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mission_promotions_total",
			Help:      "Rides promoted to missions at submission time",
		}),
		SubmissionRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_rejections_total",
			Help:      "Submissions refused by the persistence boundary",
		}, []string{"reason"}),
		SubmissionTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time taken to assemble and persist a submission",
			Buckets:   prometheus.DefBuckets,
		}),
		ActiveWorkflows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_workflows",
			Help:      "Booking workflows currently held in memory",
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
