package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shortlink"

// Metrics groups the service's Prometheus collectors
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	LinksCreated    prometheus.Counter
	LinksReused     prometheus.Counter
	CodeCollisions  prometheus.Counter
	Reconciliations prometheus.Counter
}

// New registers all collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		LinksCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_created_total",
			Help:      "Mappings inserted.",
		}),
		LinksReused: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_reused_total",
			Help:      "Create calls answered with an existing mapping.",
		}),
		CodeCollisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "short_code_collisions_total",
			Help:      "Inserts rejected because the generated code was taken.",
		}),
		Reconciliations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "create_reconciliations_total",
			Help:      "Inserts that lost a race on original_url and returned the winner's code.",
		}),
	}
}

// NewNop returns collectors registered nowhere
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
