package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "tratador"

// Row stages counted by RowsTotal.
const (
	StageRead         = "read"
	StageInvalidPhone = "invalid_phone"
	StageDuplicate    = "duplicate"
	StageWritten      = "written"
)

// Metrics owns every collector the service exports. One instance per process,
// registered on its own registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Uploads          *prometheus.CounterVec
	RowsTotal        *prometheus.CounterVec
	GroupsAssigned   prometheus.Histogram
	PipelineDuration prometheus.Histogram

	EventsPublished      *prometheus.CounterVec
	EventPublishDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "uploads_total",
			Help:      "Processed uploads by grouping mode and outcome code.",
		}, []string{"mode", "outcome"}),
		RowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rows_total",
			Help:      "Contact rows seen per pipeline stage.",
		}, []string{"stage"}),
		GroupsAssigned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "groups_per_upload",
			Help:      "Number of distinct group labels produced per upload.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Time spent reading, normalizing, grouping and writing one upload.",
			Buckets:   prometheus.DefBuckets,
		}),

		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Kafka events published by topic and status.",
		}, []string{"topic", "status"}),
		EventPublishDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "events",
			Name:      "publish_duration_seconds",
			Help:      "Kafka publish latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"topic"}),
	}

	registerCollector(m.Registry, prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registerCollector(m.Registry, prometheus.NewGoCollector())
	registerCollector(m.Registry,
		m.HTTPRequests, m.HTTPDuration,
		m.Uploads, m.RowsTotal, m.GroupsAssigned, m.PipelineDuration,
		m.EventsPublished, m.EventPublishDuration,
	)

	return m
}

func registerCollector(reg prometheus.Registerer, collectors ...prometheus.Collector) {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			panic(err)
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
