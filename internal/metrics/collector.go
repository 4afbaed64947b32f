// Package metrics exposes Prometheus instruments for the pipelines, the
// upstream providers and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeDegraded = "degraded"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Collector groups every metric the service records
type Collector struct {
	registry prometheus.Gatherer

	pipelineRequests *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
	pollAttempts     *prometheus.HistogramVec

	providerRequests *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector registers the metrics, along with the Go runtime and process
// collectors, on a fresh registry
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return NewCollectorWithRegistry(namespace, reg)
}

// NewCollectorWithRegistry registers the metrics on reg
func NewCollectorWithRegistry(namespace string, reg *prometheus.Registry) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		pipelineRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_requests_total",
				Help:      "Total number of pipeline runs by outcome",
			},
			[]string{"pipeline", "outcome"},
		),

		pipelineDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_duration_seconds",
				Help:      "Pipeline run duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
			},
			[]string{"pipeline"},
		),

		pollAttempts: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "poll_attempts",
				Help:      "Status polls used per asynchronous job",
				Buckets:   prometheus.LinearBuckets(1, 3, 11),
			},
			[]string{"provider"},
		),

		providerRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_requests_total",
				Help:      "Total number of upstream provider requests",
			},
			[]string{"provider", "method", "code"},
		),

		providerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_request_duration_seconds",
				Help:      "Upstream provider request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider", "method"},
		),

		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// RecordPipeline counts a pipeline run and observes its duration
func (c *Collector) RecordPipeline(pipeline, outcome string, duration time.Duration) {
	c.pipelineRequests.WithLabelValues(pipeline, outcome).Inc()
	c.pipelineDuration.WithLabelValues(pipeline).Observe(duration.Seconds())
}

// RecordPollAttempts observes how many polls a job needed
func (c *Collector) RecordPollAttempts(provider string, attempts int) {
	c.pollAttempts.WithLabelValues(provider).Observe(float64(attempts))
}

// RecordHTTPRequest counts a served request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Transport instruments outbound requests to a provider
func (c *Collector) Transport(provider string, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	labels := prometheus.Labels{"provider": provider}

	return promhttp.InstrumentRoundTripperCounter(c.providerRequests.MustCurryWith(labels),
		promhttp.InstrumentRoundTripperDuration(c.providerDuration.MustCurryWith(labels), next))
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
