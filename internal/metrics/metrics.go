// Package metrics provides Prometheus metrics for the site API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// MetricsNamespace is the namespace for all site metrics.
	MetricsNamespace = "site"

	unmatchedRoute = "unmatched"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultHit     = "hit"
	ResultMiss    = "miss"
)

// Metrics holds all Prometheus metrics for the site API. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Domain metrics
	ContactSubmissionsTotal *prometheus.CounterVec
	SubscriptionsTotal      *prometheus.CounterVec
	LoginAttemptsTotal      *prometheus.CounterVec
	CacheRequestsTotal      *prometheus.CounterVec
	SchedulerRunsTotal      *prometheus.CounterVec
}

// NewMetrics creates and registers all site metrics on reg. A nil reg uses a
// fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	factory := promauto.With(reg)
	m := &Metrics{gatherer: reg}

	m.initHTTPMetrics(factory)
	m.initDomainMetrics(factory)

	return m
}

func (m *Metrics) initHTTPMetrics(factory promauto.Factory) {
	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}

func (m *Metrics) initDomainMetrics(factory promauto.Factory) {
	m.ContactSubmissionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "contact_submissions_total",
			Help:      "Total number of stored contact submissions",
		},
		[]string{"inquiry_type"},
	)

	m.SubscriptionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "subscriptions_total",
			Help:      "Newsletter subscribe requests by outcome",
		},
		[]string{"result"},
	)

	m.LoginAttemptsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "login_attempts_total",
			Help:      "Admin login attempts by outcome",
		},
		[]string{"result"},
	)

	m.CacheRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "cache_requests_total",
			Help:      "Response cache lookups by outcome",
		},
		[]string{"result"},
	)

	m.SchedulerRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "scheduler_runs_total",
			Help:      "Scheduled job runs by job and outcome",
		},
		[]string{"job", "result"},
	)
}

// RecordContactSubmission counts a stored contact submission.
func (m *Metrics) RecordContactSubmission(inquiryType string) {
	if m == nil {
		return
	}
	m.ContactSubmissionsTotal.WithLabelValues(inquiryType).Inc()
}

// RecordSubscription counts a subscribe request by outcome.
func (m *Metrics) RecordSubscription(result string) {
	if m == nil {
		return
	}
	m.SubscriptionsTotal.WithLabelValues(result).Inc()
}

// RecordLogin counts a login attempt.
func (m *Metrics) RecordLogin(success bool) {
	if m == nil {
		return
	}
	m.LoginAttemptsTotal.WithLabelValues(successLabel(success)).Inc()
}

// RecordCache counts a cache lookup.
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	m.CacheRequestsTotal.WithLabelValues(result).Inc()
}

// RecordSchedulerRun counts one run of a scheduled job.
func (m *Metrics) RecordSchedulerRun(job string, success bool) {
	if m == nil {
		return
	}
	m.SchedulerRunsTotal.WithLabelValues(job, successLabel(success)).Inc()
}

func successLabel(success bool) string {
	if success {
		return ResultSuccess
	}
	return ResultFailure
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method

		m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
