// Package metrics wraps a private Prometheus registry exposing HTTP request
// instrumentation and the gin middleware that feeds it, the way the
// teacher's internal/service.MetricsService and internal/middleware.Metrics
// pair do for the student-admin API.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service exposes request-latency and scheduling-run instrumentation.
type Service struct {
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	generationDuration prometheus.Histogram
	generationTotal    *prometheus.CounterVec
	jobQueueDepth      prometheus.Gauge
}

// New registers a fresh set of collectors against a private registry.
func New() *Service {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_generation_duration_seconds",
		Help:    "Duration of scheduling generation runs",
		Buckets: prometheus.DefBuckets,
	})

	generationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_generation_runs_total",
		Help: "Total scheduling generation runs by outcome",
	}, []string{"outcome"})

	jobQueueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_job_queue_depth",
		Help: "Number of generation jobs currently waiting in the queue",
	})

	registry.MustRegister(requestDuration, requestTotal, generationDuration, generationTotal, jobQueueDepth)

	return &Service{
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		generationDuration: generationDuration,
		generationTotal:    generationTotal,
		jobQueueDepth:      jobQueueDepth,
	}
}

// Handler exposes the registry's scrape endpoint.
func (s *Service) Handler() http.Handler {
	if s == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return s.handler
}

// ObserveHTTPRequest records one request's method/path/status and latency.
func (s *Service) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	label := fmt.Sprintf("%d", status)
	s.requestDuration.WithLabelValues(method, path, label).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(method, path, label).Inc()
}

// ObserveGeneration records one scheduling run's duration and outcome.
func (s *Service) ObserveGeneration(duration time.Duration, success bool) {
	if s == nil {
		return
	}
	s.generationDuration.Observe(duration.Seconds())
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	s.generationTotal.WithLabelValues(outcome).Inc()
}

// SetJobQueueDepth records the queue's current backlog.
func (s *Service) SetJobQueueDepth(depth int) {
	if s == nil {
		return
	}
	s.jobQueueDepth.Set(float64(depth))
}

// GinMiddleware feeds every request's duration and outcome into the service.
func GinMiddleware(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		svc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
