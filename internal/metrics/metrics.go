// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "neirocalendar"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method, path and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	AttendanceMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "attendance",
		Name:      "mutations_total",
		Help:      "Attendance record mutations by operation and result.",
	}, []string{"operation", "result"})

	CalendarViews = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "calendar",
		Name:      "views_assembled_total",
		Help:      "Month views assembled.",
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "amqp",
		Name:      "events_published_total",
		Help:      "Attendance events published by type and result.",
	}, []string{"type", "result"})

	EventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "amqp",
		Name:      "events_consumed_total",
		Help:      "Attendance events handled by the worker by type and result.",
	}, []string{"type", "result"})

	SheetsWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sheets",
		Name:      "writes_total",
		Help:      "Google Sheets mirror writes by operation and result.",
	}, []string{"operation", "result"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})

	SuspiciousRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "suspicious_requests_total",
		Help:      "Requests flagged by the security detector.",
	})
)

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// ObserveHTTP records one finished request.
func ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
