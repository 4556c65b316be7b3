// Package metrics provides Prometheus metrics for the mailroom service.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, route and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, route and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// NumberOperationsTotal tracks allocator calls by backend, operation and result.
	NumberOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "package_number_operations_total",
			Help: "Total number of package number acquisitions and releases",
		},
		[]string{"backend", "operation", "result"},
	)

	// RegistrationsTotal tracks registration outcomes.
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "package_registrations_total",
			Help: "Total number of package registrations by outcome",
		},
		[]string{"outcome"},
	)

	// NotificationsTotal tracks notification delivery outcomes.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "package_notifications_total",
			Help: "Total number of arrival notifications by outcome",
		},
		[]string{"outcome"},
	)

	// NotificationQueueDepth is the number of notifications waiting for the worker.
	NotificationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "package_notification_queue_depth",
			Help: "Notifications waiting to be sent",
		},
	)

	// ReconciledNumbersTotal tracks numbers freed by reconciliation.
	ReconciledNumbersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "package_numbers_reconciled_total",
			Help: "Total number of orphaned package numbers released by reconciliation",
		},
	)
)

// Allocator operation results.
const (
	ResultOK        = "ok"
	ResultExhausted = "exhausted"
	ResultError     = "error"
)

// Registration outcomes.
const (
	RegistrationRegistered       = "registered"
	RegistrationResidentNotFound = "resident_not_found"
	RegistrationMailroomFull     = "mailroom_full"
	RegistrationRejected         = "rejected"
	RegistrationError            = "error"
)

// PrometheusMiddleware returns an Echo middleware that collects HTTP metrics.
func PrometheusMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			duration := time.Since(start).Seconds()
			statusCode := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
			HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
			return nil
		}
	}
}

// RecordNumberOperation records one allocator call.
func RecordNumberOperation(backend, operation, result string) {
	NumberOperationsTotal.WithLabelValues(backend, operation, result).Inc()
}

// RecordRegistration records the outcome of one registration request.
func RecordRegistration(outcome string) {
	RegistrationsTotal.WithLabelValues(outcome).Inc()
}

// RecordNotification records the outcome of one notification.
func RecordNotification(outcome string) {
	NotificationsTotal.WithLabelValues(outcome).Inc()
}

// RecordReconciled adds released numbers to the reconciliation counter.
func RecordReconciled(n int) {
	ReconciledNumbersTotal.Add(float64(n))
}
