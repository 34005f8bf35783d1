package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database statements in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database statements",
		},
		[]string{"operation", "table"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	FiguresRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "map_figures_rendered_total",
			Help: "Total number of map figures rendered",
		},
		[]string{"format", "result"}, // result: "points" or "empty"
	)

	FigurePoints = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "map_figure_points",
			Help:    "Number of plotted students per rendered figure",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	DigestsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digests_sent_total",
			Help: "Total number of status digests delivered",
		},
		[]string{"trigger", "result"},
	)
)

// ObserveQuery records the duration of a database statement and counts failures.
func ObserveQuery(operation, table string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordFigure records a rendered figure and its point count.
func RecordFigure(format string, points int) {
	result := "points"
	if points == 0 {
		result = "empty"
	}
	FiguresRendered.WithLabelValues(format, result).Inc()
	FigurePoints.Observe(float64(points))
}

// RecordDigest records a digest delivery attempt.
func RecordDigest(trigger string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	DigestsSent.WithLabelValues(trigger, result).Inc()
}
