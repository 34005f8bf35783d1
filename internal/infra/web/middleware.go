package web

import (
	"net/http"
	"strconv"
	"time"

	"student_dropout_map/internal/infra/metrics"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// instrument records Prometheus metrics and a log line for every request.
// Routes are labeled by their chi pattern to keep label cardinality bounded.
func instrument(logger *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			duration := time.Since(start)
			metrics.RecordAPIRequest(r.Method, route, strconv.Itoa(status), duration)

			entry := logger.WithFields(logrus.Fields{
				"request_id":  chimiddleware.GetReqID(r.Context()),
				"method":      r.Method,
				"route":       route,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": duration.Milliseconds(),
				"remote_ip":   r.RemoteAddr,
			})
			if status >= http.StatusInternalServerError {
				entry.Warn("Request failed")
				return
			}
			entry.Debug("Request served")
		})
	}
}
