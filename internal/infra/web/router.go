package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	CORSOrigins        []string
	RateLimitPerMinute int
	RequestTimeout     time.Duration
}

// NewRouter wires the dashboard page, the JSON API and the metrics endpoint.
func NewRouter(h *Handler, page *Page, cfg RouterConfig, logger *logrus.Entry) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(instrument(logger))
	r.Use(chimiddleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/", page.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
		if cfg.RateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
		}

		r.Get("/health", h.Health)
		r.Get("/map", h.Map)
		r.Get("/map.png", h.MapPNG)
		r.Get("/filters", h.Filters)
		r.Get("/panels/{panel}", h.Panel)
	})

	return r
}
