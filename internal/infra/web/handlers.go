package web

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"student_dropout_map/internal/app"
	"student_dropout_map/internal/domain/panel"
	"student_dropout_map/internal/infra/metrics"
	"student_dropout_map/internal/infra/render"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Dashboard computes figures and filter options.
type Dashboard interface {
	PlotFilters(ctx context.Context, f app.Filters) (*render.Figure, error)
	Options(ctx context.Context) (*app.Options, error)
}

// Pinger checks storage reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	dashboard Dashboard
	db        Pinger
	logger    *logrus.Entry
}

func NewHandler(dashboard Dashboard, db Pinger, logger *logrus.Entry) *Handler {
	return &Handler{
		dashboard: dashboard,
		db:        db,
		logger:    logger,
	}
}

// Map returns the filtered figure. The figure's data member is a GeoJSON FeatureCollection.
func (h *Handler) Map(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, apiErr := ParseFilters(r.URL.Query())
	if apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr)
		return
	}

	fig, err := h.dashboard.PlotFilters(r.Context(), req.Filters())
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute map figure")
		respondError(w, http.StatusInternalServerError, &APIError{Code: CodeDatabase, Message: "failed to load students"})
		return
	}
	metrics.RecordFigure("geojson", fig.Points())
	respondData(w, fig, start)
}

// MapPNG returns a PNG snapshot of the filtered figure.
func (h *Handler) MapPNG(w http.ResponseWriter, r *http.Request) {
	req, apiErr := ParseFilters(r.URL.Query())
	if apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr)
		return
	}

	fig, err := h.dashboard.PlotFilters(r.Context(), req.Filters())
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute map figure")
		respondError(w, http.StatusInternalServerError, &APIError{Code: CodeDatabase, Message: "failed to load students"})
		return
	}

	var buf bytes.Buffer
	if err := render.RenderPNG(&buf, fig); err != nil {
		h.logger.WithError(err).Error("Failed to render map snapshot")
		respondError(w, http.StatusInternalServerError, &APIError{Code: CodeRender, Message: "failed to render map"})
		return
	}
	metrics.RecordFigure("png", fig.Points())

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WithError(err).Warn("Failed to write map snapshot")
	}
}

// Filters returns the options of every filter control.
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	opts, err := h.dashboard.Options(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load filter options")
		respondError(w, http.StatusInternalServerError, &APIError{Code: CodeDatabase, Message: "failed to load filter options"})
		return
	}
	respondData(w, opts, start)
}

type panelResponse struct {
	Panel   panel.Name `json:"panel"`
	Clicks  int        `json:"clicks"`
	Visible bool       `json:"visible"`
}

// Panel reports whether a filter panel is shown after the given number of clicks.
func (h *Handler) Panel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	name, err := panel.Parse(chi.URLParam(r, "panel"))
	if err != nil {
		respondError(w, http.StatusNotFound, &APIError{Code: CodeNotFound, Message: err.Error()})
		return
	}

	req := PanelRequest{Panel: name}
	if raw := r.URL.Query().Get(paramClicks); raw != "" {
		clicks, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, invalidParam(paramClicks, raw))
			return
		}
		req.Clicks = clicks
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr)
		return
	}

	toggle := panel.Toggle{Clicks: req.Clicks}
	respondData(w, panelResponse{Panel: name, Clicks: toggle.Clicks, Visible: toggle.Visible()}, start)
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health pings the database.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.WithError(err).Warn("Health check failed")
		respondError(w, http.StatusServiceUnavailable, &APIError{
			Code:    CodeUnavailable,
			Message: "database unreachable",
		})
		return
	}
	respondData(w, healthResponse{Status: "ok", Database: "ok"}, start)
}
