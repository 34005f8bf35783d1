package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"slices"
	"strconv"

	"student_dropout_map/internal/domain/panel"
	"student_dropout_map/internal/domain/student"
	"student_dropout_map/internal/infra/metrics"
	"student_dropout_map/internal/infra/render"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

// Panel headings in page order.
var panelTitles = map[panel.Name]string{
	panel.Scholarship:   "Situação de Bolsa",
	panel.Performance:   "Aproveitamento do Aluno",
	panel.Cohort:        "Ano de Ingresso",
	panel.Employment:    "Situação de Trabalho",
	panel.MaritalStatus: "Situação Civil",
}

type optionView struct {
	Label   string
	Value   string
	Checked bool
}

type panelView struct {
	Name    panel.Name
	Title   string
	Clicks  int
	Visible bool
	Param   string
	Range   bool
	Options []optionView
}

type pageView struct {
	Title          string
	Panels         []panelView
	PerformanceMin float64
	PerformanceMax float64
	RangeMin       float64
	RangeMax       float64
	RangeStep      float64
	Figure         template.JS
	HoverFields    template.JS
	Layout         render.Layout
	Legend         []render.LegendEntry
	Points         int
}

// Page serves the server-rendered dashboard. Every request recomputes the
// figure from the filters and panel counters carried in the query string.
type Page struct {
	dashboard Dashboard
	tmpl      *template.Template
	logger    *logrus.Entry
}

func NewPage(dashboard Dashboard, logger *logrus.Entry) (*Page, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/dashboard.html")
	if err != nil {
		return nil, err
	}
	return &Page{dashboard: dashboard, tmpl: tmpl, logger: logger}, nil
}

func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req, apiErr := ParseFilters(q)
	if apiErr != nil {
		http.Error(w, apiErr.Message, http.StatusBadRequest)
		return
	}
	state, apiErr := ParsePanelState(q)
	if apiErr != nil {
		http.Error(w, apiErr.Message, http.StatusBadRequest)
		return
	}

	opts, err := p.dashboard.Options(r.Context())
	if err != nil {
		p.logger.WithError(err).Error("Failed to load filter options")
		http.Error(w, "failed to load students", http.StatusInternalServerError)
		return
	}
	fig, err := p.dashboard.PlotFilters(r.Context(), req.Filters())
	if err != nil {
		p.logger.WithError(err).Error("Failed to compute map figure")
		http.Error(w, "failed to load students", http.StatusInternalServerError)
		return
	}

	data, err := json.Marshal(fig.Data)
	if err != nil {
		p.logger.WithError(err).Error("Failed to encode figure")
		http.Error(w, "failed to render map", http.StatusInternalServerError)
		return
	}
	hoverFields, err := json.Marshal(fig.HoverFields)
	if err != nil {
		p.logger.WithError(err).Error("Failed to encode hover fields")
		http.Error(w, "failed to render map", http.StatusInternalServerError)
		return
	}
	metrics.RecordFigure("html", fig.Points())

	view := pageView{
		Title:          fig.Layout.Title,
		Panels:         buildPanels(req, state, opts.Cohorts),
		PerformanceMin: req.PerformanceMin,
		PerformanceMax: req.PerformanceMax,
		RangeMin:       opts.PerformanceMin,
		RangeMax:       opts.PerformanceMax,
		RangeStep:      opts.PerformanceStep,
		Figure:         template.JS(data),
		HoverFields:    template.JS(hoverFields),
		Layout:         fig.Layout,
		Legend:         fig.Legend,
		Points:         fig.Points(),
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, view); err != nil {
		p.logger.WithError(err).Error("Failed to execute dashboard template")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func buildPanels(req *FilterRequest, state panel.State, cohorts []int) []panelView {
	views := make([]panelView, 0, len(panel.All))
	for _, n := range panel.All {
		v := panelView{
			Name:    n,
			Title:   panelTitles[n],
			Clicks:  state[n].Clicks,
			Visible: state.Visible(n),
			Param:   string(n),
		}
		switch n {
		case panel.Scholarship:
			v.Options = checklist(student.ScholarshipOptions, req.Scholarship)
		case panel.Performance:
			v.Range = true
		case panel.Cohort:
			for _, y := range cohorts {
				year := strconv.Itoa(y)
				v.Options = append(v.Options, optionView{Label: year, Value: year, Checked: req.CohortSelected(y)})
			}
		case panel.Employment:
			v.Options = checklist(student.EmploymentOptions, req.Employment)
		case panel.MaritalStatus:
			v.Options = checklist(student.MaritalStatusOptions, req.MaritalStatus)
		}
		views = append(views, v)
	}
	return views
}

func checklist(opts []student.Option, selected []string) []optionView {
	views := make([]optionView, 0, len(opts))
	for _, o := range opts {
		views = append(views, optionView{Label: o.Label, Value: o.Value, Checked: slices.Contains(selected, o.Value)})
	}
	return views
}
