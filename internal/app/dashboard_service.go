package app

import (
	"context"
	"fmt"
	"time"

	"student_dropout_map/internal/domain/student"
	"student_dropout_map/internal/infra/render"

	"github.com/sirupsen/logrus"
)

// Options describes the choices offered by every filter control.
type Options struct {
	Scholarship     []student.Option `json:"bolsa"`
	Cohorts         []int            `json:"ano"`
	Employment      []student.Option `json:"trab"`
	MaritalStatus   []student.Option `json:"civ"`
	PerformanceMin  float64          `json:"nota_min"`
	PerformanceMax  float64          `json:"nota_max"`
	PerformanceStep float64          `json:"nota_step"`
}

// Filters is a Selection whose cohort set may be left open, in which case
// every cohort found in the data is selected.
type Filters struct {
	Selection  student.Selection
	AllCohorts bool
}

// DashboardService recomputes the map from fresh rows on every call; it keeps no state between calls.
type DashboardService struct {
	studentRepo student.Repository
	logger      *logrus.Entry
}

func NewDashboardService(sr student.Repository, logger *logrus.Entry) *DashboardService {
	return &DashboardService{
		studentRepo: sr,
		logger:      logger,
	}
}

// Plot fetches every student, applies the selection and renders the scatter map.
func (s *DashboardService) Plot(ctx context.Context, sel student.Selection) (*render.Figure, error) {
	return s.PlotFilters(ctx, Filters{Selection: sel})
}

// PlotFilters is Plot with an optionally open cohort set.
func (s *DashboardService) PlotFilters(ctx context.Context, f Filters) (*render.Figure, error) {
	start := time.Now()

	records, err := s.studentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	sel := f.Selection
	if f.AllCohorts {
		sel.Cohorts = student.Cohorts(records)
	}
	filtered := student.Apply(records, sel)
	fig := render.NewFigure(filtered)

	s.logger.WithFields(logrus.Fields{
		"total":    len(records),
		"filtered": len(filtered),
		"plotted":  fig.Points(),
		"elapsed":  time.Since(start).String(),
	}).Debug("Map figure computed")
	return fig, nil
}

// Options returns the checklist choices; cohorts come from the stored rows.
func (s *DashboardService) Options(ctx context.Context) (*Options, error) {
	records, err := s.studentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}
	return &Options{
		Scholarship:     student.ScholarshipOptions,
		Cohorts:         student.Cohorts(records),
		Employment:      student.EmploymentOptions,
		MaritalStatus:   student.MaritalStatusOptions,
		PerformanceMin:  student.PerformanceMin,
		PerformanceMax:  student.PerformanceMax,
		PerformanceStep: student.PerformanceStep,
	}, nil
}
