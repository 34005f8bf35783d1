package web

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"student_dropout_map/internal/app"
	"student_dropout_map/internal/domain/panel"
	"student_dropout_map/internal/domain/student"

	"github.com/go-playground/validator/v10"
)

// Query parameter names.
const (
	paramScholarship    = "bolsa"
	paramCohort         = "ano"
	paramEmployment     = "trab"
	paramMaritalStatus  = "civ"
	paramPerformanceMin = "nota_min"
	paramPerformanceMax = "nota_max"
	paramClicks         = "clicks"
	paramToggle         = "toggle"
	clicksPrefix        = "clicks_"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FilterRequest is the validated form of the filter query string.
// Checklists missing from the query select every option; a checklist present
// with no values selects nothing.
type FilterRequest struct {
	Scholarship    []string `validate:"dive,oneof=sim nao"`
	Cohorts        []int    `validate:"dive,min=1900,max=2100"`
	Employment     []string `validate:"dive,oneof=trabalha desempregado 'nao trabalha'"`
	MaritalStatus  []string `validate:"dive,oneof=separado(a) divorciado(a) casado(a) solteiro(a)"`
	PerformanceMin float64  `validate:"min=0,max=100"`
	PerformanceMax float64  `validate:"min=0,max=100,gtefield=PerformanceMin"`

	allCohorts bool
}

// ParseFilters reads and validates filter parameters.
func ParseFilters(q url.Values) (*FilterRequest, *APIError) {
	req := &FilterRequest{
		PerformanceMin: student.PerformanceMin,
		PerformanceMax: student.PerformanceMax,
	}

	req.Scholarship = listOrAll(q, paramScholarship, student.ScholarshipOptions)
	req.Employment = listOrAll(q, paramEmployment, student.EmploymentOptions)
	req.MaritalStatus = listOrAll(q, paramMaritalStatus, student.MaritalStatusOptions)

	years, present := listParam(q, paramCohort)
	req.allCohorts = !present
	for _, y := range years {
		n, err := strconv.Atoi(y)
		if err != nil {
			return nil, invalidParam(paramCohort, y)
		}
		req.Cohorts = append(req.Cohorts, n)
	}

	var apiErr *APIError
	if req.PerformanceMin, apiErr = floatParam(q, paramPerformanceMin, req.PerformanceMin); apiErr != nil {
		return nil, apiErr
	}
	if req.PerformanceMax, apiErr = floatParam(q, paramPerformanceMax, req.PerformanceMax); apiErr != nil {
		return nil, apiErr
	}

	if apiErr := validateRequest(req); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}

// Filters converts the request into the dashboard's filter set.
func (r *FilterRequest) Filters() app.Filters {
	return app.Filters{
		Selection: student.Selection{
			Scholarship:   r.Scholarship,
			Performance:   student.Range{Low: r.PerformanceMin, High: r.PerformanceMax},
			Cohorts:       r.Cohorts,
			Employment:    r.Employment,
			MaritalStatus: r.MaritalStatus,
		},
		AllCohorts: r.allCohorts,
	}
}

// CohortSelected reports whether year is part of the request.
func (r *FilterRequest) CohortSelected(year int) bool {
	if r.allCohorts {
		return true
	}
	for _, y := range r.Cohorts {
		if y == year {
			return true
		}
	}
	return false
}

// PanelRequest is the click count of one panel toggle.
type PanelRequest struct {
	Panel  panel.Name
	Clicks int `validate:"min=0"`
}

// ParsePanelState reads clicks_<panel> counters and applies an optional toggle press.
func ParsePanelState(q url.Values) (panel.State, *APIError) {
	state := panel.NewState()
	for _, n := range panel.All {
		raw := q.Get(clicksPrefix + string(n))
		if raw == "" {
			continue
		}
		clicks, err := strconv.Atoi(raw)
		if err != nil || clicks < 0 {
			return nil, invalidParam(clicksPrefix+string(n), raw)
		}
		state[n] = panel.Toggle{Clicks: clicks}
	}

	if raw := q.Get(paramToggle); raw != "" {
		n, err := panel.Parse(raw)
		if err != nil {
			return nil, invalidParam(paramToggle, raw)
		}
		state.Click(n)
	}
	return state, nil
}

func listParam(q url.Values, key string) ([]string, bool) {
	raw, ok := q[key]
	if !ok {
		return nil, false
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values, true
}

func listOrAll(q url.Values, key string, opts []student.Option) []string {
	values, present := listParam(q, key)
	if !present {
		return student.OptionValues(opts)
	}
	return values
}

func floatParam(q url.Values, key string, def float64) (float64, *APIError) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, invalidParam(key, raw)
	}
	return v, nil
}

func invalidParam(key, value string) *APIError {
	return &APIError{
		Code:    CodeInvalidParam,
		Message: fmt.Sprintf("invalid value %q for parameter %s", value, key),
		Details: map[string]any{"parameter": key},
	}
}

// validateRequest runs struct validation and converts failures into an APIError.
func validateRequest(v any) *APIError {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &APIError{Code: CodeValidation, Message: err.Error()}
	}

	fields := make([]map[string]any, 0, len(validationErrs))
	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msg := fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		fields = append(fields, map[string]any{
			"field": fe.Field(),
			"tag":   fe.Tag(),
			"value": fe.Value(),
		})
		messages = append(messages, msg)
	}
	return &APIError{
		Code:    CodeValidation,
		Message: strings.Join(messages, "; "),
		Details: map[string]any{"fields": fields},
	}
}
