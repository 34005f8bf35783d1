package student

import (
	"slices"
	"sort"
)

// Scholarship values.
const (
	ScholarshipYes = "sim"
	ScholarshipNo  = "nao"
)

// Employment values.
const (
	EmploymentEmployed   = "trabalha"
	EmploymentUnemployed = "desempregado"
	EmploymentNotSeeking = "nao trabalha"
)

// Marital status values.
const (
	MaritalSeparated = "separado(a)"
	MaritalDivorced  = "divorciado(a)"
	MaritalMarried   = "casado(a)"
	MaritalSingle    = "solteiro(a)"
)

// Performance bounds of the range slider.
const (
	PerformanceMin  = 0
	PerformanceMax  = 100
	PerformanceStep = 20
)

// Option is one checklist entry.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var (
	ScholarshipOptions = []Option{
		{Label: "Sim", Value: ScholarshipYes},
		{Label: "Não", Value: ScholarshipNo},
	}
	EmploymentOptions = []Option{
		{Label: "Trabalha", Value: EmploymentEmployed},
		{Label: "Desempregado(a)", Value: EmploymentUnemployed},
		{Label: "Não Trabalha", Value: EmploymentNotSeeking},
	}
	MaritalStatusOptions = []Option{
		{Label: "Separado(a)", Value: MaritalSeparated},
		{Label: "Divorciado(a)", Value: MaritalDivorced},
		{Label: "Casado(a)", Value: MaritalMarried},
		{Label: "Solteiro(a)", Value: MaritalSingle},
	}
)

// OptionValues returns the values of opts in order.
func OptionValues(opts []Option) []string {
	values := make([]string, 0, len(opts))
	for _, o := range opts {
		values = append(values, o.Value)
	}
	return values
}

// Range is an inclusive performance interval.
type Range struct {
	Low  float64
	High float64
}

// Contains reports whether v lies within [Low, High].
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Selection holds the current value of every filter control.
// An empty set on any filter selects nothing, it does not mean "unconstrained".
type Selection struct {
	Scholarship   []string
	Performance   Range
	Cohorts       []int
	Employment    []string
	MaritalStatus []string
}

// DefaultSelection selects every option, the full performance range and the given cohorts.
func DefaultSelection(cohorts []int) Selection {
	return Selection{
		Scholarship:   OptionValues(ScholarshipOptions),
		Performance:   Range{Low: PerformanceMin, High: PerformanceMax},
		Cohorts:       slices.Clone(cohorts),
		Employment:    OptionValues(EmploymentOptions),
		MaritalStatus: OptionValues(MaritalStatusOptions),
	}
}

// Empty reports whether any filter has an empty selection.
func (sel Selection) Empty() bool {
	return len(sel.Scholarship) == 0 ||
		len(sel.Cohorts) == 0 ||
		len(sel.Employment) == 0 ||
		len(sel.MaritalStatus) == 0
}

// Matches reports whether s satisfies every filter.
func (sel Selection) Matches(s Student) bool {
	if !slices.Contains(sel.Scholarship, s.Scholarship) {
		return false
	}
	if !s.Performance.Valid || !sel.Performance.Contains(s.Performance.Float64) {
		return false
	}
	if !s.Cohort.Valid || !slices.Contains(sel.Cohorts, int(s.Cohort.Int64)) {
		return false
	}
	if !slices.Contains(sel.Employment, s.Employment) {
		return false
	}
	return slices.Contains(sel.MaritalStatus, s.MaritalStatus)
}

// Apply returns the students satisfying every filter, preserving input order.
func Apply(records []Student, sel Selection) []Student {
	filtered := make([]Student, 0, len(records))
	if sel.Empty() {
		return filtered
	}
	for _, s := range records {
		if sel.Matches(s) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// Cohorts returns the distinct valid cohort years in ascending order.
func Cohorts(records []Student) []int {
	seen := make(map[int]struct{})
	for _, s := range records {
		if s.Cohort.Valid {
			seen[int(s.Cohort.Int64)] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
