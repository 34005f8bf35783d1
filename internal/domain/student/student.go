package student

import (
	"database/sql"
	"math"
	"strconv"
)

// MissingValue replaces NULL text columns when rows are read from the table.
const MissingValue = "N/A"

// Column identifiers of the 'alunos' table.
const (
	ColumnName          = "nome"
	ColumnStatus        = "situacao"
	ColumnScholarship   = "bolsa"
	ColumnPerformance   = "aproveitamento"
	ColumnCohort        = "ano"
	ColumnEmployment    = "situacaotrab"
	ColumnMaritalStatus = "situacaocivil"
	ColumnDescription   = "descricao"
	ColumnLatitude      = "lat"
	ColumnLongitude     = "lon"
)

// TableName is the table holding one row per student.
const TableName = "alunos"

// Columns lists the table columns in schema order.
var Columns = []string{
	ColumnName,
	ColumnStatus,
	ColumnScholarship,
	ColumnPerformance,
	ColumnCohort,
	ColumnEmployment,
	ColumnMaritalStatus,
	ColumnDescription,
	ColumnLatitude,
	ColumnLongitude,
}

// Student is one row of the 'alunos' table.
// Numeric columns stay invalid when the database holds NULL; text columns carry MissingValue instead.
type Student struct {
	Name          string
	Status        string          // dropout/enrollment situation, drives map color
	Scholarship   string          // "sim" or "nao"
	Performance   sql.NullFloat64 // 0-100
	Cohort        sql.NullInt64   // enrollment year
	Employment    string
	MaritalStatus string
	Description   string
	Latitude      sql.NullFloat64
	Longitude     sql.NullFloat64
}

// Plottable reports whether the student carries both coordinates as finite numbers.
func (s Student) Plottable() bool {
	return finite(s.Latitude) && finite(s.Longitude)
}

func finite(v sql.NullFloat64) bool {
	return v.Valid && !math.IsNaN(v.Float64) && !math.IsInf(v.Float64, 0)
}

// Values returns the column values in Columns order, ready for insertion.
func (s Student) Values() []any {
	return []any{
		s.Name,
		s.Status,
		s.Scholarship,
		nullableFloat(s.Performance),
		nullableInt(s.Cohort),
		s.Employment,
		s.MaritalStatus,
		s.Description,
		nullableFloat(s.Latitude),
		nullableFloat(s.Longitude),
	}
}

// Fields returns the record keyed by display label, with MissingValue for invalid numerics.
func (s Student) Fields() map[string]string {
	raw := map[string]string{
		ColumnName:          s.Name,
		ColumnStatus:        s.Status,
		ColumnScholarship:   s.Scholarship,
		ColumnPerformance:   formatFloat(s.Performance),
		ColumnCohort:        formatInt(s.Cohort),
		ColumnEmployment:    s.Employment,
		ColumnMaritalStatus: s.MaritalStatus,
		ColumnDescription:   s.Description,
		ColumnLatitude:      formatFloat(s.Latitude),
		ColumnLongitude:     formatFloat(s.Longitude),
	}
	return DisplayLabels.Rename(raw)
}

func nullableFloat(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

func nullableInt(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}
	return v.Int64
}

func formatFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return MissingValue
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

func formatInt(v sql.NullInt64) string {
	if !v.Valid {
		return MissingValue
	}
	return strconv.FormatInt(v.Int64, 10)
}
