package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"math"
	"strconv"
	"strings"

	"student_dropout_map/internal/domain/student"
)

//go:embed schema.sql
var schemaSQL string

// Custom errors
var ErrMissingColumn = fmt.Errorf("student table is missing a required column")
var ErrStudentNameRequired = fmt.Errorf("student name is required")

type StudentRepository struct {
	store *TableStore
}

func NewStudentRepository(store *TableStore) *StudentRepository {
	return &StudentRepository{store: store}
}

// EnsureSchema creates the 'alunos' table when it does not exist.
func (r *StudentRepository) EnsureSchema(ctx context.Context) error {
	if err := r.store.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("error creating %s table: %w", student.TableName, err)
	}
	return nil
}

// ListAll reads every student, filling NULL cells with the N/A sentinel first.
func (r *StudentRepository) ListAll(ctx context.Context) ([]student.Student, error) {
	table, err := r.store.Select(ctx, []string{AllColumns}, student.TableName, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	table.FillNA(student.MissingValue)
	return TableToStudents(table)
}

// ListByStatus reads the students with the given situation, optionally of one cohort.
func (r *StudentRepository) ListByStatus(ctx context.Context, status string, cohort int) ([]student.Student, error) {
	where := Eq(student.ColumnStatus, status)
	if cohort > 0 {
		where.And(student.ColumnCohort, "=", cohort)
	}
	table, err := r.store.Select(ctx, []string{AllColumns}, student.TableName, where)
	if err != nil {
		return nil, fmt.Errorf("error listing students by status: %w", err)
	}
	table.FillNA(student.MissingValue)
	return TableToStudents(table)
}

func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrStudentNameRequired
	}
	if err := r.store.Insert(ctx, student.TableName, student.Columns, s.Values()); err != nil {
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// TableToStudents converts a materialized 'alunos' result into records.
// Cells holding the N/A sentinel become invalid numerics.
func TableToStudents(t *Table) ([]student.Student, error) {
	idx := make(map[string]int, len(student.Columns))
	for _, c := range student.Columns {
		i := t.ColumnIndex(c)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
		idx[c] = i
	}

	students := make([]student.Student, 0, t.Len())
	for _, row := range t.Rows {
		students = append(students, student.Student{
			Name:          text(row[idx[student.ColumnName]]),
			Status:        text(row[idx[student.ColumnStatus]]),
			Scholarship:   text(row[idx[student.ColumnScholarship]]),
			Performance:   float(row[idx[student.ColumnPerformance]]),
			Cohort:        integer(row[idx[student.ColumnCohort]]),
			Employment:    text(row[idx[student.ColumnEmployment]]),
			MaritalStatus: text(row[idx[student.ColumnMaritalStatus]]),
			Description:   text(row[idx[student.ColumnDescription]]),
			Latitude:      float(row[idx[student.ColumnLatitude]]),
			Longitude:     float(row[idx[student.ColumnLongitude]]),
		})
	}
	return students, nil
}

func text(cell any) string {
	switch v := cell.(type) {
	case nil:
		return student.MissingValue
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// float converts a numeric cell. Non-finite values read as NULL.
func float(cell any) sql.NullFloat64 {
	var f float64
	switch v := cell.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return sql.NullFloat64{}
		}
		f = parsed
	default:
		return sql.NullFloat64{}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func integer(cell any) sql.NullInt64 {
	switch v := cell.(type) {
	case int64:
		return sql.NullInt64{Int64: v, Valid: true}
	case int:
		return sql.NullInt64{Int64: int64(v), Valid: true}
	case float64:
		return sql.NullInt64{Int64: int64(v), Valid: true}
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return sql.NullInt64{}
		}
		return sql.NullInt64{Int64: n, Valid: true}
	}
	return sql.NullInt64{}
}
