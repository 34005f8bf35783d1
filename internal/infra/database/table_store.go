package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"student_dropout_map/internal/infra/metrics"
)

// Custom errors for statement building
var ErrInvalidIdentifier = fmt.Errorf("invalid SQL identifier")
var ErrInvalidOperator = fmt.Errorf("invalid comparison operator")
var ErrColumnValueMismatch = fmt.Errorf("column and value counts differ")

// AllColumns selects every column of a table.
const AllColumns = "*"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var allowedOperators = map[string]bool{
	"=": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true,
}

// ValidateIdentifier rejects anything that is not a bare table or column name.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// Condition compares a column against a bound value.
type Condition struct {
	Column   string
	Operator string
	Value    any
}

// Where is a conjunction of conditions.
type Where struct {
	Conditions []Condition
}

// Eq is shorthand for a single equality condition.
func Eq(column string, value any) *Where {
	return &Where{Conditions: []Condition{{Column: column, Operator: "=", Value: value}}}
}

// And appends a condition.
func (w *Where) And(column, operator string, value any) *Where {
	w.Conditions = append(w.Conditions, Condition{Column: column, Operator: operator, Value: value})
	return w
}

// Table is a materialized query result.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// FillNA replaces every NULL cell with sentinel and returns the table.
func (t *Table) FillNA(sentinel any) *Table {
	for _, row := range t.Rows {
		for i, cell := range row {
			if cell == nil {
				row[i] = sentinel
			}
		}
	}
	return t
}

// TableStore runs SELECT and INSERT statements against single tables.
// Every call borrows one connection from the pool and releases it before returning.
type TableStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewTableStore(db *sql.DB, dialect Dialect) *TableStore {
	return &TableStore{db: db, dialect: dialect}
}

// Dialect returns the store's SQL dialect.
func (s *TableStore) Dialect() Dialect {
	return s.dialect
}

// withConn acquires a dedicated connection for fn and always returns it to the pool.
func (s *TableStore) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire database connection: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

// BuildSelect renders a SELECT statement and its arguments.
func (s *TableStore) BuildSelect(columns []string, table string, where *Where) (string, []any, error) {
	if err := ValidateIdentifier(table); err != nil {
		return "", nil, err
	}

	var projection string
	if len(columns) == 0 || (len(columns) == 1 && columns[0] == AllColumns) {
		projection = AllColumns
	} else {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			if err := ValidateIdentifier(c); err != nil {
				return "", nil, err
			}
			quoted[i] = s.dialect.QuoteIdent(c)
		}
		projection = strings.Join(quoted, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", projection, s.dialect.QuoteIdent(table))

	var args []any
	if where != nil && len(where.Conditions) > 0 {
		clauses := make([]string, len(where.Conditions))
		for i, cond := range where.Conditions {
			if err := ValidateIdentifier(cond.Column); err != nil {
				return "", nil, err
			}
			if !allowedOperators[cond.Operator] {
				return "", nil, fmt.Errorf("%w: %q", ErrInvalidOperator, cond.Operator)
			}
			args = append(args, cond.Value)
			clauses[i] = fmt.Sprintf("%s %s %s", s.dialect.QuoteIdent(cond.Column), cond.Operator, s.dialect.Placeholder(len(args)))
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(clauses, " AND "))
	}
	return b.String(), args, nil
}

// BuildInsert renders an INSERT statement for one row.
func (s *TableStore) BuildInsert(table string, columns []string, values []any) (string, error) {
	if err := ValidateIdentifier(table); err != nil {
		return "", err
	}
	if len(columns) == 0 || len(columns) != len(values) {
		return "", fmt.Errorf("%w: %d columns, %d values", ErrColumnValueMismatch, len(columns), len(values))
	}
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		if err := ValidateIdentifier(c); err != nil {
			return "", err
		}
		quoted[i] = s.dialect.QuoteIdent(c)
		marks[i] = s.dialect.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.dialect.QuoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", ")), nil
}

// Select returns every row of table matching where, with columns as listed (or "*").
func (s *TableStore) Select(ctx context.Context, columns []string, table string, where *Where) (*Table, error) {
	query, args, err := s.BuildSelect(columns, table, where)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Table{}
	err = s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("error querying %s: %w", table, err)
		}
		defer rows.Close()
		return scanTable(rows, result)
	})
	metrics.ObserveQuery("select", table, start, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Insert writes one row into table.
func (s *TableStore) Insert(ctx context.Context, table string, columns []string, values []any) error {
	query, err := s.BuildInsert(table, columns, values)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.withConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, query, values...); err != nil {
			return fmt.Errorf("error inserting into %s: %w", table, err)
		}
		return nil
	})
	metrics.ObserveQuery("insert", table, start, err)
	return err
}

// Exec runs a statement that returns no rows, such as schema DDL.
func (s *TableStore) Exec(ctx context.Context, statement string) error {
	start := time.Now()
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, statement)
		return err
	})
	metrics.ObserveQuery("exec", "", start, err)
	if err != nil {
		return fmt.Errorf("error executing statement: %w", err)
	}
	return nil
}

// Ping checks that a connection can be acquired and used.
func (s *TableStore) Ping(ctx context.Context) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		return conn.PingContext(ctx)
	})
}

// Helper to scan all rows into a Table
func scanTable(rows *sql.Rows, t *Table) error {
	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("error reading column names: %w", err)
	}
	t.Columns = columns
	t.Rows = make([][]any, 0)

	for rows.Next() {
		cells := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		for i, cell := range cells {
			// MySQL's text protocol hands back raw bytes.
			if b, ok := cell.([]byte); ok {
				cells[i] = string(b)
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}
	return nil
}
