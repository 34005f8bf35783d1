package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *TableStore {
	t.Helper()

	db, err := NewConnection("sqlite", filepath.Join(t.TempDir(), "tcc.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	dialect, err := DialectFor("sqlite")
	if err != nil {
		t.Fatalf("dialect: %v", err)
	}
	return NewTableStore(db, dialect)
}

func mustDialect(t *testing.T, name string) Dialect {
	t.Helper()
	d, err := DialectFor(name)
	if err != nil {
		t.Fatalf("DialectFor(%q): %v", name, err)
	}
	return d
}

func TestDialectFor(t *testing.T) {
	if _, err := DialectFor("oracle"); !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
	}
	pg := mustDialect(t, "postgresql")
	if pg.Placeholder(2) != "$2" || pg.QuoteIdent("nome") != `"nome"` {
		t.Errorf("postgres syntax: %s %s", pg.Placeholder(2), pg.QuoteIdent("nome"))
	}
	my := mustDialect(t, "mysql")
	if my.Placeholder(2) != "?" || my.QuoteIdent("nome") != "`nome`" {
		t.Errorf("mysql syntax: %s %s", my.Placeholder(2), my.QuoteIdent("nome"))
	}
}

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name      string
		dialect   string
		columns   []string
		where     *Where
		wantQuery string
		wantArgs  int
	}{
		{
			name:      "all columns",
			dialect:   "postgres",
			columns:   []string{AllColumns},
			wantQuery: `SELECT * FROM "alunos"`,
		},
		{
			name:      "nil columns select everything",
			dialect:   "mysql",
			wantQuery: "SELECT * FROM `alunos`",
		},
		{
			name:      "postgres where",
			dialect:   "postgres",
			columns:   []string{"nome", "lat"},
			where:     Eq("situacao", "evadido").And("aproveitamento", ">=", 20),
			wantQuery: `SELECT "nome", "lat" FROM "alunos" WHERE "situacao" = $1 AND "aproveitamento" >= $2`,
			wantArgs:  2,
		},
		{
			name:      "mysql where",
			dialect:   "mysql",
			columns:   []string{"nome"},
			where:     Eq("bolsa", "sim"),
			wantQuery: "SELECT `nome` FROM `alunos` WHERE `bolsa` = ?",
			wantArgs:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTableStore(nil, mustDialect(t, tt.dialect))
			query, args, err := s.BuildSelect(tt.columns, "alunos", tt.where)
			if err != nil {
				t.Fatalf("BuildSelect error: %v", err)
			}
			if query != tt.wantQuery {
				t.Errorf("query = %q, want %q", query, tt.wantQuery)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args = %v, want %d", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildSelectRejectsInjection(t *testing.T) {
	s := NewTableStore(nil, mustDialect(t, "postgres"))

	if _, _, err := s.BuildSelect(nil, "alunos; DROP TABLE alunos", nil); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("table: expected ErrInvalidIdentifier, got %v", err)
	}
	if _, _, err := s.BuildSelect([]string{"nome", "1=1 --"}, "alunos", nil); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("column: expected ErrInvalidIdentifier, got %v", err)
	}
	if _, _, err := s.BuildSelect(nil, "alunos", Eq("bolsa OR 1", "sim")); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("where column: expected ErrInvalidIdentifier, got %v", err)
	}
	if _, _, err := s.BuildSelect(nil, "alunos", (&Where{}).And("bolsa", "LIKE", "s%")); !errors.Is(err, ErrInvalidOperator) {
		t.Errorf("operator: expected ErrInvalidOperator, got %v", err)
	}
}

func TestBuildInsert(t *testing.T) {
	s := NewTableStore(nil, mustDialect(t, "postgres"))

	query, err := s.BuildInsert("alunos", []string{"nome", "bolsa"}, []any{"Ana", "sim"})
	if err != nil {
		t.Fatalf("BuildInsert error: %v", err)
	}
	if want := `INSERT INTO "alunos" ("nome", "bolsa") VALUES ($1, $2)`; query != want {
		t.Errorf("query = %q, want %q", query, want)
	}

	if _, err := s.BuildInsert("alunos", []string{"nome"}, []any{"Ana", "sim"}); !errors.Is(err, ErrColumnValueMismatch) {
		t.Errorf("expected ErrColumnValueMismatch, got %v", err)
	}
	if _, err := s.BuildInsert("alunos", nil, nil); !errors.Is(err, ErrColumnValueMismatch) {
		t.Errorf("expected ErrColumnValueMismatch for empty row, got %v", err)
	}
}

func TestSelectAndInsertRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.Exec(ctx, `CREATE TABLE notas (nome TEXT, valor REAL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := store.Insert(ctx, "notas", []string{"nome", "valor"}, []any{"Ana", 80.5}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Insert(ctx, "notas", []string{"nome", "valor"}, []any{"Bruno", nil}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	table, err := store.Select(ctx, []string{AllColumns}, "notas", nil)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("rows = %d, want 2", table.Len())
	}
	if table.ColumnIndex("VALOR") != 1 {
		t.Errorf("ColumnIndex(VALOR) = %d, want 1", table.ColumnIndex("VALOR"))
	}
	if table.Rows[1][1] != nil {
		t.Fatalf("expected NULL cell, got %v", table.Rows[1][1])
	}
	table.FillNA("N/A")
	if table.Rows[1][1] != "N/A" {
		t.Errorf("FillNA cell = %v, want N/A", table.Rows[1][1])
	}

	filtered, err := store.Select(ctx, []string{"nome"}, "notas", Eq("nome", "Ana"))
	if err != nil {
		t.Fatalf("select where: %v", err)
	}
	if filtered.Len() != 1 || filtered.Rows[0][0] != "Ana" {
		t.Errorf("filtered rows = %v", filtered.Rows)
	}
}

func TestSelectUnknownTableFails(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Select(context.Background(), nil, "inexistente", nil); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestSelectHonorsCanceledContext(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Select(ctx, nil, "alunos", nil); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
