// Command seed loads students from a JSON file into the alunos table.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"student_dropout_map/internal/domain/student"
	"student_dropout_map/internal/infra/config"
	idb "student_dropout_map/internal/infra/database"
	"student_dropout_map/internal/infra/logger"

	"github.com/goccy/go-json"
)

// seedRecord mirrors one row of the alunos table; absent numbers stay NULL.
type seedRecord struct {
	Name          string   `json:"nome"`
	Status        string   `json:"situacao"`
	Scholarship   string   `json:"bolsa"`
	Performance   *float64 `json:"aproveitamento"`
	Cohort        *int64   `json:"ano"`
	Employment    string   `json:"situacaotrab"`
	MaritalStatus string   `json:"situacaocivil"`
	Description   string   `json:"descricao"`
	Latitude      *float64 `json:"lat"`
	Longitude     *float64 `json:"lon"`
}

func (r seedRecord) toStudent() student.Student {
	s := student.Student{
		Name:          strings.TrimSpace(r.Name),
		Status:        r.Status,
		Scholarship:   r.Scholarship,
		Employment:    r.Employment,
		MaritalStatus: r.MaritalStatus,
		Description:   r.Description,
	}
	if r.Performance != nil {
		s.Performance = sql.NullFloat64{Float64: *r.Performance, Valid: true}
	}
	if r.Cohort != nil {
		s.Cohort = sql.NullInt64{Int64: *r.Cohort, Valid: true}
	}
	if r.Latitude != nil {
		s.Latitude = sql.NullFloat64{Float64: *r.Latitude, Valid: true}
	}
	if r.Longitude != nil {
		s.Longitude = sql.NullFloat64{Float64: *r.Longitude, Valid: true}
	}
	return s
}

func decodeStudents(r io.Reader) ([]student.Student, error) {
	var records []seedRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	students := make([]student.Student, 0, len(records))
	for _, rec := range records {
		students = append(students, rec.toStudent())
	}
	return students, nil
}

func main() {
	file := flag.String("file", "data/alunos.example.json", "JSON array of students to insert")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Component("seed").WithField("file", *file)

	f, err := os.Open(*file)
	if err != nil {
		log.WithError(err).Fatal("Could not open seed file")
	}
	defer f.Close()

	students, err := decodeStudents(f)
	if err != nil {
		log.WithError(err).Fatal("Could not read students")
	}

	db, err := idb.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()

	dialect, err := idb.DialectFor(cfg.DatabaseDriver)
	if err != nil {
		log.WithError(err).Fatal("Unsupported database driver")
	}
	repo := idb.NewStudentRepository(idb.NewTableStore(db, dialect))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := repo.EnsureSchema(ctx); err != nil {
		log.WithError(err).Fatal("Could not apply database schema")
	}

	inserted := 0
	for i := range students {
		if err := repo.Create(ctx, &students[i]); err != nil {
			log.WithError(err).WithField("index", i).Error("Skipping student")
			continue
		}
		inserted++
	}
	log.WithField("inserted", inserted).WithField("total", len(students)).Info("Seed finished")
}
