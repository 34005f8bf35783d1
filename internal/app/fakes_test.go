package app

import (
	"context"
	"database/sql"
	"errors"
	"io"

	"student_dropout_map/internal/domain/student"

	"github.com/sirupsen/logrus"
)

var errStorage = errors.New("storage unavailable")

type fakeStudentRepo struct {
	records []student.Student
	err     error
	calls   int
}

func (f *fakeStudentRepo) ListAll(ctx context.Context) ([]student.Student, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeStudentRepo) ListByStatus(ctx context.Context, status string, cohort int) ([]student.Student, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []student.Student
	for _, s := range f.records {
		if s.Status != status {
			continue
		}
		if cohort > 0 && (!s.Cohort.Valid || s.Cohort.Int64 != int64(cohort)) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStudentRepo) Create(ctx context.Context, s *student.Student) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *s)
	return nil
}

type sentPhoto struct {
	chatID  int64
	size    int
	caption string
}

type fakeTelegramClient struct {
	messages []string
	photos   []sentPhoto
	err      error
}

func (f *fakeTelegramClient) SendMessage(chatID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeTelegramClient) SendPhoto(chatID int64, photo io.Reader, caption string) error {
	if f.err != nil {
		return f.err
	}
	b, err := io.ReadAll(photo)
	if err != nil {
		return err
	}
	f.photos = append(f.photos, sentPhoto{chatID: chatID, size: len(b), caption: caption})
	return nil
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func fixture(name, status, scholarship string, perf float64, cohort int64) student.Student {
	return student.Student{
		Name:          name,
		Status:        status,
		Scholarship:   scholarship,
		Performance:   sql.NullFloat64{Float64: perf, Valid: true},
		Cohort:        sql.NullInt64{Int64: cohort, Valid: true},
		Employment:    student.EmploymentEmployed,
		MaritalStatus: student.MaritalSingle,
		Description:   "N/A",
		Latitude:      sql.NullFloat64{Float64: -17.85, Valid: true},
		Longitude:     sql.NullFloat64{Float64: -41.5, Valid: true},
	}
}

func fixtures() []student.Student {
	return []student.Student{
		fixture("Ana", "evadido", student.ScholarshipYes, 10, 2019),
		fixture("Bruno", "matriculado", student.ScholarshipNo, 50, 2020),
		fixture("Carla", "evadido", student.ScholarshipNo, 90, 2021),
	}
}
