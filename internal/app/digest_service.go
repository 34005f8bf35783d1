package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"student_dropout_map/internal/domain/student"
	domainTelegram "student_dropout_map/internal/domain/telegram"
	"student_dropout_map/internal/infra/metrics"
	"student_dropout_map/internal/infra/render"

	"github.com/sirupsen/logrus"
)

// Digest triggers.
const (
	TriggerScheduled = "scheduled"
	TriggerCommand   = "command"
)

// Count is the number of students sharing a value.
type Count struct {
	Value string
	Count int
}

// Summary aggregates the whole students table.
type Summary struct {
	Total         int
	Plotted       int
	ByStatus      []Count
	ByScholarship []Count
	GeneratedAt   time.Time
}

// DigestService builds status summaries and delivers them over Telegram.
type DigestService struct {
	studentRepo    student.Repository
	telegramClient domainTelegram.Client
	chatID         int64
	logger         *logrus.Entry
}

func NewDigestService(sr student.Repository, tc domainTelegram.Client, chatID int64, logger *logrus.Entry) *DigestService {
	return &DigestService{
		studentRepo:    sr,
		telegramClient: tc,
		chatID:         chatID,
		logger:         logger,
	}
}

// Summarize counts students per status and per scholarship over the full table.
func (s *DigestService) Summarize(ctx context.Context) (*Summary, error) {
	records, err := s.studentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}
	return summarize(records, time.Now()), nil
}

func summarize(records []student.Student, now time.Time) *Summary {
	byStatus := make(map[string]int)
	byScholarship := make(map[string]int)
	plotted := 0
	for _, r := range records {
		byStatus[orMissing(r.Status)]++
		byScholarship[orMissing(r.Scholarship)]++
		if r.Plottable() {
			plotted++
		}
	}
	return &Summary{
		Total:         len(records),
		Plotted:       plotted,
		ByStatus:      sortedCounts(byStatus),
		ByScholarship: sortedCounts(byScholarship),
		GeneratedAt:   now,
	}
}

func orMissing(v string) string {
	if strings.TrimSpace(v) == "" {
		return student.MissingValue
	}
	return v
}

// sortedCounts orders by count descending, then value.
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for v, c := range m {
		out = append(out, Count{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// FormatDigest renders a summary as a plain text message.
func FormatDigest(sum *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Resumo da evasão de alunos (%s)\n\n", sum.GeneratedAt.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "Total de alunos: %d\n", sum.Total)
	fmt.Fprintf(&b, "Com localização no mapa: %d\n", sum.Plotted)

	if sum.Total == 0 {
		b.WriteString("\nNenhum aluno cadastrado.")
		return b.String()
	}

	b.WriteString("\nPor situação:\n")
	for _, c := range sum.ByStatus {
		fmt.Fprintf(&b, " - %s: %d\n", c.Value, c.Count)
	}
	b.WriteString("\nPor bolsa:\n")
	for _, c := range sum.ByScholarship {
		fmt.Fprintf(&b, " - %s: %d\n", c.Value, c.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

// statusReportLimit caps the names listed in one status report.
const statusReportLimit = 30

// StatusReport lists the students with the given situation, optionally of one cohort.
func (s *DigestService) StatusReport(ctx context.Context, status string, cohort int) (string, error) {
	records, err := s.studentRepo.ListByStatus(ctx, status, cohort)
	if err != nil {
		return "", fmt.Errorf("failed to load students by status: %w", err)
	}
	return FormatStatusReport(status, cohort, records), nil
}

// FormatStatusReport renders one line per student, up to statusReportLimit.
func FormatStatusReport(status string, cohort int, records []student.Student) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Alunos com situação \"%s\"", status)
	if cohort > 0 {
		fmt.Fprintf(&b, " (ingresso em %d)", cohort)
	}
	fmt.Fprintf(&b, ": %d\n", len(records))

	for i, r := range records {
		if i == statusReportLimit {
			fmt.Fprintf(&b, "... e mais %d\n", len(records)-statusReportLimit)
			break
		}
		fields := r.Fields()
		fmt.Fprintf(&b, " - %s (bolsa: %s, aproveitamento: %s)\n",
			r.Name,
			fields[student.DisplayLabels.Label(student.ColumnScholarship)],
			fields[student.DisplayLabels.Label(student.ColumnPerformance)])
	}
	return strings.TrimRight(b.String(), "\n")
}

// Snapshot writes a PNG of the unfiltered map.
func (s *DigestService) Snapshot(ctx context.Context, w io.Writer) (*render.Figure, error) {
	records, err := s.studentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}
	fig := render.NewFigure(records)
	if err := render.RenderPNG(w, fig); err != nil {
		return nil, err
	}
	metrics.RecordFigure("png", fig.Points())
	return fig, nil
}

// SendDigest delivers the text summary to the configured chat.
func (s *DigestService) SendDigest(ctx context.Context, trigger string) (err error) {
	defer func() { metrics.RecordDigest(trigger, err) }()

	sum, err := s.Summarize(ctx)
	if err != nil {
		return err
	}
	if err = s.telegramClient.SendMessage(s.chatID, FormatDigest(sum)); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"trigger": trigger,
		"chat_id": s.chatID,
		"total":   sum.Total,
	}).Info("Digest sent")
	return nil
}

// SendSnapshot delivers the unfiltered map PNG to chatID.
func (s *DigestService) SendSnapshot(ctx context.Context, chatID int64) error {
	var buf bytes.Buffer
	fig, err := s.Snapshot(ctx, &buf)
	if err != nil {
		return err
	}
	caption := fmt.Sprintf("%s (%d alunos)", render.DefaultTitle, fig.Points())
	if err := s.telegramClient.SendPhoto(chatID, &buf, caption); err != nil {
		return fmt.Errorf("failed to send snapshot: %w", err)
	}
	return nil
}

// ChatID returns the chat receiving scheduled digests.
func (s *DigestService) ChatID() int64 {
	return s.chatID
}
