package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"student_dropout_map/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// fakeContext overrides the telebot.Context methods the handlers touch.
type fakeContext struct {
	telebot.Context
	sender *telebot.User
	chat   *telebot.Chat
	args   []string
	sent   []string
}

func (f *fakeContext) Sender() *telebot.User { return f.sender }
func (f *fakeContext) Chat() *telebot.Chat { return f.chat }
func (f *fakeContext) Args() []string { return f.args }

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	f.sent = append(f.sent, what.(string))
	return nil
}

func newContext(chatID int64) *fakeContext {
	return &fakeContext{
		sender: &telebot.User{ID: 1, FirstName: "Maria"},
		chat:   &telebot.Chat{ID: chatID},
	}
}

type fakeDigest struct {
	summary   *app.Summary
	err       error
	snapshots []int64
	reports   []string
}

func (f *fakeDigest) Summarize(ctx context.Context) (*app.Summary, error) {
	return f.summary, f.err
}

func (f *fakeDigest) SendSnapshot(ctx context.Context, chatID int64) error {
	if f.err != nil {
		return f.err
	}
	f.snapshots = append(f.snapshots, chatID)
	return nil
}

func (f *fakeDigest) StatusReport(ctx context.Context, status string, cohort int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	report := fmt.Sprintf("%s/%d", status, cohort)
	f.reports = append(f.reports, report)
	return report, nil
}

func newHandlers(d DigestProvider) *CommandHandlers {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewCommandHandlers(context.Background(), d, 100, "http://localhost:8050", logrus.NewEntry(l))
}

func TestStartGreetsSender(t *testing.T) {
	h := newHandlers(&fakeDigest{})
	c := newContext(100)
	if err := h.Start(c); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(c.sent) != 1 || !strings.Contains(c.sent[0], "Maria") {
		t.Errorf("sent = %v", c.sent)
	}
}

func TestHelpListsCommandsForAuthorizedChat(t *testing.T) {
	h := newHandlers(&fakeDigest{})

	c := newContext(100)
	_ = h.Help(c)
	if !strings.Contains(c.sent[0], "/resumo") || !strings.Contains(c.sent[0], "http://localhost:8050") {
		t.Errorf("help = %q", c.sent[0])
	}

	other := newContext(5)
	_ = h.Help(other)
	if strings.Contains(other.sent[0], "/resumo") {
		t.Errorf("unauthorized help leaked commands: %q", other.sent[0])
	}
}

func TestSummaryCommand(t *testing.T) {
	d := &fakeDigest{summary: &app.Summary{Total: 3, ByStatus: []app.Count{{Value: "evadido", Count: 3}}}}
	h := newHandlers(d)

	c := newContext(100)
	if err := h.Summary(c); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !strings.Contains(c.sent[0], "Total de alunos: 3") {
		t.Errorf("summary = %q", c.sent[0])
	}

	denied := newContext(5)
	_ = h.Summary(denied)
	if !strings.HasPrefix(denied.sent[0], "Erro") {
		t.Errorf("unauthorized summary = %q", denied.sent[0])
	}
}

func TestSummaryCommandReportsFailure(t *testing.T) {
	h := newHandlers(&fakeDigest{err: errors.New("db down")})
	c := newContext(100)
	if err := h.Summary(c); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !strings.Contains(c.sent[0], "erro") {
		t.Errorf("sent = %q", c.sent[0])
	}
}

func TestMapCommandSendsSnapshotToChat(t *testing.T) {
	d := &fakeDigest{}
	h := newHandlers(d)

	c := newContext(100)
	if err := h.Map(c); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(d.snapshots) != 1 || d.snapshots[0] != 100 || len(c.sent) != 0 {
		t.Errorf("snapshots = %v, sent = %v", d.snapshots, c.sent)
	}
}

func TestStatusCommandParsesArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "status only", args: []string{"evadido"}, want: "evadido/0"},
		{name: "status and year", args: []string{"evadido", "2020"}, want: "evadido/2020"},
		{name: "status with spaces", args: []string{"nao", "matriculado", "2021"}, want: "nao matriculado/2021"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDigest{}
			c := newContext(100)
			c.args = tt.args
			if err := newHandlers(d).Status(c); err != nil {
				t.Fatalf("Status: %v", err)
			}
			if len(d.reports) != 1 || d.reports[0] != tt.want || c.sent[0] != tt.want {
				t.Errorf("reports = %v, sent = %v, want %q", d.reports, c.sent, tt.want)
			}
		})
	}
}

func TestStatusCommandRejectsBadInput(t *testing.T) {
	d := &fakeDigest{}
	h := newHandlers(d)

	empty := newContext(100)
	_ = h.Status(empty)
	if !strings.HasPrefix(empty.sent[0], "Formato inválido") {
		t.Errorf("sent = %q", empty.sent[0])
	}

	denied := newContext(5)
	denied.args = []string{"evadido"}
	_ = h.Status(denied)
	if len(d.reports) != 0 || !strings.HasPrefix(denied.sent[0], "Erro") {
		t.Errorf("unauthorized chat got a report: %v", denied.sent)
	}
}
