package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"student_dropout_map/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// DigestProvider is the part of the digest service the bot commands use.
type DigestProvider interface {
	Summarize(ctx context.Context) (*app.Summary, error)
	SendSnapshot(ctx context.Context, chatID int64) error
	StatusReport(ctx context.Context, status string, cohort int) (string, error)
}

const commandTimeout = 30 * time.Second

// CommandHandlers answers bot commands. Only the configured chat may request data.
type CommandHandlers struct {
	ctx     context.Context
	digest  DigestProvider
	chatID  int64
	logger  *logrus.Entry
	baseURL string
}

func NewCommandHandlers(ctx context.Context, digest DigestProvider, chatID int64, dashboardURL string, baseLogger *logrus.Entry) *CommandHandlers {
	return &CommandHandlers{
		ctx:     ctx,
		digest:  digest,
		chatID:  chatID,
		logger:  baseLogger.WithField("handler_group", "commands"),
		baseURL: dashboardURL,
	}
}

// RegisterBotCommands wires /start, /help, /resumo, /situacao and /mapa.
func RegisterBotCommands(b *telebot.Bot, h *CommandHandlers) {
	b.Handle("/start", h.Start)
	b.Handle("/help", h.Help)
	b.Handle("/resumo", h.Summary)
	b.Handle("/situacao", h.Status)
	b.Handle("/mapa", h.Map)
}

func (h *CommandHandlers) commandLogger(c telebot.Context, command string) *logrus.Entry {
	fields := logrus.Fields{"command": command}
	if c.Sender() != nil {
		fields["sender_id"] = c.Sender().ID
	}
	if c.Chat() != nil {
		fields["chat_id"] = c.Chat().ID
	}
	return h.logger.WithFields(fields)
}

func (h *CommandHandlers) authorized(c telebot.Context) bool {
	return c.Chat() != nil && c.Chat().ID == h.chatID
}

func (h *CommandHandlers) Start(c telebot.Context) error {
	logCtx := h.commandLogger(c, "/start")
	logCtx.Info("Processing /start command")

	name := "!"
	if c.Sender() != nil && c.Sender().FirstName != "" {
		name = ", " + c.Sender().FirstName + "!"
	}
	if !h.authorized(c) {
		logCtx.Info("Chat is not authorized")
		return c.Send(fmt.Sprintf("Olá%s Este bot envia o resumo da evasão de alunos apenas para o chat configurado.", name))
	}
	return c.Send(fmt.Sprintf("Olá%s Use /help para ver os comandos disponíveis.", name))
}

func (h *CommandHandlers) Help(c telebot.Context) error {
	logCtx := h.commandLogger(c, "/help")
	logCtx.Info("Processing /help command")

	if !h.authorized(c) {
		return c.Send("Nenhum comando disponível para este chat.")
	}

	var helpText strings.Builder
	helpText.WriteString("Comandos disponíveis:\n\n")
	helpText.WriteString("/resumo - contagem de alunos por situação e por bolsa\n")
	helpText.WriteString("/situacao <situação> [ano] - alunos com a situação informada\n")
	helpText.WriteString("/mapa - imagem do mapa com todos os alunos\n")
	helpText.WriteString("/help - mostra esta mensagem")
	if h.baseURL != "" {
		helpText.WriteString("\n\nPainel completo: " + h.baseURL)
	}
	return c.Send(helpText.String())
}

func (h *CommandHandlers) Summary(c telebot.Context) error {
	logCtx := h.commandLogger(c, "/resumo")
	logCtx.Info("Processing /resumo command")

	if !h.authorized(c) {
		logCtx.Warn("Unauthorized access attempt")
		return c.Send("Erro: este chat não tem permissão para este comando.")
	}

	ctx, cancel := context.WithTimeout(h.ctx, commandTimeout)
	defer cancel()

	sum, err := h.digest.Summarize(ctx)
	if err != nil {
		logCtx.WithError(err).Error("Failed to build summary")
		return c.Send("Ocorreu um erro ao gerar o resumo. Tente novamente mais tarde.")
	}
	logCtx.WithField("total", sum.Total).Info("Summary sent")
	return c.Send(app.FormatDigest(sum))
}

func (h *CommandHandlers) Status(c telebot.Context) error {
	logCtx := h.commandLogger(c, "/situacao")
	logCtx.Info("Processing /situacao command")

	if !h.authorized(c) {
		logCtx.Warn("Unauthorized access attempt")
		return c.Send("Erro: este chat não tem permissão para este comando.")
	}

	// Expected format: /situacao <situação> [ano]; the situation may contain spaces.
	args := c.Args()
	if len(args) == 0 {
		return c.Send("Formato inválido. Use: /situacao <situação> [ano]")
	}
	cohort := 0
	if len(args) > 1 {
		if year, err := strconv.Atoi(args[len(args)-1]); err == nil {
			if year <= 0 {
				return c.Send("Erro: o ano deve ser um número positivo.")
			}
			cohort = year
			args = args[:len(args)-1]
		}
	}
	status := strings.Join(args, " ")
	logCtx = logCtx.WithField("status", status).WithField("cohort", cohort)

	ctx, cancel := context.WithTimeout(h.ctx, commandTimeout)
	defer cancel()

	report, err := h.digest.StatusReport(ctx, status, cohort)
	if err != nil {
		logCtx.WithError(err).Error("Failed to build status report")
		return c.Send("Ocorreu um erro ao consultar os alunos. Tente novamente mais tarde.")
	}
	logCtx.Info("Status report sent")
	return c.Send(report)
}

func (h *CommandHandlers) Map(c telebot.Context) error {
	logCtx := h.commandLogger(c, "/mapa")
	logCtx.Info("Processing /mapa command")

	if !h.authorized(c) {
		logCtx.Warn("Unauthorized access attempt")
		return c.Send("Erro: este chat não tem permissão para este comando.")
	}

	ctx, cancel := context.WithTimeout(h.ctx, commandTimeout)
	defer cancel()

	if err := h.digest.SendSnapshot(ctx, c.Chat().ID); err != nil {
		logCtx.WithError(err).Error("Failed to send map snapshot")
		return c.Send("Ocorreu um erro ao gerar o mapa. Tente novamente mais tarde.")
	}
	return nil
}
