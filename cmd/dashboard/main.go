package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"student_dropout_map/internal/app"
	"student_dropout_map/internal/infra/config"
	idb "student_dropout_map/internal/infra/database"
	"student_dropout_map/internal/infra/logger"
	"student_dropout_map/internal/infra/scheduler"
	"student_dropout_map/internal/infra/telegram"
	"student_dropout_map/internal/infra/web"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	mainLogger.WithField("driver", cfg.DatabaseDriver).
		WithField("environment", cfg.Environment).
		Info("Student dropout map starting...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database Connection
	db, err := idb.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully")

	dialect, err := idb.DialectFor(cfg.DatabaseDriver)
	if err != nil {
		mainLogger.WithError(err).Fatal("Unsupported database driver")
	}
	store := idb.NewTableStore(db, dialect)
	studentRepo := idb.NewStudentRepository(store)
	if cfg.AutoMigrate {
		if err := studentRepo.EnsureSchema(ctx); err != nil {
			mainLogger.WithError(err).Fatal("Could not apply database schema")
		}
		mainLogger.Info("Database schema ensured")
	}

	dashboardService := app.NewDashboardService(studentRepo, logger.Component("dashboard"))

	// Telegram bot and weekly digest are optional.
	var (
		bot            *telebot.Bot
		digestSchedule *scheduler.DigestScheduler
	)
	if cfg.TelegramEnabled() {
		botLogger := logger.Component("telegram")
		pref := telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) { // Global error handler
				entry := botLogger.WithError(err)
				if c != nil && c.Sender() != nil && c.Chat() != nil {
					entry = entry.WithField("sender_id", c.Sender().ID).WithField("chat_id", c.Chat().ID)
				}
				entry.Error("Telegram handler error")
			},
		}
		bot, err = telebot.NewBot(pref)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create Telegram bot")
		}

		digestService := app.NewDigestService(studentRepo, telegram.NewTelebotAdapter(bot), cfg.TelegramChatID, logger.Component("digest"))
		telegram.RegisterBotCommands(bot, telegram.NewCommandHandlers(ctx, digestService, cfg.TelegramChatID, cfg.PublicURL, botLogger))
		mainLogger.Info("Telegram command handlers registered")

		digestSchedule = scheduler.NewDigestScheduler(digestService, logger.Component("scheduler"), cfg.CronSpecDigest)
		if err := digestSchedule.Start(); err != nil {
			mainLogger.WithError(err).Fatal("Could not start digest scheduler")
		}

		// Start bot in a goroutine so it doesn't block graceful shutdown handling
		go bot.Start()
	} else {
		mainLogger.Info("TELEGRAM_TOKEN not set; bot and digest disabled")
	}

	page, err := web.NewPage(dashboardService, logger.Component("page"))
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not parse dashboard template")
	}
	router := web.NewRouter(
		web.NewHandler(dashboardService, store, logger.Component("api")),
		page,
		web.RouterConfig{
			CORSOrigins:        cfg.CORSOrigins,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
			RequestTimeout:     cfg.RequestTimeout,
		},
		logger.Component("http"),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		mainLogger.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			mainLogger.WithError(err).Error("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done() // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Warn("HTTP server shutdown incomplete")
	}
	if digestSchedule != nil {
		digestSchedule.Stop()
	}
	if bot != nil {
		bot.Stop()
	}
	mainLogger.Info("Application shut down gracefully")
}
