package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"evaluation_reminder_service/internal/app"
	"evaluation_reminder_service/internal/infra/config"
	idb "evaluation_reminder_service/internal/infra/database"
	"evaluation_reminder_service/internal/infra/logger"
	"evaluation_reminder_service/internal/infra/telegram"
	"evaluation_reminder_service/internal/infra/telemetry"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/telebot.v3"
)

func main() {
	root := &cobra.Command{
		Use:           "reminderd",
		Short:         "Bimonthly evaluation reminder service",
		Long:          "Tracks required employer evaluation comments per (employer, candidate, job) and bimonthly period, and drives escalating reminder notifications until the comment is provided.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCommand(), scanCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// runtime bundles the wired collaborators shared by the serve and scan
// commands.
type runtime struct {
	cfg         *config.AppConfig
	log         *logrus.Logger
	db          *sql.DB
	bot         *telebot.Bot
	metrics     *telemetry.Metrics
	reminders   *app.ReminderService
	completions *app.CompletionService
}

func buildRuntime(withMetrics bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("could not load application configuration: %w", err)
	}
	logger.Init(cfg)
	log := logger.Get()

	var metrics *telemetry.Metrics
	if withMetrics {
		metrics, err = telemetry.NewMetrics()
		if err != nil {
			return nil, fmt.Errorf("could not register metrics: %w", err)
		}
	}

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	log.Info("Database connection established.")

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			log.Errorf("telebot: %v", err)
		},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create Telegram bot: %w", err)
	}

	reminderRepo := idb.NewPostgresReminderRepository(db)
	assignmentRepo := idb.NewPostgresAssignmentRepository(db)
	employerRepo := idb.NewPostgresEmployerRepository(db)
	gateway := telegram.NewTelebotGateway(bot)

	rt := &runtime{
		cfg:     cfg,
		log:     log,
		db:      db,
		bot:     bot,
		metrics: metrics,
		reminders: app.NewReminderService(
			assignmentRepo, employerRepo, reminderRepo, gateway, metrics, log, cfg.NotifyLinkBase,
		),
		completions: app.NewCompletionService(
			employerRepo, reminderRepo, gateway, metrics, log, cfg.NotifyLinkBase,
		),
	}
	return rt, nil
}

func (rt *runtime) close() {
	rt.db.Close()
}
