package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"evaluation_reminder_service/internal/infra/events"
	"evaluation_reminder_service/internal/infra/scheduler"
	"evaluation_reminder_service/internal/infra/telemetry"

	"github.com/spf13/cobra"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reminder daemon (cron scan, comment event consumer, metrics)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	rt, err := buildRuntime(true)
	if err != nil {
		return err
	}
	defer rt.close()
	log := rt.log

	nc, err := events.Connect(rt.cfg.NatsURL)
	if err != nil {
		return fmt.Errorf("could not connect to NATS at %s: %w", rt.cfg.NatsURL, err)
	}
	defer nc.Close()
	log.Info("NATS connection established.")

	consumer := events.NewCommentConsumer(nc, rt.completions, log, rt.cfg.CommentEventSubject)
	if err := consumer.Start(); err != nil {
		return fmt.Errorf("could not subscribe to comment events: %w", err)
	}

	cronScheduler := scheduler.NewReminderCronScheduler(rt.reminders, log, rt.cfg.CronSpecDailyScan)
	cronScheduler.Start()

	mux := http.NewServeMux()
	telemetry.RegisterMetricsHandlers(mux)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := rt.db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	opsServer := &http.Server{Addr: rt.cfg.MetricsListenAddr, Handler: mux}
	go func() {
		log.Infof("Metrics listener on %s", rt.cfg.MetricsListenAddr)
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Metrics listener failed: %v", err)
		}
	}()

	log.Info("Service setup complete. Scheduler and event consumer are running.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	cronScheduler.Stop()
	consumer.Stop()
	opsServer.Close()
	log.Info("Service shut down gracefully.")
	return nil
}
