package scheduler

import (
	"context"
	"time"

	"evaluation_reminder_service/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// scanTimeout bounds one full scan over the active-assignment set.
const scanTimeout = 30 * time.Minute

// ReminderCronScheduler drives the daily evaluation reminder scan.
type ReminderCronScheduler struct {
	cronEngine        *cron.Cron
	runner            app.ReminderRunner
	logger            *logrus.Logger
	cronSpecDailyScan string
}

func NewReminderCronScheduler(
	runner app.ReminderRunner,
	logger *logrus.Logger,
	cronSpecDailyScan string, // e.g., "0 9 * * *" (9:00 AM daily)
) *ReminderCronScheduler {
	return &ReminderCronScheduler{
		cronEngine:        cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		runner:            runner,
		logger:            logger,
		cronSpecDailyScan: cronSpecDailyScan,
	}
}

func (s *ReminderCronScheduler) Start() {
	s.logger.Info("Starting reminder cron scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecDailyScan, func() {
		s.logger.Info("Cron job triggered for daily evaluation reminder scan.")
		ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
		defer cancel()

		stats, err := s.runner.Run(ctx, time.Now(), false, false)
		if err != nil {
			s.logger.Errorf("Daily evaluation reminder scan failed: %v", err)
			return
		}
		s.logger.Infof("Daily evaluation reminder scan: created=%d sent=%d skipped=%d errors=%d",
			stats.Created, stats.Sent, stats.Skipped, stats.Errors)
	})
	if err != nil {
		s.logger.Fatalf("Could not add daily scan cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Infof("Reminder cron scheduler started (spec %q).", s.cronSpecDailyScan)
}

func (s *ReminderCronScheduler) Stop() {
	s.logger.Info("Stopping reminder cron scheduler...")
	ctx := s.cronEngine.Stop() // Stops scheduling new runs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Reminder cron scheduler gracefully stopped.")
}
