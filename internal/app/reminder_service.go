// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"evaluation_reminder_service/internal/domain/assignment"
	"evaluation_reminder_service/internal/domain/employer"
	"evaluation_reminder_service/internal/domain/evaluation"
	"evaluation_reminder_service/internal/domain/notify"
	idb "evaluation_reminder_service/internal/infra/database"
	"evaluation_reminder_service/internal/infra/telemetry"

	"github.com/sirupsen/logrus"
)

// SummaryStats aggregates the outcome of one scan. In a dry run Created
// and Sent count records that would have been created or sent.
type SummaryStats struct {
	Created int
	Sent    int
	Skipped int
	Errors  int
}

// ReminderRunner is the scan entry point consumed by the cron driver
// and the manual scan command.
type ReminderRunner interface {
	Run(ctx context.Context, today time.Time, dryRun, force bool) (SummaryStats, error)
}

// ReminderService orchestrates the bimonthly evaluation scan: it walks
// the active assignments, lazily creates the tracking record for the
// current period, applies the escalation policy and delivers reminders
// through the notification gateway. All mutation of reminder records
// during a scan happens here.
type ReminderService struct {
	assignments assignment.Source
	employers   employer.Directory
	records     evaluation.Repository
	gateway     notify.Gateway
	metrics     *telemetry.Metrics
	logger      *logrus.Logger
	linkBase    string
	now         func() time.Time
}

func NewReminderService(
	as assignment.Source,
	dir employer.Directory,
	records evaluation.Repository,
	gateway notify.Gateway,
	metrics *telemetry.Metrics,
	logger *logrus.Logger,
	linkBase string,
) *ReminderService {
	return &ReminderService{
		assignments: as,
		employers:   dir,
		records:     records,
		gateway:     gateway,
		metrics:     metrics,
		logger:      logger,
		linkBase:    linkBase,
		now:         time.Now,
	}
}

// Run executes one scan for the period enclosing today. A failure on
// one assignment is counted and logged but never aborts the rest of the
// scan; only the assignment listing itself is fatal.
func (s *ReminderService) Run(ctx context.Context, today time.Time, dryRun, force bool) (SummaryStats, error) {
	stats := SummaryStats{}
	period := evaluation.PeriodFor(today)
	s.logger.Infof("Starting evaluation reminder scan: period %s..%s, dryRun=%t, force=%t",
		period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"), dryRun, force)

	assignments, err := s.assignments.ListActive(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to list active assignments: %w", err)
	}

	for _, a := range assignments {
		if err := s.processAssignment(ctx, a, period, today, dryRun, force, &stats); err != nil {
			s.logger.Errorf("Assignment %d (candidate %d, job %d): %v", a.ID, a.CandidateID, a.JobID, err)
			s.metrics.AddScanError()
			stats.Errors++
		}
	}

	s.metrics.AddScanCompleted()
	s.logger.Infof("Evaluation reminder scan finished: created=%d sent=%d skipped=%d errors=%d",
		stats.Created, stats.Sent, stats.Skipped, stats.Errors)
	return stats, nil
}

func (s *ReminderService) processAssignment(ctx context.Context, a *assignment.Assignment, period evaluation.Period, today time.Time, dryRun, force bool, stats *SummaryStats) error {
	if !a.IsActive() {
		stats.Skipped++
		return nil
	}

	emp, err := s.lookupEmployer(ctx, a)
	if err != nil {
		return err
	}
	if emp == nil {
		stats.Skipped++
		return nil
	}

	current, created, err := s.obtainRecord(ctx, emp.ID, a, period, dryRun)
	if err != nil {
		return err
	}
	if created {
		stats.Created++
	}
	if current.CommentProvided {
		stats.Skipped++
	}

	// The sweep covers the current period's record plus any still-open
	// record from earlier periods, so an overdue obligation keeps
	// receiving its daily past-due reminder until addressed.
	records := []*evaluation.Record{current}
	open, err := s.records.ListOpen(ctx, emp.ID, a.CandidateID, a.JobID)
	if err != nil {
		return fmt.Errorf("failed to list open reminder records: %w", err)
	}
	for _, o := range open {
		if !o.PeriodStart.Equal(current.PeriodStart) {
			records = append(records, o)
		}
	}

	for _, rec := range records {
		if rec.CommentProvided || !rec.DueForReminder(today, force) {
			continue
		}
		if err := s.sendReminder(ctx, a, emp, rec, today, dryRun); err != nil {
			return err
		}
		stats.Sent++
	}
	return nil
}

func (s *ReminderService) sendReminder(ctx context.Context, a *assignment.Assignment, emp *employer.Employer, rec *evaluation.Record, today time.Time, dryRun bool) error {
	message, severity := s.composeReminder(a, rec, today)
	link := fmt.Sprintf("%s/candidates/%d/evaluations", s.linkBase, a.CandidateID)

	if dryRun {
		s.logger.Infof("[dry-run] Would send %s reminder to employer %d for candidate %q, job %q", severity, emp.ID, a.CandidateFullName(), a.JobName)
		return nil
	}

	// Delivery first, bookkeeping after: a transient gateway outage
	// leaves the record untouched and the reminder is retried next run.
	if err := s.gateway.Notify(ctx, emp.TelegramID, message, link, severity); err != nil {
		return fmt.Errorf("delivery failed for employer %d: %w", emp.ID, err)
	}

	rec.RecordSend(s.now())
	if err := s.records.SaveDeliveryState(ctx, rec); err != nil {
		if err == idb.ErrReminderAlreadyCompleted {
			// A completion landed while the reminder was in flight. The
			// record stays closed and the bookkeeping write is dropped.
			s.logger.Infof("Record %d was completed mid-delivery, leaving it closed", rec.ID)
			return nil
		}
		return fmt.Errorf("failed to persist reminder bookkeeping for record %d: %w", rec.ID, err)
	}

	s.metrics.AddReminderSent(string(severity))
	s.logger.Infof("Sent %s reminder #%d to employer %d for candidate %q, job %q (period ends %s)",
		severity, rec.ReminderCount, emp.ID, a.CandidateFullName(), a.JobName, rec.PeriodEnd.Format("2006-01-02"))
	return nil
}

// lookupEmployer resolves the employer for the assignment's company.
// No employer is a warning, not an error; more than one picks the
// lowest id deterministically.
func (s *ReminderService) lookupEmployer(ctx context.Context, a *assignment.Assignment) (*employer.Employer, error) {
	employers, err := s.employers.ListByCompany(ctx, a.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve employer for company %d: %w", a.CompanyID, err)
	}
	if len(employers) == 0 {
		s.logger.Warnf("No employer registered for company %d (%s); skipping assignment %d", a.CompanyID, a.CompanyName, a.ID)
		return nil, nil
	}
	if len(employers) > 1 {
		s.logger.Warnf("Company %d (%s) maps to %d employers; using employer %d", a.CompanyID, a.CompanyName, len(employers), employers[0].ID)
	}
	return employers[0], nil
}

// obtainRecord fetches or creates the tracking record. A dry run never
// writes: a missing record is evaluated as a fresh in-memory one and
// reported as "would create".
func (s *ReminderService) obtainRecord(ctx context.Context, employerID int64, a *assignment.Assignment, period evaluation.Period, dryRun bool) (*evaluation.Record, bool, error) {
	if dryRun {
		rec, err := s.records.Get(ctx, employerID, a.CandidateID, a.JobID, period.Start)
		if err == idb.ErrReminderRecordNotFound {
			return &evaluation.Record{
				EmployerID:  employerID,
				CandidateID: a.CandidateID,
				JobID:       a.JobID,
				PeriodStart: period.Start,
				PeriodEnd:   period.End,
			}, true, nil
		}
		if err != nil {
			return nil, false, err
		}
		return rec, false, nil
	}

	rec, created, err := s.records.GetOrCreate(ctx, employerID, a.CandidateID, a.JobID, period.Start, period.End)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get or create reminder record: %w", err)
	}
	if created {
		s.metrics.AddRecordCreated()
	}
	return rec, created, nil
}

// composeReminder builds the message text and severity for the
// record's current urgency: past due and final days are warnings, the
// routine reminder is informational.
func (s *ReminderService) composeReminder(a *assignment.Assignment, rec *evaluation.Record, today time.Time) (string, notify.Severity) {
	name := a.CandidateFullName()
	endDate := rec.PeriodEnd.Format("January 2, 2006")

	if rec.IsOverdue(today) {
		return fmt.Sprintf("The evaluation comment for %s (%s) is past due: the period ended on %s. Please submit it as soon as possible.",
			name, a.JobName, endDate), notify.SeverityWarning
	}

	day := evaluation.DateOf(today)
	if remaining := int(rec.PeriodEnd.Sub(day).Hours() / 24); remaining >= 0 && remaining <= evaluation.FinalWindowDays {
		return fmt.Sprintf("Urgent: the evaluation comment for %s (%s) is due by %s. Only a few days remain in this period.",
			name, a.JobName, endDate), notify.SeverityWarning
	}

	return fmt.Sprintf("Reminder: please provide your bimonthly evaluation comment for %s (%s) before the period ends on %s.",
		name, a.JobName, endDate), notify.SeverityInfo
}
