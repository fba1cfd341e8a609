// internal/app/completion_service.go
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

// CompletionService closes the reminder loop: when the employer of an
// assignment's company submits the required evaluation comment, the
// open reminder record for the current period is marked complete and a
// confirmation is sent. Comments from anyone else, and duplicate
// events, are no-ops.
type CompletionService struct {
	employers employer.Directory
	records   evaluation.Repository
	gateway   notify.Gateway
	metrics   *telemetry.Metrics
	logger    *logrus.Logger
	linkBase  string
	now       func() time.Time
}

func NewCompletionService(
	dir employer.Directory,
	records evaluation.Repository,
	gateway notify.Gateway,
	metrics *telemetry.Metrics,
	logger *logrus.Logger,
	linkBase string,
) *CompletionService {
	return &CompletionService{
		employers: dir,
		records:   records,
		gateway:   gateway,
		metrics:   metrics,
		logger:    logger,
		linkBase:  linkBase,
		now:       time.Now,
	}
}

// OnQualifyingCommentCreated handles a comment-created event from the
// case-management system. The event qualifies only if its author is the
// employer registered for the assignment's company.
func (s *CompletionService) OnQualifyingCommentCreated(ctx context.Context, a *assignment.Assignment, authorUserID int64) error {
	employers, err := s.employers.ListByCompany(ctx, a.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to resolve employer for company %d: %w", a.CompanyID, err)
	}
	if len(employers) == 0 {
		s.logger.Debugf("Comment on assignment %d ignored: no employer for company %d", a.ID, a.CompanyID)
		return nil
	}
	if len(employers) > 1 {
		s.logger.Warnf("Company %d maps to %d employers; using employer %d", a.CompanyID, len(employers), employers[0].ID)
	}
	emp := employers[0]

	if emp.UserID != authorUserID {
		s.logger.Debugf("Comment on assignment %d by user %d ignored: not the employer (user %d)", a.ID, authorUserID, emp.UserID)
		return nil
	}

	now := s.now()
	period := evaluation.PeriodFor(now)

	rec, err := s.records.FindOpen(ctx, emp.ID, a.CandidateID, a.JobID, period.Start)
	if err != nil {
		if err == idb.ErrReminderRecordNotFound {
			// Already completed this period, or never tracked. Duplicate
			// events land here and must stay silent.
			s.logger.Debugf("No open reminder record for employer %d, candidate %d, job %d in period starting %s",
				emp.ID, a.CandidateID, a.JobID, period.Start.Format("2006-01-02"))
			return nil
		}
		return fmt.Errorf("failed to find open reminder record: %w", err)
	}

	rec.MarkCompleted(now)
	if err := s.records.SaveCompletion(ctx, rec); err != nil {
		if err == idb.ErrReminderAlreadyCompleted {
			// A racing event closed the record first; it already got the
			// confirmation, so this one stays silent.
			s.logger.Debugf("Record %d already completed, skipping duplicate confirmation", rec.ID)
			return nil
		}
		return fmt.Errorf("failed to persist completion for record %d: %w", rec.ID, err)
	}
	s.metrics.AddCompletionRecorded()
	s.logger.Infof("Evaluation comment recorded for candidate %q, job %q by employer %d", a.CandidateFullName(), a.JobName, emp.ID)

	message := fmt.Sprintf("Thank you! Your evaluation comment for %s (%s) has been recorded for the period ending %s.",
		a.CandidateFullName(), a.JobName, rec.PeriodEnd.Format("January 2, 2006"))
	link := fmt.Sprintf("%s/candidates/%d/evaluations", s.linkBase, a.CandidateID)
	if err := s.gateway.Notify(ctx, emp.TelegramID, message, link, notify.SeveritySuccess); err != nil {
		// The completion itself is already durable; a lost confirmation
		// is not worth failing the event for.
		s.logger.Errorf("Failed to send completion confirmation to employer %d: %v", emp.ID, err)
	}
	return nil
}
