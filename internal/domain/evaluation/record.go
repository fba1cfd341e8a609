// internal/domain/evaluation/record.go
package evaluation

import (
	"database/sql"
	"time"
)

// Record tracks one evaluation obligation: one employer must comment on
// one candidate's performance in one job within one bimonthly period.
// Corresponds to the 'evaluation_reminders' table. The natural key is
// (employer_id, candidate_id, job_id, period_start).
type Record struct {
	ID          int64
	EmployerID  int64
	CandidateID int64
	JobID       int64
	PeriodStart time.Time
	PeriodEnd   time.Time // derived from PeriodStart at creation, immutable

	NotificationSent   bool
	NotificationSentAt sql.NullTime
	CommentProvided    bool
	CommentProvidedAt  sql.NullTime
	ReminderCount      int
	LastReminderSent   sql.NullTime

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOverdue reports whether the period has closed without the required
// comment. Derived, never stored.
func (r *Record) IsOverdue(today time.Time) bool {
	return !r.CommentProvided && DateOf(today).After(r.PeriodEnd)
}

// RecordSend applies the bookkeeping for one successful delivery:
// reminder count up by one, last-sent stamped, and the first-send flag
// set once and never reset.
func (r *Record) RecordSend(now time.Time) {
	r.ReminderCount++
	r.LastReminderSent = sql.NullTime{Time: now, Valid: true}
	if !r.NotificationSent {
		r.NotificationSent = true
		r.NotificationSentAt = sql.NullTime{Time: now, Valid: true}
	}
}

// MarkCompleted records that the employer provided the comment. After
// this no further reminders are ever sent for the record.
func (r *Record) MarkCompleted(now time.Time) {
	r.CommentProvided = true
	r.CommentProvidedAt = sql.NullTime{Time: now, Valid: true}
}
