// internal/domain/evaluation/escalation.go
package evaluation

import "time"

const (
	// InitialNoticeDelayDays is how far into the period the first
	// reminder becomes due.
	InitialNoticeDelayDays = 15
	// SteadyCadenceDays is the re-send interval after the first send.
	SteadyCadenceDays = 7
	// FinalWindowDays is how close to the period end the re-send
	// interval tightens to one day.
	FinalWindowDays = 3
)

// DueForReminder evaluates the escalation policy for a record on the
// given day. The conditions are independent: any one of them being true
// makes a reminder due. The re-send floor tightens from seven days to
// one day as the deadline approaches, and drops to one day again once
// the period is overdue. A completed record is never due. force
// overrides only the first-send guard, not the completion guard.
func (r *Record) DueForReminder(today time.Time, force bool) bool {
	if r.CommentProvided {
		return false
	}
	day := DateOf(today)

	noticeDate := r.PeriodStart.AddDate(0, 0, InitialNoticeDelayDays)
	if !day.Before(noticeDate) && (!r.NotificationSent || force) {
		return true
	}

	if r.NotificationSent && r.LastReminderSent.Valid &&
		daysBetween(DateOf(r.LastReminderSent.Time), day) >= SteadyCadenceDays {
		return true
	}

	if remaining := daysBetween(day, r.PeriodEnd); remaining >= 0 && remaining <= FinalWindowDays {
		if r.lastSendAtLeastDaysAgo(day, 1) {
			return true
		}
	}

	if day.After(r.PeriodEnd) && r.lastSendAtLeastDaysAgo(day, 1) {
		return true
	}

	return false
}

func (r *Record) lastSendAtLeastDaysAgo(day time.Time, days int) bool {
	if !r.LastReminderSent.Valid {
		return true
	}
	return daysBetween(DateOf(r.LastReminderSent.Time), day) >= days
}
