// internal/domain/evaluation/repository.go
package evaluation

import (
	"context"
	"time"
)

// Repository defines persistence for evaluation reminder Records.
type Repository interface {
	// GetOrCreate returns the record for the natural key, inserting it
	// first if absent. Atomic with respect to concurrent callers: two
	// racing calls with the same key yield exactly one stored row. The
	// bool reports whether this call created the record.
	GetOrCreate(ctx context.Context, employerID, candidateID, jobID int64, periodStart, periodEnd time.Time) (*Record, bool, error)

	// Get returns the record for the natural key without creating it.
	// Used by dry runs, which must not write.
	Get(ctx context.Context, employerID, candidateID, jobID int64, periodStart time.Time) (*Record, error)

	// FindOpen returns the record for the natural key only if the
	// comment has not yet been provided.
	FindOpen(ctx context.Context, employerID, candidateID, jobID int64, periodStart time.Time) (*Record, error)

	// ListOpen returns all records for the triple whose comment has not
	// been provided, ordered by ascending period start. Past-period
	// entries in the result are the overdue obligations the scan keeps
	// reminding about.
	ListOpen(ctx context.Context, employerID, candidateID, jobID int64) ([]*Record, error)

	// SaveDeliveryState persists the delivery bookkeeping fields only
	// (notification_sent, notification_sent_at, reminder_count,
	// last_reminder_sent). The write is guarded on the record still
	// being open, so it can never overwrite a completion that landed
	// after the record was loaded; the lost race is reported as
	// already-completed and the record stays closed.
	SaveDeliveryState(ctx context.Context, r *Record) error

	// SaveCompletion persists the completion fields only
	// (comment_provided, comment_provided_at), and only if the record
	// is still open, so racing completions take effect exactly once.
	SaveCompletion(ctx context.Context, r *Record) error
}
