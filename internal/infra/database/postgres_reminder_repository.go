// internal/infra/database/postgres_reminder_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"evaluation_reminder_service/internal/domain/evaluation"
)

// Custom errors specific to the reminder repository
var (
	ErrReminderRecordNotFound   = fmt.Errorf("evaluation reminder record not found")
	ErrReminderAlreadyCompleted = fmt.Errorf("evaluation reminder record already completed")
)

type PostgresReminderRepository struct {
	db *sql.DB
}

func NewPostgresReminderRepository(db *sql.DB) *PostgresReminderRepository {
	return &PostgresReminderRepository{db: db}
}

const reminderColumns = `id, employer_id, candidate_id, job_id, period_start, period_end,
notification_sent, notification_sent_at, comment_provided, comment_provided_at,
reminder_count, last_reminder_sent, created_at, updated_at`

func scanReminderRecord(row *sql.Row) (*evaluation.Record, error) {
	rec := evaluation.Record{}
	err := row.Scan(
		&rec.ID, &rec.EmployerID, &rec.CandidateID, &rec.JobID, &rec.PeriodStart, &rec.PeriodEnd,
		&rec.NotificationSent, &rec.NotificationSentAt, &rec.CommentProvided, &rec.CommentProvidedAt,
		&rec.ReminderCount, &rec.LastReminderSent, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetOrCreate inserts the record for the natural key or fetches the
// existing one. The insert races through the unique constraint
// evaluation_reminder_natural_key: ON CONFLICT DO NOTHING guarantees
// at-most-one-insert under concurrent scheduler runs, and the fallback
// select picks up the row the winner created.
func (r *PostgresReminderRepository) GetOrCreate(ctx context.Context, employerID, candidateID, jobID int64, periodStart, periodEnd time.Time) (*evaluation.Record, bool, error) {
	insert := `INSERT INTO evaluation_reminders (employer_id, candidate_id, job_id, period_start, period_end)
               VALUES ($1, $2, $3, $4, $5)
               ON CONFLICT ON CONSTRAINT evaluation_reminder_natural_key DO NOTHING
               RETURNING ` + reminderColumns

	rec, err := scanReminderRecord(r.db.QueryRowContext(ctx, insert, employerID, candidateID, jobID, periodStart, periodEnd))
	if err == nil {
		return rec, true, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("error inserting evaluation reminder record: %w", err)
	}

	// Conflict: the row already exists, fetch it.
	rec, err = r.Get(ctx, employerID, candidateID, jobID, periodStart)
	if err != nil {
		return nil, false, err
	}
	return rec, false, nil
}

func (r *PostgresReminderRepository) Get(ctx context.Context, employerID, candidateID, jobID int64, periodStart time.Time) (*evaluation.Record, error) {
	query := `SELECT ` + reminderColumns + `
               FROM evaluation_reminders
               WHERE employer_id = $1 AND candidate_id = $2 AND job_id = $3 AND period_start = $4`
	rec, err := scanReminderRecord(r.db.QueryRowContext(ctx, query, employerID, candidateID, jobID, periodStart))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReminderRecordNotFound
		}
		return nil, fmt.Errorf("error getting evaluation reminder record: %w", err)
	}
	return rec, nil
}

func (r *PostgresReminderRepository) FindOpen(ctx context.Context, employerID, candidateID, jobID int64, periodStart time.Time) (*evaluation.Record, error) {
	query := `SELECT ` + reminderColumns + `
               FROM evaluation_reminders
               WHERE employer_id = $1 AND candidate_id = $2 AND job_id = $3 AND period_start = $4
                 AND comment_provided = FALSE`
	rec, err := scanReminderRecord(r.db.QueryRowContext(ctx, query, employerID, candidateID, jobID, periodStart))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReminderRecordNotFound
		}
		return nil, fmt.Errorf("error finding open evaluation reminder record: %w", err)
	}
	return rec, nil
}

func (r *PostgresReminderRepository) ListOpen(ctx context.Context, employerID, candidateID, jobID int64) ([]*evaluation.Record, error) {
	query := `SELECT ` + reminderColumns + `
               FROM evaluation_reminders
               WHERE employer_id = $1 AND candidate_id = $2 AND job_id = $3
                 AND comment_provided = FALSE
               ORDER BY period_start`
	rows, err := r.db.QueryContext(ctx, query, employerID, candidateID, jobID)
	if err != nil {
		return nil, fmt.Errorf("error listing open evaluation reminder records: %w", err)
	}
	defer rows.Close()

	records := make([]*evaluation.Record, 0)
	for rows.Next() {
		rec := evaluation.Record{}
		if err := rows.Scan(
			&rec.ID, &rec.EmployerID, &rec.CandidateID, &rec.JobID, &rec.PeriodStart, &rec.PeriodEnd,
			&rec.NotificationSent, &rec.NotificationSentAt, &rec.CommentProvided, &rec.CommentProvidedAt,
			&rec.ReminderCount, &rec.LastReminderSent, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning open evaluation reminder record: %w", err)
		}
		records = append(records, &rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating open evaluation reminder records: %w", err)
	}
	return records, nil
}

// SaveDeliveryState touches only the delivery bookkeeping columns and
// only while the record is still open. A completion that landed after
// the caller loaded the record makes the guard match zero rows, which
// surfaces as ErrReminderAlreadyCompleted instead of reopening the
// record with stale completion fields.
func (r *PostgresReminderRepository) SaveDeliveryState(ctx context.Context, rec *evaluation.Record) error {
	query := `UPDATE evaluation_reminders
               SET notification_sent = $1, notification_sent_at = $2,
                   reminder_count = $3, last_reminder_sent = $4,
                   updated_at = NOW()
               WHERE id = $5 AND comment_provided = FALSE
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		rec.NotificationSent, rec.NotificationSentAt,
		rec.ReminderCount, rec.LastReminderSent,
		rec.ID,
	).Scan(&rec.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrReminderAlreadyCompleted
		}
		return fmt.Errorf("error updating evaluation reminder delivery state: %w", err)
	}
	return nil
}

// SaveCompletion touches only the completion columns. The open guard
// makes closing a record take effect exactly once under concurrent
// completion events.
func (r *PostgresReminderRepository) SaveCompletion(ctx context.Context, rec *evaluation.Record) error {
	query := `UPDATE evaluation_reminders
               SET comment_provided = $1, comment_provided_at = $2,
                   updated_at = NOW()
               WHERE id = $3 AND comment_provided = FALSE
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		rec.CommentProvided, rec.CommentProvidedAt,
		rec.ID,
	).Scan(&rec.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrReminderAlreadyCompleted
		}
		return fmt.Errorf("error updating evaluation reminder completion: %w", err)
	}
	return nil
}
