package database

import (
	"context"
	"database/sql"
	"fmt"

	"evaluation_reminder_service/internal/domain/employer"
)

// Custom errors
var ErrEmployerNotFound = fmt.Errorf("employer not found")

type PostgresEmployerRepository struct {
	db *sql.DB
}

func NewPostgresEmployerRepository(db *sql.DB) *PostgresEmployerRepository {
	return &PostgresEmployerRepository{db: db}
}

// ListByCompany returns the active employers registered for a company,
// ordered by ascending id so that callers resolving the expected 0..1
// mapping pick the same row on every run.
func (r *PostgresEmployerRepository) ListByCompany(ctx context.Context, companyID int64) ([]*employer.Employer, error) {
	query := `SELECT id, user_id, company_id, telegram_id, first_name, last_name, is_active, created_at, updated_at
               FROM employers
               WHERE company_id = $1 AND is_active = TRUE
               ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("error listing employers by company: %w", err)
	}
	defer rows.Close()

	employers := make([]*employer.Employer, 0)
	for rows.Next() {
		e := &employer.Employer{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.CompanyID, &e.TelegramID, &e.FirstName, &e.LastName, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning employer: %w", err)
		}
		employers = append(employers, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employers: %w", err)
	}
	return employers, nil
}
