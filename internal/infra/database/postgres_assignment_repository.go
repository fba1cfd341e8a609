package database

import (
	"context"
	"database/sql"
	"fmt"

	"evaluation_reminder_service/internal/domain/assignment"
)

// PostgresAssignmentRepository reads active assignments from the tables
// owned by the case-management application. This service never writes
// to them.
type PostgresAssignmentRepository struct {
	db *sql.DB
}

func NewPostgresAssignmentRepository(db *sql.DB) *PostgresAssignmentRepository {
	return &PostgresAssignmentRepository{db: db}
}

func (r *PostgresAssignmentRepository) ListActive(ctx context.Context) ([]*assignment.Assignment, error) {
	query := `SELECT a.id, a.candidate_id, c.first_name, c.last_name,
                      a.job_id, j.name, j.company_id, co.name, a.end_date
               FROM assignments a
               JOIN candidates c ON c.id = a.candidate_id
               JOIN jobs j ON j.id = a.job_id
               JOIN companies co ON co.id = j.company_id
               WHERE a.end_date IS NULL
               ORDER BY a.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]*assignment.Assignment, 0)
	for rows.Next() {
		a := &assignment.Assignment{}
		if err := rows.Scan(
			&a.ID, &a.CandidateID, &a.CandidateFirstName, &a.CandidateLastName,
			&a.JobID, &a.JobName, &a.CompanyID, &a.CompanyName, &a.EndDate,
		); err != nil {
			return nil, fmt.Errorf("error scanning active assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active assignments: %w", err)
	}
	return assignments, nil
}
