// internal/domain/assignment/assignment.go
package assignment

import (
	"context"
	"database/sql"
	"strings"
)

// Assignment is one active (candidate, job) pairing as seen by the
// reminder core. Candidate, job and company attributes are denormalized
// here because the reminder messages need them; the case-management
// application owns the underlying tables.
type Assignment struct {
	ID                 int64
	CandidateID        int64
	CandidateFirstName string
	CandidateLastName  sql.NullString
	JobID              int64
	JobName            string
	CompanyID          int64
	CompanyName        string
	EndDate            sql.NullTime
}

// IsActive reports whether the assignment is eligible for evaluation
// tracking: no recorded end date, and both job and company present.
func (a *Assignment) IsActive() bool {
	return !a.EndDate.Valid && a.JobID != 0 && a.CompanyID != 0
}

// CandidateFullName joins the candidate's first and optional last name.
func (a *Assignment) CandidateFullName() string {
	if a.CandidateLastName.Valid {
		return strings.TrimSpace(a.CandidateFirstName + " " + a.CandidateLastName.String)
	}
	return a.CandidateFirstName
}

// Source yields the assignments currently eligible for evaluation.
type Source interface {
	ListActive(ctx context.Context) ([]*Assignment, error)
}
