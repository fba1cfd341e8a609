package employer

import (
	"context"
)

// Directory resolves the employer(s) registered for a company. A
// company is expected to map to at most one employer; callers that hit
// more than one pick the first entry (the listing is ordered by
// ascending id, so the tie-break is deterministic).
type Directory interface {
	ListByCompany(ctx context.Context, companyID int64) ([]*Employer, error)
}
