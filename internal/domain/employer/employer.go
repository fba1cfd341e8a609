package employer

import (
	"database/sql"
	"time"
)

// Employer is a company contact responsible for evaluation comments.
// UserID is the employer's account in the case-management system (used
// for the authorization check on comment events); TelegramID is the
// chat the notification gateway delivers to.
type Employer struct {
	ID         int64
	UserID     int64
	CompanyID  int64
	TelegramID int64
	FirstName  string
	LastName   sql.NullString
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
