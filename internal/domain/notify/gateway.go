package notify

import "context"

// Severity classifies a notification for rendering by the gateway.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

// Gateway delivers a message to a recipient. Implementations own the
// transport entirely; the reminder core treats delivery as
// fire-and-forget and only reacts to the returned error.
type Gateway interface {
	Notify(ctx context.Context, recipientID int64, message, link string, severity Severity) error
}
