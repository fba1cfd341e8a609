// Package events consumes domain events published by the surrounding
// case-management application over NATS.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"evaluation_reminder_service/internal/app"
	"evaluation_reminder_service/internal/domain/assignment"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// queueGroup makes redundant service instances share one subscription
// so each comment event is handled once.
const queueGroup = "evaluation-reminders"

const handleTimeout = 30 * time.Second

// CommentCreatedEvent is the payload the case-management application
// publishes when a comment is created on an assignment.
type CommentCreatedEvent struct {
	CommentID          int64     `json:"comment_id"`
	AssignmentID       int64     `json:"assignment_id"`
	CandidateID        int64     `json:"candidate_id"`
	CandidateFirstName string    `json:"candidate_first_name"`
	CandidateLastName  string    `json:"candidate_last_name,omitempty"`
	JobID              int64     `json:"job_id"`
	JobName            string    `json:"job_name"`
	CompanyID          int64     `json:"company_id"`
	AuthorUserID       int64     `json:"author_user_id"`
	CreatedAt          time.Time `json:"created_at"`
}

// Connect opens a NATS connection suitable for a long-lived consumer.
func Connect(natsURL string) (*nats.Conn, error) {
	return nats.Connect(natsURL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
}

// CommentConsumer subscribes to comment-created events and feeds the
// qualifying ones into the completion service.
type CommentConsumer struct {
	nc          *nats.Conn
	completions *app.CompletionService
	logger      *logrus.Logger
	subject     string
	sub         *nats.Subscription
}

func NewCommentConsumer(nc *nats.Conn, completions *app.CompletionService, logger *logrus.Logger, subject string) *CommentConsumer {
	return &CommentConsumer{
		nc:          nc,
		completions: completions,
		logger:      logger,
		subject:     subject,
	}
}

// Start begins consuming. Handler failures are logged, never
// re-delivered: the scheduler's next scan covers any missed completion
// by simply reminding again, and a later duplicate comment event will
// close the record.
func (c *CommentConsumer) Start() error {
	sub, err := c.nc.QueueSubscribe(c.subject, queueGroup, c.handle)
	if err != nil {
		return err
	}
	c.sub = sub
	c.logger.Infof("Comment event consumer subscribed to %q (queue %q).", c.subject, queueGroup)
	return nil
}

func (c *CommentConsumer) handle(msg *nats.Msg) {
	var event CommentCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		c.logger.Errorf("Discarding malformed comment event on %q: %v", msg.Subject, err)
		return
	}

	a := &assignment.Assignment{
		ID:                 event.AssignmentID,
		CandidateID:        event.CandidateID,
		CandidateFirstName: event.CandidateFirstName,
		JobID:              event.JobID,
		JobName:            event.JobName,
		CompanyID:          event.CompanyID,
	}
	if event.CandidateLastName != "" {
		a.CandidateLastName = sql.NullString{String: event.CandidateLastName, Valid: true}
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if err := c.completions.OnQualifyingCommentCreated(ctx, a, event.AuthorUserID); err != nil {
		c.logger.Errorf("Failed to process comment event %d (assignment %d): %v", event.CommentID, event.AssignmentID, err)
	}
}

// Stop unsubscribes and drains in-flight handlers.
func (c *CommentConsumer) Stop() {
	if c.sub != nil {
		if err := c.sub.Drain(); err != nil {
			c.logger.Errorf("Error draining comment event subscription: %v", err)
		}
	}
}
