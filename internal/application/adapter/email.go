// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider.
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// QueueGroupInvitationInput represents the input for queueing a group invitation email.
type QueueGroupInvitationInput struct {
	InviterName string
	GroupName   string
	InviteEmail string
	InviteURL   string
}

// EmailService defines the interface for queueing emails.
type EmailService interface {
	// QueueGroupInvitationEmail queues a group invitation email.
	QueueGroupInvitationEmail(ctx context.Context, input QueueGroupInvitationInput) error
}

// EmailQueueRepository defines the interface for email queue persistence operations.
type EmailQueueRepository interface {
	// Create adds a new email job to the queue.
	Create(ctx context.Context, job *entity.EmailJob) error

	// GetPendingJobs retrieves jobs ready to be processed, ordered by scheduled_at.
	GetPendingJobs(ctx context.Context, limit int) ([]*entity.EmailJob, error)

	// Update saves changes to an email job.
	Update(ctx context.Context, job *entity.EmailJob) error

	// GetByID retrieves a specific job by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.EmailJob, error)
}
