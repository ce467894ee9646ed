// Package email provides email queueing and delivery functionality.
package email

import (
	"context"
	"fmt"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// invitationExpiry is what the email tells the recipient; actual expiry is
// enforced when the invitation is answered.
const invitationExpiry = "7 days"

// Service handles email queueing operations.
type Service struct {
	queue adapter.EmailQueueRepository
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository) *Service {
	return &Service{
		queue: queue,
	}
}

// QueueGroupInvitationEmail queues a group invitation email.
func (s *Service) QueueGroupInvitationEmail(ctx context.Context, input adapter.QueueGroupInvitationInput) error {
	subject := fmt.Sprintf("%s invited you to %s - Receipt Ledger", input.InviterName, input.GroupName)

	templateData := map[string]interface{}{
		"inviter_name": input.InviterName,
		"group_name":   input.GroupName,
		"invite_url":   input.InviteURL,
		"expires_in":   invitationExpiry,
	}

	job := entity.NewEmailJob(
		entity.TemplateGroupInvitation,
		input.InviteEmail,
		"", // recipient name unknown for invitations
		subject,
		templateData,
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue group invitation email",
			err,
		)
	}

	return nil
}

// Ensure Service implements adapter.EmailService.
var _ adapter.EmailService = (*Service)(nil)
