// Package sharedgroup contains shared group-related use cases.
package sharedgroup

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// CancelInvitationInput represents the input for cancelling an invitation.
type CancelInvitationInput struct {
	GroupID      uuid.UUID
	InvitationID uuid.UUID
	UserID       uuid.UUID
}

// CancelInvitationOutput represents the output of cancelling an invitation.
type CancelInvitationOutput struct {
	Success bool
}

// CancelInvitationUseCase removes a pending invitation. Only the group
// owner may cancel.
type CancelInvitationUseCase struct {
	groupRepo adapter.GroupRepository
}

// NewCancelInvitationUseCase creates a new CancelInvitationUseCase instance.
func NewCancelInvitationUseCase(groupRepo adapter.GroupRepository) *CancelInvitationUseCase {
	return &CancelInvitationUseCase{
		groupRepo: groupRepo,
	}
}

// Execute performs the invitation cancellation.
func (uc *CancelInvitationUseCase) Execute(ctx context.Context, input CancelInvitationInput) (*CancelInvitationOutput, error) {
	if input.GroupID == uuid.Nil || input.InvitationID == uuid.Nil || input.UserID == uuid.Nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeEmptyParameter,
			"group id, invitation id and user id are required",
			domainerror.ErrEmptyParameter,
		)
	}

	group, err := uc.groupRepo.FindGroupByID(ctx, input.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeGroupNotFound,
			"group not found",
			domainerror.ErrGroupNotFound,
		)
	}
	if group.OwnerID != input.UserID {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeNotOwner,
			"only the group owner can cancel invitations",
			domainerror.ErrNotOwner,
		)
	}

	if err := uc.groupRepo.DeleteInvitation(ctx, input.InvitationID); err != nil {
		return nil, fmt.Errorf("failed to delete invitation: %w", err)
	}

	return &CancelInvitationOutput{
		Success: true,
	}, nil
}
