// Package sharedgroup contains shared group-related use cases.
package sharedgroup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// RespondInvitationInput represents the input for answering an invitation.
type RespondInvitationInput struct {
	Token  string
	UserID uuid.UUID
	Accept bool
}

// RespondInvitationOutput represents the output of answering an invitation.
type RespondInvitationOutput struct {
	GroupID uuid.UUID
	Status  entity.InvitationStatus
}

// RespondInvitationUseCase performs the terminal status transition of a
// pending invitation. Only the invited identity may answer; an accept adds
// the membership in the same transaction as the status change.
type RespondInvitationUseCase struct {
	groupRepo adapter.GroupRepository
	userRepo  adapter.UserRepository
}

// NewRespondInvitationUseCase creates a new RespondInvitationUseCase instance.
func NewRespondInvitationUseCase(groupRepo adapter.GroupRepository, userRepo adapter.UserRepository) *RespondInvitationUseCase {
	return &RespondInvitationUseCase{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// Execute performs the invitation response.
func (uc *RespondInvitationUseCase) Execute(ctx context.Context, input RespondInvitationInput) (*RespondInvitationOutput, error) {
	if input.Token == "" || input.UserID == uuid.Nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeEmptyParameter,
			"token and user id are required",
			domainerror.ErrEmptyParameter,
		)
	}

	invitation, err := uc.groupRepo.FindInvitationByToken(ctx, input.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}
	if invitation == nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeInvitationNotFound,
			"invitation not found",
			domainerror.ErrInvitationNotFound,
		)
	}

	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !strings.EqualFold(user.Email, invitation.Email) {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeInvitationNotFound,
			"invitation was not issued to this user",
			domainerror.ErrInvitationNotFound,
		)
	}

	status := entity.InvitationStatusDeclined
	if input.Accept {
		status = entity.InvitationStatusAccepted
	}

	err = uc.groupRepo.Mutate(ctx, invitation.GroupID, func(ctx context.Context, tx adapter.GroupMutation) error {
		// Re-read inside the transaction: the status transition is terminal
		// and must not race another answer.
		current, err := tx.FindInvitationByToken(ctx, input.Token)
		if err != nil {
			return fmt.Errorf("failed to re-read invitation: %w", err)
		}
		if current == nil || current.Status != entity.InvitationStatusPending {
			return domainerror.NewGroupError(
				domainerror.ErrCodeInvitationNotPending,
				"invitation is no longer pending",
				domainerror.ErrInvitationNotPending,
			)
		}

		if err := tx.UpdateInvitationStatus(ctx, invitation.ID, status); err != nil {
			return fmt.Errorf("failed to update invitation: %w", err)
		}

		if !input.Accept {
			return nil
		}

		alreadyMember, err := tx.IsMember(ctx, input.UserID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if alreadyMember {
			return domainerror.NewGroupError(
				domainerror.ErrCodeAlreadyMember,
				"user is already a member of this group",
				domainerror.ErrAlreadyMember,
			)
		}

		member := entity.NewGroupMember(invitation.GroupID, input.UserID)
		member.UserName = user.Name
		member.UserEmail = user.Email
		if err := tx.AddMember(ctx, member); err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
		if err := tx.Touch(ctx, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to update group: %w", err)
		}

		activity := entity.NewGroupActivity(invitation.GroupID, input.UserID, "member_joined", "")
		if err := tx.AppendActivity(ctx, activity); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RespondInvitationOutput{
		GroupID: invitation.GroupID,
		Status:  status,
	}, nil
}
