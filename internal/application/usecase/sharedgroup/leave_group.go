// Package sharedgroup contains shared group-related use cases.
package sharedgroup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// LeaveGroupInput represents the input for leaving a group.
type LeaveGroupInput struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
}

// LeaveGroupOutput represents the output of leaving a group.
type LeaveGroupOutput struct {
	Success bool
}

// LeaveGroupUseCase handles a member leaving a group. The leaving member's
// tagged transactions keep their group reference; historical attribution is
// preserved.
type LeaveGroupUseCase struct {
	groupRepo adapter.GroupRepository
}

// NewLeaveGroupUseCase creates a new LeaveGroupUseCase instance.
func NewLeaveGroupUseCase(groupRepo adapter.GroupRepository) *LeaveGroupUseCase {
	return &LeaveGroupUseCase{
		groupRepo: groupRepo,
	}
}

// Execute performs the group leave operation. Membership and ownership are
// checked inside the group transaction, immediately before the removal.
func (uc *LeaveGroupUseCase) Execute(ctx context.Context, input LeaveGroupInput) (*LeaveGroupOutput, error) {
	if input.GroupID == uuid.Nil || input.UserID == uuid.Nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeEmptyParameter,
			"group id and user id are required",
			domainerror.ErrEmptyParameter,
		)
	}

	err := uc.groupRepo.Mutate(ctx, input.GroupID, func(ctx context.Context, tx adapter.GroupMutation) error {
		isMember, err := tx.IsMember(ctx, input.UserID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if !isMember {
			return domainerror.NewGroupError(
				domainerror.ErrCodeNotAMember,
				"you are not a member of this group",
				domainerror.ErrNotAMember,
			)
		}

		if tx.Group().OwnerID == input.UserID {
			return domainerror.NewGroupError(
				domainerror.ErrCodeOwnerMustTransferFirst,
				"transfer ownership before leaving the group",
				domainerror.ErrOwnerMustTransferFirst,
			)
		}

		if err := tx.RemoveMember(ctx, input.UserID); err != nil {
			return fmt.Errorf("failed to remove membership: %w", err)
		}

		now := time.Now().UTC()
		if err := tx.Touch(ctx, now); err != nil {
			return fmt.Errorf("failed to update group: %w", err)
		}

		activity := entity.NewGroupActivity(input.GroupID, input.UserID, "member_left", "")
		if err := tx.AppendActivity(ctx, activity); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &LeaveGroupOutput{
		Success: true,
	}, nil
}
