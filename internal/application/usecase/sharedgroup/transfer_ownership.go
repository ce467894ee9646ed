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

// TransferOwnershipInput represents the input for transferring group ownership.
type TransferOwnershipInput struct {
	GroupID        uuid.UUID
	CurrentOwnerID uuid.UUID
	NewOwnerID     uuid.UUID
}

// TransferOwnershipOutput represents the output of an ownership transfer.
type TransferOwnershipOutput struct {
	Group *entity.SharedGroup
}

// TransferOwnershipUseCase hands the group to another member. Only owner_id
// and updated_at are written; the sharing-toggle cooldown state is preserved
// exactly, so a transfer can never reset or bypass the rate limit.
type TransferOwnershipUseCase struct {
	groupRepo adapter.GroupRepository
}

// NewTransferOwnershipUseCase creates a new TransferOwnershipUseCase instance.
func NewTransferOwnershipUseCase(groupRepo adapter.GroupRepository) *TransferOwnershipUseCase {
	return &TransferOwnershipUseCase{
		groupRepo: groupRepo,
	}
}

// Execute performs the ownership transfer. The ownership and target
// membership checks run inside the group transaction, so two simultaneous
// transfers by the same owner resolve to exactly one winner; the loser
// observes the new owner and fails with NotOwner, or surfaces
// ErrTransactionConflict when the store aborts its transaction.
func (uc *TransferOwnershipUseCase) Execute(ctx context.Context, input TransferOwnershipInput) (*TransferOwnershipOutput, error) {
	if input.GroupID == uuid.Nil || input.CurrentOwnerID == uuid.Nil || input.NewOwnerID == uuid.Nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeEmptyParameter,
			"group id, current owner id and new owner id are required",
			domainerror.ErrEmptyParameter,
		)
	}

	var out TransferOwnershipOutput
	err := uc.groupRepo.Mutate(ctx, input.GroupID, func(ctx context.Context, tx adapter.GroupMutation) error {
		group := tx.Group()
		if group.OwnerID != input.CurrentOwnerID {
			return domainerror.NewGroupError(
				domainerror.ErrCodeNotOwner,
				"only the current owner can transfer ownership",
				domainerror.ErrNotOwner,
			)
		}

		isMember, err := tx.IsMember(ctx, input.NewOwnerID)
		if err != nil {
			return fmt.Errorf("failed to check target membership: %w", err)
		}
		if !isMember {
			return domainerror.NewGroupError(
				domainerror.ErrCodeTargetNotAMember,
				"new owner must be a member of the group",
				domainerror.ErrTargetNotAMember,
			)
		}

		// Self-transfer is accepted as a no-op once the owner's membership
		// has been confirmed.
		if input.NewOwnerID == input.CurrentOwnerID {
			out.Group = group
			return nil
		}

		now := time.Now().UTC()
		if err := tx.SetOwner(ctx, input.NewOwnerID, now); err != nil {
			return fmt.Errorf("failed to set owner: %w", err)
		}

		activity := entity.NewGroupActivity(input.GroupID, input.CurrentOwnerID, "ownership_transferred", input.NewOwnerID.String())
		if err := tx.AppendActivity(ctx, activity); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}

		group.OwnerID = input.NewOwnerID
		group.UpdatedAt = now
		out.Group = group
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}
