// Package sharedgroup contains shared group-related use cases.
package sharedgroup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// DeleteGroupAsOwnerInput represents the input for the forced owner delete.
type DeleteGroupAsOwnerInput struct {
	GroupID uuid.UUID
	OwnerID uuid.UUID
	AppID   string
}

// DeleteGroupAsOwnerOutput represents the output of the forced owner delete.
type DeleteGroupAsOwnerOutput struct {
	TransactionsUntagged int64
}

// DeleteGroupAsOwnerUseCase force-deletes a group regardless of member
// count. Ownership is verified before any other document is touched, so a
// rejected call leaves every member's transactions untouched. The tagged
// transactions of ALL members are then untagged in independent batches, and
// the group's changelog is removed best-effort.
type DeleteGroupAsOwnerUseCase struct {
	groupRepo       adapter.GroupRepository
	transactionRepo adapter.TransactionRepository
	appIDs          *AppIDValidator
}

// NewDeleteGroupAsOwnerUseCase creates a new DeleteGroupAsOwnerUseCase instance.
func NewDeleteGroupAsOwnerUseCase(
	groupRepo adapter.GroupRepository,
	transactionRepo adapter.TransactionRepository,
	appIDs *AppIDValidator,
) *DeleteGroupAsOwnerUseCase {
	return &DeleteGroupAsOwnerUseCase{
		groupRepo:       groupRepo,
		transactionRepo: transactionRepo,
		appIDs:          appIDs,
	}
}

// Execute performs the forced group deletion.
func (uc *DeleteGroupAsOwnerUseCase) Execute(ctx context.Context, input DeleteGroupAsOwnerInput) (*DeleteGroupAsOwnerOutput, error) {
	if input.GroupID == uuid.Nil || input.OwnerID == uuid.Nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeEmptyParameter,
			"group id and owner id are required",
			domainerror.ErrEmptyParameter,
		)
	}
	if err := uc.appIDs.Validate(input.AppID); err != nil {
		return nil, err
	}

	err := uc.groupRepo.Mutate(ctx, input.GroupID, func(ctx context.Context, tx adapter.GroupMutation) error {
		if tx.Group().OwnerID != input.OwnerID {
			return domainerror.NewGroupError(
				domainerror.ErrCodeNotOwner,
				"only the group owner can delete the group",
				domainerror.ErrNotOwner,
			)
		}

		if err := tx.DeletePendingInvitations(ctx); err != nil {
			return fmt.Errorf("failed to delete invitations: %w", err)
		}
		if err := tx.DeleteGroup(ctx); err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var untagged int64
	for {
		cleared, err := uc.transactionRepo.ClearSharedGroupBatch(ctx, input.GroupID, nil, adapter.ClearBatchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to untag member transactions: %w", err)
		}
		untagged += cleared
		if cleared < adapter.ClearBatchSize {
			break
		}
	}

	// Changelog cleanup is fire-and-forget: the entries reference a group
	// that no longer exists and can be swept later.
	if err := uc.groupRepo.DeleteActivities(ctx, input.GroupID); err != nil {
		slog.Warn("Failed to delete group activity log",
			"group_id", input.GroupID,
			"error", err,
		)
	}

	return &DeleteGroupAsOwnerOutput{
		TransactionsUntagged: untagged,
	}, nil
}
