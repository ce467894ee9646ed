// Package sharedgroup contains shared group-related use cases.
package sharedgroup

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// DeleteGroupAsLastMemberInput represents the input for the last-member delete.
type DeleteGroupAsLastMemberInput struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
	AppID   string
}

// DeleteGroupAsLastMemberOutput represents the output of the last-member delete.
type DeleteGroupAsLastMemberOutput struct {
	TransactionsUntagged int64
}

// DeleteGroupAsLastMemberUseCase deletes a group whose sole remaining member
// is the caller, regardless of whether that member is the owner. The group,
// its memberships and its pending invitations go in one transaction; the
// caller's tagged transactions are untagged afterwards in independent
// batches, which is safe because clearing an already-cleared row is a no-op.
type DeleteGroupAsLastMemberUseCase struct {
	groupRepo       adapter.GroupRepository
	transactionRepo adapter.TransactionRepository
	appIDs          *AppIDValidator
}

// NewDeleteGroupAsLastMemberUseCase creates a new DeleteGroupAsLastMemberUseCase instance.
func NewDeleteGroupAsLastMemberUseCase(
	groupRepo adapter.GroupRepository,
	transactionRepo adapter.TransactionRepository,
	appIDs *AppIDValidator,
) *DeleteGroupAsLastMemberUseCase {
	return &DeleteGroupAsLastMemberUseCase{
		groupRepo:       groupRepo,
		transactionRepo: transactionRepo,
		appIDs:          appIDs,
	}
}

// Execute performs the last-member group deletion.
func (uc *DeleteGroupAsLastMemberUseCase) Execute(ctx context.Context, input DeleteGroupAsLastMemberInput) (*DeleteGroupAsLastMemberOutput, error) {
	if input.GroupID == uuid.Nil || input.UserID == uuid.Nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeEmptyParameter,
			"group id and user id are required",
			domainerror.ErrEmptyParameter,
		)
	}
	if err := uc.appIDs.Validate(input.AppID); err != nil {
		return nil, err
	}

	err := uc.groupRepo.Mutate(ctx, input.GroupID, func(ctx context.Context, tx adapter.GroupMutation) error {
		count, err := tx.CountMembers(ctx)
		if err != nil {
			return fmt.Errorf("failed to count members: %w", err)
		}
		if count > 1 {
			return domainerror.NewGroupError(
				domainerror.ErrCodeMultipleMembersRemain,
				"group still has other members",
				domainerror.ErrMultipleMembersRemain,
			)
		}

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

	untagged, err := uc.untagTransactions(ctx, input.GroupID, input.UserID)
	if err != nil {
		return nil, err
	}

	return &DeleteGroupAsLastMemberOutput{
		TransactionsUntagged: untagged,
	}, nil
}

// untagTransactions clears the group reference from the caller's
// transactions in batches below the store's single-transaction write limit.
func (uc *DeleteGroupAsLastMemberUseCase) untagTransactions(ctx context.Context, groupID, userID uuid.UUID) (int64, error) {
	var total int64
	for {
		cleared, err := uc.transactionRepo.ClearSharedGroupBatch(ctx, groupID, &userID, adapter.ClearBatchSize)
		if err != nil {
			return total, fmt.Errorf("failed to untag transactions: %w", err)
		}
		total += cleared
		if cleared < adapter.ClearBatchSize {
			return total, nil
		}
	}
}
