// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// UpdateTransactionInput represents the input for updating a transaction.
// Nil pointer fields are left unchanged.
type UpdateTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
	Merchant      *string
	Date          *time.Time
	Total         *decimal.Decimal
	Category      *string
	Notes         *string
	SharedGroupID *uuid.UUID
	ClearGroup    bool // untag from the current group
	Items         []CreateTransactionItemInput
	ReplaceItems  bool // replace items with Items, even when empty
}

// UpdateTransactionOutput represents the output of updating a transaction.
type UpdateTransactionOutput struct {
	Transaction *entity.Transaction
}

// UpdateTransactionUseCase edits an existing transaction owned by the user.
type UpdateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	groupRepo       adapter.GroupRepository
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	groupRepo adapter.GroupRepository,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		transactionRepo: transactionRepo,
		groupRepo:       groupRepo,
	}
}

// Execute applies the requested changes. Re-tagging to a different group
// goes through the same membership and sharing checks as creation.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	tx, err := uc.transactionRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if tx == nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNotFound,
			"transaction not found",
			domainerror.ErrTransactionNotFound,
		)
	}
	if tx.UserID != input.UserID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"transaction belongs to another user",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}

	if input.Merchant != nil {
		tx.Merchant = *input.Merchant
	}
	if input.Date != nil {
		tx.Date = *input.Date
	}
	if input.Total != nil {
		tx.Total = *input.Total
	}
	if input.Category != nil {
		tx.Category = *input.Category
	}
	if input.Notes != nil {
		tx.Notes = *input.Notes
	}

	if err := validateTransactionFields(tx.Merchant, tx.Date, tx.Total); err != nil {
		return nil, err
	}

	switch {
	case input.ClearGroup:
		tx.SharedGroupID = nil
	case input.SharedGroupID != nil:
		if err := uc.checkGroupTagging(ctx, *input.SharedGroupID, input.UserID); err != nil {
			return nil, err
		}
		tx.SharedGroupID = input.SharedGroupID
	}

	if input.ReplaceItems {
		items := make([]entity.TransactionItem, 0, len(input.Items))
		for _, item := range input.Items {
			quantity := item.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			items = append(items, entity.TransactionItem{
				ID:            uuid.New(),
				TransactionID: tx.ID,
				Name:          item.Name,
				Price:         item.Price,
				Quantity:      quantity,
				Category:      item.Category,
			})
		}
		tx.Items = items
	}

	tx.UpdatedAt = time.Now().UTC()

	if err := uc.transactionRepo.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return &UpdateTransactionOutput{Transaction: tx}, nil
}

func (uc *UpdateTransactionUseCase) checkGroupTagging(ctx context.Context, groupID, userID uuid.UUID) error {
	group, err := uc.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return domainerror.NewGroupError(
			domainerror.ErrCodeGroupNotFound,
			"group not found",
			domainerror.ErrGroupNotFound,
		)
	}
	if !group.TransactionSharingEnabled {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeSharingDisabled,
			"transaction sharing is disabled for this group",
			domainerror.ErrSharingDisabled,
		)
	}
	isMember, err := uc.groupRepo.IsUserMemberOfGroup(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return domainerror.NewGroupError(
			domainerror.ErrCodeNotAMember,
			"user is not a member of this group",
			domainerror.ErrNotAMember,
		)
	}
	return nil
}
