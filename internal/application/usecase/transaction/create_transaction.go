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

// CreateTransactionItemInput is one line item of a new transaction.
type CreateTransactionItemInput struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	Category *string
}

// CreateTransactionInput represents the input for creating a transaction.
type CreateTransactionInput struct {
	UserID        uuid.UUID
	Merchant      string
	Date          time.Time
	Total         decimal.Decimal
	Category      string
	Notes         string
	ImageURL      string
	SharedGroupID *uuid.UUID
	Items         []CreateTransactionItemInput
}

// CreateTransactionOutput represents the output of creating a transaction.
type CreateTransactionOutput struct {
	Transaction *entity.Transaction
}

// CreateTransactionUseCase stores a new transaction, optionally tagged to a
// shared group the user belongs to.
type CreateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	groupRepo       adapter.GroupRepository
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	groupRepo adapter.GroupRepository,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		transactionRepo: transactionRepo,
		groupRepo:       groupRepo,
	}
}

// Execute validates and persists the transaction. Tagging to a group
// requires membership and the group's transaction sharing to be enabled.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	if err := validateTransactionFields(input.Merchant, input.Date, input.Total); err != nil {
		return nil, err
	}

	if input.SharedGroupID != nil {
		if err := uc.checkGroupTagging(ctx, *input.SharedGroupID, input.UserID); err != nil {
			return nil, err
		}
	}

	category := input.Category
	if category == "" {
		category = entity.CategoryOther
	}

	items := make([]entity.TransactionItem, 0, len(input.Items))
	for _, item := range input.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		items = append(items, entity.TransactionItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: quantity,
			Category: item.Category,
		})
	}

	tx := entity.NewTransaction(input.UserID, input.Merchant, input.Date, input.Total, category, items)
	tx.Notes = input.Notes
	tx.ImageURL = input.ImageURL
	tx.SharedGroupID = input.SharedGroupID

	if err := uc.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &CreateTransactionOutput{Transaction: tx}, nil
}

func (uc *CreateTransactionUseCase) checkGroupTagging(ctx context.Context, groupID, userID uuid.UUID) error {
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

func validateTransactionFields(merchant string, date time.Time, total decimal.Decimal) error {
	if merchant == "" {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeMerchantRequired,
			"merchant is required",
			domainerror.ErrMerchantRequired,
		)
	}
	if date.IsZero() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionDate,
			"transaction date is required",
			domainerror.ErrInvalidTransactionDate,
		)
	}
	if total.IsNegative() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionTotal,
			"transaction total cannot be negative",
			domainerror.ErrInvalidTransactionTotal,
		)
	}
	return nil
}
