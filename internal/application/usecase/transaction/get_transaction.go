// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// GetTransactionInput represents the input for fetching one transaction.
type GetTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
}

// GetTransactionOutput represents the output of fetching one transaction.
type GetTransactionOutput struct {
	Transaction *entity.Transaction
}

// GetTransactionUseCase returns a single transaction with its items.
type GetTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewGetTransactionUseCase creates a new GetTransactionUseCase instance.
func NewGetTransactionUseCase(transactionRepo adapter.TransactionRepository) *GetTransactionUseCase {
	return &GetTransactionUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute fetches the transaction and verifies ownership.
func (uc *GetTransactionUseCase) Execute(ctx context.Context, input GetTransactionInput) (*GetTransactionOutput, error) {
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

	return &GetTransactionOutput{Transaction: tx}, nil
}
