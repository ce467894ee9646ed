// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	UserID        uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	Category      string
	SharedGroupID *uuid.UUID
	Search        string
	Page          int
	Limit         int
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Result *entity.TransactionListResult
}

// ListTransactionsUseCase returns the user's transactions filtered and
// paginated.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionRepo adapter.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute lists transactions. Page and limit fall back to defaults when
// unset or out of range.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	result, err := uc.transactionRepo.FindByFilter(ctx,
		adapter.TransactionFilter{
			UserID:        input.UserID,
			StartDate:     input.StartDate,
			EndDate:       input.EndDate,
			Category:      input.Category,
			SharedGroupID: input.SharedGroupID,
			Search:        input.Search,
		},
		adapter.TransactionPagination{
			Page:  page,
			Limit: limit,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &ListTransactionsOutput{Result: result}, nil
}
