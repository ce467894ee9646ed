// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// ClearBatchSize is the maximum number of transaction rows untagged per
// batch when a shared group is deleted. Each batch is its own atomic unit;
// clearing an already-cleared row is a no-op, so partial progress is safe to
// retry.
const ClearBatchSize = 500

// TransactionFilter defines filter options for listing transactions.
type TransactionFilter struct {
	UserID        uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	Category      string
	SharedGroupID *uuid.UUID
	Search        string // case-insensitive merchant match
}

// TransactionPagination defines pagination options.
type TransactionPagination struct {
	Page  int
	Limit int
}

// TransactionRepository defines the interface for transaction persistence
// operations.
type TransactionRepository interface {
	// Create creates a new transaction with its items.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction with its items, or (nil, nil) when
	// absent.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByFilter retrieves transactions based on filter criteria with
	// pagination.
	FindByFilter(ctx context.Context, filter TransactionFilter, pagination TransactionPagination) (*entity.TransactionListResult, error)

	// Update updates an existing transaction and replaces its items.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete soft-deletes a transaction.
	Delete(ctx context.Context, id uuid.UUID) error

	// ClearSharedGroupBatch nulls shared_group_id on up to limit rows tagged
	// with the group, restricted to one user when userID is non-nil, and
	// returns the number of rows cleared. Callers loop until it returns 0.
	ClearSharedGroupBatch(ctx context.Context, groupID uuid.UUID, userID *uuid.UUID, limit int) (int64, error)
}
