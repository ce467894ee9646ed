// Package mapping contains mapping-related use cases.
package mapping

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	"github.com/receipt-ledger/backend/internal/domain/matching"
)

// ApplyMappingsInput represents the input for applying a user's mappings to
// a transaction.
type ApplyMappingsInput struct {
	UserID      uuid.UUID
	Transaction entity.Transaction
}

// ApplyMappingsOutput represents the output of the matching passes.
type ApplyMappingsOutput struct {
	Transaction       entity.Transaction
	AppliedMappingIDs []uuid.UUID
}

// ApplyMappingsUseCase runs a transaction through the user's trained
// mappings and records which mappings fired.
type ApplyMappingsUseCase struct {
	mappingRepo  adapter.MappingRepository
	mappingCache adapter.MappingCache
}

// NewApplyMappingsUseCase creates a new ApplyMappingsUseCase instance.
func NewApplyMappingsUseCase(mappingRepo adapter.MappingRepository, mappingCache adapter.MappingCache) *ApplyMappingsUseCase {
	return &ApplyMappingsUseCase{
		mappingRepo:  mappingRepo,
		mappingCache: mappingCache,
	}
}

// Execute applies the user's mappings to the transaction. The input
// transaction is never modified. Usage counters for applied mappings are
// incremented best-effort; a failure there does not fail the call.
func (uc *ApplyMappingsUseCase) Execute(ctx context.Context, input ApplyMappingsInput) (*ApplyMappingsOutput, error) {
	mappings, err := loadUserMappings(ctx, uc.mappingRepo, uc.mappingCache, input.UserID)
	if err != nil {
		return nil, err
	}

	result := matching.ApplyMappings(input.Transaction, mappings)

	if len(result.AppliedMappingIDs) > 0 {
		if err := uc.mappingRepo.IncrementUsage(ctx, result.AppliedMappingIDs); err != nil {
			slog.Warn("failed to increment mapping usage",
				"user_id", input.UserID,
				"mapping_count", len(result.AppliedMappingIDs),
				"error", err,
			)
		}
	}

	return &ApplyMappingsOutput{
		Transaction:       result.Transaction,
		AppliedMappingIDs: result.AppliedMappingIDs,
	}, nil
}
