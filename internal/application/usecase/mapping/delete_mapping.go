// Package mapping contains mapping-related use cases.
package mapping

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// DeleteMappingInput represents the input for deleting a mapping.
type DeleteMappingInput struct {
	MappingID uuid.UUID
	UserID    uuid.UUID
}

// DeleteMappingOutput represents the output of deleting a mapping.
type DeleteMappingOutput struct {
	Success bool
}

// DeleteMappingUseCase removes one of the user's mappings.
type DeleteMappingUseCase struct {
	mappingRepo  adapter.MappingRepository
	mappingCache adapter.MappingCache
}

// NewDeleteMappingUseCase creates a new DeleteMappingUseCase instance.
func NewDeleteMappingUseCase(mappingRepo adapter.MappingRepository, mappingCache adapter.MappingCache) *DeleteMappingUseCase {
	return &DeleteMappingUseCase{
		mappingRepo:  mappingRepo,
		mappingCache: mappingCache,
	}
}

// Execute deletes the mapping after verifying ownership.
func (uc *DeleteMappingUseCase) Execute(ctx context.Context, input DeleteMappingInput) (*DeleteMappingOutput, error) {
	mapping, err := uc.mappingRepo.FindByID(ctx, input.MappingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}
	if mapping == nil {
		return nil, domainerror.NewMappingError(
			domainerror.ErrCodeMappingNotFound,
			"mapping not found",
			domainerror.ErrMappingNotFound,
		)
	}
	if mapping.UserID != input.UserID {
		return nil, domainerror.NewMappingError(
			domainerror.ErrCodeNotMappingOwner,
			"mapping belongs to another user",
			domainerror.ErrNotMappingOwner,
		)
	}

	if err := uc.mappingRepo.Delete(ctx, input.MappingID); err != nil {
		return nil, fmt.Errorf("failed to delete mapping: %w", err)
	}

	if uc.mappingCache != nil {
		if err := uc.mappingCache.Invalidate(ctx, input.UserID); err != nil {
			slog.Warn("mapping cache invalidation failed", "user_id", input.UserID, "error", err)
		}
	}

	return &DeleteMappingOutput{Success: true}, nil
}
