// Package mapping contains mapping-related use cases.
package mapping

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
	"github.com/receipt-ledger/backend/internal/domain/matching"
)

// UpsertMappingInput represents the input for creating or updating a mapping.
type UpsertMappingInput struct {
	UserID         uuid.UUID
	Scope          entity.MappingScope
	OriginalValue  string // merchant string or item name, per scope
	TargetCategory string
	TargetMerchant string
	Confidence     *float64 // nil means the default confidence
	Source         entity.MappingSource
}

// UpsertMappingOutput represents the output of an upsert.
type UpsertMappingOutput struct {
	Mapping *entity.Mapping
}

// UpsertMappingUseCase creates or updates a mapping keyed on the normalized
// form of the original value.
type UpsertMappingUseCase struct {
	mappingRepo  adapter.MappingRepository
	mappingCache adapter.MappingCache
}

// NewUpsertMappingUseCase creates a new UpsertMappingUseCase instance.
func NewUpsertMappingUseCase(mappingRepo adapter.MappingRepository, mappingCache adapter.MappingCache) *UpsertMappingUseCase {
	return &UpsertMappingUseCase{
		mappingRepo:  mappingRepo,
		mappingCache: mappingCache,
	}
}

// Execute validates and stores the mapping. Re-learning an existing key
// updates the stored targets and confidence instead of creating a duplicate.
func (uc *UpsertMappingUseCase) Execute(ctx context.Context, input UpsertMappingInput) (*UpsertMappingOutput, error) {
	if input.Scope != entity.MappingScopeMerchant && input.Scope != entity.MappingScopeItem {
		return nil, domainerror.NewMappingError(
			domainerror.ErrCodeInvalidMappingScope,
			fmt.Sprintf("unknown mapping scope %q", input.Scope),
			domainerror.ErrInvalidMappingScope,
		)
	}

	normalized := matching.Normalize(input.OriginalValue)
	if normalized == "" {
		return nil, domainerror.NewMappingError(
			domainerror.ErrCodeMappingMissingFields,
			"original value is required",
			domainerror.ErrMappingMissingFields,
		)
	}
	if input.TargetCategory == "" && input.TargetMerchant == "" {
		return nil, domainerror.NewMappingError(
			domainerror.ErrCodeMappingMissingFields,
			"a target category or target merchant is required",
			domainerror.ErrMappingMissingFields,
		)
	}

	confidence := entity.DefaultMappingConfidence
	if input.Confidence != nil {
		confidence = *input.Confidence
	}
	if confidence < 0 || confidence > 1 {
		return nil, domainerror.NewMappingError(
			domainerror.ErrCodeInvalidConfidence,
			fmt.Sprintf("confidence %v is outside [0,1]", confidence),
			domainerror.ErrInvalidConfidence,
		)
	}

	source := input.Source
	if source == "" {
		source = entity.MappingSourceUser
	}

	mapping := entity.NewMapping(input.UserID, input.Scope, source)
	mapping.TargetCategory = input.TargetCategory
	mapping.TargetMerchant = input.TargetMerchant
	mapping.Confidence = confidence
	mapping.UpdatedAt = time.Now().UTC()
	if input.Scope == entity.MappingScopeItem {
		mapping.OriginalItem = input.OriginalValue
		mapping.NormalizedItem = normalized
	} else {
		mapping.OriginalMerchant = input.OriginalValue
		mapping.NormalizedMerchant = normalized
	}

	stored, err := uc.mappingRepo.Upsert(ctx, mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert mapping: %w", err)
	}

	uc.invalidateCache(ctx, input.UserID)

	return &UpsertMappingOutput{Mapping: stored}, nil
}

func (uc *UpsertMappingUseCase) invalidateCache(ctx context.Context, userID uuid.UUID) {
	if uc.mappingCache == nil {
		return
	}
	if err := uc.mappingCache.Invalidate(ctx, userID); err != nil {
		slog.Warn("mapping cache invalidation failed", "user_id", userID, "error", err)
	}
}
