// Package mapping contains mapping-related use cases.
package mapping

import (
	"context"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// ListMappingsInput represents the input for listing a user's mappings.
type ListMappingsInput struct {
	UserID uuid.UUID
	Scope  entity.MappingScope // empty means all scopes
}

// ListMappingsOutput represents the output of listing mappings.
type ListMappingsOutput struct {
	Mappings []*entity.Mapping
}

// ListMappingsUseCase returns the user's mappings, optionally filtered by
// scope.
type ListMappingsUseCase struct {
	mappingRepo  adapter.MappingRepository
	mappingCache adapter.MappingCache
}

// NewListMappingsUseCase creates a new ListMappingsUseCase instance.
func NewListMappingsUseCase(mappingRepo adapter.MappingRepository, mappingCache adapter.MappingCache) *ListMappingsUseCase {
	return &ListMappingsUseCase{
		mappingRepo:  mappingRepo,
		mappingCache: mappingCache,
	}
}

// Execute lists the user's mappings.
func (uc *ListMappingsUseCase) Execute(ctx context.Context, input ListMappingsInput) (*ListMappingsOutput, error) {
	mappings, err := loadUserMappings(ctx, uc.mappingRepo, uc.mappingCache, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Scope == "" {
		return &ListMappingsOutput{Mappings: mappings}, nil
	}

	filtered := make([]*entity.Mapping, 0, len(mappings))
	for _, m := range mappings {
		if m.Scope == input.Scope {
			filtered = append(filtered, m)
		}
	}

	return &ListMappingsOutput{Mappings: filtered}, nil
}
