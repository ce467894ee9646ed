// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// UpsertMappingRequest represents the request body for creating or updating
// a mapping.
type UpsertMappingRequest struct {
	Scope          string   `json:"scope" binding:"required,oneof=merchant item"`
	OriginalValue  string   `json:"original_value" binding:"required"`
	TargetCategory string   `json:"target_category"`
	TargetMerchant string   `json:"target_merchant"`
	Confidence     *float64 `json:"confidence"`
}

// MappingResponse represents a mapping in API responses.
type MappingResponse struct {
	ID             string    `json:"id"`
	Scope          string    `json:"scope"`
	OriginalValue  string    `json:"original_value"`
	NormalizedKey  string    `json:"normalized_key"`
	TargetCategory string    `json:"target_category,omitempty"`
	TargetMerchant string    `json:"target_merchant,omitempty"`
	Confidence     float64   `json:"confidence"`
	Source         string    `json:"source"`
	UsageCount     int64     `json:"usage_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MappingListResponse represents the response for listing mappings.
type MappingListResponse struct {
	Mappings []MappingResponse `json:"mappings"`
}

// ToMappingResponse converts a domain Mapping entity to a MappingResponse DTO.
func ToMappingResponse(mapping *entity.Mapping) MappingResponse {
	originalValue := mapping.OriginalMerchant
	if mapping.Scope == entity.MappingScopeItem {
		originalValue = mapping.OriginalItem
	}

	return MappingResponse{
		ID:             mapping.ID.String(),
		Scope:          string(mapping.Scope),
		OriginalValue:  originalValue,
		NormalizedKey:  mapping.NormalizedKey(),
		TargetCategory: mapping.TargetCategory,
		TargetMerchant: mapping.TargetMerchant,
		Confidence:     mapping.Confidence,
		Source:         string(mapping.Source),
		UsageCount:     mapping.UsageCount,
		CreatedAt:      mapping.CreatedAt,
		UpdatedAt:      mapping.UpdatedAt,
	}
}

// ToMappingListResponse converts a list of mappings to a MappingListResponse.
func ToMappingListResponse(mappings []*entity.Mapping) MappingListResponse {
	items := make([]MappingResponse, len(mappings))
	for i, m := range mappings {
		items[i] = ToMappingResponse(m)
	}
	return MappingListResponse{Mappings: items}
}
