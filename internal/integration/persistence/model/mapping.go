// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// MappingModel represents the mappings table in the database. The composite
// index on (user_id, scope) backs the per-user mapping list the matcher
// loads on every pass.
type MappingModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;index:idx_mappings_user_scope"`
	Scope              string    `gorm:"type:varchar(10);not null;index:idx_mappings_user_scope"`
	OriginalMerchant   string    `gorm:"type:varchar(255)"`
	OriginalItem       string    `gorm:"type:varchar(255)"`
	NormalizedMerchant string    `gorm:"type:varchar(255);index"`
	NormalizedItem     string    `gorm:"type:varchar(255);index"`
	TargetCategory     string    `gorm:"type:varchar(100)"`
	TargetMerchant     string    `gorm:"type:varchar(255)"`
	Confidence         float64   `gorm:"type:decimal(4,3);not null;default:1"`
	Source             string    `gorm:"type:varchar(10);not null;default:'user'"`
	UsageCount         int64     `gorm:"not null;default:0"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for the MappingModel.
func (MappingModel) TableName() string {
	return "mappings"
}

// ToEntity converts a MappingModel to a domain Mapping entity.
func (m *MappingModel) ToEntity() *entity.Mapping {
	return &entity.Mapping{
		ID:                 m.ID,
		UserID:             m.UserID,
		Scope:              entity.MappingScope(m.Scope),
		OriginalMerchant:   m.OriginalMerchant,
		OriginalItem:       m.OriginalItem,
		NormalizedMerchant: m.NormalizedMerchant,
		NormalizedItem:     m.NormalizedItem,
		TargetCategory:     m.TargetCategory,
		TargetMerchant:     m.TargetMerchant,
		Confidence:         m.Confidence,
		Source:             entity.MappingSource(m.Source),
		UsageCount:         m.UsageCount,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// MappingFromEntity creates a MappingModel from a domain Mapping entity.
func MappingFromEntity(mapping *entity.Mapping) *MappingModel {
	return &MappingModel{
		ID:                 mapping.ID,
		UserID:             mapping.UserID,
		Scope:              string(mapping.Scope),
		OriginalMerchant:   mapping.OriginalMerchant,
		OriginalItem:       mapping.OriginalItem,
		NormalizedMerchant: mapping.NormalizedMerchant,
		NormalizedItem:     mapping.NormalizedItem,
		TargetCategory:     mapping.TargetCategory,
		TargetMerchant:     mapping.TargetMerchant,
		Confidence:         mapping.Confidence,
		Source:             string(mapping.Source),
		UsageCount:         mapping.UsageCount,
		CreatedAt:          mapping.CreatedAt,
		UpdatedAt:          mapping.UpdatedAt,
	}
}
