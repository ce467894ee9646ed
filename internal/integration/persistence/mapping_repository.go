// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	"github.com/receipt-ledger/backend/internal/integration/persistence/model"
)

// mappingRepository implements the adapter.MappingRepository interface.
type mappingRepository struct {
	db *gorm.DB
}

// NewMappingRepository creates a new mapping repository instance.
func NewMappingRepository(db *gorm.DB) adapter.MappingRepository {
	return &mappingRepository{
		db: db,
	}
}

// FindByUser retrieves all mappings owned by the user.
func (r *mappingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Mapping, error) {
	var mappingModels []model.MappingModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&mappingModels).Error; err != nil {
		return nil, err
	}
	mappings := make([]*entity.Mapping, len(mappingModels))
	for i := range mappingModels {
		mappings[i] = mappingModels[i].ToEntity()
	}
	return mappings, nil
}

// FindByID retrieves a mapping by its ID.
func (r *mappingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Mapping, error) {
	var mappingModel model.MappingModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&mappingModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return mappingModel.ToEntity(), nil
}

// Upsert creates or updates the mapping keyed on (user, scope, normalized
// key). The read and the write share one transaction so concurrent upserts
// of the same key cannot create duplicates.
func (r *mappingRepository) Upsert(ctx context.Context, mapping *entity.Mapping) (*entity.Mapping, error) {
	var stored *entity.Mapping
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keyColumn := "normalized_merchant"
		if mapping.Scope == entity.MappingScopeItem {
			keyColumn = "normalized_item"
		}

		var existing model.MappingModel
		result := tx.Where("user_id = ? AND scope = ? AND "+keyColumn+" = ?",
			mapping.UserID, string(mapping.Scope), mapping.NormalizedKey()).
			First(&existing)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return result.Error
			}
			mappingModel := model.MappingFromEntity(mapping)
			if err := tx.Create(mappingModel).Error; err != nil {
				return err
			}
			stored = mappingModel.ToEntity()
			return nil
		}

		// Re-learning the key: keep the identity and usage count, refresh
		// the targets and confidence.
		updates := map[string]interface{}{
			"target_category": mapping.TargetCategory,
			"target_merchant": mapping.TargetMerchant,
			"confidence":      mapping.Confidence,
			"source":          string(mapping.Source),
			"updated_at":      time.Now().UTC(),
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		stored = existing.ToEntity()
		stored.TargetCategory = mapping.TargetCategory
		stored.TargetMerchant = mapping.TargetMerchant
		stored.Confidence = mapping.Confidence
		stored.Source = mapping.Source
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Delete removes a mapping from the store.
func (r *mappingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.MappingModel{}).Error
}

// IncrementUsage adds one use to each of the given mappings.
func (r *mappingRepository) IncrementUsage(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.MappingModel{}).
		Where("id IN ?", ids).
		Update("usage_count", gorm.Expr("usage_count + 1")).Error
}
