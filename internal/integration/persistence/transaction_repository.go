// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	"github.com/receipt-ledger/backend/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction with its items.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(model.TransactionFromEntity(transaction)).Error
}

// FindByID retrieves a transaction with its items.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	result := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return transactionModel.ToEntity(), nil
}

// FindByFilter retrieves transactions based on filter criteria with pagination.
func (r *transactionRepository) FindByFilter(ctx context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*entity.TransactionListResult, error) {
	query := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("user_id = ?", filter.UserID)

	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.SharedGroupID != nil {
		query = query.Where("shared_group_id = ?", *filter.SharedGroupID)
	}
	if filter.Search != "" {
		query = query.Where("lower(merchant) LIKE lower(?)", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (pagination.Page - 1) * pagination.Limit
	var transactionModels []model.TransactionModel
	if err := query.
		Preload("Items").
		Order("date DESC, created_at DESC").
		Offset(offset).
		Limit(pagination.Limit).
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToEntity()
	}

	totalPages := int(total) / pagination.Limit
	if int(total)%pagination.Limit > 0 {
		totalPages++
	}

	return &entity.TransactionListResult{
		Transactions: transactions,
		Total:        total,
		Page:         pagination.Page,
		Limit:        pagination.Limit,
		TotalPages:   totalPages,
	}, nil
}

// Update updates an existing transaction and replaces its items.
func (r *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", transaction.ID).
			Delete(&model.TransactionItemModel{}).Error; err != nil {
			return err
		}
		transactionModel := model.TransactionFromEntity(transaction)
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(transactionModel).Error
	})
}

// Delete soft-deletes a transaction.
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TransactionModel{}).Error
}

// ClearSharedGroupBatch nulls shared_group_id on up to limit rows tagged
// with the group. The UPDATE is bounded through a subquery because the store
// caps the number of rows one write may touch; each batch commits on its
// own, and re-running a batch over cleared rows is a no-op.
func (r *transactionRepository) ClearSharedGroupBatch(ctx context.Context, groupID uuid.UUID, userID *uuid.UUID, limit int) (int64, error) {
	sub := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("id").
		Where("shared_group_id = ?", groupID).
		Limit(limit)
	if userID != nil {
		sub = sub.Where("user_id = ?", *userID)
	}

	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id IN (?)", sub).
		Update("shared_group_id", nil)
	return result.RowsAffected, result.Error
}
