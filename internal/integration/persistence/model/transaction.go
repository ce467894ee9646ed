// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Merchant      string          `gorm:"type:varchar(255);not null"`
	Date          time.Time       `gorm:"type:date;not null;index"`
	Total         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Category      string          `gorm:"type:varchar(100);not null;index"`
	Notes         string          `gorm:"type:text"`
	ImageURL      string          `gorm:"type:varchar(500)"`
	SharedGroupID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
	DeletedAt     gorm.DeletedAt  `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Items []TransactionItemModel `gorm:"foreignKey:TransactionID;references:ID"`
	User  *UserModel             `gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// TransactionItemModel represents the transaction_items table in the database.
type TransactionItemModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"type:varchar(255);not null"`
	Price         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Quantity      int             `gorm:"not null;default:1"`
	Category      *string         `gorm:"type:varchar(100)"`
}

// TableName returns the table name for the TransactionItemModel.
func (TransactionItemModel) TableName() string {
	return "transaction_items"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	items := make([]entity.TransactionItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = entity.TransactionItem{
			ID:            item.ID,
			TransactionID: item.TransactionID,
			Name:          item.Name,
			Price:         item.Price,
			Quantity:      item.Quantity,
			Category:      item.Category,
		}
	}

	return &entity.Transaction{
		ID:            m.ID,
		UserID:        m.UserID,
		Merchant:      m.Merchant,
		Date:          m.Date,
		Total:         m.Total,
		Category:      m.Category,
		Notes:         m.Notes,
		ImageURL:      m.ImageURL,
		SharedGroupID: m.SharedGroupID,
		Items:         items,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		DeletedAt:     deletedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(tx *entity.Transaction) *TransactionModel {
	items := make([]TransactionItemModel, len(tx.Items))
	for i, item := range tx.Items {
		items[i] = TransactionItemModel{
			ID:            item.ID,
			TransactionID: item.TransactionID,
			Name:          item.Name,
			Price:         item.Price,
			Quantity:      item.Quantity,
			Category:      item.Category,
		}
	}

	return &TransactionModel{
		ID:            tx.ID,
		UserID:        tx.UserID,
		Merchant:      tx.Merchant,
		Date:          tx.Date,
		Total:         tx.Total,
		Category:      tx.Category,
		Notes:         tx.Notes,
		ImageURL:      tx.ImageURL,
		SharedGroupID: tx.SharedGroupID,
		Items:         items,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}
