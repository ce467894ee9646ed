// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryOther is the placeholder category assigned by the extraction
// pipeline when no category could be determined.
const CategoryOther = "Other"

// Categories is the canonical set of top-level expense categories.
var Categories = []string{
	"Groceries",
	"Dining",
	"Transport",
	"Health",
	"Entertainment",
	"Shopping",
	"Utilities",
	"Travel",
	CategoryOther,
}

// IsValidCategory reports whether the category belongs to the canonical set.
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// TransactionItem is a single line item on a scanned or manually entered
// receipt. Category is nil until assigned by the user or the matcher.
type TransactionItem struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	Name          string
	Price         decimal.Decimal
	Quantity      int
	Category      *string
}

// Transaction represents a single expense record extracted from a receipt or
// entered manually.
type Transaction struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Merchant      string
	Date          time.Time
	Total         decimal.Decimal
	Category      string
	Notes         string
	ImageURL      string
	SharedGroupID *uuid.UUID // set when the expense is tagged to a shared group
	Items         []TransactionItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time // soft-delete support
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	userID uuid.UUID,
	merchant string,
	date time.Time,
	total decimal.Decimal,
	category string,
	items []TransactionItem,
) *Transaction {
	now := time.Now().UTC()

	tx := &Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Merchant:  merchant,
		Date:      date,
		Total:     total,
		Category:  category,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range tx.Items {
		tx.Items[i].ID = uuid.New()
		tx.Items[i].TransactionID = tx.ID
	}

	return tx
}

// Clone returns a deep copy of the transaction. Item category pointers are
// re-allocated so mutating the copy never touches the original.
func (t Transaction) Clone() Transaction {
	out := t
	if t.SharedGroupID != nil {
		gid := *t.SharedGroupID
		out.SharedGroupID = &gid
	}
	if t.Items != nil {
		out.Items = make([]TransactionItem, len(t.Items))
		copy(out.Items, t.Items)
		for i := range out.Items {
			if out.Items[i].Category != nil {
				c := *out.Items[i].Category
				out.Items[i].Category = &c
			}
		}
	}
	return out
}

// TransactionListResult represents the result of listing transactions.
type TransactionListResult struct {
	Transactions []*Transaction
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}
