// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// TransactionItemRequest represents a line item in transaction requests.
type TransactionItemRequest struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Quantity int             `json:"quantity"`
	Category *string         `json:"category"`
}

// CreateTransactionRequest represents the request body for creating a
// transaction.
type CreateTransactionRequest struct {
	Merchant      string                   `json:"merchant" binding:"required"`
	Date          time.Time                `json:"date" binding:"required"`
	Total         decimal.Decimal          `json:"total" binding:"required"`
	Category      string                   `json:"category"`
	Notes         string                   `json:"notes"`
	ImageURL      string                   `json:"image_url"`
	SharedGroupID *string                  `json:"shared_group_id"`
	Items         []TransactionItemRequest `json:"items"`
}

// UpdateTransactionRequest represents the request body for updating a
// transaction. Absent fields are left unchanged; clear_group untags the
// transaction from its shared group.
type UpdateTransactionRequest struct {
	Merchant      *string                  `json:"merchant"`
	Date          *time.Time               `json:"date"`
	Total         *decimal.Decimal         `json:"total"`
	Category      *string                  `json:"category"`
	Notes         *string                  `json:"notes"`
	SharedGroupID *string                  `json:"shared_group_id"`
	ClearGroup    bool                     `json:"clear_group"`
	Items         []TransactionItemRequest `json:"items"`
	ReplaceItems  bool                     `json:"replace_items"`
}

// ScanReceiptRequest represents the request body for scanning a receipt
// image. The image is base64 encoded.
type ScanReceiptRequest struct {
	Image    string `json:"image" binding:"required"`
	MimeType string `json:"mime_type" binding:"required"`
}

// TransactionItemResponse represents a line item in API responses.
type TransactionItemResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Category *string         `json:"category,omitempty"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID            string                    `json:"id"`
	Merchant      string                    `json:"merchant"`
	Date          time.Time                 `json:"date"`
	Total         decimal.Decimal           `json:"total"`
	Category      string                    `json:"category"`
	Notes         string                    `json:"notes,omitempty"`
	ImageURL      string                    `json:"image_url,omitempty"`
	SharedGroupID *string                   `json:"shared_group_id,omitempty"`
	Items         []TransactionItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
}

// ScanReceiptResponse represents the response for a receipt scan. The draft
// is not persisted; the client submits it through the create endpoint.
type ScanReceiptResponse struct {
	Draft             TransactionResponse `json:"draft"`
	AppliedMappingIDs []string            `json:"applied_mapping_ids,omitempty"`
}

// ToTransactionResponse converts a domain Transaction entity to a
// TransactionResponse DTO.
func ToTransactionResponse(tx *entity.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:        tx.ID.String(),
		Merchant:  tx.Merchant,
		Date:      tx.Date,
		Total:     tx.Total,
		Category:  tx.Category,
		Notes:     tx.Notes,
		ImageURL:  tx.ImageURL,
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}

	if tx.SharedGroupID != nil {
		groupID := tx.SharedGroupID.String()
		response.SharedGroupID = &groupID
	}

	for _, item := range tx.Items {
		response.Items = append(response.Items, TransactionItemResponse{
			ID:       item.ID.String(),
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Category: item.Category,
		})
	}

	return response
}

// ToTransactionListResponse converts a TransactionListResult to a
// TransactionListResponse.
func ToTransactionListResponse(result *entity.TransactionListResult) TransactionListResponse {
	response := TransactionListResponse{
		Transactions: make([]TransactionResponse, len(result.Transactions)),
		Total:        result.Total,
		Page:         result.Page,
		Limit:        result.Limit,
		TotalPages:   result.TotalPages,
	}
	for i, tx := range result.Transactions {
		response.Transactions[i] = ToTransactionResponse(tx)
	}
	return response
}
