// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ExtractedItem is a single line item produced by the extraction model.
type ExtractedItem struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// ExtractedReceipt is the structured result of running a receipt image
// through the extraction model. Category defaults to "Other" when the model
// could not decide.
type ExtractedReceipt struct {
	Merchant string
	Date     time.Time
	Total    decimal.Decimal
	Category string
	Items    []ExtractedItem
}

// ReceiptExtractionService defines the interface for AI-assisted receipt
// extraction.
type ReceiptExtractionService interface {
	// IsAvailable reports whether the service is configured.
	IsAvailable() bool

	// Extract parses a receipt image into a structured receipt.
	Extract(ctx context.Context, imageData []byte, mimeType string) (*ExtractedReceipt, error)
}
