// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/application/usecase/mapping"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// ScanReceiptInput represents the input for scanning a receipt image.
type ScanReceiptInput struct {
	UserID    uuid.UUID
	ImageData []byte
	MimeType  string
}

// ScanReceiptOutput is the draft transaction produced from the image. It is
// not persisted; the client reviews it and creates the transaction
// explicitly.
type ScanReceiptOutput struct {
	Draft             entity.Transaction
	AppliedMappingIDs []uuid.UUID
}

// ScanReceiptUseCase runs a receipt image through the extraction model and
// the user's mappings, producing a reviewable draft.
type ScanReceiptUseCase struct {
	extractionService adapter.ReceiptExtractionService
	applyMappings     *mapping.ApplyMappingsUseCase
}

// NewScanReceiptUseCase creates a new ScanReceiptUseCase instance.
func NewScanReceiptUseCase(
	extractionService adapter.ReceiptExtractionService,
	applyMappings *mapping.ApplyMappingsUseCase,
) *ScanReceiptUseCase {
	return &ScanReceiptUseCase{
		extractionService: extractionService,
		applyMappings:     applyMappings,
	}
}

// Execute extracts the receipt and applies the user's mappings to the result.
func (uc *ScanReceiptUseCase) Execute(ctx context.Context, input ScanReceiptInput) (*ScanReceiptOutput, error) {
	if !uc.extractionService.IsAvailable() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeExtractionUnavailable,
			"receipt extraction is not configured",
			domainerror.ErrExtractionUnavailable,
		)
	}
	if len(input.ImageData) == 0 {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeExtractionFailed,
			"image data is required",
			domainerror.ErrExtractionFailed,
		)
	}

	extracted, err := uc.extractionService.Extract(ctx, input.ImageData, input.MimeType)
	if err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeExtractionFailed,
			"failed to extract receipt",
			err,
		)
	}

	draft := entity.Transaction{
		UserID:   input.UserID,
		Merchant: extracted.Merchant,
		Date:     extracted.Date,
		Total:    extracted.Total,
		Category: extracted.Category,
	}
	if draft.Category == "" {
		draft.Category = entity.CategoryOther
	}
	if draft.Date.IsZero() {
		draft.Date = time.Now().UTC()
	}
	for _, item := range extracted.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		draft.Items = append(draft.Items, entity.TransactionItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: quantity,
		})
	}

	matched, err := uc.applyMappings.Execute(ctx, mapping.ApplyMappingsInput{
		UserID:      input.UserID,
		Transaction: draft,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply mappings: %w", err)
	}

	return &ScanReceiptOutput{
		Draft:             matched.Transaction,
		AppliedMappingIDs: matched.AppliedMappingIDs,
	}, nil
}
