// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// GeminiService implements the ReceiptExtractionService using Google Gemini.
type GeminiService struct {
	apiKey    string
	modelName string
}

// NewGeminiService creates a new Gemini service instance.
func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiKey:    apiKey,
		modelName: "gemini-2.5-flash-lite",
	}
}

// IsAvailable checks if the Gemini service is available and properly configured.
func (s *GeminiService) IsAvailable() bool {
	return s.apiKey != ""
}

// Extract parses a receipt image into a structured receipt.
func (s *GeminiService) Extract(ctx context.Context, imageData []byte, mimeType string) (*adapter.ExtractedReceipt, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("gemini service is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	format := strings.TrimPrefix(mimeType, "image/")
	resp, err := model.GenerateContent(ctx,
		genai.ImageData(format, imageData),
		genai.Text(extractionPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	receipt, err := s.parseResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return receipt, nil
}

const extractionPrompt = `You are a receipt parsing assistant. Extract the purchase details from the receipt image.

Return a single JSON object with:
{
  "merchant": "store name as printed on the receipt",
  "date": "purchase date in YYYY-MM-DD format, or null if unreadable",
  "total": "grand total as a decimal string, e.g. \"42.50\"",
  "category": "one of: Groceries, Dining, Transport, Health, Entertainment, Shopping, Utilities, Travel, Other",
  "items": [
    { "name": "line item name", "price": "unit price as decimal string", "quantity": 1 }
  ]
}

RULES:
- Use the printed merchant name verbatim, including store numbers.
- The total is the amount actually charged, after discounts and tax.
- Omit non-product lines (subtotal, tax, change, loyalty points).
- Use "Other" for the category when unsure.
- Return only the JSON object, no additional text.`

// geminiReceipt represents the raw response from Gemini.
type geminiReceipt struct {
	Merchant string              `json:"merchant"`
	Date     *string             `json:"date"`
	Total    string              `json:"total"`
	Category string              `json:"category"`
	Items    []geminiReceiptItem `json:"items"`
}

type geminiReceiptItem struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// parseResponse parses the Gemini response into an ExtractedReceipt.
func (s *GeminiService) parseResponse(resp *genai.GenerateContentResponse) (*adapter.ExtractedReceipt, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			textContent = string(text)
			break
		}
	}

	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	// Strip markdown code fences if present.
	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)

	var raw geminiReceipt
	if err := json.Unmarshal([]byte(textContent), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, content: %s", err, textContent)
	}

	receipt := &adapter.ExtractedReceipt{
		Merchant: strings.TrimSpace(raw.Merchant),
		Category: raw.Category,
	}

	if !entity.IsValidCategory(receipt.Category) {
		receipt.Category = entity.CategoryOther
	}

	if raw.Date != nil && *raw.Date != "" {
		if date, err := time.Parse("2006-01-02", *raw.Date); err == nil {
			receipt.Date = date
		}
	}

	if raw.Total != "" {
		total, err := decimal.NewFromString(raw.Total)
		if err != nil {
			return nil, fmt.Errorf("invalid total in response: %q", raw.Total)
		}
		receipt.Total = total
	}

	receipt.Items = make([]adapter.ExtractedItem, 0, len(raw.Items))
	for _, item := range raw.Items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			continue // skip unreadable lines rather than failing the scan
		}
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		receipt.Items = append(receipt.Items, adapter.ExtractedItem{
			Name:     strings.TrimSpace(item.Name),
			Price:    price,
			Quantity: quantity,
		})
	}

	return receipt, nil
}
