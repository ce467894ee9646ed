package matching

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/receipt-ledger/backend/internal/domain/entity"
)

func newScanResult(merchant string, items ...string) entity.Transaction {
	tx := entity.Transaction{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Merchant: merchant,
		Date:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Total:    decimal.NewFromFloat(42.50),
		Category: entity.CategoryOther,
	}
	for _, name := range items {
		tx.Items = append(tx.Items, entity.TransactionItem{
			ID:    uuid.New(),
			Name:  name,
			Price: decimal.NewFromFloat(3.99),
		})
	}
	return tx
}

func merchantMapping(normalized, targetCategory, targetMerchant string, confidence float64) *entity.Mapping {
	return &entity.Mapping{
		ID:                 uuid.New(),
		Scope:              entity.MappingScopeMerchant,
		NormalizedMerchant: normalized,
		TargetCategory:     targetCategory,
		TargetMerchant:     targetMerchant,
		Confidence:         confidence,
	}
}

func itemMapping(normalized, targetCategory string, confidence float64) *entity.Mapping {
	return &entity.Mapping{
		ID:             uuid.New(),
		Scope:          entity.MappingScopeItem,
		NormalizedItem: normalized,
		TargetCategory: targetCategory,
		Confidence:     confidence,
	}
}

func TestApplyMappings_EmptyMappingLists(t *testing.T) {
	tx := newScanResult("UBER EATS", "Pad Thai")

	t.Run("nil mapping list returns transaction unchanged", func(t *testing.T) {
		result := ApplyMappings(tx, nil)

		if !reflect.DeepEqual(result.Transaction, tx) {
			t.Errorf("expected transaction unchanged, got %+v", result.Transaction)
		}
		if len(result.AppliedMappingIDs) != 0 {
			t.Errorf("expected no applied mapping IDs, got %v", result.AppliedMappingIDs)
		}
	})

	t.Run("empty mapping list returns transaction unchanged", func(t *testing.T) {
		result := ApplyMappings(tx, []*entity.Mapping{})

		if !reflect.DeepEqual(result.Transaction, tx) {
			t.Errorf("expected transaction unchanged, got %+v", result.Transaction)
		}
		if len(result.AppliedMappingIDs) != 0 {
			t.Errorf("expected no applied mapping IDs, got %v", result.AppliedMappingIDs)
		}
	})
}

func TestApplyMappings_MerchantMatch(t *testing.T) {
	t.Run("exact match with full confidence is applied", func(t *testing.T) {
		mapping := merchantMapping("uber eats", "Dining", "Uber Eats", 1.0)
		result := ApplyMappings(newScanResult("UBER EATS"), []*entity.Mapping{mapping})

		if result.Transaction.Category != "Dining" {
			t.Errorf("expected category Dining, got %s", result.Transaction.Category)
		}
		if result.Transaction.Merchant != "Uber Eats" {
			t.Errorf("expected merchant Uber Eats, got %s", result.Transaction.Merchant)
		}
		if len(result.AppliedMappingIDs) != 1 || result.AppliedMappingIDs[0] != mapping.ID {
			t.Errorf("expected applied IDs [%s], got %v", mapping.ID, result.AppliedMappingIDs)
		}
	})

	t.Run("low confidence fuzzy match is not applied", func(t *testing.T) {
		// "uber" vs "uber eats": distance 5/9, score 0.3 * (1 - 5/9) < 0.7.
		mapping := merchantMapping("uber eats", "Dining", "", 0.3)
		result := ApplyMappings(newScanResult("uber"), []*entity.Mapping{mapping})

		if result.Transaction.Category != entity.CategoryOther {
			t.Errorf("expected category untouched, got %s", result.Transaction.Category)
		}
		if len(result.AppliedMappingIDs) != 0 {
			t.Errorf("expected no applied IDs, got %v", result.AppliedMappingIDs)
		}
	})

	t.Run("score exactly at threshold is not applied", func(t *testing.T) {
		// Identical normalized strings give distance 0, so the score is the
		// confidence itself. 0.7 must NOT apply: the threshold is exclusive.
		mapping := merchantMapping("corner store", "Groceries", "", ConfidenceThreshold)
		result := ApplyMappings(newScanResult("Corner Store"), []*entity.Mapping{mapping})

		if result.Transaction.Category != entity.CategoryOther {
			t.Errorf("expected category untouched at threshold, got %s", result.Transaction.Category)
		}
	})

	t.Run("score just above threshold is applied", func(t *testing.T) {
		mapping := merchantMapping("corner store", "Groceries", "", 0.71)
		result := ApplyMappings(newScanResult("Corner Store"), []*entity.Mapping{mapping})

		if result.Transaction.Category != "Groceries" {
			t.Errorf("expected category Groceries, got %s", result.Transaction.Category)
		}
	})

	t.Run("best scoring mapping wins", func(t *testing.T) {
		weak := merchantMapping("walmart supercenter", "Shopping", "", 0.8)
		strong := merchantMapping("walmart", "Groceries", "Walmart", 1.0)
		result := ApplyMappings(newScanResult("WALMART"), []*entity.Mapping{weak, strong})

		if result.Transaction.Category != "Groceries" {
			t.Errorf("expected category Groceries, got %s", result.Transaction.Category)
		}
		if len(result.AppliedMappingIDs) != 1 || result.AppliedMappingIDs[0] != strong.ID {
			t.Errorf("expected only the strong mapping applied, got %v", result.AppliedMappingIDs)
		}
	})

	t.Run("punctuation differences still match exactly", func(t *testing.T) {
		mapping := merchantMapping(Normalize("McDonald's #1234"), "Fast Food", "McDonald's", 1.0)
		result := ApplyMappings(newScanResult("MCDONALD'S #1234"), []*entity.Mapping{mapping})

		if result.Transaction.Category != "Fast Food" {
			t.Errorf("expected category Fast Food, got %s", result.Transaction.Category)
		}
	})
}

func TestApplyMappings_ItemMatch(t *testing.T) {
	t.Run("matching items get the target category", func(t *testing.T) {
		mapping := itemMapping("whole milk", "Dairy", 1.0)
		tx := newScanResult("Grocery Mart", "Whole Milk", "Bread")
		result := ApplyMappings(tx, []*entity.Mapping{mapping})

		if got := result.Transaction.Items[0].Category; got == nil || *got != "Dairy" {
			t.Errorf("expected first item category Dairy, got %v", got)
		}
		if result.Transaction.Items[1].Category != nil {
			t.Errorf("expected second item category untouched, got %v", *result.Transaction.Items[1].Category)
		}
	})

	t.Run("mapping matching two items contributes its ID once", func(t *testing.T) {
		mapping := itemMapping("whole milk", "Dairy", 1.0)
		tx := newScanResult("Grocery Mart", "Whole Milk", "WHOLE MILK")
		result := ApplyMappings(tx, []*entity.Mapping{mapping})

		if len(result.AppliedMappingIDs) != 1 {
			t.Fatalf("expected exactly one applied ID, got %v", result.AppliedMappingIDs)
		}
		for i, item := range result.Transaction.Items {
			if item.Category == nil || *item.Category != "Dairy" {
				t.Errorf("item %d: expected category Dairy, got %v", i, item.Category)
			}
		}
	})

	t.Run("item mappings do not affect the merchant", func(t *testing.T) {
		mapping := itemMapping("grocery mart", "Groceries", 1.0)
		result := ApplyMappings(newScanResult("Grocery Mart"), []*entity.Mapping{mapping})

		if result.Transaction.Category != entity.CategoryOther {
			t.Errorf("expected transaction category untouched, got %s", result.Transaction.Category)
		}
	})
}

func TestApplyMappings_InputNotMutated(t *testing.T) {
	original := newScanResult("UBER EATS", "Pad Thai")
	snapshot := original.Clone()

	mappings := []*entity.Mapping{
		merchantMapping("uber eats", "Dining", "Uber Eats", 1.0),
		itemMapping("pad thai", "Dining", 1.0),
	}
	result := ApplyMappings(original, mappings)

	if !reflect.DeepEqual(original, snapshot) {
		t.Errorf("input transaction was mutated: %+v", original)
	}
	if result.Transaction.Merchant != "Uber Eats" {
		t.Errorf("expected output merchant Uber Eats, got %s", result.Transaction.Merchant)
	}
	if original.Items[0].Category != nil {
		t.Error("input item category was mutated")
	}
}

func TestApplyMappings_DegradedMappings(t *testing.T) {
	t.Run("mapping without ID applies but is not tracked", func(t *testing.T) {
		mapping := merchantMapping("uber eats", "Dining", "", 1.0)
		mapping.ID = uuid.Nil
		result := ApplyMappings(newScanResult("Uber Eats"), []*entity.Mapping{mapping})

		if result.Transaction.Category != "Dining" {
			t.Errorf("expected category Dining, got %s", result.Transaction.Category)
		}
		if len(result.AppliedMappingIDs) != 0 {
			t.Errorf("expected no tracked IDs, got %v", result.AppliedMappingIDs)
		}
	})

	t.Run("mapping with missing normalized key never matches", func(t *testing.T) {
		mapping := merchantMapping("", "Dining", "", 1.0)
		result := ApplyMappings(newScanResult("Uber Eats"), []*entity.Mapping{mapping})

		if result.Transaction.Category != entity.CategoryOther {
			t.Errorf("expected no match for malformed mapping, got %s", result.Transaction.Category)
		}
	})

	t.Run("nil mapping entries are skipped", func(t *testing.T) {
		mappings := []*entity.Mapping{nil, merchantMapping("uber eats", "Dining", "", 1.0)}
		result := ApplyMappings(newScanResult("Uber Eats"), mappings)

		if result.Transaction.Category != "Dining" {
			t.Errorf("expected category Dining, got %s", result.Transaction.Category)
		}
	})
}
