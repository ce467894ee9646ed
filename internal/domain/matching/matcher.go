package matching

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// ConfidenceThreshold is the fixed cutoff a match score must strictly exceed
// for a mapping to be applied without user confirmation. It is deliberately
// not configurable per call so auto-apply behavior stays deterministic.
const ConfidenceThreshold = 0.7

// ApplyResult is the outcome of running a transaction through ApplyMappings.
type ApplyResult struct {
	// Transaction is a new value; the input is never mutated.
	Transaction entity.Transaction

	// AppliedMappingIDs lists each applied mapping's ID exactly once.
	// Mappings without an ID can still set categories but are not listed;
	// usage tracking is best-effort and silently skipped for them.
	AppliedMappingIDs []uuid.UUID
}

// ApplyMappings runs the merchant-level and item-level matching passes over
// the transaction. A nil or empty mapping list is treated as "no mappings",
// never as an error, and malformed mappings (missing normalized key) simply
// never match.
func ApplyMappings(tx entity.Transaction, mappings []*entity.Mapping) ApplyResult {
	out := ApplyResult{Transaction: tx.Clone()}
	if len(mappings) == 0 {
		return out
	}

	applied := make(map[uuid.UUID]struct{})
	record := func(m *entity.Mapping) {
		if m.ID == uuid.Nil {
			return
		}
		if _, ok := applied[m.ID]; ok {
			return
		}
		applied[m.ID] = struct{}{}
		out.AppliedMappingIDs = append(out.AppliedMappingIDs, m.ID)
	}

	// Merchant-level pass.
	if best := bestMatch(Normalize(out.Transaction.Merchant), mappings, entity.MappingScopeMerchant); best != nil {
		if best.TargetCategory != "" {
			out.Transaction.Category = best.TargetCategory
		}
		if best.TargetMerchant != "" {
			out.Transaction.Merchant = best.TargetMerchant
		}
		record(best)
	}

	// Item-level pass: each item is matched independently; items with no
	// qualifying match keep their original category, including nil.
	for i := range out.Transaction.Items {
		best := bestMatch(Normalize(out.Transaction.Items[i].Name), mappings, entity.MappingScopeItem)
		if best == nil || best.TargetCategory == "" {
			continue
		}
		category := best.TargetCategory
		out.Transaction.Items[i].Category = &category
		record(best)
	}

	return out
}

// bestMatch returns the highest-scoring mapping of the given scope whose
// score strictly exceeds ConfidenceThreshold, or nil if none qualifies.
func bestMatch(normalized string, mappings []*entity.Mapping, scope entity.MappingScope) *entity.Mapping {
	var best *entity.Mapping
	bestScore := ConfidenceThreshold

	for _, m := range mappings {
		if m == nil || m.Scope != scope {
			continue
		}
		key := m.NormalizedKey()
		if key == "" || normalized == "" {
			continue
		}
		score := m.Confidence * (1 - normalizedDistance(normalized, key))
		if score > bestScore {
			bestScore = score
			best = m
		}
	}

	return best
}

// normalizedDistance is the Levenshtein distance between a and b divided by
// the longer string's rune length, yielding 0 for identical strings and 1
// for completely different ones regardless of length.
func normalizedDistance(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longer := la
	if lb > longer {
		longer = lb
	}
	if longer == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longer)
}
