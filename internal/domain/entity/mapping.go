// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// MappingScope determines whether a mapping matches against the transaction
// merchant or against individual line items.
type MappingScope string

const (
	MappingScopeMerchant MappingScope = "merchant"
	MappingScopeItem     MappingScope = "item"
)

// MappingSource distinguishes mappings the user created explicitly from
// mappings inferred from accepted scan results.
type MappingSource string

const (
	MappingSourceUser     MappingSource = "user"
	MappingSourceInferred MappingSource = "inferred"
)

// DefaultMappingConfidence is applied when a mapping is learned without an
// explicit confidence value.
const DefaultMappingConfidence = 1.0

// Mapping is a user-trained rule associating a normalized merchant or item
// name with a target category and/or canonical merchant label. One mapping
// exists per normalized key per user and scope.
type Mapping struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Scope              MappingScope
	OriginalMerchant   string // merchant string as first observed
	OriginalItem       string // item name as first observed
	NormalizedMerchant string // lowercased, trimmed, punctuation-stripped
	NormalizedItem     string
	TargetCategory     string
	TargetMerchant     string
	Confidence         float64 // in [0,1]
	Source             MappingSource
	UsageCount         int64 // incremented on each successful application
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewMapping creates a new Mapping entity with the default confidence.
func NewMapping(userID uuid.UUID, scope MappingScope, source MappingSource) *Mapping {
	now := time.Now().UTC()

	return &Mapping{
		ID:         uuid.New(),
		UserID:     userID,
		Scope:      scope,
		Confidence: DefaultMappingConfidence,
		Source:     source,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NormalizedKey returns the string the mapping is matched and upserted on,
// depending on its scope.
func (m *Mapping) NormalizedKey() string {
	if m.Scope == MappingScopeItem {
		return m.NormalizedItem
	}
	return m.NormalizedMerchant
}
