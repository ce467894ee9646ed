// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// MappingRepository defines the interface for mapping persistence operations.
type MappingRepository interface {
	// FindByUser retrieves all mappings owned by the user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Mapping, error)

	// FindByID retrieves a mapping by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Mapping, error)

	// Upsert creates or updates the mapping keyed on (user, scope,
	// normalized key) as a single transactional read-then-write, since the
	// store has no unique secondary index on the normalized key. It returns
	// the stored mapping, which keeps the existing ID and usage count on
	// update.
	Upsert(ctx context.Context, mapping *entity.Mapping) (*entity.Mapping, error)

	// Delete removes a mapping from the store.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementUsage adds one use to each of the given mappings. Unknown
	// IDs are ignored; usage tracking is best-effort.
	IncrementUsage(ctx context.Context, ids []uuid.UUID) error
}

// MappingCache caches a user's mapping list in front of the repository.
type MappingCache interface {
	// Get returns the cached mapping list, or (nil, nil) on a miss.
	Get(ctx context.Context, userID uuid.UUID) ([]*entity.Mapping, error)

	// Set stores the mapping list for the user.
	Set(ctx context.Context, userID uuid.UUID, mappings []*entity.Mapping) error

	// Invalidate drops the cached list for the user.
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
