// Package mapping contains mapping-related use cases.
package mapping

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// loadUserMappings returns the user's mapping list, served from the cache
// when possible. Cache failures are logged and fall through to the
// repository; a broken cache must never break matching.
func loadUserMappings(ctx context.Context, repo adapter.MappingRepository, cache adapter.MappingCache, userID uuid.UUID) ([]*entity.Mapping, error) {
	if cache != nil {
		cached, err := cache.Get(ctx, userID)
		if err != nil {
			slog.Warn("mapping cache read failed", "user_id", userID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	mappings, err := repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings: %w", err)
	}

	if cache != nil {
		if err := cache.Set(ctx, userID, mappings); err != nil {
			slog.Warn("mapping cache write failed", "user_id", userID, "error", err)
		}
	}

	return mappings, nil
}
