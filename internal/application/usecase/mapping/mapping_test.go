package mapping

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

type fakeMappingRepo struct {
	mappings       map[uuid.UUID]*entity.Mapping
	findByUserErr  error
	usageIncrement map[uuid.UUID]int
	usageErr       error
}

func newFakeMappingRepo() *fakeMappingRepo {
	return &fakeMappingRepo{
		mappings:       make(map[uuid.UUID]*entity.Mapping),
		usageIncrement: make(map[uuid.UUID]int),
	}
}

func (f *fakeMappingRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Mapping, error) {
	if f.findByUserErr != nil {
		return nil, f.findByUserErr
	}
	var out []*entity.Mapping
	for _, m := range f.mappings {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMappingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Mapping, error) {
	return f.mappings[id], nil
}

func (f *fakeMappingRepo) Upsert(_ context.Context, mapping *entity.Mapping) (*entity.Mapping, error) {
	for _, existing := range f.mappings {
		if existing.UserID == mapping.UserID && existing.Scope == mapping.Scope && existing.NormalizedKey() == mapping.NormalizedKey() {
			existing.TargetCategory = mapping.TargetCategory
			existing.TargetMerchant = mapping.TargetMerchant
			existing.Confidence = mapping.Confidence
			existing.UpdatedAt = mapping.UpdatedAt
			return existing, nil
		}
	}
	f.mappings[mapping.ID] = mapping
	return mapping, nil
}

func (f *fakeMappingRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.mappings, id)
	return nil
}

func (f *fakeMappingRepo) IncrementUsage(_ context.Context, ids []uuid.UUID) error {
	if f.usageErr != nil {
		return f.usageErr
	}
	for _, id := range ids {
		f.usageIncrement[id]++
	}
	return nil
}

type fakeMappingCache struct {
	entries        map[uuid.UUID][]*entity.Mapping
	getErr, setErr error
	invalidations  int
}

func newFakeMappingCache() *fakeMappingCache {
	return &fakeMappingCache{entries: make(map[uuid.UUID][]*entity.Mapping)}
}

func (f *fakeMappingCache) Get(_ context.Context, userID uuid.UUID) ([]*entity.Mapping, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[userID], nil
}

func (f *fakeMappingCache) Set(_ context.Context, userID uuid.UUID, mappings []*entity.Mapping) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[userID] = mappings
	return nil
}

func (f *fakeMappingCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	delete(f.entries, userID)
	f.invalidations++
	return nil
}

func merchantMapping(userID uuid.UUID, original, category string) *entity.Mapping {
	m := entity.NewMapping(userID, entity.MappingScopeMerchant, entity.MappingSourceUser)
	m.OriginalMerchant = original
	m.NormalizedMerchant = original
	m.TargetCategory = category
	return m
}

func TestApplyMappingsUseCase(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("applies mappings and increments usage", func(t *testing.T) {
		repo := newFakeMappingRepo()
		m := merchantMapping(userID, "starbucks", "Dining")
		repo.mappings[m.ID] = m

		uc := NewApplyMappingsUseCase(repo, nil)
		out, err := uc.Execute(ctx, ApplyMappingsInput{
			UserID: userID,
			Transaction: entity.Transaction{
				UserID:   userID,
				Merchant: "Starbucks",
				Total:    decimal.NewFromInt(5),
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Transaction.Category != "Dining" {
			t.Errorf("expected category Dining, got %q", out.Transaction.Category)
		}
		if len(out.AppliedMappingIDs) != 1 || out.AppliedMappingIDs[0] != m.ID {
			t.Errorf("expected applied ids [%s], got %v", m.ID, out.AppliedMappingIDs)
		}
		if repo.usageIncrement[m.ID] != 1 {
			t.Errorf("expected one usage increment, got %d", repo.usageIncrement[m.ID])
		}
	})

	t.Run("usage increment failure does not fail the call", func(t *testing.T) {
		repo := newFakeMappingRepo()
		m := merchantMapping(userID, "starbucks", "Dining")
		repo.mappings[m.ID] = m
		repo.usageErr = errors.New("db down")

		uc := NewApplyMappingsUseCase(repo, nil)
		out, err := uc.Execute(ctx, ApplyMappingsInput{
			UserID:      userID,
			Transaction: entity.Transaction{UserID: userID, Merchant: "Starbucks"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Transaction.Category != "Dining" {
			t.Errorf("expected category Dining, got %q", out.Transaction.Category)
		}
	})

	t.Run("serves mappings from cache without hitting the repository", func(t *testing.T) {
		repo := newFakeMappingRepo()
		repo.findByUserErr = errors.New("must not be called")
		cache := newFakeMappingCache()
		cache.entries[userID] = []*entity.Mapping{merchantMapping(userID, "starbucks", "Dining")}

		uc := NewApplyMappingsUseCase(repo, cache)
		out, err := uc.Execute(ctx, ApplyMappingsInput{
			UserID:      userID,
			Transaction: entity.Transaction{UserID: userID, Merchant: "Starbucks"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Transaction.Category != "Dining" {
			t.Errorf("expected category Dining, got %q", out.Transaction.Category)
		}
	})

	t.Run("cache read failure falls back to the repository", func(t *testing.T) {
		repo := newFakeMappingRepo()
		m := merchantMapping(userID, "starbucks", "Dining")
		repo.mappings[m.ID] = m
		cache := newFakeMappingCache()
		cache.getErr = errors.New("redis down")

		uc := NewApplyMappingsUseCase(repo, cache)
		out, err := uc.Execute(ctx, ApplyMappingsInput{
			UserID:      userID,
			Transaction: entity.Transaction{UserID: userID, Merchant: "Starbucks"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Transaction.Category != "Dining" {
			t.Errorf("expected category Dining, got %q", out.Transaction.Category)
		}
	})
}

func TestUpsertMappingUseCase(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("creates a merchant mapping with normalized key", func(t *testing.T) {
		repo := newFakeMappingRepo()
		cache := newFakeMappingCache()
		uc := NewUpsertMappingUseCase(repo, cache)

		out, err := uc.Execute(ctx, UpsertMappingInput{
			UserID:         userID,
			Scope:          entity.MappingScopeMerchant,
			OriginalValue:  "  STARBUCKS #123  ",
			TargetCategory: "Dining",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Mapping.NormalizedMerchant != "starbucks 123" {
			t.Errorf("expected normalized merchant %q, got %q", "starbucks 123", out.Mapping.NormalizedMerchant)
		}
		if out.Mapping.Confidence != entity.DefaultMappingConfidence {
			t.Errorf("expected default confidence, got %v", out.Mapping.Confidence)
		}
		if cache.invalidations != 1 {
			t.Errorf("expected one cache invalidation, got %d", cache.invalidations)
		}
	})

	t.Run("re-learning the same key updates instead of duplicating", func(t *testing.T) {
		repo := newFakeMappingRepo()
		uc := NewUpsertMappingUseCase(repo, nil)

		first, err := uc.Execute(ctx, UpsertMappingInput{
			UserID:         userID,
			Scope:          entity.MappingScopeMerchant,
			OriginalValue:  "Starbucks",
			TargetCategory: "Dining",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := uc.Execute(ctx, UpsertMappingInput{
			UserID:         userID,
			Scope:          entity.MappingScopeMerchant,
			OriginalValue:  "starbucks",
			TargetCategory: "Coffee",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if second.Mapping.ID != first.Mapping.ID {
			t.Errorf("expected upsert to keep mapping id %s, got %s", first.Mapping.ID, second.Mapping.ID)
		}
		if len(repo.mappings) != 1 {
			t.Errorf("expected a single stored mapping, got %d", len(repo.mappings))
		}
		if second.Mapping.TargetCategory != "Coffee" {
			t.Errorf("expected updated category Coffee, got %q", second.Mapping.TargetCategory)
		}
	})

	t.Run("rejects invalid scope", func(t *testing.T) {
		uc := NewUpsertMappingUseCase(newFakeMappingRepo(), nil)
		_, err := uc.Execute(ctx, UpsertMappingInput{
			UserID:         userID,
			Scope:          "vendor",
			OriginalValue:  "Starbucks",
			TargetCategory: "Dining",
		})
		if !errors.Is(err, domainerror.ErrInvalidMappingScope) {
			t.Errorf("expected ErrInvalidMappingScope, got %v", err)
		}
	})

	t.Run("rejects value that normalizes to empty", func(t *testing.T) {
		uc := NewUpsertMappingUseCase(newFakeMappingRepo(), nil)
		_, err := uc.Execute(ctx, UpsertMappingInput{
			UserID:         userID,
			Scope:          entity.MappingScopeMerchant,
			OriginalValue:  "!!! ---",
			TargetCategory: "Dining",
		})
		if !errors.Is(err, domainerror.ErrMappingMissingFields) {
			t.Errorf("expected ErrMappingMissingFields, got %v", err)
		}
	})

	t.Run("rejects mapping without targets", func(t *testing.T) {
		uc := NewUpsertMappingUseCase(newFakeMappingRepo(), nil)
		_, err := uc.Execute(ctx, UpsertMappingInput{
			UserID:        userID,
			Scope:         entity.MappingScopeMerchant,
			OriginalValue: "Starbucks",
		})
		if !errors.Is(err, domainerror.ErrMappingMissingFields) {
			t.Errorf("expected ErrMappingMissingFields, got %v", err)
		}
	})

	t.Run("rejects confidence outside range", func(t *testing.T) {
		uc := NewUpsertMappingUseCase(newFakeMappingRepo(), nil)
		confidence := 1.5
		_, err := uc.Execute(ctx, UpsertMappingInput{
			UserID:         userID,
			Scope:          entity.MappingScopeMerchant,
			OriginalValue:  "Starbucks",
			TargetCategory: "Dining",
			Confidence:     &confidence,
		})
		if !errors.Is(err, domainerror.ErrInvalidConfidence) {
			t.Errorf("expected ErrInvalidConfidence, got %v", err)
		}
	})
}

func TestListMappingsUseCase(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := newFakeMappingRepo()
	merchant := merchantMapping(userID, "starbucks", "Dining")
	repo.mappings[merchant.ID] = merchant
	item := entity.NewMapping(userID, entity.MappingScopeItem, entity.MappingSourceUser)
	item.OriginalItem = "oat milk"
	item.NormalizedItem = "oat milk"
	item.TargetCategory = "Groceries"
	repo.mappings[item.ID] = item

	uc := NewListMappingsUseCase(repo, nil)

	t.Run("returns everything without a scope filter", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListMappingsInput{UserID: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Mappings) != 2 {
			t.Errorf("expected 2 mappings, got %d", len(out.Mappings))
		}
	})

	t.Run("filters by scope", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListMappingsInput{UserID: userID, Scope: entity.MappingScopeItem})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Mappings) != 1 || out.Mappings[0].Scope != entity.MappingScopeItem {
			t.Errorf("expected only the item mapping, got %v", out.Mappings)
		}
	})
}

func TestDeleteMappingUseCase(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("deletes an owned mapping and invalidates the cache", func(t *testing.T) {
		repo := newFakeMappingRepo()
		cache := newFakeMappingCache()
		m := merchantMapping(userID, "starbucks", "Dining")
		repo.mappings[m.ID] = m

		uc := NewDeleteMappingUseCase(repo, cache)
		out, err := uc.Execute(ctx, DeleteMappingInput{MappingID: m.ID, UserID: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Success {
			t.Error("expected success")
		}
		if _, ok := repo.mappings[m.ID]; ok {
			t.Error("expected mapping to be removed")
		}
		if cache.invalidations != 1 {
			t.Errorf("expected one cache invalidation, got %d", cache.invalidations)
		}
	})

	t.Run("rejects deleting another user's mapping", func(t *testing.T) {
		repo := newFakeMappingRepo()
		m := merchantMapping(uuid.New(), "starbucks", "Dining")
		repo.mappings[m.ID] = m

		uc := NewDeleteMappingUseCase(repo, nil)
		_, err := uc.Execute(ctx, DeleteMappingInput{MappingID: m.ID, UserID: userID})
		if !errors.Is(err, domainerror.ErrNotMappingOwner) {
			t.Errorf("expected ErrNotMappingOwner, got %v", err)
		}
	})

	t.Run("unknown mapping returns not found", func(t *testing.T) {
		uc := NewDeleteMappingUseCase(newFakeMappingRepo(), nil)
		_, err := uc.Execute(ctx, DeleteMappingInput{MappingID: uuid.New(), UserID: userID})
		if !errors.Is(err, domainerror.ErrMappingNotFound) {
			t.Errorf("expected ErrMappingNotFound, got %v", err)
		}
	})
}
