package sharedgroup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// memGroupStore is an in-memory GroupRepository whose Mutate mimics the real
// transactional contract closely enough for use case tests: the group is
// re-read at the start of every mutation and writes go through the mutation
// view only.
type memGroupStore struct {
	groups      map[uuid.UUID]*entity.SharedGroup
	members     map[uuid.UUID]map[uuid.UUID]*entity.GroupMember
	invitations map[uuid.UUID]*entity.PendingInvitation
	activities  map[uuid.UUID][]*entity.GroupActivity

	deleteActivitiesErr error
}

func newMemGroupStore() *memGroupStore {
	return &memGroupStore{
		groups:      make(map[uuid.UUID]*entity.SharedGroup),
		members:     make(map[uuid.UUID]map[uuid.UUID]*entity.GroupMember),
		invitations: make(map[uuid.UUID]*entity.PendingInvitation),
		activities:  make(map[uuid.UUID][]*entity.GroupActivity),
	}
}

func (s *memGroupStore) seedGroup(group *entity.SharedGroup, memberIDs ...uuid.UUID) {
	s.groups[group.ID] = group
	s.members[group.ID] = make(map[uuid.UUID]*entity.GroupMember)
	for _, id := range memberIDs {
		s.members[group.ID][id] = entity.NewGroupMember(group.ID, id)
	}
}

func (s *memGroupStore) CreateGroup(_ context.Context, group *entity.SharedGroup, owner *entity.GroupMember) error {
	s.groups[group.ID] = group
	s.members[group.ID] = map[uuid.UUID]*entity.GroupMember{owner.UserID: owner}
	return nil
}

func (s *memGroupStore) FindGroupByID(_ context.Context, id uuid.UUID) (*entity.SharedGroup, error) {
	return s.groups[id], nil
}

func (s *memGroupStore) FindGroupsByUserID(_ context.Context, userID uuid.UUID) ([]*entity.SharedGroupListItem, error) {
	var out []*entity.SharedGroupListItem
	for groupID, members := range s.members {
		if _, ok := members[userID]; !ok {
			continue
		}
		group := s.groups[groupID]
		out = append(out, &entity.SharedGroupListItem{
			ID:          group.ID,
			Name:        group.Name,
			MemberCount: len(members),
			IsOwner:     group.OwnerID == userID,
			CreatedAt:   group.CreatedAt,
		})
	}
	return out, nil
}

func (s *memGroupStore) GetGroupWithMembers(_ context.Context, groupID uuid.UUID) (*entity.SharedGroupWithMembers, error) {
	group, ok := s.groups[groupID]
	if !ok {
		return nil, nil
	}
	out := &entity.SharedGroupWithMembers{Group: group}
	for _, member := range s.members[groupID] {
		out.Members = append(out.Members, member)
	}
	for _, inv := range s.invitations {
		if inv.GroupID == groupID && inv.Status == entity.InvitationStatusPending {
			out.PendingInvites = append(out.PendingInvites, inv)
		}
	}
	out.MemberCount = len(out.Members)
	return out, nil
}

func (s *memGroupStore) IsUserMemberOfGroup(_ context.Context, groupID, userID uuid.UUID) (bool, error) {
	_, ok := s.members[groupID][userID]
	return ok, nil
}

func (s *memGroupStore) Mutate(ctx context.Context, groupID uuid.UUID, fn func(ctx context.Context, tx adapter.GroupMutation) error) error {
	stored, ok := s.groups[groupID]
	if !ok {
		return domainerror.NewGroupError(
			domainerror.ErrCodeGroupNotFound,
			"group not found",
			domainerror.ErrGroupNotFound,
		)
	}
	// Hand the use case a copy so only explicit writes reach the store.
	view := *stored
	return fn(ctx, &memGroupMutation{store: s, groupID: groupID, view: &view})
}

func (s *memGroupStore) CreateInvitation(_ context.Context, invitation *entity.PendingInvitation) error {
	s.invitations[invitation.ID] = invitation
	return nil
}

func (s *memGroupStore) FindInvitationByToken(_ context.Context, token string) (*entity.PendingInvitation, error) {
	for _, inv := range s.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, nil
}

func (s *memGroupStore) FindPendingInvitationByGroupAndEmail(_ context.Context, groupID uuid.UUID, email string) (*entity.PendingInvitation, error) {
	for _, inv := range s.invitations {
		if inv.GroupID == groupID && inv.Email == email && inv.Status == entity.InvitationStatusPending {
			return inv, nil
		}
	}
	return nil, nil
}

func (s *memGroupStore) DeleteInvitation(_ context.Context, id uuid.UUID) error {
	delete(s.invitations, id)
	return nil
}

func (s *memGroupStore) DeleteActivities(_ context.Context, groupID uuid.UUID) error {
	if s.deleteActivitiesErr != nil {
		return s.deleteActivitiesErr
	}
	delete(s.activities, groupID)
	return nil
}

func (s *memGroupStore) ListActivities(_ context.Context, groupID uuid.UUID, limit int) ([]*entity.GroupActivity, error) {
	entries := s.activities[groupID]
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

func (s *memGroupStore) actions(groupID uuid.UUID) []string {
	var out []string
	for _, a := range s.activities[groupID] {
		out = append(out, a.Action)
	}
	return out
}

type memGroupMutation struct {
	store   *memGroupStore
	groupID uuid.UUID
	view    *entity.SharedGroup
}

func (m *memGroupMutation) Group() *entity.SharedGroup { return m.view }

func (m *memGroupMutation) Members(_ context.Context) ([]*entity.GroupMember, error) {
	var out []*entity.GroupMember
	for _, member := range m.store.members[m.groupID] {
		out = append(out, member)
	}
	return out, nil
}

func (m *memGroupMutation) IsMember(_ context.Context, userID uuid.UUID) (bool, error) {
	_, ok := m.store.members[m.groupID][userID]
	return ok, nil
}

func (m *memGroupMutation) CountMembers(_ context.Context) (int, error) {
	return len(m.store.members[m.groupID]), nil
}

func (m *memGroupMutation) AddMember(_ context.Context, member *entity.GroupMember) error {
	m.store.members[m.groupID][member.UserID] = member
	return nil
}

func (m *memGroupMutation) RemoveMember(_ context.Context, userID uuid.UUID) error {
	delete(m.store.members[m.groupID], userID)
	return nil
}

func (m *memGroupMutation) SetOwner(_ context.Context, newOwnerID uuid.UUID, updatedAt time.Time) error {
	stored := m.store.groups[m.groupID]
	stored.OwnerID = newOwnerID
	stored.UpdatedAt = updatedAt
	return nil
}

func (m *memGroupMutation) SaveSharingState(_ context.Context, group *entity.SharedGroup) error {
	stored := m.store.groups[m.groupID]
	stored.TransactionSharingEnabled = group.TransactionSharingEnabled
	stored.TransactionSharingLastToggleAt = group.TransactionSharingLastToggleAt
	stored.TransactionSharingToggleCountToday = group.TransactionSharingToggleCountToday
	stored.UpdatedAt = group.UpdatedAt
	return nil
}

func (m *memGroupMutation) Touch(_ context.Context, updatedAt time.Time) error {
	m.store.groups[m.groupID].UpdatedAt = updatedAt
	return nil
}

func (m *memGroupMutation) DeleteGroup(_ context.Context) error {
	delete(m.store.groups, m.groupID)
	delete(m.store.members, m.groupID)
	return nil
}

func (m *memGroupMutation) DeletePendingInvitations(_ context.Context) error {
	for id, inv := range m.store.invitations {
		if inv.GroupID == m.groupID {
			delete(m.store.invitations, id)
		}
	}
	return nil
}

func (m *memGroupMutation) FindInvitationByToken(_ context.Context, token string) (*entity.PendingInvitation, error) {
	for _, inv := range m.store.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, nil
}

func (m *memGroupMutation) UpdateInvitationStatus(_ context.Context, invitationID uuid.UUID, status entity.InvitationStatus) error {
	if inv, ok := m.store.invitations[invitationID]; ok {
		inv.Status = status
	}
	return nil
}

func (m *memGroupMutation) AppendActivity(_ context.Context, activity *entity.GroupActivity) error {
	m.store.activities[m.groupID] = append(m.store.activities[m.groupID], activity)
	return nil
}

// memTransactionStore covers the single repository call the deletion use
// cases make.
type memTransactionStore struct {
	adapter.TransactionRepository

	tagged     map[uuid.UUID]*entity.Transaction
	batchCalls int
}

func newMemTransactionStore() *memTransactionStore {
	return &memTransactionStore{tagged: make(map[uuid.UUID]*entity.Transaction)}
}

func (s *memTransactionStore) addTagged(userID, groupID uuid.UUID) *entity.Transaction {
	tx := &entity.Transaction{ID: uuid.New(), UserID: userID, SharedGroupID: &groupID}
	s.tagged[tx.ID] = tx
	return tx
}

func (s *memTransactionStore) ClearSharedGroupBatch(_ context.Context, groupID uuid.UUID, userID *uuid.UUID, limit int) (int64, error) {
	s.batchCalls++
	var cleared int64
	for _, tx := range s.tagged {
		if cleared >= int64(limit) {
			break
		}
		if tx.SharedGroupID == nil || *tx.SharedGroupID != groupID {
			continue
		}
		if userID != nil && tx.UserID != *userID {
			continue
		}
		tx.SharedGroupID = nil
		cleared++
	}
	return cleared, nil
}

func (s *memTransactionStore) taggedCount(groupID uuid.UUID) int {
	count := 0
	for _, tx := range s.tagged {
		if tx.SharedGroupID != nil && *tx.SharedGroupID == groupID {
			count++
		}
	}
	return count
}

func testAppIDs() *AppIDValidator {
	return NewAppIDValidator([]string{"receipt-ledger"})
}

func TestLeaveGroupUseCase(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	memberID := uuid.New()

	t.Run("rejects empty parameters", func(t *testing.T) {
		uc := NewLeaveGroupUseCase(newMemGroupStore())
		_, err := uc.Execute(ctx, LeaveGroupInput{})
		if !errors.Is(err, domainerror.ErrEmptyParameter) {
			t.Errorf("expected ErrEmptyParameter, got %v", err)
		}
	})

	t.Run("unknown group returns not found", func(t *testing.T) {
		uc := NewLeaveGroupUseCase(newMemGroupStore())
		_, err := uc.Execute(ctx, LeaveGroupInput{GroupID: uuid.New(), UserID: memberID})
		if !errors.Is(err, domainerror.ErrGroupNotFound) {
			t.Errorf("expected ErrGroupNotFound, got %v", err)
		}
	})

	t.Run("non-member cannot leave", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID)

		uc := NewLeaveGroupUseCase(store)
		_, err := uc.Execute(ctx, LeaveGroupInput{GroupID: group.ID, UserID: memberID})
		if !errors.Is(err, domainerror.ErrNotAMember) {
			t.Errorf("expected ErrNotAMember, got %v", err)
		}
	})

	t.Run("owner must transfer first", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID, memberID)

		uc := NewLeaveGroupUseCase(store)
		_, err := uc.Execute(ctx, LeaveGroupInput{GroupID: group.ID, UserID: ownerID})
		if !errors.Is(err, domainerror.ErrOwnerMustTransferFirst) {
			t.Errorf("expected ErrOwnerMustTransferFirst, got %v", err)
		}
		if _, ok := store.members[group.ID][ownerID]; !ok {
			t.Error("expected owner membership to remain")
		}
	})

	t.Run("member leaves and the departure is logged", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID, memberID)

		uc := NewLeaveGroupUseCase(store)
		out, err := uc.Execute(ctx, LeaveGroupInput{GroupID: group.ID, UserID: memberID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Success {
			t.Error("expected success")
		}
		if _, ok := store.members[group.ID][memberID]; ok {
			t.Error("expected membership removed")
		}
		if _, ok := store.groups[group.ID]; !ok {
			t.Error("expected group to survive a member leaving")
		}
		actions := store.actions(group.ID)
		if len(actions) != 1 || actions[0] != "member_left" {
			t.Errorf("expected [member_left] activity, got %v", actions)
		}
	})
}

func TestTransferOwnershipUseCase(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	memberID := uuid.New()

	t.Run("only the current owner may transfer", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID, memberID)

		uc := NewTransferOwnershipUseCase(store)
		_, err := uc.Execute(ctx, TransferOwnershipInput{
			GroupID:        group.ID,
			CurrentOwnerID: memberID,
			NewOwnerID:     memberID,
		})
		if !errors.Is(err, domainerror.ErrNotOwner) {
			t.Errorf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("target must already be a member", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID, memberID)

		uc := NewTransferOwnershipUseCase(store)
		_, err := uc.Execute(ctx, TransferOwnershipInput{
			GroupID:        group.ID,
			CurrentOwnerID: ownerID,
			NewOwnerID:     uuid.New(),
		})
		if !errors.Is(err, domainerror.ErrTargetNotAMember) {
			t.Errorf("expected ErrTargetNotAMember, got %v", err)
		}
		if store.groups[group.ID].OwnerID != ownerID {
			t.Error("expected ownership unchanged")
		}
	})

	t.Run("self-transfer is a no-op", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID, memberID)
		before := store.groups[group.ID].UpdatedAt

		uc := NewTransferOwnershipUseCase(store)
		out, err := uc.Execute(ctx, TransferOwnershipInput{
			GroupID:        group.ID,
			CurrentOwnerID: ownerID,
			NewOwnerID:     ownerID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Group.OwnerID != ownerID {
			t.Errorf("expected owner unchanged, got %s", out.Group.OwnerID)
		}
		if !store.groups[group.ID].UpdatedAt.Equal(before) {
			t.Error("expected no write for a self-transfer")
		}
		if len(store.actions(group.ID)) != 0 {
			t.Error("expected no activity for a self-transfer")
		}
	})

	t.Run("transfer preserves the sharing cooldown state exactly", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		lastToggle := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
		group.TransactionSharingEnabled = true
		group.TransactionSharingLastToggleAt = &lastToggle
		group.TransactionSharingToggleCountToday = 2
		store.seedGroup(group, ownerID, memberID)

		uc := NewTransferOwnershipUseCase(store)
		out, err := uc.Execute(ctx, TransferOwnershipInput{
			GroupID:        group.ID,
			CurrentOwnerID: ownerID,
			NewOwnerID:     memberID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Group.OwnerID != memberID {
			t.Errorf("expected new owner %s, got %s", memberID, out.Group.OwnerID)
		}

		stored := store.groups[group.ID]
		if stored.OwnerID != memberID {
			t.Errorf("expected stored owner %s, got %s", memberID, stored.OwnerID)
		}
		if !stored.TransactionSharingEnabled {
			t.Error("expected sharing flag preserved")
		}
		if stored.TransactionSharingLastToggleAt == nil || !stored.TransactionSharingLastToggleAt.Equal(lastToggle) {
			t.Errorf("expected last toggle preserved, got %v", stored.TransactionSharingLastToggleAt)
		}
		if stored.TransactionSharingToggleCountToday != 2 {
			t.Errorf("expected toggle count preserved, got %d", stored.TransactionSharingToggleCountToday)
		}
		actions := store.actions(group.ID)
		if len(actions) != 1 || actions[0] != "ownership_transferred" {
			t.Errorf("expected [ownership_transferred] activity, got %v", actions)
		}
	})

	t.Run("second transfer by the old owner loses", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID, memberID)

		uc := NewTransferOwnershipUseCase(store)
		if _, err := uc.Execute(ctx, TransferOwnershipInput{
			GroupID:        group.ID,
			CurrentOwnerID: ownerID,
			NewOwnerID:     memberID,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := uc.Execute(ctx, TransferOwnershipInput{
			GroupID:        group.ID,
			CurrentOwnerID: ownerID,
			NewOwnerID:     ownerID,
		})
		if !errors.Is(err, domainerror.ErrNotOwner) {
			t.Errorf("expected ErrNotOwner for the losing transfer, got %v", err)
		}
	})
}

func TestDeleteGroupAsLastMemberUseCase(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("rejects unknown app id", func(t *testing.T) {
		uc := NewDeleteGroupAsLastMemberUseCase(newMemGroupStore(), newMemTransactionStore(), testAppIDs())
		_, err := uc.Execute(ctx, DeleteGroupAsLastMemberInput{GroupID: uuid.New(), UserID: userID, AppID: "intruder"})
		if !errors.Is(err, domainerror.ErrInvalidAppID) {
			t.Errorf("expected ErrInvalidAppID, got %v", err)
		}
	})

	t.Run("rejects app id with path traversal", func(t *testing.T) {
		uc := NewDeleteGroupAsLastMemberUseCase(newMemGroupStore(), newMemTransactionStore(), testAppIDs())
		_, err := uc.Execute(ctx, DeleteGroupAsLastMemberInput{GroupID: uuid.New(), UserID: userID, AppID: "../receipt-ledger"})
		if !errors.Is(err, domainerror.ErrInvalidAppID) {
			t.Errorf("expected ErrInvalidAppID, got %v", err)
		}
	})

	t.Run("rejects when other members remain", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", userID)
		store.seedGroup(group, userID, uuid.New())

		uc := NewDeleteGroupAsLastMemberUseCase(store, newMemTransactionStore(), testAppIDs())
		_, err := uc.Execute(ctx, DeleteGroupAsLastMemberInput{GroupID: group.ID, UserID: userID, AppID: "receipt-ledger"})
		if !errors.Is(err, domainerror.ErrMultipleMembersRemain) {
			t.Errorf("expected ErrMultipleMembersRemain, got %v", err)
		}
		if _, ok := store.groups[group.ID]; !ok {
			t.Error("expected group untouched")
		}
	})

	t.Run("rejects a caller who is not the remaining member", func(t *testing.T) {
		store := newMemGroupStore()
		soleMember := uuid.New()
		group := entity.NewSharedGroup("Household", soleMember)
		store.seedGroup(group, soleMember)

		uc := NewDeleteGroupAsLastMemberUseCase(store, newMemTransactionStore(), testAppIDs())
		_, err := uc.Execute(ctx, DeleteGroupAsLastMemberInput{GroupID: group.ID, UserID: userID, AppID: "receipt-ledger"})
		if !errors.Is(err, domainerror.ErrNotAMember) {
			t.Errorf("expected ErrNotAMember, got %v", err)
		}
	})

	t.Run("deletes the group and untags only the caller's transactions", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", userID)
		store.seedGroup(group, userID)
		invitation := entity.NewPendingInvitation(group.ID, "friend@example.com", "tok", userID)
		store.invitations[invitation.ID] = invitation

		txStore := newMemTransactionStore()
		mine := txStore.addTagged(userID, group.ID)
		formerMembers := txStore.addTagged(uuid.New(), group.ID)

		uc := NewDeleteGroupAsLastMemberUseCase(store, txStore, testAppIDs())
		out, err := uc.Execute(ctx, DeleteGroupAsLastMemberInput{GroupID: group.ID, UserID: userID, AppID: "receipt-ledger"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.TransactionsUntagged != 1 {
			t.Errorf("expected 1 untagged transaction, got %d", out.TransactionsUntagged)
		}
		if _, ok := store.groups[group.ID]; ok {
			t.Error("expected group deleted")
		}
		if len(store.invitations) != 0 {
			t.Error("expected pending invitations deleted")
		}
		if mine.SharedGroupID != nil {
			t.Error("expected caller's transaction untagged")
		}
		if formerMembers.SharedGroupID == nil {
			t.Error("expected the former member's transaction to keep its tag")
		}
	})

	t.Run("untagging loops until a short batch", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", userID)
		store.seedGroup(group, userID)

		txStore := newMemTransactionStore()
		for i := 0; i < adapter.ClearBatchSize+1; i++ {
			txStore.addTagged(userID, group.ID)
		}

		uc := NewDeleteGroupAsLastMemberUseCase(store, txStore, testAppIDs())
		out, err := uc.Execute(ctx, DeleteGroupAsLastMemberInput{GroupID: group.ID, UserID: userID, AppID: "receipt-ledger"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.TransactionsUntagged != int64(adapter.ClearBatchSize+1) {
			t.Errorf("expected %d untagged, got %d", adapter.ClearBatchSize+1, out.TransactionsUntagged)
		}
		if txStore.batchCalls != 2 {
			t.Errorf("expected 2 batch calls, got %d", txStore.batchCalls)
		}
		if txStore.taggedCount(group.ID) != 0 {
			t.Error("expected every transaction untagged")
		}
	})
}

func TestDeleteGroupAsOwnerUseCase(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	memberID := uuid.New()

	t.Run("rejected non-owner leaves everything untouched", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID, memberID)
		txStore := newMemTransactionStore()
		txStore.addTagged(ownerID, group.ID)
		txStore.addTagged(memberID, group.ID)

		uc := NewDeleteGroupAsOwnerUseCase(store, txStore, testAppIDs())
		_, err := uc.Execute(ctx, DeleteGroupAsOwnerInput{GroupID: group.ID, OwnerID: memberID, AppID: "receipt-ledger"})
		if !errors.Is(err, domainerror.ErrNotOwner) {
			t.Errorf("expected ErrNotOwner, got %v", err)
		}
		if _, ok := store.groups[group.ID]; !ok {
			t.Error("expected group untouched")
		}
		if txStore.taggedCount(group.ID) != 2 {
			t.Error("expected no transactions untagged on rejection")
		}
	})

	t.Run("owner delete untags every member's transactions", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID, memberID)
		invitation := entity.NewPendingInvitation(group.ID, "friend@example.com", "tok", ownerID)
		store.invitations[invitation.ID] = invitation
		store.activities[group.ID] = []*entity.GroupActivity{
			entity.NewGroupActivity(group.ID, ownerID, "member_joined", ""),
		}

		txStore := newMemTransactionStore()
		txStore.addTagged(ownerID, group.ID)
		txStore.addTagged(memberID, group.ID)

		uc := NewDeleteGroupAsOwnerUseCase(store, txStore, testAppIDs())
		out, err := uc.Execute(ctx, DeleteGroupAsOwnerInput{GroupID: group.ID, OwnerID: ownerID, AppID: "receipt-ledger"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.TransactionsUntagged != 2 {
			t.Errorf("expected 2 untagged transactions, got %d", out.TransactionsUntagged)
		}
		if _, ok := store.groups[group.ID]; ok {
			t.Error("expected group deleted")
		}
		if len(store.invitations) != 0 {
			t.Error("expected invitations deleted")
		}
		if len(store.activities[group.ID]) != 0 {
			t.Error("expected changelog removed")
		}
	})

	t.Run("changelog cleanup failure does not fail the delete", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID)
		store.deleteActivitiesErr = errors.New("changelog store down")

		uc := NewDeleteGroupAsOwnerUseCase(store, newMemTransactionStore(), testAppIDs())
		out, err := uc.Execute(ctx, DeleteGroupAsOwnerInput{GroupID: group.ID, OwnerID: ownerID, AppID: "receipt-ledger"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out == nil {
			t.Fatal("expected a result despite changelog failure")
		}
		if _, ok := store.groups[group.ID]; ok {
			t.Error("expected group deleted")
		}
	})
}

func TestToggleSharingUseCase(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	memberID := uuid.New()

	t.Run("only the owner can toggle", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID, memberID)

		uc := NewToggleSharingUseCase(store)
		_, err := uc.Execute(ctx, ToggleSharingInput{GroupID: group.ID, UserID: memberID})
		if !errors.Is(err, domainerror.ErrNotOwner) {
			t.Errorf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("fourth toggle of the day is rate limited", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID)

		uc := NewToggleSharingUseCase(store)
		for i := 0; i < entity.MaxSharingTogglesPerDay; i++ {
			if _, err := uc.Execute(ctx, ToggleSharingInput{GroupID: group.ID, UserID: ownerID}); err != nil {
				t.Fatalf("toggle %d: unexpected error: %v", i+1, err)
			}
		}

		_, err := uc.Execute(ctx, ToggleSharingInput{GroupID: group.ID, UserID: ownerID})
		if !errors.Is(err, domainerror.ErrToggleRateLimited) {
			t.Errorf("expected ErrToggleRateLimited, got %v", err)
		}
	})

	t.Run("counter resets on a new UTC day", func(t *testing.T) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		yesterday := time.Now().UTC().Add(-24 * time.Hour)
		group.TransactionSharingLastToggleAt = &yesterday
		group.TransactionSharingToggleCountToday = entity.MaxSharingTogglesPerDay
		store.seedGroup(group, ownerID)

		uc := NewToggleSharingUseCase(store)
		out, err := uc.Execute(ctx, ToggleSharingInput{GroupID: group.ID, UserID: ownerID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.TogglesToday != 1 {
			t.Errorf("expected reset counter of 1, got %d", out.TogglesToday)
		}
	})
}

type memUserStore struct {
	users map[uuid.UUID]*entity.User

	findByEmailErr error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]*entity.User)}
}

func (s *memUserStore) Create(_ context.Context, user *entity.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return s.users[id], nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if s.findByEmailErr != nil {
		return nil, s.findByEmailErr
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := s.FindByEmail(ctx, email)
	return u != nil, err
}

type memEmailQueue struct {
	queued []adapter.QueueGroupInvitationInput
}

func (q *memEmailQueue) QueueGroupInvitationEmail(_ context.Context, input adapter.QueueGroupInvitationInput) error {
	q.queued = append(q.queued, input)
	return nil
}

func TestInviteMemberUseCase(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	setup := func() (*memGroupStore, *memUserStore, *memEmailQueue, *entity.SharedGroup) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID)

		users := newMemUserStore()
		owner := entity.NewUser("owner@example.com", "Owner", "hash")
		owner.ID = ownerID
		users.users[ownerID] = owner

		return store, users, &memEmailQueue{}, group
	}

	t.Run("invitation carries the tokenized link", func(t *testing.T) {
		store, users, emails, group := setup()

		uc := NewInviteMemberUseCase(store, users, emails)
		out, err := uc.Execute(ctx, InviteMemberInput{
			GroupID:   group.ID,
			Email:     " Friend@Example.com ",
			InviterID: ownerID,
			InviteURL: "https://app.example.com/invite",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Invitation.Email != "friend@example.com" {
			t.Errorf("expected normalized email, got %q", out.Invitation.Email)
		}
		if len(emails.queued) != 1 {
			t.Fatalf("expected 1 queued email, got %d", len(emails.queued))
		}
		want := "https://app.example.com/invite?token=" + out.Invitation.Token
		if emails.queued[0].InviteURL != want {
			t.Errorf("expected invite URL %q, got %q", want, emails.queued[0].InviteURL)
		}
	})

	t.Run("existing member cannot be invited", func(t *testing.T) {
		store, users, emails, group := setup()
		member := entity.NewUser("friend@example.com", "Friend", "hash")
		users.users[member.ID] = member
		store.members[group.ID][member.ID] = entity.NewGroupMember(group.ID, member.ID)

		uc := NewInviteMemberUseCase(store, users, emails)
		_, err := uc.Execute(ctx, InviteMemberInput{
			GroupID:   group.ID,
			Email:     "friend@example.com",
			InviterID: ownerID,
			InviteURL: "https://app.example.com/invite",
		})
		if !errors.Is(err, domainerror.ErrAlreadyMember) {
			t.Errorf("expected ErrAlreadyMember, got %v", err)
		}
	})

	t.Run("invitee lookup failure aborts the invitation", func(t *testing.T) {
		store, users, emails, group := setup()
		users.findByEmailErr = errors.New("user store down")

		uc := NewInviteMemberUseCase(store, users, emails)
		_, err := uc.Execute(ctx, InviteMemberInput{
			GroupID:   group.ID,
			Email:     "friend@example.com",
			InviterID: ownerID,
			InviteURL: "https://app.example.com/invite",
		})
		if err == nil {
			t.Fatal("expected the lookup failure to surface")
		}
		if !errors.Is(err, users.findByEmailErr) {
			t.Errorf("expected the store error wrapped, got %v", err)
		}
		if len(store.invitations) != 0 {
			t.Error("expected no invitation created on a failed lookup")
		}
		if len(emails.queued) != 0 {
			t.Error("expected no email queued on a failed lookup")
		}
	})
}

func TestRespondInvitationUseCase(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	setup := func() (*memGroupStore, *memUserStore, *entity.SharedGroup, *entity.User, *entity.PendingInvitation) {
		store := newMemGroupStore()
		group := entity.NewSharedGroup("Household", ownerID)
		store.seedGroup(group, ownerID)

		users := newMemUserStore()
		invitee := entity.NewUser("friend@example.com", "Friend", "hash")
		users.users[invitee.ID] = invitee

		invitation := entity.NewPendingInvitation(group.ID, "friend@example.com", "tok-123", ownerID)
		store.invitations[invitation.ID] = invitation

		return store, users, group, invitee, invitation
	}

	t.Run("accepting adds the membership and logs the join", func(t *testing.T) {
		store, users, group, invitee, _ := setup()

		uc := NewRespondInvitationUseCase(store, users)
		out, err := uc.Execute(ctx, RespondInvitationInput{Token: "tok-123", UserID: invitee.ID, Accept: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Status != entity.InvitationStatusAccepted {
			t.Errorf("expected accepted status, got %s", out.Status)
		}
		if _, ok := store.members[group.ID][invitee.ID]; !ok {
			t.Error("expected invitee added as member")
		}
		actions := store.actions(group.ID)
		if len(actions) != 1 || actions[0] != "member_joined" {
			t.Errorf("expected [member_joined] activity, got %v", actions)
		}
	})

	t.Run("declining leaves membership untouched", func(t *testing.T) {
		store, users, group, invitee, invitation := setup()

		uc := NewRespondInvitationUseCase(store, users)
		out, err := uc.Execute(ctx, RespondInvitationInput{Token: "tok-123", UserID: invitee.ID, Accept: false})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Status != entity.InvitationStatusDeclined {
			t.Errorf("expected declined status, got %s", out.Status)
		}
		if _, ok := store.members[group.ID][invitee.ID]; ok {
			t.Error("expected no membership after a decline")
		}
		if store.invitations[invitation.ID].Status != entity.InvitationStatusDeclined {
			t.Error("expected invitation marked declined")
		}
	})

	t.Run("a second answer is rejected", func(t *testing.T) {
		store, users, _, invitee, _ := setup()

		uc := NewRespondInvitationUseCase(store, users)
		if _, err := uc.Execute(ctx, RespondInvitationInput{Token: "tok-123", UserID: invitee.ID, Accept: false}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := uc.Execute(ctx, RespondInvitationInput{Token: "tok-123", UserID: invitee.ID, Accept: true})
		if !errors.Is(err, domainerror.ErrInvitationNotPending) {
			t.Errorf("expected ErrInvitationNotPending, got %v", err)
		}
	})

	t.Run("only the invited identity may answer", func(t *testing.T) {
		store, users, _, _, _ := setup()
		stranger := entity.NewUser("stranger@example.com", "Stranger", "hash")
		users.users[stranger.ID] = stranger

		uc := NewRespondInvitationUseCase(store, users)
		_, err := uc.Execute(ctx, RespondInvitationInput{Token: "tok-123", UserID: stranger.ID, Accept: true})
		if !errors.Is(err, domainerror.ErrInvitationNotFound) {
			t.Errorf("expected ErrInvitationNotFound, got %v", err)
		}
	})
}
