// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
	"github.com/receipt-ledger/backend/internal/integration/persistence/model"
)

// groupRepository implements the adapter.GroupRepository interface.
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository instance.
func NewGroupRepository(db *gorm.DB) adapter.GroupRepository {
	return &groupRepository{
		db: db,
	}
}

// CreateGroup creates the group and its owner membership in one transaction.
func (r *groupRepository) CreateGroup(ctx context.Context, group *entity.SharedGroup, owner *entity.GroupMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model.SharedGroupFromEntity(group)).Error; err != nil {
			return err
		}
		return tx.Create(model.GroupMemberFromEntity(owner)).Error
	})
}

// FindGroupByID retrieves a group by its ID.
func (r *groupRepository) FindGroupByID(ctx context.Context, id uuid.UUID) (*entity.SharedGroup, error) {
	var groupModel model.SharedGroupModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&groupModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return groupModel.ToEntity(), nil
}

// FindGroupsByUserID retrieves all groups a user belongs to.
func (r *groupRepository) FindGroupsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.SharedGroupListItem, error) {
	var results []struct {
		ID          uuid.UUID
		Name        string
		OwnerID     uuid.UUID
		MemberCount int
		CreatedAt   time.Time
	}

	query := `
		SELECT
			g.id,
			g.name,
			g.owner_id,
			(SELECT COUNT(*) FROM group_members gm2 WHERE gm2.group_id = g.id) as member_count,
			g.created_at
		FROM shared_groups g
		INNER JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY g.created_at DESC
	`

	if err := r.db.WithContext(ctx).Raw(query, userID).Scan(&results).Error; err != nil {
		return nil, err
	}

	groups := make([]*entity.SharedGroupListItem, len(results))
	for i, res := range results {
		groups[i] = &entity.SharedGroupListItem{
			ID:          res.ID,
			Name:        res.Name,
			MemberCount: res.MemberCount,
			IsOwner:     res.OwnerID == userID,
			CreatedAt:   res.CreatedAt,
		}
	}

	return groups, nil
}

// GetGroupWithMembers retrieves a group with its members and pending
// invitations. Member rows carry the user's name and email.
func (r *groupRepository) GetGroupWithMembers(ctx context.Context, groupID uuid.UUID) (*entity.SharedGroupWithMembers, error) {
	group, err := r.FindGroupByID(ctx, groupID)
	if err != nil || group == nil {
		return nil, err
	}

	var memberRows []struct {
		ID        uuid.UUID
		GroupID   uuid.UUID
		UserID    uuid.UUID
		JoinedAt  time.Time
		UserName  string
		UserEmail string
	}
	memberQuery := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.joined_at, u.name as user_name, u.email as user_email
		FROM group_members gm
		INNER JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = ?
		ORDER BY gm.joined_at ASC
	`
	if err := r.db.WithContext(ctx).Raw(memberQuery, groupID).Scan(&memberRows).Error; err != nil {
		return nil, err
	}

	members := make([]*entity.GroupMember, len(memberRows))
	for i, row := range memberRows {
		members[i] = &entity.GroupMember{
			ID:        row.ID,
			GroupID:   row.GroupID,
			UserID:    row.UserID,
			JoinedAt:  row.JoinedAt,
			UserName:  row.UserName,
			UserEmail: row.UserEmail,
		}
	}

	var invitationModels []model.PendingInvitationModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND status = ?", groupID, string(entity.InvitationStatusPending)).
		Order("created_at ASC").
		Find(&invitationModels).Error; err != nil {
		return nil, err
	}

	invitations := make([]*entity.PendingInvitation, len(invitationModels))
	for i := range invitationModels {
		invitations[i] = invitationModels[i].ToEntity()
	}

	return &entity.SharedGroupWithMembers{
		Group:          group,
		Members:        members,
		PendingInvites: invitations,
		MemberCount:    len(members),
	}, nil
}

// IsUserMemberOfGroup checks if a user is a member of a group.
func (r *groupRepository) IsUserMemberOfGroup(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.GroupMemberModel{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count)
	return count > 0, result.Error
}

// Mutate runs fn inside one database transaction with the group row locked
// FOR UPDATE. Every precondition check fn performs therefore sees the state
// the writes will apply to; a concurrent mutation blocks until this
// transaction commits or aborts.
func (r *groupRepository) Mutate(ctx context.Context, groupID uuid.UUID, fn func(ctx context.Context, tx adapter.GroupMutation) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		read := tx
		// SQLite has no FOR UPDATE; its single-writer transaction already
		// serializes group mutations.
		if tx.Dialector.Name() == "postgres" {
			read = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var groupModel model.SharedGroupModel
		result := read.
			Where("id = ?", groupID).
			First(&groupModel)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return domainerror.NewGroupError(
					domainerror.ErrCodeGroupNotFound,
					"group not found",
					domainerror.ErrGroupNotFound,
				)
			}
			return result.Error
		}

		return fn(ctx, &groupMutation{
			tx:      tx,
			groupID: groupID,
			group:   groupModel.ToEntity(),
		})
	})
	if err != nil {
		return translateConflict(err)
	}
	return nil
}

// translateConflict maps database write contention onto the domain conflict
// error so callers can retry. Domain errors pass through untouched.
func translateConflict(err error) error {
	var groupErr *domainerror.GroupError
	if errors.As(err, &groupErr) {
		return err
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "database is locked") {
		return domainerror.NewGroupError(
			domainerror.ErrCodeTransactionConflict,
			"group was modified concurrently",
			domainerror.ErrTransactionConflict,
		)
	}
	return err
}

// groupMutation implements adapter.GroupMutation on top of an open gorm
// transaction.
type groupMutation struct {
	tx      *gorm.DB
	groupID uuid.UUID
	group   *entity.SharedGroup
}

func (m *groupMutation) Group() *entity.SharedGroup {
	return m.group
}

func (m *groupMutation) Members(ctx context.Context) ([]*entity.GroupMember, error) {
	var memberModels []model.GroupMemberModel
	if err := m.tx.WithContext(ctx).
		Where("group_id = ?", m.groupID).
		Find(&memberModels).Error; err != nil {
		return nil, err
	}
	members := make([]*entity.GroupMember, len(memberModels))
	for i := range memberModels {
		members[i] = memberModels[i].ToEntity()
	}
	return members, nil
}

func (m *groupMutation) IsMember(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	result := m.tx.WithContext(ctx).
		Model(&model.GroupMemberModel{}).
		Where("group_id = ? AND user_id = ?", m.groupID, userID).
		Count(&count)
	return count > 0, result.Error
}

func (m *groupMutation) CountMembers(ctx context.Context) (int, error) {
	var count int64
	result := m.tx.WithContext(ctx).
		Model(&model.GroupMemberModel{}).
		Where("group_id = ?", m.groupID).
		Count(&count)
	return int(count), result.Error
}

func (m *groupMutation) AddMember(ctx context.Context, member *entity.GroupMember) error {
	return m.tx.WithContext(ctx).Create(model.GroupMemberFromEntity(member)).Error
}

func (m *groupMutation) RemoveMember(ctx context.Context, userID uuid.UUID) error {
	return m.tx.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", m.groupID, userID).
		Delete(&model.GroupMemberModel{}).Error
}

// SetOwner writes only owner_id and updated_at, leaving the sharing-toggle
// cooldown columns byte-for-byte as they were.
func (m *groupMutation) SetOwner(ctx context.Context, newOwnerID uuid.UUID, updatedAt time.Time) error {
	return m.tx.WithContext(ctx).
		Model(&model.SharedGroupModel{}).
		Where("id = ?", m.groupID).
		Updates(map[string]interface{}{
			"owner_id":   newOwnerID,
			"updated_at": updatedAt,
		}).Error
}

func (m *groupMutation) SaveSharingState(ctx context.Context, group *entity.SharedGroup) error {
	return m.tx.WithContext(ctx).
		Model(&model.SharedGroupModel{}).
		Where("id = ?", m.groupID).
		Updates(map[string]interface{}{
			"transaction_sharing_enabled":            group.TransactionSharingEnabled,
			"transaction_sharing_last_toggle_at":     group.TransactionSharingLastToggleAt,
			"transaction_sharing_toggle_count_today": group.TransactionSharingToggleCountToday,
			"updated_at":                             group.UpdatedAt,
		}).Error
}

func (m *groupMutation) Touch(ctx context.Context, updatedAt time.Time) error {
	return m.tx.WithContext(ctx).
		Model(&model.SharedGroupModel{}).
		Where("id = ?", m.groupID).
		Update("updated_at", updatedAt).Error
}

func (m *groupMutation) DeleteGroup(ctx context.Context) error {
	if err := m.tx.WithContext(ctx).
		Where("group_id = ?", m.groupID).
		Delete(&model.GroupMemberModel{}).Error; err != nil {
		return err
	}
	return m.tx.WithContext(ctx).
		Where("id = ?", m.groupID).
		Delete(&model.SharedGroupModel{}).Error
}

func (m *groupMutation) DeletePendingInvitations(ctx context.Context) error {
	return m.tx.WithContext(ctx).
		Where("group_id = ?", m.groupID).
		Delete(&model.PendingInvitationModel{}).Error
}

func (m *groupMutation) FindInvitationByToken(ctx context.Context, token string) (*entity.PendingInvitation, error) {
	var invitationModel model.PendingInvitationModel
	result := m.tx.WithContext(ctx).Where("token = ?", token).First(&invitationModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return invitationModel.ToEntity(), nil
}

func (m *groupMutation) UpdateInvitationStatus(ctx context.Context, invitationID uuid.UUID, status entity.InvitationStatus) error {
	return m.tx.WithContext(ctx).
		Model(&model.PendingInvitationModel{}).
		Where("id = ?", invitationID).
		Update("status", string(status)).Error
}

func (m *groupMutation) AppendActivity(ctx context.Context, activity *entity.GroupActivity) error {
	return m.tx.WithContext(ctx).Create(model.GroupActivityFromEntity(activity)).Error
}

// CreateInvitation creates a new pending invitation.
func (r *groupRepository) CreateInvitation(ctx context.Context, invitation *entity.PendingInvitation) error {
	return r.db.WithContext(ctx).Create(model.PendingInvitationFromEntity(invitation)).Error
}

// FindInvitationByToken retrieves an invitation by its token.
func (r *groupRepository) FindInvitationByToken(ctx context.Context, token string) (*entity.PendingInvitation, error) {
	var invitationModel model.PendingInvitationModel
	result := r.db.WithContext(ctx).Where("token = ?", token).First(&invitationModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return invitationModel.ToEntity(), nil
}

// FindPendingInvitationByGroupAndEmail retrieves a pending invitation for
// the email in the group.
func (r *groupRepository) FindPendingInvitationByGroupAndEmail(ctx context.Context, groupID uuid.UUID, email string) (*entity.PendingInvitation, error) {
	var invitationModel model.PendingInvitationModel
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND lower(email) = lower(?) AND status = ?", groupID, email, string(entity.InvitationStatusPending)).
		First(&invitationModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return invitationModel.ToEntity(), nil
}

// DeleteInvitation removes one invitation.
func (r *groupRepository) DeleteInvitation(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PendingInvitationModel{}).Error
}

// DeleteActivities removes the group's changelog entries.
func (r *groupRepository) DeleteActivities(ctx context.Context, groupID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("group_id = ?", groupID).Delete(&model.GroupActivityModel{}).Error
}

// ListActivities returns the most recent changelog entries for a group.
func (r *groupRepository) ListActivities(ctx context.Context, groupID uuid.UUID, limit int) ([]*entity.GroupActivity, error) {
	var activityModels []model.GroupActivityModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activityModels).Error; err != nil {
		return nil, err
	}
	activities := make([]*entity.GroupActivity, len(activityModels))
	for i := range activityModels {
		activities[i] = activityModels[i].ToEntity()
	}
	return activities, nil
}
