// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// SharedGroupModel represents the shared_groups table in the database.
type SharedGroupModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"type:varchar(100);not null"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Sharing-toggle cooldown state. Ownership transfer must never write
	// these columns.
	TransactionSharingEnabled          bool       `gorm:"not null;default:false"`
	TransactionSharingLastToggleAt     *time.Time
	TransactionSharingToggleCountToday int        `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the SharedGroupModel.
func (SharedGroupModel) TableName() string {
	return "shared_groups"
}

// ToEntity converts a SharedGroupModel to a domain SharedGroup entity.
func (m *SharedGroupModel) ToEntity() *entity.SharedGroup {
	return &entity.SharedGroup{
		ID:                                 m.ID,
		Name:                               m.Name,
		OwnerID:                            m.OwnerID,
		TransactionSharingEnabled:          m.TransactionSharingEnabled,
		TransactionSharingLastToggleAt:     m.TransactionSharingLastToggleAt,
		TransactionSharingToggleCountToday: m.TransactionSharingToggleCountToday,
		CreatedAt:                          m.CreatedAt,
		UpdatedAt:                          m.UpdatedAt,
	}
}

// SharedGroupFromEntity creates a SharedGroupModel from a domain SharedGroup entity.
func SharedGroupFromEntity(group *entity.SharedGroup) *SharedGroupModel {
	return &SharedGroupModel{
		ID:                                 group.ID,
		Name:                               group.Name,
		OwnerID:                            group.OwnerID,
		TransactionSharingEnabled:          group.TransactionSharingEnabled,
		TransactionSharingLastToggleAt:     group.TransactionSharingLastToggleAt,
		TransactionSharingToggleCountToday: group.TransactionSharingToggleCountToday,
		CreatedAt:                          group.CreatedAt,
		UpdatedAt:                          group.UpdatedAt,
	}
}

// GroupMemberModel represents the group_members table in the database.
type GroupMemberModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_members_group_user"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_members_group_user"`
	JoinedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GroupMemberModel.
func (GroupMemberModel) TableName() string {
	return "group_members"
}

// ToEntity converts a GroupMemberModel to a domain GroupMember entity.
func (m *GroupMemberModel) ToEntity() *entity.GroupMember {
	return &entity.GroupMember{
		ID:       m.ID,
		GroupID:  m.GroupID,
		UserID:   m.UserID,
		JoinedAt: m.JoinedAt,
	}
}

// GroupMemberFromEntity creates a GroupMemberModel from a domain GroupMember entity.
func GroupMemberFromEntity(member *entity.GroupMember) *GroupMemberModel {
	return &GroupMemberModel{
		ID:       member.ID,
		GroupID:  member.GroupID,
		UserID:   member.UserID,
		JoinedAt: member.JoinedAt,
	}
}

// PendingInvitationModel represents the pending_invitations table in the database.
type PendingInvitationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Email     string    `gorm:"type:varchar(255);not null;index"`
	Token     string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	InvitedBy uuid.UUID `gorm:"type:uuid;not null"`
	Status    string    `gorm:"type:varchar(10);not null;default:'pending'"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the PendingInvitationModel.
func (PendingInvitationModel) TableName() string {
	return "pending_invitations"
}

// ToEntity converts a PendingInvitationModel to a domain PendingInvitation entity.
func (m *PendingInvitationModel) ToEntity() *entity.PendingInvitation {
	return &entity.PendingInvitation{
		ID:        m.ID,
		GroupID:   m.GroupID,
		Email:     m.Email,
		Token:     m.Token,
		InvitedBy: m.InvitedBy,
		Status:    entity.InvitationStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

// PendingInvitationFromEntity creates a PendingInvitationModel from a domain
// PendingInvitation entity.
func PendingInvitationFromEntity(invitation *entity.PendingInvitation) *PendingInvitationModel {
	return &PendingInvitationModel{
		ID:        invitation.ID,
		GroupID:   invitation.GroupID,
		Email:     invitation.Email,
		Token:     invitation.Token,
		InvitedBy: invitation.InvitedBy,
		Status:    string(invitation.Status),
		CreatedAt: invitation.CreatedAt,
	}
}

// GroupActivityModel represents the group_activities table in the database.
type GroupActivityModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null"`
	Action    string    `gorm:"type:varchar(50);not null"`
	Detail    string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the GroupActivityModel.
func (GroupActivityModel) TableName() string {
	return "group_activities"
}

// ToEntity converts a GroupActivityModel to a domain GroupActivity entity.
func (m *GroupActivityModel) ToEntity() *entity.GroupActivity {
	return &entity.GroupActivity{
		ID:        m.ID,
		GroupID:   m.GroupID,
		ActorID:   m.ActorID,
		Action:    m.Action,
		Detail:    m.Detail,
		CreatedAt: m.CreatedAt,
	}
}

// GroupActivityFromEntity creates a GroupActivityModel from a domain GroupActivity entity.
func GroupActivityFromEntity(activity *entity.GroupActivity) *GroupActivityModel {
	return &GroupActivityModel{
		ID:        activity.ID,
		GroupID:   activity.GroupID,
		ActorID:   activity.ActorID,
		Action:    activity.Action,
		Detail:    activity.Detail,
		CreatedAt: activity.CreatedAt,
	}
}
