// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// InvitationStatus represents the status of a group invitation. The only
// permitted transition is pending to accepted or declined; both are terminal.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
)

// MaxSharingTogglesPerDay limits how often a group's transaction-sharing
// setting may be flipped within one UTC day.
const MaxSharingTogglesPerDay = 3

// SharedGroup is a named collection of users who jointly track a subset of
// expenses. Exactly one member owns the group at any time, and the owner is
// always a member.
type SharedGroup struct {
	ID      uuid.UUID
	Name    string
	OwnerID uuid.UUID

	// Cooldown state for the transaction-sharing toggle. These fields must
	// survive ownership transfer unchanged.
	TransactionSharingEnabled          bool
	TransactionSharingLastToggleAt     *time.Time
	TransactionSharingToggleCountToday int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSharedGroup creates a new SharedGroup entity owned by the creator.
func NewSharedGroup(name string, ownerID uuid.UUID) *SharedGroup {
	now := time.Now().UTC()

	return &SharedGroup{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanToggleSharing reports whether another sharing toggle is allowed at the
// given instant. The toggle counter resets when the UTC day changes.
func (g *SharedGroup) CanToggleSharing(now time.Time) bool {
	if g.TransactionSharingLastToggleAt == nil {
		return true
	}
	if !sameUTCDay(*g.TransactionSharingLastToggleAt, now) {
		return true
	}
	return g.TransactionSharingToggleCountToday < MaxSharingTogglesPerDay
}

// RecordSharingToggle flips the sharing flag and advances the cooldown state.
func (g *SharedGroup) RecordSharingToggle(now time.Time) {
	if g.TransactionSharingLastToggleAt == nil || !sameUTCDay(*g.TransactionSharingLastToggleAt, now) {
		g.TransactionSharingToggleCountToday = 0
	}
	g.TransactionSharingEnabled = !g.TransactionSharingEnabled
	g.TransactionSharingToggleCountToday++
	toggleAt := now
	g.TransactionSharingLastToggleAt = &toggleAt
	g.UpdatedAt = now
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// GroupMember represents one user's membership in a shared group. Members
// form a set: one row per (group, user).
type GroupMember struct {
	ID       uuid.UUID
	GroupID  uuid.UUID
	UserID   uuid.UUID
	JoinedAt time.Time
	// User information (populated when needed)
	UserName  string
	UserEmail string
}

// NewGroupMember creates a new GroupMember entity.
func NewGroupMember(groupID, userID uuid.UUID) *GroupMember {
	return &GroupMember{
		ID:       uuid.New(),
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	}
}

// PendingInvitation is an invitation to join a shared group. It is immutable
// once created except for the terminal status transition performed by the
// invited identity, and is removed when its group is deleted or the owner
// cancels it.
type PendingInvitation struct {
	ID        uuid.UUID
	GroupID   uuid.UUID
	Email     string
	Token     string
	InvitedBy uuid.UUID
	Status    InvitationStatus
	CreatedAt time.Time
}

// NewPendingInvitation creates a new invitation in the pending state.
func NewPendingInvitation(groupID uuid.UUID, email, token string, invitedBy uuid.UUID) *PendingInvitation {
	return &PendingInvitation{
		ID:        uuid.New(),
		GroupID:   groupID,
		Email:     email,
		Token:     token,
		InvitedBy: invitedBy,
		Status:    InvitationStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// GroupActivity is a changelog entry recorded for group mutations. Activity
// cleanup on owner delete is best-effort.
type GroupActivity struct {
	ID        uuid.UUID
	GroupID   uuid.UUID
	ActorID   uuid.UUID
	Action    string
	Detail    string
	CreatedAt time.Time
}

// NewGroupActivity creates a new changelog entry.
func NewGroupActivity(groupID, actorID uuid.UUID, action, detail string) *GroupActivity {
	return &GroupActivity{
		ID:        uuid.New(),
		GroupID:   groupID,
		ActorID:   actorID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
}

// SharedGroupWithMembers represents a group with its members and pending
// invitations.
type SharedGroupWithMembers struct {
	Group          *SharedGroup
	Members        []*GroupMember
	PendingInvites []*PendingInvitation
	MemberCount    int
}

// SharedGroupListItem represents a group in a list view.
type SharedGroupListItem struct {
	ID          uuid.UUID
	Name        string
	MemberCount int
	IsOwner     bool
	CreatedAt   time.Time
}
