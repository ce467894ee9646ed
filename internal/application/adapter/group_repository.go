// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// GroupMutation is a transactional view of one shared group. All reads and
// writes made through it belong to a single datastore transaction holding a
// write lock on the group row, so precondition checks and the writes they
// guard cannot be split by a concurrent mutation.
type GroupMutation interface {
	// Group returns the group row as read inside the transaction.
	Group() *entity.SharedGroup

	// Members returns all members of the group.
	Members(ctx context.Context) ([]*entity.GroupMember, error)

	// IsMember reports whether the user is a member of the group.
	IsMember(ctx context.Context, userID uuid.UUID) (bool, error)

	// CountMembers returns the number of members.
	CountMembers(ctx context.Context) (int, error)

	// AddMember inserts a membership row.
	AddMember(ctx context.Context, member *entity.GroupMember) error

	// RemoveMember deletes the user's membership row.
	RemoveMember(ctx context.Context, userID uuid.UUID) error

	// SetOwner writes only owner_id and updated_at. Every other column,
	// including the sharing-toggle cooldown fields, is left untouched.
	SetOwner(ctx context.Context, newOwnerID uuid.UUID, updatedAt time.Time) error

	// SaveSharingState persists the sharing flag and its cooldown fields.
	SaveSharingState(ctx context.Context, group *entity.SharedGroup) error

	// Touch updates only the group's updated_at column.
	Touch(ctx context.Context, updatedAt time.Time) error

	// DeleteGroup removes the group row and all of its membership rows.
	DeleteGroup(ctx context.Context) error

	// DeletePendingInvitations removes every invitation referencing the group.
	DeletePendingInvitations(ctx context.Context) error

	// FindInvitationByToken retrieves the invitation as it stands inside the
	// transaction, or (nil, nil) when absent.
	FindInvitationByToken(ctx context.Context, token string) (*entity.PendingInvitation, error)

	// UpdateInvitationStatus performs the terminal status transition of one
	// invitation.
	UpdateInvitationStatus(ctx context.Context, invitationID uuid.UUID, status entity.InvitationStatus) error

	// AppendActivity records a changelog entry for the group.
	AppendActivity(ctx context.Context, activity *entity.GroupActivity) error
}

// GroupRepository defines the interface for shared group persistence
// operations.
type GroupRepository interface {
	// CreateGroup atomically creates the group and its owner membership.
	CreateGroup(ctx context.Context, group *entity.SharedGroup, owner *entity.GroupMember) error

	// FindGroupByID retrieves a group by its ID, or (nil, nil) when absent.
	FindGroupByID(ctx context.Context, id uuid.UUID) (*entity.SharedGroup, error)

	// FindGroupsByUserID retrieves all groups a user belongs to.
	FindGroupsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.SharedGroupListItem, error)

	// GetGroupWithMembers retrieves a group with members and pending invitations.
	GetGroupWithMembers(ctx context.Context, groupID uuid.UUID) (*entity.SharedGroupWithMembers, error)

	// IsUserMemberOfGroup checks if a user is a member of a group.
	IsUserMemberOfGroup(ctx context.Context, groupID, userID uuid.UUID) (bool, error)

	// Mutate runs fn inside one datastore transaction with the group row
	// locked for update. It returns domain ErrGroupNotFound when the group
	// does not exist and ErrTransactionConflict on write contention; any
	// error from fn rolls the transaction back and is returned verbatim.
	Mutate(ctx context.Context, groupID uuid.UUID, fn func(ctx context.Context, tx GroupMutation) error) error

	// CreateInvitation creates a new pending invitation.
	CreateInvitation(ctx context.Context, invitation *entity.PendingInvitation) error

	// FindInvitationByToken retrieves an invitation by its token.
	FindInvitationByToken(ctx context.Context, token string) (*entity.PendingInvitation, error)

	// FindPendingInvitationByGroupAndEmail retrieves a pending invitation
	// for the email in the group, or (nil, nil) when absent.
	FindPendingInvitationByGroupAndEmail(ctx context.Context, groupID uuid.UUID, email string) (*entity.PendingInvitation, error)

	// DeleteInvitation removes one invitation (owner cancel).
	DeleteInvitation(ctx context.Context, id uuid.UUID) error

	// DeleteActivities removes the group's changelog entries. Used for the
	// best-effort cleanup on owner delete.
	DeleteActivities(ctx context.Context, groupID uuid.UUID) error

	// ListActivities returns the most recent changelog entries for a group.
	ListActivities(ctx context.Context, groupID uuid.UUID, limit int) ([]*entity.GroupActivity, error)
}
