// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// CreateGroupRequest represents the request body for group creation.
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// InviteMemberRequest represents the request body for inviting a member.
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RespondInvitationRequest represents the request body for answering an
// invitation.
type RespondInvitationRequest struct {
	Token  string `json:"token" binding:"required"`
	Accept bool   `json:"accept"`
}

// TransferOwnershipRequest represents the request body for ownership transfer.
type TransferOwnershipRequest struct {
	NewOwnerID string `json:"new_owner_id" binding:"required,uuid"`
}

// DeleteGroupRequest represents the request body for group deletion. The app
// ID identifies the calling application and is checked against an allow-list.
type DeleteGroupRequest struct {
	AppID string `json:"app_id" binding:"required"`
}

// GroupResponse represents a single group in API responses.
type GroupResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	OwnerID        string    `json:"owner_id"`
	SharingEnabled bool      `json:"sharing_enabled"`
	CreatedAt      time.Time `json:"created_at"`
}

// GroupListResponse represents the response for listing groups.
type GroupListResponse struct {
	Groups []GroupListItemResponse `json:"groups"`
}

// GroupListItemResponse represents a group in list view.
type GroupListItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MemberCount int       `json:"member_count"`
	IsOwner     bool      `json:"is_owner"`
	CreatedAt   time.Time `json:"created_at"`
}

// GroupDetailResponse represents detailed group information.
type GroupDetailResponse struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	OwnerID        string                  `json:"owner_id"`
	SharingEnabled bool                    `json:"sharing_enabled"`
	CreatedAt      time.Time               `json:"created_at"`
	Members        []GroupMemberResponse   `json:"members"`
	PendingInvites []GroupInviteResponse   `json:"pending_invites,omitempty"`
	Activities     []GroupActivityResponse `json:"activities,omitempty"`
}

// GroupMemberResponse represents a group member in API responses.
type GroupMemberResponse struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	IsOwner  bool      `json:"is_owner"`
	JoinedAt time.Time `json:"joined_at"`
}

// GroupInviteResponse represents a group invitation in API responses.
type GroupInviteResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupActivityResponse represents a changelog entry in API responses.
type GroupActivityResponse struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RespondInvitationResponse represents the response for answering an
// invitation.
type RespondInvitationResponse struct {
	GroupID string `json:"group_id"`
	Status  string `json:"status"`
}

// ToggleSharingResponse represents the response for toggling sharing.
type ToggleSharingResponse struct {
	Enabled      bool `json:"enabled"`
	TogglesToday int  `json:"toggles_today"`
}

// DeleteGroupResponse represents the response for group deletion.
type DeleteGroupResponse struct {
	TransactionsUntagged int64 `json:"transactions_untagged"`
}

// ToGroupResponse converts a domain SharedGroup entity to a GroupResponse DTO.
func ToGroupResponse(group *entity.SharedGroup) GroupResponse {
	return GroupResponse{
		ID:             group.ID.String(),
		Name:           group.Name,
		OwnerID:        group.OwnerID.String(),
		SharingEnabled: group.TransactionSharingEnabled,
		CreatedAt:      group.CreatedAt,
	}
}

// ToGroupListResponse converts a list of SharedGroupListItem to GroupListResponse.
func ToGroupListResponse(groups []*entity.SharedGroupListItem) GroupListResponse {
	items := make([]GroupListItemResponse, len(groups))
	for i, g := range groups {
		items[i] = GroupListItemResponse{
			ID:          g.ID.String(),
			Name:        g.Name,
			MemberCount: g.MemberCount,
			IsOwner:     g.IsOwner,
			CreatedAt:   g.CreatedAt,
		}
	}
	return GroupListResponse{Groups: items}
}

// ToGroupDetailResponse converts a SharedGroupWithMembers to a
// GroupDetailResponse DTO.
func ToGroupDetailResponse(group *entity.SharedGroupWithMembers, activities []*entity.GroupActivity) GroupDetailResponse {
	response := GroupDetailResponse{
		ID:             group.Group.ID.String(),
		Name:           group.Group.Name,
		OwnerID:        group.Group.OwnerID.String(),
		SharingEnabled: group.Group.TransactionSharingEnabled,
		CreatedAt:      group.Group.CreatedAt,
		Members:        make([]GroupMemberResponse, len(group.Members)),
	}

	for i, m := range group.Members {
		response.Members[i] = GroupMemberResponse{
			ID:       m.ID.String(),
			UserID:   m.UserID.String(),
			Name:     m.UserName,
			Email:    m.UserEmail,
			IsOwner:  m.UserID == group.Group.OwnerID,
			JoinedAt: m.JoinedAt,
		}
	}

	for _, invite := range group.PendingInvites {
		response.PendingInvites = append(response.PendingInvites, GroupInviteResponse{
			ID:        invite.ID.String(),
			Email:     invite.Email,
			Status:    string(invite.Status),
			CreatedAt: invite.CreatedAt,
		})
	}

	for _, activity := range activities {
		response.Activities = append(response.Activities, GroupActivityResponse{
			ID:        activity.ID.String(),
			ActorID:   activity.ActorID.String(),
			Action:    activity.Action,
			Detail:    activity.Detail,
			CreatedAt: activity.CreatedAt,
		})
	}

	return response
}
