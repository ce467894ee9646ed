// Package sharedgroup contains shared group-related use cases.
package sharedgroup

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// activityLimit caps the changelog entries returned with group details.
const activityLimit = 50

// GetGroupInput represents the input for fetching group details.
type GetGroupInput struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
}

// GetGroupOutput represents the output of fetching group details.
type GetGroupOutput struct {
	Group      *entity.SharedGroupWithMembers
	Activities []*entity.GroupActivity
}

// GetGroupUseCase fetches a group with members, pending invitations and
// recent activity. Only members may see group details.
type GetGroupUseCase struct {
	groupRepo adapter.GroupRepository
}

// NewGetGroupUseCase creates a new GetGroupUseCase instance.
func NewGetGroupUseCase(groupRepo adapter.GroupRepository) *GetGroupUseCase {
	return &GetGroupUseCase{
		groupRepo: groupRepo,
	}
}

// Execute performs the group fetch.
func (uc *GetGroupUseCase) Execute(ctx context.Context, input GetGroupInput) (*GetGroupOutput, error) {
	if input.GroupID == uuid.Nil || input.UserID == uuid.Nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeEmptyParameter,
			"group id and user id are required",
			domainerror.ErrEmptyParameter,
		)
	}

	isMember, err := uc.groupRepo.IsUserMemberOfGroup(ctx, input.GroupID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeNotAMember,
			"you are not a member of this group",
			domainerror.ErrNotAMember,
		)
	}

	group, err := uc.groupRepo.GetGroupWithMembers(ctx, input.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeGroupNotFound,
			"group not found",
			domainerror.ErrGroupNotFound,
		)
	}

	activities, err := uc.groupRepo.ListActivities(ctx, input.GroupID, activityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	return &GetGroupOutput{
		Group:      group,
		Activities: activities,
	}, nil
}
