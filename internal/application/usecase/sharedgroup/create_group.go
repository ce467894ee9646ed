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

const (
	// MaxGroupNameLength is the maximum allowed length for group names.
	MaxGroupNameLength = 100
)

// CreateGroupInput represents the input for group creation.
type CreateGroupInput struct {
	Name   string
	UserID uuid.UUID
}

// CreateGroupOutput represents the output of group creation.
type CreateGroupOutput struct {
	Group  *entity.SharedGroup
	Member *entity.GroupMember
}

// CreateGroupUseCase handles group creation. The creator becomes the owner
// and the first member in one atomic write, so the owner-is-a-member
// invariant holds from the group's first instant.
type CreateGroupUseCase struct {
	groupRepo adapter.GroupRepository
	userRepo  adapter.UserRepository
}

// NewCreateGroupUseCase creates a new CreateGroupUseCase instance.
func NewCreateGroupUseCase(groupRepo adapter.GroupRepository, userRepo adapter.UserRepository) *CreateGroupUseCase {
	return &CreateGroupUseCase{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// Execute performs the group creation.
func (uc *CreateGroupUseCase) Execute(ctx context.Context, input CreateGroupInput) (*CreateGroupOutput, error) {
	if input.UserID == uuid.Nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeEmptyParameter,
			"user id is required",
			domainerror.ErrEmptyParameter,
		)
	}
	if input.Name == "" {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeGroupNameRequired,
			"group name is required",
			domainerror.ErrGroupNameRequired,
		)
	}
	if len(input.Name) > MaxGroupNameLength {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeGroupNameTooLong,
			fmt.Sprintf("group name must not exceed %d characters", MaxGroupNameLength),
			domainerror.ErrGroupNameTooLong,
		)
	}

	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	group := entity.NewSharedGroup(input.Name, input.UserID)
	member := entity.NewGroupMember(group.ID, input.UserID)
	if user != nil {
		member.UserName = user.Name
		member.UserEmail = user.Email
	}

	if err := uc.groupRepo.CreateGroup(ctx, group, member); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return &CreateGroupOutput{
		Group:  group,
		Member: member,
	}, nil
}
