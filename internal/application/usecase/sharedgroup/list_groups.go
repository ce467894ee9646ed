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

// ListGroupsInput represents the input for listing a user's groups.
type ListGroupsInput struct {
	UserID uuid.UUID
}

// ListGroupsOutput represents the output of listing groups.
type ListGroupsOutput struct {
	Groups []*entity.SharedGroupListItem
}

// ListGroupsUseCase lists all groups the user belongs to.
type ListGroupsUseCase struct {
	groupRepo adapter.GroupRepository
}

// NewListGroupsUseCase creates a new ListGroupsUseCase instance.
func NewListGroupsUseCase(groupRepo adapter.GroupRepository) *ListGroupsUseCase {
	return &ListGroupsUseCase{
		groupRepo: groupRepo,
	}
}

// Execute performs the group listing.
func (uc *ListGroupsUseCase) Execute(ctx context.Context, input ListGroupsInput) (*ListGroupsOutput, error) {
	if input.UserID == uuid.Nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeEmptyParameter,
			"user id is required",
			domainerror.ErrEmptyParameter,
		)
	}

	groups, err := uc.groupRepo.FindGroupsByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	return &ListGroupsOutput{
		Groups: groups,
	}, nil
}
