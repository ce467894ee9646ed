// Package sharedgroup contains shared group-related use cases.
package sharedgroup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// ToggleSharingInput represents the input for flipping transaction sharing.
type ToggleSharingInput struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
}

// ToggleSharingOutput represents the output of a sharing toggle.
type ToggleSharingOutput struct {
	Enabled      bool
	TogglesToday int
}

// ToggleSharingUseCase flips a group's transaction-sharing setting, limited
// to MaxSharingTogglesPerDay flips per UTC day. The cooldown counter lives
// on the group row and survives ownership transfer.
type ToggleSharingUseCase struct {
	groupRepo adapter.GroupRepository
}

// NewToggleSharingUseCase creates a new ToggleSharingUseCase instance.
func NewToggleSharingUseCase(groupRepo adapter.GroupRepository) *ToggleSharingUseCase {
	return &ToggleSharingUseCase{
		groupRepo: groupRepo,
	}
}

// Execute performs the sharing toggle.
func (uc *ToggleSharingUseCase) Execute(ctx context.Context, input ToggleSharingInput) (*ToggleSharingOutput, error) {
	if input.GroupID == uuid.Nil || input.UserID == uuid.Nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeEmptyParameter,
			"group id and user id are required",
			domainerror.ErrEmptyParameter,
		)
	}

	var out ToggleSharingOutput
	err := uc.groupRepo.Mutate(ctx, input.GroupID, func(ctx context.Context, tx adapter.GroupMutation) error {
		group := tx.Group()
		if group.OwnerID != input.UserID {
			return domainerror.NewGroupError(
				domainerror.ErrCodeNotOwner,
				"only the group owner can toggle transaction sharing",
				domainerror.ErrNotOwner,
			)
		}

		now := time.Now().UTC()
		if !group.CanToggleSharing(now) {
			return domainerror.NewGroupError(
				domainerror.ErrCodeToggleRateLimited,
				"transaction sharing toggled too often today",
				domainerror.ErrToggleRateLimited,
			)
		}

		group.RecordSharingToggle(now)
		if err := tx.SaveSharingState(ctx, group); err != nil {
			return fmt.Errorf("failed to save sharing state: %w", err)
		}

		action := "sharing_disabled"
		if group.TransactionSharingEnabled {
			action = "sharing_enabled"
		}
		activity := entity.NewGroupActivity(input.GroupID, input.UserID, action, "")
		if err := tx.AppendActivity(ctx, activity); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}

		out.Enabled = group.TransactionSharingEnabled
		out.TogglesToday = group.TransactionSharingToggleCountToday
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}
