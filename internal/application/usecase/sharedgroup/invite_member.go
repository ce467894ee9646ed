// Package sharedgroup contains shared group-related use cases.
package sharedgroup

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

const (
	// InviteTokenLength is the length of the invite token in bytes.
	InviteTokenLength = 32
)

// emailRegex is compiled once at package level for performance.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// InviteMemberInput represents the input for inviting a member.
type InviteMemberInput struct {
	GroupID   uuid.UUID
	Email     string
	InviterID uuid.UUID
	InviteURL string
}

// InviteMemberOutput represents the output of inviting a member.
type InviteMemberOutput struct {
	Invitation *entity.PendingInvitation
}

// InviteMemberUseCase creates a pending invitation and queues the invite
// email. Any member may invite; the invitation stays pending until the
// invited identity accepts or declines.
type InviteMemberUseCase struct {
	groupRepo    adapter.GroupRepository
	userRepo     adapter.UserRepository
	emailService adapter.EmailService
}

// NewInviteMemberUseCase creates a new InviteMemberUseCase instance.
func NewInviteMemberUseCase(
	groupRepo adapter.GroupRepository,
	userRepo adapter.UserRepository,
	emailService adapter.EmailService,
) *InviteMemberUseCase {
	return &InviteMemberUseCase{
		groupRepo:    groupRepo,
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// Execute performs the member invitation.
func (uc *InviteMemberUseCase) Execute(ctx context.Context, input InviteMemberInput) (*InviteMemberOutput, error) {
	if input.GroupID == uuid.Nil || input.InviterID == uuid.Nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeEmptyParameter,
			"group id and inviter id are required",
			domainerror.ErrEmptyParameter,
		)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailRegex.MatchString(email) {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeEmptyParameter,
			"invalid email address",
			domainerror.ErrEmptyParameter,
		)
	}

	isMember, err := uc.groupRepo.IsUserMemberOfGroup(ctx, input.GroupID, input.InviterID)
	if err != nil {
		return nil, fmt.Errorf("failed to check inviter membership: %w", err)
	}
	if !isMember {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeNotAMember,
			"you are not a member of this group",
			domainerror.ErrNotAMember,
		)
	}

	group, err := uc.groupRepo.FindGroupByID(ctx, input.GroupID)
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

	// Already a member by email?
	existingUser, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invitee: %w", err)
	}
	if existingUser != nil {
		isMember, err := uc.groupRepo.IsUserMemberOfGroup(ctx, input.GroupID, existingUser.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing membership: %w", err)
		}
		if isMember {
			return nil, domainerror.NewGroupError(
				domainerror.ErrCodeAlreadyMember,
				"user is already a member of this group",
				domainerror.ErrAlreadyMember,
			)
		}
	}

	existing, err := uc.groupRepo.FindPendingInvitationByGroupAndEmail(ctx, input.GroupID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing invitations: %w", err)
	}
	if existing != nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeInvitationAlreadyExists,
			"a pending invitation already exists for this email",
			domainerror.ErrInvitationAlreadyExists,
		)
	}

	token, err := generateInviteToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite token: %w", err)
	}

	invitation := entity.NewPendingInvitation(input.GroupID, email, token, input.InviterID)
	if err := uc.groupRepo.CreateInvitation(ctx, invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	inviter, err := uc.userRepo.FindByID(ctx, input.InviterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inviter: %w", err)
	}

	inviterName := ""
	if inviter != nil {
		inviterName = inviter.Name
	}
	if err := uc.emailService.QueueGroupInvitationEmail(ctx, adapter.QueueGroupInvitationInput{
		InviterName: inviterName,
		GroupName:   group.Name,
		InviteEmail: email,
		InviteURL:   fmt.Sprintf("%s?token=%s", input.InviteURL, token),
	}); err != nil {
		return nil, fmt.Errorf("failed to queue invitation email: %w", err)
	}

	return &InviteMemberOutput{
		Invitation: invitation,
	}, nil
}

// generateInviteToken creates a cryptographically random token.
func generateInviteToken() (string, error) {
	bytes := make([]byte, InviteTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
