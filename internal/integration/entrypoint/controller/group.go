// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/usecase/sharedgroup"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
	"github.com/receipt-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/receipt-ledger/backend/internal/integration/entrypoint/middleware"
)

// GroupController handles shared group endpoints.
type GroupController struct {
	createUseCase           *sharedgroup.CreateGroupUseCase
	listUseCase             *sharedgroup.ListGroupsUseCase
	getUseCase              *sharedgroup.GetGroupUseCase
	inviteUseCase           *sharedgroup.InviteMemberUseCase
	cancelInvitationUseCase *sharedgroup.CancelInvitationUseCase
	respondUseCase          *sharedgroup.RespondInvitationUseCase
	leaveUseCase            *sharedgroup.LeaveGroupUseCase
	transferUseCase         *sharedgroup.TransferOwnershipUseCase
	toggleSharingUseCase    *sharedgroup.ToggleSharingUseCase
	deleteAsOwnerUseCase    *sharedgroup.DeleteGroupAsOwnerUseCase
	deleteAsLastUseCase     *sharedgroup.DeleteGroupAsLastMemberUseCase
	inviteBaseURL           string
}

// NewGroupController creates a new group controller instance.
func NewGroupController(
	createUseCase *sharedgroup.CreateGroupUseCase,
	listUseCase *sharedgroup.ListGroupsUseCase,
	getUseCase *sharedgroup.GetGroupUseCase,
	inviteUseCase *sharedgroup.InviteMemberUseCase,
	cancelInvitationUseCase *sharedgroup.CancelInvitationUseCase,
	respondUseCase *sharedgroup.RespondInvitationUseCase,
	leaveUseCase *sharedgroup.LeaveGroupUseCase,
	transferUseCase *sharedgroup.TransferOwnershipUseCase,
	toggleSharingUseCase *sharedgroup.ToggleSharingUseCase,
	deleteAsOwnerUseCase *sharedgroup.DeleteGroupAsOwnerUseCase,
	deleteAsLastUseCase *sharedgroup.DeleteGroupAsLastMemberUseCase,
	inviteBaseURL string,
) *GroupController {
	return &GroupController{
		createUseCase:           createUseCase,
		listUseCase:             listUseCase,
		getUseCase:              getUseCase,
		inviteUseCase:           inviteUseCase,
		cancelInvitationUseCase: cancelInvitationUseCase,
		respondUseCase:          respondUseCase,
		leaveUseCase:            leaveUseCase,
		transferUseCase:         transferUseCase,
		toggleSharingUseCase:    toggleSharingUseCase,
		deleteAsOwnerUseCase:    deleteAsOwnerUseCase,
		deleteAsLastUseCase:     deleteAsLastUseCase,
		inviteBaseURL:           inviteBaseURL,
	}
}

// Create handles POST /groups requests.
func (c *GroupController) Create(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeGroupNameRequired),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), sharedgroup.CreateGroupInput{
		Name:   req.Name,
		UserID: userID,
	})
	if err != nil {
		c.handleGroupError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToGroupResponse(output.Group))
}

// List handles GET /groups requests.
func (c *GroupController) List(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), sharedgroup.ListGroupsInput{
		UserID: userID,
	})
	if err != nil {
		c.handleGroupError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGroupListResponse(output.Groups))
}

// Get handles GET /groups/:id requests.
func (c *GroupController) Get(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}
	groupID, ok := c.parseGroupID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), sharedgroup.GetGroupInput{
		GroupID: groupID,
		UserID:  userID,
	})
	if err != nil {
		c.handleGroupError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGroupDetailResponse(output.Group, output.Activities))
}

// Invite handles POST /groups/:id/invitations requests.
func (c *GroupController) Invite(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}
	groupID, ok := c.parseGroupID(ctx)
	if !ok {
		return
	}

	var req dto.InviteMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeEmptyParameter),
		})
		return
	}

	output, err := c.inviteUseCase.Execute(ctx.Request.Context(), sharedgroup.InviteMemberInput{
		GroupID:   groupID,
		Email:     req.Email,
		InviterID: userID,
		InviteURL: c.inviteBaseURL,
	})
	if err != nil {
		c.handleGroupError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.GroupInviteResponse{
		ID:        output.Invitation.ID.String(),
		Email:     output.Invitation.Email,
		Status:    string(output.Invitation.Status),
		CreatedAt: output.Invitation.CreatedAt,
	})
}

// CancelInvitation handles DELETE /groups/:id/invitations/:invitationId requests.
func (c *GroupController) CancelInvitation(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}
	groupID, ok := c.parseGroupID(ctx)
	if !ok {
		return
	}

	invitationID, err := uuid.Parse(ctx.Param("invitationId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid invitation ID",
			Code:  string(domainerror.ErrCodeEmptyParameter),
		})
		return
	}

	_, err = c.cancelInvitationUseCase.Execute(ctx.Request.Context(), sharedgroup.CancelInvitationInput{
		GroupID:      groupID,
		InvitationID: invitationID,
		UserID:       userID,
	})
	if err != nil {
		c.handleGroupError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// RespondInvitation handles POST /invitations/respond requests.
func (c *GroupController) RespondInvitation(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}

	var req dto.RespondInvitationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeEmptyParameter),
		})
		return
	}

	output, err := c.respondUseCase.Execute(ctx.Request.Context(), sharedgroup.RespondInvitationInput{
		Token:  req.Token,
		UserID: userID,
		Accept: req.Accept,
	})
	if err != nil {
		c.handleGroupError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RespondInvitationResponse{
		GroupID: output.GroupID.String(),
		Status:  string(output.Status),
	})
}

// Leave handles POST /groups/:id/leave requests.
func (c *GroupController) Leave(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}
	groupID, ok := c.parseGroupID(ctx)
	if !ok {
		return
	}

	_, err := c.leaveUseCase.Execute(ctx.Request.Context(), sharedgroup.LeaveGroupInput{
		GroupID: groupID,
		UserID:  userID,
	})
	if err != nil {
		c.handleGroupError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// TransferOwnership handles POST /groups/:id/transfer requests.
func (c *GroupController) TransferOwnership(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}
	groupID, ok := c.parseGroupID(ctx)
	if !ok {
		return
	}

	var req dto.TransferOwnershipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeEmptyParameter),
		})
		return
	}

	newOwnerID, err := uuid.Parse(req.NewOwnerID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid new owner ID",
			Code:  string(domainerror.ErrCodeEmptyParameter),
		})
		return
	}

	output, err := c.transferUseCase.Execute(ctx.Request.Context(), sharedgroup.TransferOwnershipInput{
		GroupID:        groupID,
		CurrentOwnerID: userID,
		NewOwnerID:     newOwnerID,
	})
	if err != nil {
		c.handleGroupError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGroupResponse(output.Group))
}

// ToggleSharing handles POST /groups/:id/sharing requests.
func (c *GroupController) ToggleSharing(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}
	groupID, ok := c.parseGroupID(ctx)
	if !ok {
		return
	}

	output, err := c.toggleSharingUseCase.Execute(ctx.Request.Context(), sharedgroup.ToggleSharingInput{
		GroupID: groupID,
		UserID:  userID,
	})
	if err != nil {
		c.handleGroupError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToggleSharingResponse{
		Enabled:      output.Enabled,
		TogglesToday: output.TogglesToday,
	})
}

// Delete handles DELETE /groups/:id requests. The owner path deletes the
// group for every member; mode=last_member deletes a group the caller is the
// sole member of.
func (c *GroupController) Delete(ctx *gin.Context) {
	userID, ok := c.authenticatedUser(ctx)
	if !ok {
		return
	}
	groupID, ok := c.parseGroupID(ctx)
	if !ok {
		return
	}

	var req dto.DeleteGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidAppID),
		})
		return
	}

	var untagged int64
	var err error
	if ctx.Query("mode") == "last_member" {
		var output *sharedgroup.DeleteGroupAsLastMemberOutput
		output, err = c.deleteAsLastUseCase.Execute(ctx.Request.Context(), sharedgroup.DeleteGroupAsLastMemberInput{
			GroupID: groupID,
			UserID:  userID,
			AppID:   req.AppID,
		})
		if output != nil {
			untagged = output.TransactionsUntagged
		}
	} else {
		var output *sharedgroup.DeleteGroupAsOwnerOutput
		output, err = c.deleteAsOwnerUseCase.Execute(ctx.Request.Context(), sharedgroup.DeleteGroupAsOwnerInput{
			GroupID: groupID,
			OwnerID: userID,
			AppID:   req.AppID,
		})
		if output != nil {
			untagged = output.TransactionsUntagged
		}
	}
	if err != nil {
		c.handleGroupError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DeleteGroupResponse{
		TransactionsUntagged: untagged,
	})
}

// authenticatedUser extracts the authenticated user from the context.
func (c *GroupController) authenticatedUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// parseGroupID parses the group ID path parameter.
func (c *GroupController) parseGroupID(ctx *gin.Context) (uuid.UUID, bool) {
	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid group ID",
			Code:  string(domainerror.ErrCodeEmptyParameter),
		})
		return uuid.Nil, false
	}
	return groupID, true
}

// handleGroupError handles group errors and returns appropriate HTTP responses.
func (c *GroupController) handleGroupError(ctx *gin.Context, err error) {
	var groupErr *domainerror.GroupError
	if errors.As(err, &groupErr) {
		statusCode := c.getStatusCodeForGroupError(groupErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: groupErr.Message,
			Code:  string(groupErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForGroupError maps group error codes to HTTP status codes.
func (c *GroupController) getStatusCodeForGroupError(code domainerror.GroupErrorCode) int {
	switch code {
	case domainerror.ErrCodeGroupNotFound,
		domainerror.ErrCodeInvitationNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAMember,
		domainerror.ErrCodeNotOwner:
		return http.StatusForbidden
	case domainerror.ErrCodeEmptyParameter,
		domainerror.ErrCodeInvalidAppID,
		domainerror.ErrCodeGroupNameRequired,
		domainerror.ErrCodeGroupNameTooLong,
		domainerror.ErrCodeTargetNotAMember,
		domainerror.ErrCodeOwnerMustTransferFirst,
		domainerror.ErrCodeMultipleMembersRemain:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvitationNotPending,
		domainerror.ErrCodeInvitationAlreadyExists,
		domainerror.ErrCodeAlreadyMember,
		domainerror.ErrCodeTransactionConflict:
		return http.StatusConflict
	case domainerror.ErrCodeToggleRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
