// Package error defines domain-specific errors for the Receipt Ledger application.
package error

import "errors"

// Shared group domain errors.
var (
	// ErrEmptyParameter is returned when a required identifier is blank.
	ErrEmptyParameter = errors.New("required parameter is empty")

	// ErrGroupNotFound is returned when a shared group is not found.
	ErrGroupNotFound = errors.New("shared group not found")

	// ErrNotAMember is returned when the user is not a member of the group.
	ErrNotAMember = errors.New("user is not a member of this group")

	// ErrNotOwner is returned when a non-owner attempts an owner-only action.
	ErrNotOwner = errors.New("only the group owner can perform this action")

	// ErrTargetNotAMember is returned when the ownership transfer target is
	// not a member of the group.
	ErrTargetNotAMember = errors.New("new owner is not a member of this group")

	// ErrOwnerMustTransferFirst is returned when the owner tries to leave
	// without transferring ownership.
	ErrOwnerMustTransferFirst = errors.New("owner must transfer ownership before leaving")

	// ErrMultipleMembersRemain is returned when a last-member delete is
	// attempted on a group that still has other members.
	ErrMultipleMembersRemain = errors.New("group still has other members")

	// ErrInvalidAppID is returned when the tenant identifier is not in the
	// allow-list or contains path traversal sequences.
	ErrInvalidAppID = errors.New("invalid application identifier")

	// ErrTransactionConflict is returned on genuine concurrent-write
	// contention. Callers may retry; it never masks a precondition failure.
	ErrTransactionConflict = errors.New("transaction conflict, retry the operation")

	// ErrToggleRateLimited is returned when the sharing toggle cooldown is
	// exhausted for the current day.
	ErrToggleRateLimited = errors.New("transaction sharing toggled too often today")

	// ErrInvitationNotFound is returned when an invitation is not found.
	ErrInvitationNotFound = errors.New("invitation not found")

	// ErrInvitationNotPending is returned when a terminal invitation is
	// answered again.
	ErrInvitationNotPending = errors.New("invitation is no longer pending")

	// ErrInvitationAlreadyExists is returned when a pending invitation
	// already exists for the email.
	ErrInvitationAlreadyExists = errors.New("a pending invitation already exists for this email")

	// ErrAlreadyMember is returned when the invited user is already a member.
	ErrAlreadyMember = errors.New("user is already a member of this group")

	// ErrGroupNameRequired is returned when the group name is empty.
	ErrGroupNameRequired = errors.New("group name is required")

	// ErrGroupNameTooLong is returned when the group name exceeds the maximum length.
	ErrGroupNameTooLong = errors.New("group name too long")
)

// GroupErrorCode defines error codes for shared group errors.
// Format: GRP-XXYYYY where XX is category and YYYY is specific error.
type GroupErrorCode string

const (
	// Resource not found errors (01XXXX)
	ErrCodeGroupNotFound      GroupErrorCode = "GRP-010001"
	ErrCodeInvitationNotFound GroupErrorCode = "GRP-010002"

	// Validation errors (02XXXX)
	ErrCodeEmptyParameter    GroupErrorCode = "GRP-020001"
	ErrCodeInvalidAppID      GroupErrorCode = "GRP-020002"
	ErrCodeGroupNameRequired GroupErrorCode = "GRP-020003"
	ErrCodeGroupNameTooLong  GroupErrorCode = "GRP-020004"

	// Authorization errors (03XXXX)
	ErrCodeNotAMember GroupErrorCode = "GRP-030001"
	ErrCodeNotOwner   GroupErrorCode = "GRP-030002"

	// Ownership / membership state errors (04XXXX)
	ErrCodeTargetNotAMember      GroupErrorCode = "GRP-040001"
	ErrCodeOwnerMustTransferFirst GroupErrorCode = "GRP-040002"
	ErrCodeMultipleMembersRemain GroupErrorCode = "GRP-040003"

	// Invitation errors (05XXXX)
	ErrCodeInvitationNotPending    GroupErrorCode = "GRP-050001"
	ErrCodeInvitationAlreadyExists GroupErrorCode = "GRP-050002"
	ErrCodeAlreadyMember           GroupErrorCode = "GRP-050003"

	// Concurrency / rate limit errors (06XXXX)
	ErrCodeTransactionConflict GroupErrorCode = "GRP-060001"
	ErrCodeToggleRateLimited   GroupErrorCode = "GRP-060002"
)

// GroupError represents a shared group error with code and message.
type GroupError struct {
	Code    GroupErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *GroupError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *GroupError) Unwrap() error {
	return e.Err
}

// NewGroupError creates a new GroupError with the given code and message.
func NewGroupError(code GroupErrorCode, message string, err error) *GroupError {
	return &GroupError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
