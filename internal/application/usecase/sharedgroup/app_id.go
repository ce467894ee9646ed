// Package sharedgroup contains shared group-related use cases.
package sharedgroup

import (
	"strings"

	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
)

// AppIDValidator checks tenant identifiers against the configured allow-list
// before they are used in storage paths.
type AppIDValidator struct {
	allowed map[string]struct{}
}

// NewAppIDValidator creates a validator from the configured allow-list.
func NewAppIDValidator(allowedAppIDs []string) *AppIDValidator {
	allowed := make(map[string]struct{}, len(allowedAppIDs))
	for _, id := range allowedAppIDs {
		allowed[id] = struct{}{}
	}
	return &AppIDValidator{allowed: allowed}
}

// Validate rejects blank identifiers, path traversal sequences, and any
// identifier not present in the allow-list.
func (v *AppIDValidator) Validate(appID string) error {
	if appID == "" {
		return domainerror.NewGroupError(
			domainerror.ErrCodeEmptyParameter,
			"app id is required",
			domainerror.ErrEmptyParameter,
		)
	}
	if strings.Contains(appID, "..") || strings.ContainsAny(appID, "/\\") {
		return domainerror.NewGroupError(
			domainerror.ErrCodeInvalidAppID,
			"app id contains invalid characters",
			domainerror.ErrInvalidAppID,
		)
	}
	if _, ok := v.allowed[appID]; !ok {
		return domainerror.NewGroupError(
			domainerror.ErrCodeInvalidAppID,
			"app id is not allowed",
			domainerror.ErrInvalidAppID,
		)
	}
	return nil
}
