// Package errors contains domain-specific errors for the tracker domain
package errors

import (
	pkgerrors "github.com/getaipilot/joincounter/pkg/errors"
)

// Domain errors for tracker operations
var (
	ErrNoSession            = pkgerrors.NewNotFoundError("no saved session, log in first")
	ErrSessionUnauthorized  = pkgerrors.NewUnauthorizedError("session exists but is no longer authorized")
	ErrInvalidPhone         = pkgerrors.NewValidationError("phone number must look like +919876543210")
	ErrInvalidCode          = pkgerrors.NewValidationError("code must be 4-8 digits, optionally prefixed with HELLO")
	ErrWrongCode            = pkgerrors.NewUnauthorizedError("wrong one-time code")
	ErrTwoFactorNeeded      = pkgerrors.NewUnauthorizedError("2FA password required")
	ErrWrongPassword        = pkgerrors.NewUnauthorizedError("wrong 2FA password")
	ErrNoLoginInProgress    = pkgerrors.NewNotFoundError("no login in progress")
	ErrLoginExpired         = pkgerrors.NewConflictError("login attempt expired, start over")
	ErrConnectFailed        = pkgerrors.NewUnavailableError("could not connect to Telegram")
	ErrNoSelection          = pkgerrors.NewNotFoundError("no selection in progress")
	ErrSelectionOutOfRange  = pkgerrors.NewValidationError("selection index out of range")
	ErrNothingSelected      = pkgerrors.NewValidationError("nothing selected")
	ErrNoPendingRemoval     = pkgerrors.NewNotFoundError("nothing pending to delete")
	ErrLinkNotFound         = pkgerrors.NewNotFoundError("invite link not found")
	ErrNoEligibleChats      = pkgerrors.NewNotFoundError("no eligible private group/channel found")
	ErrNoStatsSelection     = pkgerrors.NewNotFoundError("no stats selection in progress")
	ErrStatsPageExpired     = pkgerrors.NewNotFoundError("stats view expired")
	ErrExportInviteFailed   = pkgerrors.NewInternalError("failed to export invite link")
	ErrSubscriptionRequired = pkgerrors.NewPermissionError("an active subscription is required")
)
