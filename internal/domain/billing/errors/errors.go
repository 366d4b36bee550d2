// Package errors contains billing domain errors
package errors

import pkgerrors "github.com/getaipilot/joincounter/pkg/errors"

var (
	ErrUnknownPlan        = pkgerrors.NewValidationError("unknown plan")
	ErrNoSubscription     = pkgerrors.NewNotFoundError("no subscription found")
	ErrNoPaymentLink      = pkgerrors.NewNotFoundError("no pending payment link found")
	ErrPaymentNotPaid     = pkgerrors.NewConflictError("payment is not completed yet")
	ErrGatewayUnavailable = pkgerrors.NewUnavailableError("payment gateway is unavailable")
	ErrNotEntitled        = pkgerrors.NewPermissionError("an active subscription is required")
)
