package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when email or password do not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSupplierMismatch is returned when a portal session submits prices
	// for a different supplier than the token subject
	ErrSupplierMismatch = errors.New("portal session cannot act for another supplier")

	// ErrNotSendable is returned when trying to send a quotation that is not in draft
	ErrNotSendable = errors.New("only draft quotations can be sent")

	// ErrNotCompleted is returned when creating an order from a quotation that
	// is not completed
	ErrNotCompleted = errors.New("quotation is not completed")

	// ErrOrderNotPending is returned when approving or cancelling an order
	// that already left pending approval
	ErrOrderNotPending = errors.New("order is not pending approval")

	// ErrOrderNotApproved is returned when recording delivery for an order
	// that was never approved
	ErrOrderNotApproved = errors.New("order is not approved")
)
