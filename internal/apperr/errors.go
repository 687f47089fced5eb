// Package apperr holds the error taxonomy shared by all workflows. Handlers
// never inspect these directly; the server's HTTP error handler maps each
// type to a status code and a JSON body.
package apperr

import "fmt"

// ValidationError: bad input shape or values. Never follows a partial state
// change.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// AuthorizationError: the caller's credential does not grant the action.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

func Authorizationf(format string, args ...any) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError: unknown order, product or vendor.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NotFoundf(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// PreconditionError: the requested transition is not legal from the order's
// current status. Current and Attempted are both surfaced to the caller.
type PreconditionError struct {
	Msg       string
	Current   string
	Attempted string
}

func (e *PreconditionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("order status is %q, cannot transition to %q", e.Current, e.Attempted)
}

// UpstreamError: the gateway rejected or failed an operation. The order's
// status is left unchanged by the caller. Retryable distinguishes transient
// gateway trouble from terminal rejections; the server never retries a
// financial mutation on its own.
type UpstreamError struct {
	Op        string
	Msg       string
	Retryable bool
	Err       error
}

func (e *UpstreamError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: upstream failure", e.Op)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// InconsistencyError: money moved at the gateway but the local state update
// failed. Logged loudly with correlation ids for manual reconciliation.
type InconsistencyError struct {
	OrderID string
	Detail  string
	Err     error
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("order %s inconsistent: %s", e.OrderID, e.Detail)
}

func (e *InconsistencyError) Unwrap() error { return e.Err }
