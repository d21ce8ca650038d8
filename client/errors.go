package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSignedIn is returned by operations that need an authenticated
	// session.
	ErrNotSignedIn = errors.New("client: not signed in")

	// ErrEmptyCart blocks order placement with no lines.
	ErrEmptyCart = errors.New("client: cart is empty")

	// ErrBusinessClosed blocks placement while the business is outside its
	// opening window. The check is local only, the backend does not enforce
	// it.
	ErrBusinessClosed = errors.New("client: business is closed")

	// ErrNoBusiness means a business-side screen was opened before the
	// owner created a business profile.
	ErrNoBusiness = errors.New("client: no business profile for this account")

	// ErrCartBusinessMismatch is returned when a product from a different
	// business is added to a non-empty cart.
	ErrCartBusinessMismatch = errors.New("client: cart holds items from another business")

	ErrEmptyMessage   = errors.New("client: message is empty")
	ErrMessageTooLong = errors.New("client: message exceeds 500 characters")
)

// APIError is a non-2xx answer from the backend, carrying the HTTP status
// and the backend's message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// OrphanOrderError marks the failure mode of two-step placement: the order
// row was written but its items were not. The caller gets the order id so
// the stray row can be cleaned up or retried.
type OrphanOrderError struct {
	OrderID string
	Err     error
}

func (e *OrphanOrderError) Error() string {
	return fmt.Sprintf("order %s created but items failed: %v", e.OrderID, e.Err)
}

func (e *OrphanOrderError) Unwrap() error { return e.Err }
