package content

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized maps any 401 from the content API: a missing,
	// rejected, or expired credential.
	ErrUnauthorized = errors.New("content api: unauthorized")

	// ErrNotFound maps a 404: the referenced work or user no longer exists.
	ErrNotFound = errors.New("content api: not found")
)

// APIError is any other non-success response. The API rarely explains
// itself, so Message may be empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("content api: status %d", e.Status)
	}
	return fmt.Sprintf("content api: status %d: %s", e.Status, e.Message)
}

// NetworkError means the call never completed: connection failure, timeout,
// or a cancelled context.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("content api: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
