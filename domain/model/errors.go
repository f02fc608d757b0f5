package model

import (
	"errors"
	"fmt"
)

// Error classes the executor acts on.
var (
	ErrTransient        = errors.New("transient platform error")
	ErrAuth             = errors.New("authorization failed")
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
)

var (
	ErrBusy         = errors.New("a batch is already running")
	ErrNoSelection  = errors.New("no items selected")
	ErrNotConnected = errors.New("account not connected")
	ErrNoChannel    = errors.New("no channel found for authenticated user")
)

// ValidationError rejects a rule set before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// APIError carries the platform response for one call. Kind is one of the class sentinels or nil.
type APIError struct {
	Op      string
	ID      string
	Code    int
	Message string
	Kind    error
}

func (e *APIError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *APIError) Unwrap() error { return e.Kind }

// IsTransient reports whether err is worth one more attempt.
func IsTransient(err error) bool { return errors.Is(err, ErrTransient) }
