package domain

import (
	"fmt"
	"strings"
)

// AuthenticationError indicates the ERP rejected our credentials, or a login
// response carried no session token. It is fatal to the run that hits it:
// the bounded relogin-and-retry sequence has already been exhausted.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("erp authentication failed: %s", e.Reason)
}

// RemoteError is any non-2xx response other than an authentication failure.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote returned status %d: %s", e.StatusCode, e.Body)
}

// ValidationError means the remote accepted the call but reported
// field-level problems. The commerce admin API returns these on HTTP 200,
// so callers must check for them explicitly.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("remote validation failed: %s", strings.Join(e.Messages, "; "))
}

// MappingError means a required cross-reference lookup had no entry,
// e.g. a stock balance in a warehouse with no commerce location mapped.
type MappingError struct {
	Kind string
	Key  string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("no %s mapping for %q", e.Kind, e.Key)
}

// MissingCustomerError is returned when a price is requested without a
// customer identity. Anonymous pricing is disallowed upstream; failing here
// prevents price leakage to unauthenticated contexts.
type MissingCustomerError struct{}

func (e *MissingCustomerError) Error() string {
	return "pricing requested without a customer identity"
}
