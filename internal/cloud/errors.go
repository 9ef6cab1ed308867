// SPDX-License-Identifier: MPL-2.0

package cloud

import "fmt"

// AuthenticationError reports a rejected or missing API key.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// InsufficientCreditsError reports that the account balance cannot
// cover the deployment.
type InsufficientCreditsError struct {
	Required  int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("Insufficient credits. Required: %d, Available: %d", e.Required, e.Available)
}

// ValidationError reports a package the API refused, with field-level
// detail messages when the server provides them.
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a missing agent app or secret.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// APIError is the fallback for any response the client cannot map to
// a more specific error. It carries the raw status and body.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
