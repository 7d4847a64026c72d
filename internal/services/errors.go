// Package services implements the business rules of the platform: account
// management, the project pipeline state machine, AI configuration, prompt
// templates, API keys, notifications, and support tickets.
//
// Service-level errors are returned for predictable cases so handlers can
// map them to HTTP results consistently.
package services

import (
	"errors"
	"fmt"
)

// ErrValidation marks malformed or missing input. Handlers map it to a 400.
var ErrValidation = errors.New("invalid input")

// validationError wraps msg with ErrValidation so errors.Is matching works.
func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Account errors.
var (
	// ErrEmailTaken indicates a registration with an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for a failed login. It is
	// deliberately identical for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrLastAdmin is returned when demoting or deleting the only
	// remaining administrator.
	ErrLastAdmin = errors.New("cannot remove the last administrator")
)

// Project pipeline errors.
var (
	// ErrProjectNotFound indicates the project does not exist or is not
	// accessible to the current user.
	ErrProjectNotFound = errors.New("project not found")

	// ErrInvalidTransition is returned when an operation requires the
	// project to be in a different status.
	ErrInvalidTransition = errors.New("operation not allowed in current project status")

	// ErrInvalidStatus is returned for unknown or non-settable status
	// values.
	ErrInvalidStatus = errors.New("invalid project status")

	// ErrEmptyContent is returned when saving blank copy or HTML.
	ErrEmptyContent = errors.New("content is empty")

	// ErrDuplicateSubmission is returned when an idempotency key is
	// replayed concurrently with the original submission.
	ErrDuplicateSubmission = errors.New("submission already in progress")
)

// AI configuration and prompt errors.
var (
	// ErrAiConfigNotFound indicates the provider configuration does not
	// exist.
	ErrAiConfigNotFound = errors.New("ai configuration not found")

	// ErrNoActiveAiConfig is returned when generation is requested but no
	// provider configuration is active.
	ErrNoActiveAiConfig = errors.New("no active ai configuration")

	// ErrAiConfigInUse blocks deletion of a configuration that has usage
	// history.
	ErrAiConfigInUse = errors.New("ai configuration has usage history")

	// ErrPromptNotFound indicates the prompt template does not exist.
	ErrPromptNotFound = errors.New("prompt template not found")

	// ErrPromptKeyTaken indicates the template key is already in use.
	ErrPromptKeyTaken = errors.New("prompt key already in use")
)

// Machine credential errors.
var (
	// ErrApiKeyNotFound indicates the API key record does not exist.
	ErrApiKeyNotFound = errors.New("api key not found")

	// ErrApiKeyInvalid is returned when a presented key matches no active
	// credential.
	ErrApiKeyInvalid = errors.New("invalid api key")
)

// Support errors.
var (
	// ErrTicketNotFound indicates the ticket does not exist or is not
	// accessible to the current user.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrNotificationNotFound indicates the notification does not exist
	// or belongs to another user.
	ErrNotificationNotFound = errors.New("notification not found")
)
