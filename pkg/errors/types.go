// Package errors provides typed errors for pullr.
//
// The types here map onto how a run reacts to a failure: configuration
// problems and forge rejections stop the run before or at PR creation,
// unexpected transport failures are surfaced with full detail, and
// workflow errors wrap anything raised by an individual step. All types
// support errors.Is() and errors.As() from the standard library and
// cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrAborted is returned when the operator declines at the confirmation gate.
// It is a clean exit, not a failure.
var ErrAborted = errors.New("aborted by operator")

// ConfigError represents configuration-related errors, including missing
// credentials and a remote URL that cannot be parsed.
type ConfigError struct {
	Field   string // Which config field or environment variable has the issue
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
	}
	return "config error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with an underlying cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// GitHubError represents an error response returned by the GitHub API.
// The Message is the forge's own explanation and is safe to show the operator.
type GitHubError struct {
	Operation  string // e.g., "CreatePR", "AddAssignees"
	StatusCode int    // HTTP status code if applicable
	Message    string
	Retryable  bool
	Cause      error
}

// Error implements the error interface.
func (e *GitHubError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("github %s failed (HTTP %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *GitHubError) Unwrap() error {
	return e.Cause
}

// NewGitHubError creates a new GitHubError.
func NewGitHubError(operation, message string) *GitHubError {
	return &GitHubError{Operation: operation, Message: message}
}

// NewGitHubErrorWithStatus creates a new GitHubError with HTTP status code.
func NewGitHubErrorWithStatus(operation string, statusCode int, message string) *GitHubError {
	return &GitHubError{
		Operation:  operation,
		StatusCode: statusCode,
		Message:    message,
		Retryable:  isRetryableHTTPStatus(statusCode),
	}
}

// NewGitHubErrorWithCause creates a new GitHubError with an underlying cause.
func NewGitHubErrorWithCause(operation, message string, cause error) *GitHubError {
	return &GitHubError{
		Operation: operation,
		Message:   message,
		Retryable: IsRetryable(cause),
		Cause:     cause,
	}
}

// UnexpectedError is a failure that is neither a configuration problem nor
// a forge-reported rejection: a broken transport, an undecodable response,
// a missing field the API always returns. These are not expected in normal
// operation and are reported with full detail instead of user guidance.
type UnexpectedError struct {
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *UnexpectedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("unexpected failure during %s", e.Operation)
	}
	return fmt.Sprintf("unexpected failure during %s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *UnexpectedError) Unwrap() error {
	return e.Cause
}

// NewUnexpectedError creates a new UnexpectedError. The cause is given a
// stack trace if it does not carry one already.
func NewUnexpectedError(operation string, cause error) *UnexpectedError {
	if cause != nil {
		cause = errors.WithStackDepth(cause, 1)
	}
	return &UnexpectedError{Operation: operation, Cause: cause}
}

// WorkflowError represents a failed step of the pull request workflow.
type WorkflowError struct {
	Step      string // e.g., "draft", "confirm", "create"
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
func (e *WorkflowError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("workflow step %s failed: %s", e.Step, e.Message)
	}
	return "workflow error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *WorkflowError) Unwrap() error {
	return e.Cause
}

// NewWorkflowError creates a new WorkflowError.
func NewWorkflowError(step, message string) *WorkflowError {
	return &WorkflowError{Step: step, Message: message}
}

// NewWorkflowErrorWithCause creates a new WorkflowError with an underlying cause.
func NewWorkflowErrorWithCause(step, message string, cause error) *WorkflowError {
	return &WorkflowError{
		Step:      step,
		Message:   message,
		Retryable: IsRetryable(cause),
		Cause:     cause,
	}
}

// IsRetryable checks if an error or any error in its chain is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		return ghErr.Retryable
	}

	var wfErr *WorkflowError
	if errors.As(err, &wfErr) {
		return wfErr.Retryable
	}

	return false
}

// IsConfigError checks if an error or any error in its chain is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGitHubError checks if an error or any error in its chain is a GitHubError.
func IsGitHubError(err error) bool {
	var ghErr *GitHubError
	return errors.As(err, &ghErr)
}

// IsUnexpectedError checks if an error or any error in its chain is an UnexpectedError.
func IsUnexpectedError(err error) bool {
	var unexpected *UnexpectedError
	return errors.As(err, &unexpected)
}

// IsWorkflowError checks if an error or any error in its chain is a WorkflowError.
func IsWorkflowError(err error) bool {
	var wfErr *WorkflowError
	return errors.As(err, &wfErr)
}

// IsAborted reports whether the operator aborted the run.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}

// isRetryableHTTPStatus returns true for HTTP status codes that are typically retryable.
func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, // Request Timeout
		429, // Too Many Requests
		500, // Internal Server Error
		502, // Bad Gateway
		503, // Service Unavailable
		504: // Gateway Timeout
		return true
	default:
		return false
	}
}

// Re-export commonly used functions from cockroachdb/errors for convenience.
// This allows consumers to use pullerrors.Wrap() instead of importing two packages.
var (
	// New creates a new error with the given message.
	New = errors.New

	// Newf creates a new error with formatted message.
	Newf = errors.Newf

	// Wrap wraps an error with additional context.
	Wrap = errors.Wrap

	// Wrapf wraps an error with formatted additional context.
	Wrapf = errors.Wrapf

	// Is reports whether any error in err's chain matches target.
	Is = errors.Is

	// As finds the first error in err's chain that matches target.
	As = errors.As
)
