// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package errors defines the classification of failures raised while
// talking to the RDE control plane. Every failure carries exactly one Kind,
// and the command layer derives the process exit code from it.
package errors

import (
	"fmt"
	"net/http"

	"github.com/juju/errors"
)

// Kind identifies a class of failure. A Kind is itself an error so that
// callers can match on it with errors.Is, the same way a ConstError is
// matched.
type Kind string

// Error implements error.
func (k Kind) Error() string {
	return string(k)
}

const (
	// Network is raised when no response was obtained for a request.
	Network = Kind("network error")

	// UnexpectedStatus is raised when a response carries a status code
	// outside of the set handled at that call site.
	UnexpectedStatus = Kind("unexpected API status")

	// DeploymentFailure is raised when a change reached the failed state.
	DeploymentFailure = Kind("deployment failed")

	// DeploymentWarning is raised when a change reached the staged state.
	DeploymentWarning = Kind("deployment staged")

	// Validation is raised for malformed local input, before any request.
	Validation = Kind("validation error")

	// Configuration is raised when the local configuration is incomplete.
	Configuration = Kind("configuration error")

	// Internal wraps an unexpected failure of an operation.
	Internal = Kind("internal error")

	// Timeout is raised when a caller supplied polling limit is reached.
	Timeout = Kind("timed out")

	// Unknown is the catch-all for unmapped responses of snapshot calls.
	Unknown = Kind("unknown error")

	// WrongEnvironmentType is raised when the environment is not an RDE.
	WrongEnvironmentType = Kind("wrong environment type")

	// EnvironmentNotFound is raised when the program or environment does
	// not exist.
	EnvironmentNotFound = Kind("environment not found")

	// EnvironmentState is raised when the environment is not in a state
	// that accepts the operation.
	EnvironmentState = Kind("environment in wrong state")

	// SnapshotNotFound is raised when the named snapshot does not exist.
	SnapshotNotFound = Kind("snapshot not found")

	// SnapshotDeleted is raised when the named snapshot was deleted.
	SnapshotDeleted = Kind("snapshot deleted")

	// SnapshotExists is raised when creating a snapshot whose name is
	// already taken.
	SnapshotExists = Kind("snapshot already exists")

	// SnapshotLimit is raised when snapshot storage or count limits are
	// reached.
	SnapshotLimit = Kind("snapshot limit reached")

	// SnapshotFailed is raised when the backend reports that a snapshot
	// operation failed asynchronously.
	SnapshotFailed = Kind("snapshot creation failed")
)

// Process exit codes.
const (
	ExitGeneral           = 1
	ExitConfiguration     = 2
	ExitValidation        = 3
	ExitDeploymentError   = 4
	ExitInternal          = 5
	ExitDeploymentWarning = 40
)

// ExitCode returns the process exit code for the kind.
func (k Kind) ExitCode() int {
	switch k {
	case DeploymentFailure:
		return ExitDeploymentError
	case DeploymentWarning:
		return ExitDeploymentWarning
	case Validation:
		return ExitValidation
	case Configuration:
		return ExitConfiguration
	case Network, UnexpectedStatus, Internal:
		return ExitInternal
	case Timeout, Unknown,
		WrongEnvironmentType, EnvironmentNotFound, EnvironmentState,
		SnapshotNotFound, SnapshotDeleted, SnapshotExists, SnapshotLimit, SnapshotFailed:
		return ExitGeneral
	}
	return ExitGeneral
}

// Error is a classified failure.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Message is the user facing description.
	Message string

	// Detail holds any extra diagnostic text, such as a response body.
	Detail string

	// StatusCode and Status describe the response that caused the
	// failure, if there was one.
	StatusCode int
	Status     string

	cause error
}

// Error implements error.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is the Kind of this error.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Newf returns an Error of the given kind.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrapf returns an Error of the given kind that wraps cause.
func Wrapf(cause error, kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

// NetworkError is returned when a request to url produced no response.
func NetworkError(url string, cause error) *Error {
	return Wrapf(cause, Network, "request to %s failed", url)
}

// StatusError returns an UnexpectedStatus error for a response status,
// prefixed with the operation being attempted.
func StatusError(operation string, statusCode int, status string) *Error {
	if status == "" {
		status = http.StatusText(statusCode)
	}
	return &Error{
		Kind:       UnexpectedStatus,
		Message:    fmt.Sprintf("%s: unexpected status %d %s", operation, statusCode, status),
		StatusCode: statusCode,
		Status:     status,
	}
}

// KindOf returns the Kind of err, or the empty Kind when err carries no
// classification.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}

// ExitCode returns the process exit code for err, or 0 for a nil error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}
