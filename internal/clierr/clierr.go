// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripts that parse --json output.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error code constants. Uppercase, underscore-separated, stable across minor versions.
const (
	TaskNotFound       = "TASK_NOT_FOUND"
	BoardNotFound      = "BOARD_NOT_FOUND"
	BoardAlreadyExists = "BOARD_ALREADY_EXISTS"
	InvalidInput       = "INVALID_INPUT"
	InvalidStatus      = "INVALID_STATUS"
	InvalidPriority    = "INVALID_PRIORITY"
	InvalidDate        = "INVALID_DATE"
	InvalidTaskID      = "INVALID_TASK_ID"
	InvalidInterval    = "INVALID_INTERVAL"
	InvalidRecurrence  = "INVALID_RECURRENCE"
	InvalidRole        = "INVALID_ROLE"
	InvalidShare       = "INVALID_SHARE"
	InvalidTeam        = "INVALID_TEAM"
	InvalidGroupBy     = "INVALID_GROUP_BY"
	InvalidSchedule    = "INVALID_SCHEDULE"
	WIPLimitExceeded   = "WIP_LIMIT_EXCEEDED"
	DependencyNotFound = "DEPENDENCY_NOT_FOUND"
	CircularDependency = "CIRCULAR_DEPENDENCY"
	SelfReference      = "SELF_REFERENCE"
	ProjectNotFound    = "PROJECT_NOT_FOUND"
	TeamNotFound       = "TEAM_NOT_FOUND"
	ShareNotFound      = "SHARE_NOT_FOUND"
	MemberNotFound     = "MEMBER_NOT_FOUND"
	PermissionDenied   = "PERMISSION_DENIED"
	ActorRequired      = "ACTOR_REQUIRED"
	NoChanges          = "NO_CHANGES"
	StatusConflict     = "STATUS_CONFLICT"
	ConfirmationReq    = "CONFIRMATION_REQUIRED"
	InternalError      = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// CodeOf returns the code of the first *Error in err's chain, or "" when
// there is none.
func CodeOf(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// SilentError signals an exit code without additional output.
// Used by batch operations where results are already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
