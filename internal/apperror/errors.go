// Package apperror defines the error taxonomy shared by the workflow engine.
//
// Three kinds of failure exist:
//   - validation errors (util.FormError), local and field-scoped
//   - remote call errors (*RemoteCallError), any failure of the data service
//   - precondition violations (ErrPreconditionViolation), disallowed actions
//
// None of them is fatal; each stays scoped to the component that produced it.
package apperror

import (
	"fmt"
	"net/http"

	crdb "github.com/cockroachdb/errors"
)

var (
	New    = crdb.New
	Newf   = crdb.Newf
	Wrap   = crdb.Wrap
	Wrapf  = crdb.Wrapf
	Is     = crdb.Is
	As     = crdb.As
	Mark   = crdb.Mark
	Unwrap = crdb.Unwrap
)

var (
	// ErrPreconditionViolation marks an action the actor is not allowed to
	// take right now: applying to a closed job, applying twice, or mutating
	// status without owning the job.
	ErrPreconditionViolation = New("precondition violation")

	ErrNotFound     = New("not found")
	ErrUnauthorized = New("unauthorized")
	ErrForbidden    = New("forbidden")
	ErrConflict     = New("conflict")
	ErrInvalidInput = New("invalid input")
)

// Precondition returns an ErrPreconditionViolation carrying the reason.
func Precondition(reason string) error {
	return crdb.Wrap(ErrPreconditionViolation, reason)
}

// NotOwner is a precondition violation caused by a missing capability, such
// as a non-owner trying to change a job's status.
func NotOwner(reason string) error {
	return crdb.Mark(Precondition(reason), ErrForbidden)
}

// RemoteCallError is any failure of a remote data service operation.
type RemoteCallError struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *RemoteCallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Cause
}

// NewRemoteCallError builds a RemoteCallError for an HTTP status and marks it
// with the sentinel matching that status so callers can use Is.
func NewRemoteCallError(op string, status int, message string, cause error) error {
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = "remote call failed"
	}
	var err error = &RemoteCallError{Op: op, StatusCode: status, Message: message, Cause: cause}
	switch status {
	case http.StatusNotFound:
		err = crdb.Mark(err, ErrNotFound)
	case http.StatusUnauthorized:
		err = crdb.Mark(err, ErrUnauthorized)
	case http.StatusForbidden:
		err = crdb.Mark(err, ErrForbidden)
	case http.StatusConflict:
		err = crdb.Mark(err, ErrConflict)
	}
	return err
}

// ErrorInfo is the structured error surfaced next to the control that
// triggered a failed operation.
type ErrorInfo struct {
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *ErrorInfo) Error() string {
	return e.Message
}

func (e *ErrorInfo) Unwrap() error {
	return e.Cause
}

// Info converts any error into an ErrorInfo with a human-readable message.
func Info(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	var info *ErrorInfo
	if As(err, &info) {
		return info
	}
	msg := err.Error()
	var remote *RemoteCallError
	if As(err, &remote) {
		msg = remote.Message
	}
	if msg == "" {
		msg = "Something went wrong. Please try again."
	}
	return &ErrorInfo{Message: msg, Cause: err}
}

// HTTPStatus maps an error from the workflow engine onto a response status.
func HTTPStatus(err error) int {
	var remote *RemoteCallError
	switch {
	case err == nil:
		return http.StatusOK
	case Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case Is(err, ErrPreconditionViolation) && Is(err, ErrForbidden):
		return http.StatusForbidden
	case Is(err, ErrPreconditionViolation):
		return http.StatusConflict
	case As(err, &remote):
		if remote.StatusCode >= 400 && remote.StatusCode < 600 {
			return remote.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
