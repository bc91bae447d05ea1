package completion

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyResult marks a backend response that arrived but carried no usable text.
	ErrEmptyResult = errors.New("backend returned an empty result")

	// ErrNoBackends is the cause reported when Run is given an empty chain.
	ErrNoBackends = errors.New("no backends configured")
)

// StatusCoder is implemented by errors that carry the HTTP status of a failed backend call.
type StatusCoder interface {
	HTTPStatus() int
}

// StatusError is a backend failure with the HTTP status the backend answered with.
type StatusError struct {
	Code    int
	Message string
	Cause   error
}

// HTTPStatus returns the status code of the failed call.
func (e *StatusError) HTTPStatus() (code int) {
	code = e.Code
	return code
}

func (e *StatusError) Error() (msg string) {
	msg = fmt.Sprintf("backend request failed with status %d", e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *StatusError) Unwrap() (cause error) {
	cause = e.Cause
	return cause
}

// AllFailedError is the only error Run returns. It carries the last observed
// failure kind and cause, and every attempt made before giving up.
type AllFailedError struct {
	Kind     FailureKind
	Cause    error
	Attempts []Attempt
}

func (e *AllFailedError) Error() (msg string) {
	msg = fmt.Sprintf("no usable completion after %d attempt(s) (last failure: %s)", len(e.Attempts), e.Kind)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *AllFailedError) Unwrap() (cause error) {
	cause = e.Cause
	return cause
}

// AttemptCount returns how many backend invocations were made.
func (e *AllFailedError) AttemptCount() (count int) {
	count = len(e.Attempts)
	return count
}
