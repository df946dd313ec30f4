package types

import (
	"errors"
	"fmt"
)

// RemoteError reports a failure from the backing task repository. It may be
// transient (network) or permanent (storage corruption); callers that need
// the distinction can unwrap the underlying error.
type RemoteError struct {
	Op  string // the repository operation that failed, e.g. "fetch", "update"
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// NotFoundError reports that an operation referenced a task id absent from
// the canonical source of truth.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task with ID '%s' not found", e.ID)
}

// ValidationError reports malformed task fields: an empty title, a
// description over the length limit, a missing due date.
type ValidationError struct {
	Field  string // offending field, if known
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid task: field '%s': %s", e.Field, e.Reason)
	}
	if e.Reason != "" {
		return fmt.Sprintf("invalid task: %s", e.Reason)
	}
	return fmt.Sprintf("invalid task: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsNotFound reports whether err (or anything it wraps) is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRemote reports whether err (or anything it wraps) is a RemoteError.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
