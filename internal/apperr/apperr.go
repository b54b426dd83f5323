// Package apperr defines the error taxonomy shared by services and mapped to
// HTTP statuses in the controllers.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Validation Kind = iota + 1 // bad reserved fields, invalid language, empty answer set
	Auth                       // no authenticated session
	NotFound                   // unknown user or submission
	MediaUpload                // per-file object-store failure, non-fatal
	Persistence                // storage read/write failure
)

type Error struct {
	Kind    Kind
	Message string // human message, locale-aware on the form-facing paths
	Err     error  // diagnostic detail, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// MessageOf returns the human message of err, falling back to err.Error().
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
