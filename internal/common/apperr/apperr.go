package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for handling policy: what the user sees, whether
// the operation is retried, and whether state is touched.
type Kind string

const (
	KindInputInvalid       Kind = "input_invalid"
	KindNotFound           Kind = "not_found"
	KindPermissionDenied   Kind = "permission_denied"
	KindPreconditionFailed Kind = "precondition_failed"
	KindExternalTransient  Kind = "external_transient"
	KindExternalPermanent  Kind = "external_permanent"
	KindInvariantViolation Kind = "invariant_violation"
	KindFatal              Kind = "fatal"
)

// Error is the application error. MsgKey is an i18n key for the user-facing
// surface; Cause keeps the raw details for logs.
type Error struct {
	Kind   Kind
	MsgKey string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.MsgKey, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.MsgKey)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, msgKey string) *Error {
	return &Error{Kind: kind, MsgKey: msgKey}
}

func Wrap(kind Kind, msgKey string, cause error) *Error {
	return &Error{Kind: kind, MsgKey: msgKey, Cause: cause}
}

// KindOf extracts the Kind of err, or KindFatal when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindFatal
}

// MsgKeyOf extracts the i18n key, falling back to a generic one.
func MsgKeyOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.MsgKey != "" {
		return ae.MsgKey
	}
	return "errors.internal"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
