package booking

import (
	"errors"
	"fmt"
)

// Kind tags every failure the booking core can report. Handlers map kinds
// to HTTP statuses; anything that is not a *Error is a store failure.
type Kind string

const (
	KindInvalidFormat    Kind = "invalid_format"
	KindInvalidDate      Kind = "invalid_date"
	KindWeekend          Kind = "weekend"
	KindRequired         Kind = "required"
	KindWrongType        Kind = "wrong_type"
	KindMissingParameter Kind = "missing_parameter"
	KindInvalidID        Kind = "invalid_id"
	KindNoChanges        Kind = "no_changes"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindNotFound         Kind = "not_found"
)

type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Kind)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

func newError(kind Kind, field, message string) *Error {
	return &Error{Kind: kind, Field: field, Message: message}
}

// ErrCapacityExceeded is the refusal stores return when the target day is
// already at capacity.
var ErrCapacityExceeded = newError(KindCapacityExceeded, "day", "day is fully booked")

// ErrNotFound is returned by stores when no row matches the target id.
var ErrNotFound = newError(KindNotFound, "id", "booking not found")

// KindOf extracts the failure kind, or "" for untyped (store) errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsInput reports whether err is a malformed-request failure the caller
// can correct, as opposed to a business refusal or a store fault.
func IsInput(err error) bool {
	switch KindOf(err) {
	case KindInvalidFormat, KindInvalidDate, KindWeekend, KindRequired,
		KindWrongType, KindMissingParameter, KindInvalidID, KindNoChanges:
		return true
	}
	return false
}

func IsCapacityExceeded(err error) bool { return KindOf(err) == KindCapacityExceeded }

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
