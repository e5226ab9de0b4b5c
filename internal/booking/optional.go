package booking

import (
	"encoding/json"
	"errors"
)

// OptionalString is a tri-state JSON field: absent, explicit null, or a
// string value. Requests use it so "leave unchanged" and "clear" stay
// distinguishable, and so non-string values fail with a typed error
// instead of a generic decode failure.
type OptionalString struct {
	Set   bool
	Null  bool
	Value string
}

type wrongTypeError struct{}

func (e *wrongTypeError) Error() string { return "value must be a string or null" }

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return &wrongTypeError{}
	}
	return nil
}

// IsWrongType reports whether a JSON decode failed because an
// OptionalString field held a non-string value.
func IsWrongType(err error) bool {
	var wt *wrongTypeError
	return errors.As(err, &wt)
}
