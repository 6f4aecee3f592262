package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrInvalidSchema   = errors.New("invalid schema")
	ErrUnknownField    = errors.New("unknown field")
	ErrInvalidValue    = errors.New("invalid value")
	ErrMissingRequired = errors.New("missing required fields")
)

// SchemaError reports a structurally invalid model definition or a key that
// does not name any declared field. It is never recoverable by retry.
type SchemaError struct {
	Schema string   `json:"schema,omitempty"`
	Fields []string `json:"fields,omitempty"`
	Reason string   `json:"reason"`
	Err    error    `json:"-"`
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	if e.Schema != "" {
		fmt.Fprintf(&b, "schema %s: ", e.Schema)
	}
	b.WriteString(e.Reason)
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields, ", "))
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidSchema
	}
	return e.Err
}

// ValidationError reports a value rejected by a field, or required fields
// that were not supplied.
type ValidationError struct {
	// Field is the property name of the field that rejected the value.
	Field string `json:"field,omitempty"`

	// Fields lists attribute names of missing required fields.
	Fields []string `json:"fields,omitempty"`

	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidValue
	}
	return e.Err
}

func invalidValue(f Field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: f.Property, Reason: fmt.Sprintf(format, args...), Err: ErrInvalidValue}
}
