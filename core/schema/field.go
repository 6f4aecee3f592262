package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultMaxLength is the MaxLength of text fields that do not set one.
const DefaultMaxLength = 1000

// DateLayout is the only accepted date string format.
const DateLayout = "2006-01-02"

// TitleProperty is the property name of the row title.
const TitleProperty = "Name"

// Field is a typed leaf of a model.
type Field struct {
	// Attr is the attribute name used by application code.
	Attr string

	// Property is the property name on the remote side.
	Property string

	Kind Kind

	// Required fields must be supplied when a record is constructed.
	Required bool

	// MaxLength limits text fields, in runes.
	MaxLength int

	// Options lists the allowed values of select and multi_select fields.
	Options []SelectOption
}

// FieldOption configures a field at declaration.
type FieldOption func(*Field)

// Required marks the field as required.
func Required() FieldOption {
	return func(f *Field) { f.Required = true }
}

// MaxLength sets the maximum rune length of a text field.
func MaxLength(n int) FieldOption {
	return func(f *Field) { f.MaxLength = n }
}

func newField(attr, property string, kind Kind, opts []FieldOption) Field {
	f := Field{Attr: attr, Property: property, Kind: kind}
	if kind == KindText {
		f.MaxLength = DefaultMaxLength
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Text declares a text field.
func Text(attr, property string, opts ...FieldOption) Field {
	return newField(attr, property, KindText, opts)
}

// Integer declares an integer field.
func Integer(attr, property string, opts ...FieldOption) Field {
	return newField(attr, property, KindInteger, opts)
}

// Select declares a single-choice field.
func Select(attr, property string, options []SelectOption, opts ...FieldOption) Field {
	f := newField(attr, property, KindSelect, opts)
	f.Options = append([]SelectOption(nil), options...)
	return f
}

// MultiSelect declares a multiple-choice field.
func MultiSelect(attr, property string, options []SelectOption, opts ...FieldOption) Field {
	f := newField(attr, property, KindMultiSelect, opts)
	f.Options = append([]SelectOption(nil), options...)
	return f
}

// Date declares a date field.
func Date(attr, property string, opts ...FieldOption) Field {
	return newField(attr, property, KindDate, opts)
}

// Boolean declares a checkbox field.
func Boolean(attr, property string, opts ...FieldOption) Field {
	return newField(attr, property, KindBoolean, opts)
}

func (f Field) String() string {
	return f.Property
}

// IsTitle reports whether the field is the row title.
func (f Field) IsTitle() bool {
	return f.Property == TitleProperty
}

// OptionNames returns the names of the declared options.
func (f Field) OptionNames() []string {
	names := make([]string, len(f.Options))
	for i, o := range f.Options {
		names[i] = o.Name
	}
	return names
}

func (f Field) hasOption(name string) bool {
	for _, o := range f.Options {
		if o.Name == name {
			return true
		}
	}
	return false
}

// Validate checks raw against the field and returns the normalized value.
// nil is accepted for optional fields and rejected for required ones.
// This is a PURE function.
func (f Field) Validate(raw any) (any, error) {
	if raw == nil {
		if f.Required {
			return nil, &ValidationError{
				Field:  f.Property,
				Fields: []string{f.Attr},
				Reason: ErrMissingRequired.Error(),
				Err:    ErrMissingRequired,
			}
		}
		return nil, nil
	}

	switch f.Kind {
	case KindText:
		s, ok := raw.(string)
		if !ok {
			return nil, invalidValue(f, "must be a string, got %T", raw)
		}
		if n := utf8.RuneCountInString(s); n > f.MaxLength {
			return nil, invalidValue(f, "length %d exceeds max length %d", n, f.MaxLength)
		}
		return s, nil

	case KindInteger:
		n, ok := toInt64(raw)
		if !ok {
			return nil, invalidValue(f, "must be an integer, got %T", raw)
		}
		return n, nil

	case KindSelect:
		s, ok := raw.(string)
		if !ok || !f.hasOption(s) {
			return nil, invalidValue(f, "must be one of [%s], got %v", strings.Join(f.OptionNames(), ", "), raw)
		}
		return s, nil

	case KindMultiSelect:
		names, ok := toStrings(raw)
		if !ok {
			return nil, invalidValue(f, "must be a list of strings, got %T", raw)
		}
		if len(names) == 0 {
			// An empty selection and no selection are the same value.
			return f.Validate(nil)
		}
		var unknown []string
		for _, name := range names {
			if !f.hasOption(name) {
				unknown = append(unknown, name)
			}
		}
		if len(unknown) > 0 {
			return nil, invalidValue(f, "values [%s] are not among [%s]",
				strings.Join(unknown, ", "), strings.Join(f.OptionNames(), ", "))
		}
		return names, nil

	case KindDate:
		switch v := raw.(type) {
		case string:
			if _, err := time.Parse(DateLayout, v); err != nil {
				return nil, invalidValue(f, "must be a date in YYYY-MM-DD format, got %q", v)
			}
			return v, nil
		case time.Time:
			return v.Format(DateLayout), nil
		case *time.Time:
			if v == nil {
				return f.Validate(nil)
			}
			return v.Format(DateLayout), nil
		default:
			return nil, invalidValue(f, "must be a date string or time.Time, got %T", raw)
		}

	case KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, invalidValue(f, "must be a boolean, got %T", raw)
		}
		return b, nil
	}

	return nil, invalidValue(f, "unsupported field kind %s", f.Kind)
}

// Coerce parses command-line text into a raw value for Validate.
// Multi-select values are comma separated.
func (f Field) Coerce(s string) (any, error) {
	switch f.Kind {
	case KindInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, invalidValue(f, "must be an integer, got %q", s)
		}
		return n, nil
	case KindBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return nil, invalidValue(f, "must be a boolean, got %q", s)
		}
		return b, nil
	case KindMultiSelect:
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	default:
		return s, nil
	}
}

// check validates the field declaration itself.
func (f Field) check() []string {
	var errs []string
	label := f.Attr
	if label == "" {
		label = f.Property
	}

	if f.Attr == "" {
		errs = append(errs, "field attribute name is required")
	}
	if f.Property == "" {
		errs = append(errs, fmt.Sprintf("field %q: property name is required", label))
	}
	if !f.Kind.Valid() {
		errs = append(errs, fmt.Sprintf("field %q: unknown kind %s", label, f.Kind))
		return errs
	}

	switch f.Kind {
	case KindText:
		if f.MaxLength <= 0 {
			errs = append(errs, fmt.Sprintf("field %q: max length must be positive", label))
		}
	case KindSelect, KindMultiSelect:
		if len(f.Options) == 0 {
			errs = append(errs, fmt.Sprintf("field %q: options must be provided", label))
		}
		seen := make(map[string]bool, len(f.Options))
		for i, o := range f.Options {
			if strings.TrimSpace(o.Name) == "" {
				errs = append(errs, fmt.Sprintf("field %q: options[%d] has no name", label, i))
			}
			if seen[o.Name] {
				errs = append(errs, fmt.Sprintf("field %q: duplicate option %q", label, o.Name))
			}
			seen[o.Name] = true
			if o.Color != "" && !o.Color.Valid() {
				errs = append(errs, fmt.Sprintf("field %q: option %q has invalid color %q", label, o.Name, o.Color))
			}
		}
	}

	if f.IsTitle() && f.Kind != KindText {
		errs = append(errs, fmt.Sprintf("field %q: the %s property must be text, got %s", label, TitleProperty, f.Kind))
	}

	return errs
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func toStrings(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return append([]string{}, s...), true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}
