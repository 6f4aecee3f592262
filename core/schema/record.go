package schema

import (
	"errors"
	"sort"
)

// Record holds one validated value per declared field and, once persisted,
// the remote row ID. A Record is owned by its caller and is not safe for
// concurrent mutation.
type Record struct {
	schema  *Schema
	values  []any
	present []bool
	rowID   string
}

// New constructs a record from values keyed by attribute or property name.
//
// Unknown keys fail with a *SchemaError (ErrUnknownField) listing every
// unknown key. Absent required fields fail with a *ValidationError
// (ErrMissingRequired) listing every missing attribute. Values rejected by
// their field are joined into one error.
func (s *Schema) New(values map[string]any) (*Record, error) {
	supplied, err := s.resolve(values)
	if err != nil {
		return nil, err
	}

	var missing []string
	for i, f := range s.fields {
		if _, ok := supplied[i]; f.Required && !ok {
			missing = append(missing, f.Attr)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing, Reason: ErrMissingRequired.Error(), Err: ErrMissingRequired}
	}

	r := s.empty()
	var errs []error
	for i := range s.fields {
		key, ok := supplied[i]
		if !ok {
			continue
		}
		if err := r.set(i, values[key]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// Partial constructs a record holding only the supplied values, e.g. for an
// update that changes some fields. Required fields may be absent, so the
// result is not necessarily IsValid. Unknown keys, a field supplied under
// both names and invalid values fail as in New.
func (s *Schema) Partial(values map[string]any) (*Record, error) {
	supplied, err := s.resolve(values)
	if err != nil {
		return nil, err
	}

	r := s.empty()
	var errs []error
	for i := range s.fields {
		key, ok := supplied[i]
		if !ok {
			continue
		}
		if err := r.set(i, values[key]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// resolve maps each key of values to its field index. Unknown keys and a
// field supplied under both its attribute and property name are errors.
func (s *Schema) resolve(values map[string]any) (map[int]string, error) {
	var unknown, dupes []string
	supplied := make(map[int]string, len(values))
	for key := range values {
		i, ok := s.index(key)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		if prev, seen := supplied[i]; seen {
			dupes = append(dupes, prev, key)
			continue
		}
		supplied[i] = key
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &SchemaError{Schema: s.name, Fields: unknown, Reason: "unknown fields", Err: ErrUnknownField}
	}
	if len(dupes) > 0 {
		sort.Strings(dupes)
		return nil, &SchemaError{Schema: s.name, Fields: dupes, Reason: "field supplied under both names"}
	}
	return supplied, nil
}

// MustNew is like New but panics on error.
func (s *Schema) MustNew(values map[string]any) *Record {
	r, err := s.New(values)
	if err != nil {
		panic(err)
	}
	return r
}

func (s *Schema) empty() *Record {
	return &Record{
		schema:  s,
		values:  make([]any, len(s.fields)),
		present: make([]bool, len(s.fields)),
	}
}

func (r *Record) set(i int, raw any) error {
	v, err := r.schema.fields[i].Validate(raw)
	if err != nil {
		return err
	}
	r.values[i] = v
	r.present[i] = true
	return nil
}

// Schema returns the record's model.
func (r *Record) Schema() *Schema { return r.schema }

// Get returns the value of the field named by key (attribute or property).
// Unknown keys and unset fields return nil.
func (r *Record) Get(key string) any {
	v, _ := r.Lookup(key)
	return v
}

// Lookup returns the value of the field named by key and whether the key
// names a declared field.
func (r *Record) Lookup(key string) (any, bool) {
	i, ok := r.schema.index(key)
	if !ok {
		return nil, false
	}
	return copyValue(r.values[i]), true
}

// Set validates and stores a value, marking the field present.
func (r *Record) Set(key string, raw any) error {
	i, ok := r.schema.index(key)
	if !ok {
		return &SchemaError{Schema: r.schema.name, Fields: []string{key}, Reason: "unknown fields", Err: ErrUnknownField}
	}
	return r.set(i, raw)
}

// Present reports whether the field named by key was supplied.
func (r *Record) Present(key string) bool {
	i, ok := r.schema.index(key)
	return ok && r.present[i]
}

// PresentAttrs returns the attribute names of supplied fields in
// declaration order.
func (r *Record) PresentAttrs() []string {
	var attrs []string
	for i, f := range r.schema.fields {
		if r.present[i] {
			attrs = append(attrs, f.Attr)
		}
	}
	return attrs
}

// Values returns a copy of all values keyed by attribute name.
func (r *Record) Values() map[string]any {
	out := make(map[string]any, len(r.values))
	for i, f := range r.schema.fields {
		out[f.Attr] = copyValue(r.values[i])
	}
	return out
}

// IsValid reports whether every required field holds a non-nil value.
// It does not re-run field validation.
func (r *Record) IsValid() bool {
	for i, f := range r.schema.fields {
		if f.Required && r.values[i] == nil {
			return false
		}
	}
	return true
}

// RowID returns the remote row ID, or "" before the record is persisted.
func (r *Record) RowID() string { return r.rowID }

// SetRowID binds the record to a remote row.
func (r *Record) SetRowID(id string) { r.rowID = id }

// ClearRowID unbinds the record, e.g. after the row was deleted.
func (r *Record) ClearRowID() { r.rowID = "" }

func copyValue(v any) any {
	if s, ok := v.([]string); ok {
		return append([]string{}, s...)
	}
	return v
}
