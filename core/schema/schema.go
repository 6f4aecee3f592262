package schema

import (
	"fmt"
	"strings"

	"github.com/artpar/notionorm/core/convention"
)

// Schema is an immutable model definition: a name, a collection name and an
// ordered field registry. It is safe for concurrent use.
type Schema struct {
	name       string
	collection string
	fields     []Field

	// Built once by Define, never mutated.
	byAttr     map[string]int
	byProperty map[string]int
}

// Define builds a model from its fields. An empty collection name is derived
// from the model name. All structural problems are reported together.
func Define(name, collection string, fields ...Field) (*Schema, error) {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "model name is required")
	}
	if len(fields) == 0 {
		errs = append(errs, "model must have at least one field")
	}

	s := &Schema{
		name:       name,
		collection: collection,
		fields:     make([]Field, 0, len(fields)),
		byAttr:     make(map[string]int, len(fields)),
		byProperty: make(map[string]int, len(fields)),
	}
	if s.collection == "" {
		s.collection = convention.CollectionName(name)
	}

	var badFields []string
	for _, f := range fields {
		if fieldErrs := f.check(); len(fieldErrs) > 0 {
			errs = append(errs, fieldErrs...)
			badFields = append(badFields, f.Attr)
			continue
		}
		if _, dup := s.byAttr[f.Attr]; dup {
			errs = append(errs, fmt.Sprintf("duplicate attribute name %q", f.Attr))
			badFields = append(badFields, f.Attr)
			continue
		}
		if _, dup := s.byProperty[f.Property]; dup {
			errs = append(errs, fmt.Sprintf("duplicate property name %q", f.Property))
			badFields = append(badFields, f.Attr)
			continue
		}

		idx := len(s.fields)
		f.Options = append([]SelectOption(nil), f.Options...)
		s.fields = append(s.fields, f)
		s.byAttr[f.Attr] = idx
		s.byProperty[f.Property] = idx
	}

	// A key must resolve to exactly one field whichever map it is looked up in.
	for i, f := range s.fields {
		if j, ok := s.byProperty[f.Attr]; ok && i != j {
			errs = append(errs, fmt.Sprintf("attribute %q is the property name of field %q", f.Attr, s.fields[j].Attr))
			badFields = append(badFields, f.Attr)
		}
	}

	if len(errs) > 0 {
		return nil, &SchemaError{
			Schema: name,
			Fields: badFields,
			Reason: strings.Join(errs, "; "),
			Err:    ErrInvalidSchema,
		}
	}
	return s, nil
}

// MustDefine is like Define but panics on error.
// Intended for package-level model declarations.
func MustDefine(name, collection string, fields ...Field) *Schema {
	s, err := Define(name, collection, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the model name.
func (s *Schema) Name() string { return s.name }

// CollectionName returns the title given to the remote collection.
func (s *Schema) CollectionName() string { return s.collection }

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of declared fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field resolves an attribute or property name (case-sensitive).
func (s *Schema) Field(key string) (Field, bool) {
	if i, ok := s.index(key); ok {
		return s.fields[i], true
	}
	return Field{}, false
}

func (s *Schema) index(key string) (int, bool) {
	if i, ok := s.byAttr[key]; ok {
		return i, true
	}
	i, ok := s.byProperty[key]
	return i, ok
}

// AttrFor maps a property name to its attribute name.
func (s *Schema) AttrFor(property string) (string, bool) {
	i, ok := s.byProperty[property]
	if !ok {
		return "", false
	}
	return s.fields[i].Attr, true
}

// PropertyFor maps an attribute name to its property name.
func (s *Schema) PropertyFor(attr string) (string, bool) {
	i, ok := s.byAttr[attr]
	if !ok {
		return "", false
	}
	return s.fields[i].Property, true
}

// TitleField returns the field mapped to the title property, if declared.
func (s *Schema) TitleField() (Field, bool) {
	i, ok := s.byProperty[TitleProperty]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// RequiredAttrs returns the attribute names of required fields.
func (s *Schema) RequiredAttrs() []string {
	var attrs []string
	for _, f := range s.fields {
		if f.Required {
			attrs = append(attrs, f.Attr)
		}
	}
	return attrs
}
