package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is the YAML form of a model.
type Definition struct {
	Model      string            `yaml:"model"`
	Collection string            `yaml:"collection,omitempty"`
	Fields     []FieldDefinition `yaml:"fields"`
}

// FieldDefinition is the YAML form of a field.
type FieldDefinition struct {
	Attr      string `yaml:"attr"`
	Property  string `yaml:"property,omitempty"` // defaults to Attr
	Type      string `yaml:"type"`
	Required  bool   `yaml:"required,omitempty"`
	MaxLength int    `yaml:"max_length,omitempty"`

	// Options is decoded loosely so that malformed lists are reported
	// instead of silently zeroed.
	Options any `yaml:"options,omitempty"`
}

// ParseFile parses every model defined in a YAML file.
func ParseFile(path string) ([]*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	schemas, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schemas, nil
}

// Parse parses a YAML stream holding one model per document.
func Parse(data []byte) ([]*Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var schemas []*Schema
	for {
		var def Definition
		err := dec.Decode(&def)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		if def.Model == "" && len(def.Fields) == 0 {
			continue
		}

		s, err := def.Build()
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}

	if len(schemas) == 0 {
		return nil, &SchemaError{Reason: "no model definitions found"}
	}
	return schemas, nil
}

// ParseDir parses all model files in a directory, including subdirectories.
func ParseDir(dir string) ([]*Schema, error) {
	var schemas []*Schema

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			sub, err := ParseDir(path)
			if err != nil {
				return nil, err
			}
			schemas = append(schemas, sub...)
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		parsed, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, parsed...)
	}

	return schemas, nil
}

// Build converts the definition into a Schema. Field-level problems are
// collected and reported together.
func (d Definition) Build() (*Schema, error) {
	var errs []string
	var bad []string
	fields := make([]Field, 0, len(d.Fields))

	for i, fd := range d.Fields {
		f, err := fd.field()
		if err != nil {
			label := fd.Attr
			if label == "" {
				label = fmt.Sprintf("fields[%d]", i)
			}
			errs = append(errs, fmt.Sprintf("field %q: %v", label, err))
			bad = append(bad, label)
			continue
		}
		fields = append(fields, f)
	}

	if len(errs) > 0 {
		return nil, &SchemaError{Schema: d.Model, Fields: bad, Reason: strings.Join(errs, "; "), Err: ErrInvalidSchema}
	}

	return Define(d.Model, d.Collection, fields...)
}

func (fd FieldDefinition) field() (Field, error) {
	kind, err := ParseKind(fd.Type)
	if err != nil {
		return Field{}, err
	}

	property := fd.Property
	if property == "" {
		property = fd.Attr
	}

	var opts []FieldOption
	if fd.Required {
		opts = append(opts, Required())
	}
	if fd.MaxLength != 0 {
		if kind != KindText {
			return Field{}, fmt.Errorf("max_length applies to text fields only")
		}
		opts = append(opts, MaxLength(fd.MaxLength))
	}

	switch kind {
	case KindSelect, KindMultiSelect:
		options, err := ParseOptions(fd.Options)
		if err != nil {
			return Field{}, err
		}
		if kind == KindSelect {
			return Select(fd.Attr, property, options, opts...), nil
		}
		return MultiSelect(fd.Attr, property, options, opts...), nil
	default:
		if fd.Options != nil {
			return Field{}, fmt.Errorf("options apply to select fields only")
		}
	}

	return newField(fd.Attr, property, kind, opts), nil
}

// Definition returns the YAML form of the schema.
func (s *Schema) Definition() Definition {
	d := Definition{Model: s.name, Collection: s.collection}
	for _, f := range s.fields {
		fd := FieldDefinition{
			Attr:     f.Attr,
			Property: f.Property,
			Type:     f.Kind.String(),
			Required: f.Required,
		}
		if f.Kind == KindText && f.MaxLength != DefaultMaxLength {
			fd.MaxLength = f.MaxLength
		}
		if len(f.Options) > 0 {
			opts := make([]map[string]any, len(f.Options))
			for i, o := range f.Options {
				opts[i] = map[string]any{"name": o.Name}
				if o.Color != "" {
					opts[i]["color"] = string(o.Color)
				}
			}
			fd.Options = opts
		}
		d.Fields = append(d.Fields, fd)
	}
	return d
}
