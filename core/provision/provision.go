// Package provision derives the property schema of a remote collection from
// a model.
package provision

import (
	"fmt"

	"github.com/artpar/notionorm/core/schema"
	"github.com/artpar/notionorm/domain/notion"
	"github.com/artpar/notionorm/ports"
)

// provisioner renders one field. picker is nil when option colors are left
// to the service.
type provisioner func(f schema.Field, picker *schema.OptionPicker) (map[string]any, error)

var provisioners = map[schema.Kind]provisioner{
	schema.KindText:        empty("rich_text"),
	schema.KindInteger:     empty("number"),
	schema.KindSelect:      withOptions("select"),
	schema.KindMultiSelect: withOptions("multi_select"),
	schema.KindDate:        empty("date"),
	schema.KindBoolean:     empty("checkbox"),
}

func empty(tag string) provisioner {
	return func(schema.Field, *schema.OptionPicker) (map[string]any, error) {
		return map[string]any{tag: map[string]any{}}, nil
	}
}

func withOptions(tag string) provisioner {
	return func(f schema.Field, picker *schema.OptionPicker) (map[string]any, error) {
		opts := f.Options
		if picker != nil {
			var err error
			if opts, err = fillColors(opts, *picker); err != nil {
				return nil, err
			}
		}
		return map[string]any{tag: map[string]any{"options": Options(opts)}}, nil
	}
}

func fillColors(opts []schema.SelectOption, picker schema.OptionPicker) ([]schema.SelectOption, error) {
	out := make([]schema.SelectOption, len(opts))
	for i, o := range opts {
		if o.Color == "" {
			var err error
			if o, err = picker.Option(o.Name, ""); err != nil {
				return nil, err
			}
		}
		out[i] = o
	}
	return out, nil
}

// Options renders select options. An option without a color is sent by name
// only and the service picks the color.
func Options(opts []schema.SelectOption) []any {
	out := make([]any, len(opts))
	for i, o := range opts {
		m := map[string]any{"name": o.Name}
		if o.Color != "" {
			m["color"] = string(o.Color)
		}
		out[i] = m
	}
	return out
}

// Properties returns the property schema for s. The title property is always
// present; a declared Name field provisions as that title.
func Properties(s *schema.Schema) (map[string]any, error) {
	return build(s, nil)
}

// ColoredProperties is Properties with a palette color drawn from colors for
// every option declared without one.
func ColoredProperties(s *schema.Schema, colors ports.Intner) (map[string]any, error) {
	return build(s, &schema.OptionPicker{Rand: colors})
}

func build(s *schema.Schema, picker *schema.OptionPicker) (map[string]any, error) {
	props := make(map[string]any, s.Len()+1)
	props[schema.TitleProperty] = map[string]any{"title": map[string]any{}}

	for _, f := range s.Fields() {
		if f.IsTitle() {
			continue
		}
		p, ok := provisioners[f.Kind]
		if !ok {
			return nil, fmt.Errorf("provision %s.%s: unsupported field kind %s", s.Name(), f.Attr, f.Kind)
		}
		prop, err := p(f, picker)
		if err != nil {
			return nil, fmt.Errorf("provision %s.%s: %w", s.Name(), f.Attr, err)
		}
		props[f.Property] = prop
	}
	return props, nil
}

// Title returns the collection title for s.
func Title(s *schema.Schema) notion.DatabaseTitle {
	return notion.DatabaseTitle{Content: s.CollectionName()}
}

// Request builds the collection creation request for s under parentID, titled
// with the schema's collection name.
func Request(s *schema.Schema, parentID string) (notion.CreateDatabaseRequest, error) {
	if parentID == "" {
		return notion.CreateDatabaseRequest{}, fmt.Errorf("provision %s: parent id is required", s.Name())
	}
	props, err := Properties(s)
	if err != nil {
		return notion.CreateDatabaseRequest{}, err
	}
	return notion.CreateDatabaseRequest{
		Parent:     notion.PageParent(parentID),
		Title:      Title(s).RichText(),
		Properties: props,
	}, nil
}
