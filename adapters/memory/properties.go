package memory

import (
	"encoding/json"

	"github.com/artpar/notionorm/domain/notion"
)

var propertyTypes = map[string]bool{
	"title":        true,
	"rich_text":    true,
	"number":       true,
	"select":       true,
	"multi_select": true,
	"date":         true,
	"checkbox":     true,
}

// propertyType reads a property schema fragment such as {"select": {...}}.
func propertyType(name string, raw any) (string, map[string]any, error) {
	m, ok := raw.(map[string]any)
	if !ok || len(m) != 1 {
		return "", nil, validationError("body.properties.%s should be an object with one type key", name)
	}
	for tag, v := range m {
		if !propertyTypes[tag] {
			return "", nil, validationError("body.properties.%s has unsupported type %s", name, tag)
		}
		config, _ := v.(map[string]any)
		return tag, config, nil
	}
	return "", nil, nil
}

func propertySchema(id, name, tag string, config map[string]any) notion.PropertySchema {
	ps := notion.PropertySchema{ID: id, Name: name, Type: tag}
	switch tag {
	case "title":
		ps.Title = map[string]any{}
	case "number":
		ps.Number = map[string]any{"format": "number"}
	case "select":
		ps.Select = map[string]any{"options": schemaOptions(config)}
	case "multi_select":
		ps.MultiSelect = map[string]any{"options": schemaOptions(config)}
	}
	return ps
}

// schemaOptions copies provisioned options, assigning the default color to
// options that have none.
func schemaOptions(config map[string]any) []any {
	raw, _ := config["options"].([]any)
	out := make([]any, 0, len(raw))
	for _, o := range raw {
		m, ok := o.(map[string]any)
		if !ok {
			continue
		}
		opt := map[string]any{"name": m["name"], "color": "default"}
		if c, ok := m["color"].(string); ok && c != "" {
			opt["color"] = c
		}
		out = append(out, opt)
	}
	return out
}

func (d *database) emptyProperty(name string) map[string]any {
	tag := d.types[name]
	var v any
	switch tag {
	case "title", "rich_text", "multi_select":
		v = []any{}
	case "checkbox":
		v = false
	}
	return map[string]any{"id": d.db.Properties[name].ID, "type": tag, tag: v}
}

// apply validates in against the database schema and writes the normalized
// properties into props.
func (d *database) apply(props, in map[string]any) error {
	for name, raw := range in {
		tag, ok := d.types[name]
		if !ok {
			return validationError("%s is not a property that exists.", name)
		}
		m, ok := raw.(map[string]any)
		if !ok {
			return validationError("body.properties.%s should be an object", name)
		}
		inner, ok := m[tag]
		if !ok {
			return validationError("%s is expected to be %s.", name, tag)
		}
		v, err := normalize(name, tag, inner)
		if err != nil {
			return err
		}
		props[name] = map[string]any{"id": d.db.Properties[name].ID, "type": tag, tag: v}
	}
	return nil
}

func normalize(name, tag string, v any) (any, error) {
	switch tag {
	case "title", "rich_text":
		if v == nil {
			return []any{}, nil
		}
		items, ok := v.([]any)
		if !ok {
			return nil, validationError("body.properties.%s.%s should be an array", name, tag)
		}
		out := make([]any, len(items))
		for i, item := range items {
			content, ok := textContent(item)
			if !ok {
				return nil, validationError("body.properties.%s.%s[%d].text.content should be a string", name, tag, i)
			}
			out[i] = map[string]any{
				"type":       "text",
				"text":       map[string]any{"content": content},
				"plain_text": content,
			}
		}
		return out, nil

	case "number":
		switch n := v.(type) {
		case nil, int, int32, int64, float64:
			return n, nil
		case json.Number:
			return n, nil
		default:
			return nil, validationError("body.properties.%s.number should be a number or null", name)
		}

	case "select":
		if v == nil {
			return nil, nil
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, validationError("body.properties.%s.select should be an object or null", name)
		}
		n, ok := m["name"].(string)
		if !ok {
			return nil, validationError("body.properties.%s.select.name should be a string", name)
		}
		return map[string]any{"name": n}, nil

	case "multi_select":
		items, ok := v.([]any)
		if !ok {
			return nil, validationError("body.properties.%s.multi_select should be an array", name)
		}
		out := make([]any, len(items))
		for i, item := range items {
			m, _ := item.(map[string]any)
			n, ok := m["name"].(string)
			if !ok {
				return nil, validationError("body.properties.%s.multi_select[%d].name should be a string", name, i)
			}
			out[i] = map[string]any{"name": n}
		}
		return out, nil

	case "date":
		if v == nil {
			return nil, nil
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, validationError("body.properties.%s.date should be an object or null", name)
		}
		start, ok := m["start"].(string)
		if !ok {
			return nil, validationError("body.properties.%s.date.start should be a string", name)
		}
		return map[string]any{"start": start, "end": m["end"]}, nil

	case "checkbox":
		b, ok := v.(bool)
		if !ok {
			return nil, validationError("body.properties.%s.checkbox should be a boolean", name)
		}
		return b, nil
	}
	return nil, validationError("body.properties.%s has unsupported type %s", name, tag)
}

func textContent(item any) (string, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return "", false
	}
	text, ok := m["text"].(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := text["content"].(string)
	return s, ok
}

func withPlainText(items []notion.RichText) []notion.RichText {
	out := make([]notion.RichText, len(items))
	for i, rt := range items {
		if rt.Text != nil && rt.PlainText == "" {
			rt.PlainText = rt.Text.Content
		}
		out[i] = rt
	}
	return out
}

func cloneDatabase(db notion.Database) notion.Database {
	props := make(map[string]notion.PropertySchema, len(db.Properties))
	for k, v := range db.Properties {
		props[k] = v
	}
	db.Properties = props
	db.Title = append([]notion.RichText(nil), db.Title...)
	return db
}

func clonePage(p notion.Page) notion.Page {
	p.Properties = cloneProperties(p.Properties)
	if p.Parent != nil {
		parent := *p.Parent
		p.Parent = &parent
	}
	return p
}

func cloneProperties(props map[string]any) map[string]any {
	out, _ := cloneValue(props).(map[string]any)
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
