package codec

import (
	"encoding/json"
	"math"
	"time"

	"github.com/artpar/notionorm/core/schema"
	"github.com/ohler55/ojg/jp"
)

// handler encodes and decodes one field kind. encode receives a normalized,
// non-nil value; decode receives the property object and returns nil for an
// empty value.
type handler struct {
	tag    string
	empty  func() any
	encode func(property string, v any) (any, error)
	decode func(property string, prop map[string]any) (any, error)
}

var (
	titleText    = jp.MustParseString("$.title[0].plain_text")
	titleContent = jp.MustParseString("$.title[0].text.content")
	richText     = jp.MustParseString("$.rich_text[0].plain_text")
	richContent  = jp.MustParseString("$.rich_text[0].text.content")
	selectName   = jp.MustParseString("$.select.name")
	multiNames   = jp.MustParseString("$.multi_select[*].name")
	dateStart    = jp.MustParseString("$.date.start")
)

var handlers = map[schema.Kind]handler{
	schema.KindText:        textHandler("rich_text", richText, richContent),
	schema.KindInteger:     {tag: "number", empty: nilValue, encode: encodeNumber, decode: decodeNumber},
	schema.KindSelect:      {tag: "select", empty: nilValue, encode: encodeSelect, decode: decodeSelect},
	schema.KindMultiSelect: {tag: "multi_select", empty: emptyList, encode: encodeMultiSelect, decode: decodeMultiSelect},
	schema.KindDate:        {tag: "date", empty: nilValue, encode: encodeDate, decode: decodeDate},
	schema.KindBoolean:     {tag: "checkbox", encode: encodeCheckbox, decode: decodeCheckbox},
}

var titleHandler = textHandler("title", titleText, titleContent)

func handlerFor(f schema.Field) (handler, bool) {
	if f.IsTitle() {
		return titleHandler, true
	}
	h, ok := handlers[f.Kind]
	return h, ok
}

func nilValue() any  { return nil }
func emptyList() any { return []any{} }

func textHandler(tag string, plain, content jp.Expr) handler {
	return handler{
		tag:   tag,
		empty: emptyList,
		encode: func(property string, v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return nil, encodeError(property, "expected string, got %T", v)
			}
			return []any{map[string]any{"text": map[string]any{"content": s}}}, nil
		},
		decode: func(property string, prop map[string]any) (any, error) {
			items, ok := prop[tag].([]any)
			if !ok {
				if prop[tag] == nil {
					return nil, nil
				}
				return nil, decodeError(property, "%s is %T, expected a list", tag, prop[tag])
			}
			if len(items) == 0 {
				return nil, nil
			}
			if s, ok := plain.First(prop).(string); ok {
				return s, nil
			}
			if s, ok := content.First(prop).(string); ok {
				return s, nil
			}
			return nil, decodeError(property, "%s[0] has no plain_text", tag)
		},
	}
}

func encodeNumber(property string, v any) (any, error) {
	n, ok := v.(int64)
	if !ok {
		return nil, encodeError(property, "expected int64, got %T", v)
	}
	return n, nil
}

func decodeNumber(property string, prop map[string]any) (any, error) {
	raw := prop["number"]
	if raw == nil {
		return nil, nil
	}
	n, ok := toInt64(raw)
	if !ok {
		return nil, decodeError(property, "number %v is not an integer", raw)
	}
	return n, nil
}

func encodeSelect(property string, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, encodeError(property, "expected string, got %T", v)
	}
	return map[string]any{"name": s}, nil
}

func decodeSelect(property string, prop map[string]any) (any, error) {
	if prop["select"] == nil {
		return nil, nil
	}
	s, ok := selectName.First(prop).(string)
	if !ok {
		return nil, decodeError(property, "select has no name")
	}
	return s, nil
}

func encodeMultiSelect(property string, v any) (any, error) {
	names, ok := v.([]string)
	if !ok {
		return nil, encodeError(property, "expected []string, got %T", v)
	}
	items := make([]any, len(names))
	for i, name := range names {
		items[i] = map[string]any{"name": name}
	}
	return items, nil
}

func decodeMultiSelect(property string, prop map[string]any) (any, error) {
	if prop["multi_select"] == nil {
		return nil, nil
	}
	items, ok := prop["multi_select"].([]any)
	if !ok {
		return nil, decodeError(property, "multi_select is %T, expected a list", prop["multi_select"])
	}
	if len(items) == 0 {
		return nil, nil
	}
	matches := multiNames.Get(prop)
	if len(matches) != len(items) {
		return nil, decodeError(property, "multi_select option without a name")
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		s, ok := m.(string)
		if !ok {
			return nil, decodeError(property, "multi_select name %v is not a string", m)
		}
		names = append(names, s)
	}
	return names, nil
}

func encodeDate(property string, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, encodeError(property, "expected date string, got %T", v)
	}
	return map[string]any{"start": s}, nil
}

func decodeDate(property string, prop map[string]any) (any, error) {
	if prop["date"] == nil {
		return nil, nil
	}
	if _, ok := prop["date"].(map[string]any); !ok {
		return nil, decodeError(property, "date is %T, expected an object", prop["date"])
	}
	s, ok := dateStart.First(prop).(string)
	if !ok {
		return nil, decodeError(property, "date has no start")
	}
	// Datetime values carry a time component after the date.
	if len(s) > len(schema.DateLayout) {
		if _, err := time.Parse(schema.DateLayout, s[:len(schema.DateLayout)]); err == nil {
			return s[:len(schema.DateLayout)], nil
		}
	}
	return s, nil
}

func encodeCheckbox(property string, v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, encodeError(property, "expected bool, got %T", v)
	}
	return b, nil
}

func decodeCheckbox(property string, prop map[string]any) (any, error) {
	raw := prop["checkbox"]
	if raw == nil {
		return nil, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return nil, decodeError(property, "checkbox is %T, expected bool", raw)
	}
	return b, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
