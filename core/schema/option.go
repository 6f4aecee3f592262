package schema

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/artpar/notionorm/ports"
)

// Color is an option color from the service's fixed palette.
type Color string

const (
	ColorDefault Color = "default"
	ColorGray    Color = "gray"
	ColorBrown   Color = "brown"
	ColorOrange  Color = "orange"
	ColorYellow  Color = "yellow"
	ColorGreen   Color = "green"
	ColorBlue    Color = "blue"
	ColorPurple  Color = "purple"
	ColorPink    Color = "pink"
	ColorRed     Color = "red"
)

var palette = []Color{
	ColorDefault, ColorGray, ColorBrown, ColorOrange, ColorYellow,
	ColorGreen, ColorBlue, ColorPurple, ColorPink, ColorRed,
}

// Palette returns the allowed option colors.
func Palette() []Color {
	return append([]Color(nil), palette...)
}

// Valid reports whether c is in the palette.
func (c Color) Valid() bool {
	for _, p := range palette {
		if c == p {
			return true
		}
	}
	return false
}

// SelectOption is one allowed value of a select or multi_select field.
// An empty Color leaves the choice to the remote service.
type SelectOption struct {
	Name  string `yaml:"name" json:"name"`
	Color Color  `yaml:"color,omitempty" json:"color,omitempty"`
}

// OptionPicker builds options, filling in missing colors from Rand.
// A nil Rand uses math/rand/v2. The pick is cosmetic and not a security
// property: colors are neither unique nor unpredictable to an attacker.
type OptionPicker struct {
	Rand ports.Intner
}

// Option returns an option named name. An empty color is replaced by a
// pseudo-random palette color; a color outside the palette fails.
func (p OptionPicker) Option(name string, color Color) (SelectOption, error) {
	if strings.TrimSpace(name) == "" {
		return SelectOption{}, &SchemaError{Reason: "option name is required"}
	}
	if color == "" {
		color = palette[p.intN(len(palette))]
	}
	if !color.Valid() {
		return SelectOption{}, &SchemaError{
			Reason: fmt.Sprintf("option %q: color must be one of %s", name, paletteList()),
			Fields: []string{string(color)},
		}
	}
	return SelectOption{Name: name, Color: color}, nil
}

func (p OptionPicker) intN(n int) int {
	if p.Rand == nil {
		return rand.IntN(n)
	}
	return p.Rand.IntN(n)
}

// NewOption builds an option with the default picker.
// Calls without a color are nondeterministic.
func NewOption(name string, color Color) (SelectOption, error) {
	return OptionPicker{}.Option(name, color)
}

// Options builds one option per name with pseudo-random colors.
func (p OptionPicker) Options(names ...string) ([]SelectOption, error) {
	opts := make([]SelectOption, 0, len(names))
	for _, name := range names {
		opt, err := p.Option(name, "")
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

// ParseOptions converts loosely-typed input (decoded YAML or JSON) into
// options. It fails when raw is empty, is not a list, or holds entries that
// are not objects with a string name. Colors are kept as given.
func ParseOptions(raw any) ([]SelectOption, error) {
	var items []any
	switch v := raw.(type) {
	case nil:
		return nil, &SchemaError{Reason: "options must be provided"}
	case []SelectOption:
		items = make([]any, len(v))
		for i, o := range v {
			items[i] = map[string]any{"name": o.Name, "color": string(o.Color)}
		}
	case []map[string]any:
		items = make([]any, len(v))
		for i, m := range v {
			items[i] = m
		}
	case []any:
		items = v
	default:
		return nil, &SchemaError{Reason: fmt.Sprintf("options must be a list, got %T", raw)}
	}

	if len(items) == 0 {
		return nil, &SchemaError{Reason: "options must be provided"}
	}

	opts := make([]SelectOption, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &SchemaError{Reason: fmt.Sprintf("options[%d] must be an object, got %T", i, item)}
		}
		name, ok := m["name"].(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, &SchemaError{Reason: fmt.Sprintf("options[%d].name must be a non-empty string", i)}
		}
		opt := SelectOption{Name: name}
		if c, ok := m["color"]; ok && c != nil {
			s, ok := c.(string)
			if !ok {
				return nil, &SchemaError{Reason: fmt.Sprintf("options[%d].color must be a string", i)}
			}
			opt.Color = Color(s)
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

func paletteList() string {
	names := make([]string, len(palette))
	for i, c := range palette {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
