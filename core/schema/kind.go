package schema

import "fmt"

// Kind is the closed set of field kinds. Every component that dispatches on
// a field (codec, filters, provisioning) keys a handler table by Kind.
type Kind uint8

const (
	KindText Kind = iota + 1
	KindInteger
	KindSelect
	KindMultiSelect
	KindDate
	KindBoolean
)

var kindNames = map[Kind]string{
	KindText:        "text",
	KindInteger:     "integer",
	KindSelect:      "select",
	KindMultiSelect: "multi_select",
	KindDate:        "date",
	KindBoolean:     "boolean",
}

// Kinds returns every field kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindText, KindInteger, KindSelect, KindMultiSelect, KindDate, KindBoolean}
}

// String returns the YAML name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind maps a YAML type name to its Kind.
// A few aliases are accepted for hand-written model files.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "text", "string", "rich_text":
		return KindText, nil
	case "integer", "int", "number":
		return KindInteger, nil
	case "select", "enum":
		return KindSelect, nil
	case "multi_select", "multiselect", "tags":
		return KindMultiSelect, nil
	case "date":
		return KindDate, nil
	case "boolean", "bool", "checkbox":
		return KindBoolean, nil
	default:
		return 0, fmt.Errorf("unknown field type %q", s)
	}
}
