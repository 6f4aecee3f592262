package filter

import (
	"errors"
	"slices"
	"sort"

	"github.com/artpar/notionorm/core/schema"
)

// operand describes what value a condition takes.
type operand uint8

const (
	operandValue   operand = iota + 1 // a value valid for the field
	operandElement                    // one option name of a multi-select
	operandFlag                       // true
)

type kindConditions struct {
	tag   string
	conds map[string]operand
}

var (
	textConds = map[string]operand{
		"equals":           operandValue,
		"does_not_equal":   operandValue,
		"contains":         operandValue,
		"does_not_contain": operandValue,
		"starts_with":      operandValue,
		"ends_with":        operandValue,
	}

	kindTable = map[schema.Kind]kindConditions{
		schema.KindText: {tag: "rich_text", conds: textConds},
		schema.KindInteger: {tag: "number", conds: map[string]operand{
			"equals":                   operandValue,
			"does_not_equal":           operandValue,
			"greater_than":             operandValue,
			"less_than":                operandValue,
			"greater_than_or_equal_to": operandValue,
			"less_than_or_equal_to":    operandValue,
			"is_empty":                 operandFlag,
			"is_not_empty":             operandFlag,
		}},
		schema.KindSelect: {tag: "select", conds: map[string]operand{
			"equals":         operandValue,
			"does_not_equal": operandValue,
			"is_empty":       operandFlag,
			"is_not_empty":   operandFlag,
		}},
		schema.KindMultiSelect: {tag: "multi_select", conds: map[string]operand{
			"contains":         operandElement,
			"does_not_contain": operandElement,
			"is_empty":         operandFlag,
			"is_not_empty":     operandFlag,
		}},
		schema.KindDate: {tag: "date", conds: map[string]operand{
			"equals":       operandValue,
			"before":       operandValue,
			"after":        operandValue,
			"on_or_before": operandValue,
			"on_or_after":  operandValue,
			"is_empty":     operandFlag,
			"is_not_empty": operandFlag,
		}},
		schema.KindBoolean: {tag: "checkbox", conds: map[string]operand{
			"equals":         operandValue,
			"does_not_equal": operandValue,
		}},
	}

	titleConditions = kindConditions{tag: "title", conds: textConds}
)

// Builder filters one schema field, choosing the tag and the allowed
// conditions from the field's kind.
type Builder struct {
	field schema.Field
	kind  kindConditions
	known bool
	c     conditions
}

// ForField starts a filter on f.
func ForField(f schema.Field) *Builder {
	kc, ok := kindTable[f.Kind]
	if f.IsTitle() {
		kc, ok = titleConditions, true
	}
	return &Builder{field: f, kind: kc, known: ok, c: newConditions(f.Property, kc.tag)}
}

// Conditions lists the conditions the field supports, sorted.
func (b *Builder) Conditions() []string {
	names := make([]string, 0, len(b.kind.conds))
	for name := range b.kind.conds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply adds one condition. The value is checked against the field the way
// record values are, so integers normalize to int64 and dates to strings.
func (b *Builder) Apply(cond string, value any) error {
	if !b.known {
		return &FilterError{Field: b.field.Attr, Condition: cond, Reason: "unsupported field kind " + b.field.Kind.String()}
	}
	op, ok := b.kind.conds[cond]
	if !ok {
		return &FilterError{Field: b.field.Attr, Condition: cond, Reason: "condition not supported for " + b.kind.tag}
	}

	v, err := b.operand(op, value)
	if err != nil {
		reason := err.Error()
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			reason = ve.Reason
		}
		return &FilterError{Field: b.field.Attr, Condition: cond, Reason: reason}
	}

	b.c.set(cond, v)
	return nil
}

func (b *Builder) operand(op operand, value any) (any, error) {
	switch op {
	case operandFlag:
		if value == nil || value == true {
			return true, nil
		}
		return nil, errors.New("takes no value other than true")
	case operandElement:
		name, ok := value.(string)
		if !ok {
			return nil, errors.New("expects one option name")
		}
		if !slices.Contains(b.field.OptionNames(), name) {
			return nil, errors.New("unknown option " + name)
		}
		return name, nil
	default:
		if value == nil {
			return nil, errors.New("requires a value")
		}
		return b.field.Validate(value)
	}
}

// Build returns the leaf fragment.
func (b *Builder) Build() Fragment { return b.c.build() }

// Condition is a set of conditions on one field, named by attribute or
// property.
type Condition struct {
	Field string
	Conds map[string]any
}

// Where starts a condition on field.
func Where(field, cond string, value any) Condition {
	return Condition{Field: field, Conds: map[string]any{cond: value}}
}

// And adds another condition on the same field.
func (c Condition) And(cond string, value any) Condition {
	conds := make(map[string]any, len(c.Conds)+1)
	for k, v := range c.Conds {
		conds[k] = v
	}
	conds[cond] = value
	return Condition{Field: c.Field, Conds: conds}
}

// FromConditions resolves each condition against s and composes the
// resulting fragments with op.
func FromConditions(s *schema.Schema, op Operator, conds ...Condition) (map[string]any, error) {
	if op == "" {
		op = And
	}
	if !op.Valid() {
		return nil, &FilterError{Reason: "unknown operator " + string(op)}
	}

	c := NewComposer()
	for _, cond := range conds {
		f, ok := s.Field(cond.Field)
		if !ok {
			return nil, &FilterError{Field: cond.Field, Reason: "unknown field on " + s.Name()}
		}
		if len(cond.Conds) == 0 {
			return nil, &FilterError{Field: cond.Field, Reason: "no conditions"}
		}

		b := ForField(f)
		names := make([]string, 0, len(cond.Conds))
		for name := range cond.Conds {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := b.Apply(name, cond.Conds[name]); err != nil {
				return nil, err
			}
		}
		c.Add(b.Build())
	}
	return c.Build(op), nil
}
