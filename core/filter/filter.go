// Package filter builds query filters in the remote filter grammar.
//
// A leaf fragment targets one property:
//
//	{"property": "Points", "number": {"greater_than": 3, "less_than": 10}}
//
// A Composer combines fragments into the request body:
//
//	{}                                   no fragments
//	{"filter": leaf}                     one fragment
//	{"filter": {"and": [leaf, leaf]}}    several fragments
//
// Everything in this package is pure; builders are not safe for concurrent
// mutation but independent builders may be used from any goroutine.
package filter

import "fmt"

// Fragment is one node of a filter tree.
type Fragment map[string]any

// Operator joins several fragments.
type Operator string

const (
	And Operator = "and"
	Or  Operator = "or"
)

// Valid reports whether op is And or Or.
func (op Operator) Valid() bool {
	return op == And || op == Or
}

// orAnd returns op, or And when op is not a valid operator.
func (op Operator) orAnd() Operator {
	if op.Valid() {
		return op
	}
	return And
}

// FilterError reports a filter on an unknown field, a condition the field's
// kind does not support, or a value of the wrong shape.
type FilterError struct {
	Field     string `json:"field,omitempty"`
	Condition string `json:"condition,omitempty"`
	Reason    string `json:"reason"`
}

func (e *FilterError) Error() string {
	switch {
	case e.Field != "" && e.Condition != "":
		return fmt.Sprintf("filter %s %s: %s", e.Field, e.Condition, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("filter %s: %s", e.Field, e.Reason)
	default:
		return "filter: " + e.Reason
	}
}

// conditions accumulates one property's condition map.
type conditions struct {
	property string
	tag      string
	conds    map[string]any
}

func newConditions(property, tag string) conditions {
	return conditions{property: property, tag: tag, conds: make(map[string]any)}
}

func (c *conditions) set(cond string, v any) {
	c.conds[cond] = v
}

func (c *conditions) build() Fragment {
	inner := make(map[string]any, len(c.conds))
	for k, v := range c.conds {
		inner[k] = v
	}
	return Fragment{"property": c.property, c.tag: inner}
}

// Group joins fragments under op without the "filter" envelope, for nesting
// one composite inside another. An op other than Or means And.
func Group(op Operator, fragments ...Fragment) Fragment {
	op = op.orAnd()
	items := make([]any, len(fragments))
	for i, f := range fragments {
		items[i] = map[string]any(f)
	}
	return Fragment{string(op): items}
}

// Composer accumulates fragments in order.
type Composer struct {
	fragments []Fragment
}

// NewComposer creates a composer holding fragments.
func NewComposer(fragments ...Fragment) *Composer {
	c := &Composer{}
	for _, f := range fragments {
		c.Add(f)
	}
	return c
}

// Add appends a fragment.
func (c *Composer) Add(f Fragment) *Composer {
	c.fragments = append(c.fragments, f)
	return c
}

// Len returns the number of fragments added.
func (c *Composer) Len() int { return len(c.fragments) }

// Build returns the request body. An op other than Or means And.
func (c *Composer) Build(op Operator) map[string]any {
	switch len(c.fragments) {
	case 0:
		return map[string]any{}
	case 1:
		return map[string]any{"filter": map[string]any(c.fragments[0])}
	default:
		return map[string]any{"filter": map[string]any(Group(op, c.fragments...))}
	}
}

// Compose is shorthand for NewComposer(fragments...).Build(op).
func Compose(op Operator, fragments ...Fragment) map[string]any {
	return NewComposer(fragments...).Build(op)
}
