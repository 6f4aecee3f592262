package memory

import (
	"encoding/json"
	"strings"

	"github.com/ohler55/ojg/jp"
)

var (
	plainTexts  = jp.MustParseString("$[*].plain_text")
	optionNames = jp.MustParseString("$[*].name")
	selectName  = jp.MustParseString("$.name")
	dateStart   = jp.MustParseString("$.start")
)

// match evaluates a filter tree against one row's properties.
func match(types map[string]string, tree map[string]any, props map[string]any) (bool, error) {
	for _, op := range []string{"and", "or"} {
		raw, ok := tree[op]
		if !ok {
			continue
		}
		items, ok := raw.([]any)
		if !ok {
			return false, validationError("filter.%s should be an array", op)
		}
		return matchAll(types, op, items, props)
	}
	return matchLeaf(types, tree, props)
}

func matchAll(types map[string]string, op string, items []any, props map[string]any) (bool, error) {
	matched := false
	for i, item := range items {
		sub, ok := item.(map[string]any)
		if !ok {
			return false, validationError("filter.%s[%d] should be an object", op, i)
		}
		ok, err := match(types, sub, props)
		if err != nil {
			return false, err
		}
		if op == "and" && !ok {
			return false, nil
		}
		matched = matched || ok
	}
	if op == "and" {
		return true, nil
	}
	return matched, nil
}

func matchLeaf(types map[string]string, leaf map[string]any, props map[string]any) (bool, error) {
	name, ok := leaf["property"].(string)
	if !ok {
		return false, validationError("filter.property should be a string")
	}
	typ, ok := types[name]
	if !ok {
		return false, validationError("Could not find property with name or id: %s", name)
	}

	tag := typ
	if _, ok := leaf[tag]; !ok && (typ == "title" || typ == "rich_text") {
		// Text conditions may target the title under either tag.
		if typ == "title" {
			tag = "rich_text"
		} else {
			tag = "title"
		}
	}
	conds, ok := leaf[tag].(map[string]any)
	if !ok {
		return false, validationError("filter for %s should use %s conditions", name, typ)
	}

	prop, _ := props[name].(map[string]any)
	value := prop[typ]

	for cond, want := range conds {
		ok, err := evaluate(typ, cond, value, want)
		if err != nil {
			return false, validationError("filter for %s: %v", name, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evaluate(typ, cond string, value, want any) (bool, error) {
	switch typ {
	case "title", "rich_text":
		return evaluateText(cond, joinText(value), want)
	case "number":
		return evaluateNumber(cond, value, want)
	case "select":
		name, _ := selectName.First(value).(string)
		return evaluateSelect(cond, name, want)
	case "multi_select":
		return evaluateMultiSelect(cond, stringsOf(optionNames.Get(value)), want)
	case "date":
		start, _ := dateStart.First(value).(string)
		return evaluateDate(cond, start, want)
	case "checkbox":
		b, _ := value.(bool)
		return evaluateCheckbox(cond, b, want)
	}
	return false, errUnsupported(cond)
}

type condError string

func (e condError) Error() string { return string(e) }

func errUnsupported(cond string) error {
	return condError("unsupported condition " + cond)
}

func errOperand(cond string) error {
	return condError("bad operand for " + cond)
}

func joinText(v any) string {
	return strings.Join(stringsOf(plainTexts.Get(v)), "")
}

func stringsOf(vals []any) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func evaluateText(cond, got string, want any) (bool, error) {
	if cond == "is_empty" {
		return got == "", nil
	}
	if cond == "is_not_empty" {
		return got != "", nil
	}
	s, ok := want.(string)
	if !ok {
		return false, errOperand(cond)
	}
	switch cond {
	case "equals":
		return got == s, nil
	case "does_not_equal":
		return got != s, nil
	case "contains":
		return strings.Contains(got, s), nil
	case "does_not_contain":
		return !strings.Contains(got, s), nil
	case "starts_with":
		return strings.HasPrefix(got, s), nil
	case "ends_with":
		return strings.HasSuffix(got, s), nil
	}
	return false, errUnsupported(cond)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func evaluateNumber(cond string, value, want any) (bool, error) {
	got, present := toFloat(value)
	switch cond {
	case "is_empty":
		return !present, nil
	case "is_not_empty":
		return present, nil
	}
	w, ok := toFloat(want)
	if !ok {
		return false, errOperand(cond)
	}
	switch cond {
	case "equals":
		return present && got == w, nil
	case "does_not_equal":
		return !present || got != w, nil
	case "greater_than":
		return present && got > w, nil
	case "less_than":
		return present && got < w, nil
	case "greater_than_or_equal_to":
		return present && got >= w, nil
	case "less_than_or_equal_to":
		return present && got <= w, nil
	}
	return false, errUnsupported(cond)
}

func evaluateSelect(cond, got string, want any) (bool, error) {
	switch cond {
	case "is_empty":
		return got == "", nil
	case "is_not_empty":
		return got != "", nil
	}
	s, ok := want.(string)
	if !ok {
		return false, errOperand(cond)
	}
	switch cond {
	case "equals":
		return got == s, nil
	case "does_not_equal":
		return got != s, nil
	}
	return false, errUnsupported(cond)
}

func evaluateMultiSelect(cond string, got []string, want any) (bool, error) {
	switch cond {
	case "is_empty":
		return len(got) == 0, nil
	case "is_not_empty":
		return len(got) > 0, nil
	}
	s, ok := want.(string)
	if !ok {
		return false, errOperand(cond)
	}
	has := false
	for _, g := range got {
		if g == s {
			has = true
			break
		}
	}
	switch cond {
	case "contains":
		return has, nil
	case "does_not_contain":
		return !has, nil
	}
	return false, errUnsupported(cond)
}

// evaluateDate compares the date part of start; ISO dates order lexically.
func evaluateDate(cond, start string, want any) (bool, error) {
	switch cond {
	case "is_empty":
		return start == "", nil
	case "is_not_empty":
		return start != "", nil
	}
	s, ok := want.(string)
	if !ok {
		return false, errOperand(cond)
	}
	if start == "" {
		return false, nil
	}
	got, w := datePart(start), datePart(s)
	switch cond {
	case "equals":
		return got == w, nil
	case "before":
		return got < w, nil
	case "after":
		return got > w, nil
	case "on_or_before":
		return got <= w, nil
	case "on_or_after":
		return got >= w, nil
	}
	return false, errUnsupported(cond)
}

func datePart(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func evaluateCheckbox(cond string, got bool, want any) (bool, error) {
	b, ok := want.(bool)
	if !ok {
		return false, errOperand(cond)
	}
	switch cond {
	case "equals":
		return got == b, nil
	case "does_not_equal":
		return got != b, nil
	}
	return false, errUnsupported(cond)
}
