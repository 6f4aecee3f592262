package filter

// NumberBuilder filters integer properties.
type NumberBuilder struct{ c conditions }

// Number starts a filter on a number property.
func Number(property string) *NumberBuilder {
	return &NumberBuilder{c: newConditions(property, "number")}
}

func (b *NumberBuilder) Equals(n int64) *NumberBuilder       { b.c.set("equals", n); return b }
func (b *NumberBuilder) DoesNotEqual(n int64) *NumberBuilder { b.c.set("does_not_equal", n); return b }
func (b *NumberBuilder) GreaterThan(n int64) *NumberBuilder  { b.c.set("greater_than", n); return b }
func (b *NumberBuilder) LessThan(n int64) *NumberBuilder     { b.c.set("less_than", n); return b }
func (b *NumberBuilder) GreaterThanOrEqualTo(n int64) *NumberBuilder {
	b.c.set("greater_than_or_equal_to", n)
	return b
}
func (b *NumberBuilder) LessThanOrEqualTo(n int64) *NumberBuilder {
	b.c.set("less_than_or_equal_to", n)
	return b
}
func (b *NumberBuilder) IsEmpty() *NumberBuilder    { b.c.set("is_empty", true); return b }
func (b *NumberBuilder) IsNotEmpty() *NumberBuilder { b.c.set("is_not_empty", true); return b }

// Build returns the leaf fragment.
func (b *NumberBuilder) Build() Fragment { return b.c.build() }

// TextBuilder filters rich text and title properties.
type TextBuilder struct{ c conditions }

// Text starts a filter on a rich text property.
func Text(property string) *TextBuilder {
	return &TextBuilder{c: newConditions(property, "rich_text")}
}

// Title starts a filter on the title property.
func Title(property string) *TextBuilder {
	return &TextBuilder{c: newConditions(property, "title")}
}

func (b *TextBuilder) Equals(s string) *TextBuilder         { b.c.set("equals", s); return b }
func (b *TextBuilder) DoesNotEqual(s string) *TextBuilder   { b.c.set("does_not_equal", s); return b }
func (b *TextBuilder) Contains(s string) *TextBuilder       { b.c.set("contains", s); return b }
func (b *TextBuilder) DoesNotContain(s string) *TextBuilder { b.c.set("does_not_contain", s); return b }
func (b *TextBuilder) StartsWith(s string) *TextBuilder     { b.c.set("starts_with", s); return b }
func (b *TextBuilder) EndsWith(s string) *TextBuilder       { b.c.set("ends_with", s); return b }

// Build returns the leaf fragment.
func (b *TextBuilder) Build() Fragment { return b.c.build() }

// SelectBuilder filters select properties.
type SelectBuilder struct{ c conditions }

// Select starts a filter on a select property.
func Select(property string) *SelectBuilder {
	return &SelectBuilder{c: newConditions(property, "select")}
}

func (b *SelectBuilder) Equals(name string) *SelectBuilder       { b.c.set("equals", name); return b }
func (b *SelectBuilder) DoesNotEqual(name string) *SelectBuilder { b.c.set("does_not_equal", name); return b }
func (b *SelectBuilder) IsEmpty() *SelectBuilder                 { b.c.set("is_empty", true); return b }
func (b *SelectBuilder) IsNotEmpty() *SelectBuilder              { b.c.set("is_not_empty", true); return b }

// Build returns the leaf fragment.
func (b *SelectBuilder) Build() Fragment { return b.c.build() }

// MultiSelectBuilder filters multi-select properties.
type MultiSelectBuilder struct{ c conditions }

// MultiSelect starts a filter on a multi-select property.
func MultiSelect(property string) *MultiSelectBuilder {
	return &MultiSelectBuilder{c: newConditions(property, "multi_select")}
}

func (b *MultiSelectBuilder) Contains(name string) *MultiSelectBuilder {
	b.c.set("contains", name)
	return b
}
func (b *MultiSelectBuilder) DoesNotContain(name string) *MultiSelectBuilder {
	b.c.set("does_not_contain", name)
	return b
}
func (b *MultiSelectBuilder) IsEmpty() *MultiSelectBuilder    { b.c.set("is_empty", true); return b }
func (b *MultiSelectBuilder) IsNotEmpty() *MultiSelectBuilder { b.c.set("is_not_empty", true); return b }

// Build returns the leaf fragment.
func (b *MultiSelectBuilder) Build() Fragment { return b.c.build() }

// DateBuilder filters date properties. Dates are "2006-01-02" strings.
type DateBuilder struct{ c conditions }

// Date starts a filter on a date property.
func Date(property string) *DateBuilder {
	return &DateBuilder{c: newConditions(property, "date")}
}

func (b *DateBuilder) Equals(d string) *DateBuilder     { b.c.set("equals", d); return b }
func (b *DateBuilder) Before(d string) *DateBuilder     { b.c.set("before", d); return b }
func (b *DateBuilder) After(d string) *DateBuilder      { b.c.set("after", d); return b }
func (b *DateBuilder) OnOrBefore(d string) *DateBuilder { b.c.set("on_or_before", d); return b }
func (b *DateBuilder) OnOrAfter(d string) *DateBuilder  { b.c.set("on_or_after", d); return b }
func (b *DateBuilder) IsEmpty() *DateBuilder            { b.c.set("is_empty", true); return b }
func (b *DateBuilder) IsNotEmpty() *DateBuilder         { b.c.set("is_not_empty", true); return b }

// Build returns the leaf fragment.
func (b *DateBuilder) Build() Fragment { return b.c.build() }

// CheckboxBuilder filters boolean properties.
type CheckboxBuilder struct{ c conditions }

// Checkbox starts a filter on a checkbox property.
func Checkbox(property string) *CheckboxBuilder {
	return &CheckboxBuilder{c: newConditions(property, "checkbox")}
}

func (b *CheckboxBuilder) Equals(v bool) *CheckboxBuilder       { b.c.set("equals", v); return b }
func (b *CheckboxBuilder) DoesNotEqual(v bool) *CheckboxBuilder { b.c.set("does_not_equal", v); return b }

// Build returns the leaf fragment.
func (b *CheckboxBuilder) Build() Fragment { return b.c.build() }
