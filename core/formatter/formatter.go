// Package formatter renders records for the command line as an aligned
// table, JSON or YAML.
package formatter

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/artpar/notionorm/core/schema"
)

// IDColumn names the row id column.
const IDColumn = "id"

// Formatter writes records of one schema in a single output format.
type Formatter interface {
	FormatList(w io.Writer, s *schema.Schema, records []*schema.Record, opts Options) error
	// FormatRecord renders rec, which may be nil when nothing matched.
	FormatRecord(w io.Writer, s *schema.Schema, rec *schema.Record, opts Options) error
}

// Options configures rendering.
type Options struct {
	// Columns selects attributes to include, in order. Nil means the row id
	// followed by every field in declaration order.
	Columns []string

	NoHeader bool // table only
	Compact  bool // json only
	MaxWidth int  // table cell truncation, 0 for none
}

var formats = map[string]Formatter{
	"table": Table{},
	"json":  document(encodeJSON),
	"yaml":  document(encodeYAML),
}

// Names lists the available output formats.
func Names() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the formatter for name.
func Lookup(name string) (Formatter, error) {
	f, ok := formats[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Columns resolves the columns to render for s. Property names are
// accepted and mapped to attributes; unknown names are an error.
func Columns(s *schema.Schema, requested []string) ([]string, error) {
	if len(requested) == 0 {
		cols := []string{IDColumn}
		for _, f := range s.Fields() {
			cols = append(cols, f.Attr)
		}
		return cols, nil
	}

	cols := make([]string, 0, len(requested))
	for _, c := range requested {
		if c == IDColumn {
			cols = append(cols, c)
			continue
		}
		f, ok := s.Field(c)
		if !ok {
			return nil, fmt.Errorf("unknown column %q for %s", c, s.Name())
		}
		cols = append(cols, f.Attr)
	}
	return cols, nil
}

// project returns the values of rec for cols.
func project(rec *schema.Record, cols []string) map[string]any {
	values := rec.Values()
	out := make(map[string]any, len(cols))
	for _, c := range cols {
		if c == IDColumn {
			out[c] = rec.RowID()
			continue
		}
		out[c] = values[c]
	}
	return out
}
