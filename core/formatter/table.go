package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/artpar/notionorm/core/schema"
)

// Table renders lists as aligned columns and single records as
// "Property: value" lines.
type Table struct{}

func (Table) FormatList(w io.Writer, s *schema.Schema, records []*schema.Record, opts Options) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No records found.")
		return err
	}

	cols, err := Columns(s, opts.Columns)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	cells := make([]string, len(cols))
	if !opts.NoHeader {
		for i, c := range cols {
			cells[i] = strings.ToUpper(c)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	for _, rec := range records {
		row := project(rec, cols)
		for i, c := range cols {
			cells[i] = cell(row[c], opts.MaxWidth)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func (Table) FormatRecord(w io.Writer, s *schema.Schema, rec *schema.Record, opts Options) error {
	if rec == nil {
		_, err := fmt.Fprintln(w, "Record not found.")
		return err
	}

	cols, err := Columns(s, opts.Columns)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := project(rec, cols)
	for _, c := range cols {
		fmt.Fprintf(tw, "%s:\t%s\n", label(s, c), cell(row[c], 0))
	}
	return tw.Flush()
}

// label is the remote property name of col, or "ID".
func label(s *schema.Schema, col string) string {
	if col == IDColumn {
		return "ID"
	}
	if p, ok := s.PropertyFor(col); ok {
		return p
	}
	return col
}

// cell renders one value, using "-" for absent ones and cutting it to
// maxWidth with a trailing "...".
func cell(val any, maxWidth int) string {
	var s string
	switch v := val.(type) {
	case nil:
		return "-"
	case string:
		if v == "" {
			return "-"
		}
		s = v
	case bool:
		s = "no"
		if v {
			s = "yes"
		}
	case int64:
		s = strconv.FormatInt(v, 10)
	case []string:
		s = strings.Join(v, ", ")
	default:
		b, _ := json.Marshal(v)
		s = string(b)
	}

	if maxWidth > 3 && len(s) > maxWidth {
		s = s[:maxWidth-3] + "..."
	}
	return s
}
