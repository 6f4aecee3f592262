package formatter

import (
	"encoding/json"
	"io"

	"github.com/artpar/notionorm/core/schema"
	"gopkg.in/yaml.v3"
)

// envelope wraps rendered rows with the model they belong to.
type envelope struct {
	Model      string `json:"model" yaml:"model"`
	Collection string `json:"collection" yaml:"collection"`
	Count      *int   `json:"count,omitempty" yaml:"count,omitempty"`
	Data       any    `json:"data" yaml:"data"`
}

// document renders envelopes through a structured encoder.
type document func(w io.Writer, v any, opts Options) error

func (d document) FormatList(w io.Writer, s *schema.Schema, records []*schema.Record, opts Options) error {
	cols, err := Columns(s, opts.Columns)
	if err != nil {
		return err
	}
	rows := make([]map[string]any, len(records))
	for i, rec := range records {
		rows[i] = project(rec, cols)
	}
	n := len(rows)
	return d(w, envelope{Model: s.Name(), Collection: s.CollectionName(), Count: &n, Data: rows}, opts)
}

func (d document) FormatRecord(w io.Writer, s *schema.Schema, rec *schema.Record, opts Options) error {
	cols, err := Columns(s, opts.Columns)
	if err != nil {
		return err
	}
	env := envelope{Model: s.Name(), Collection: s.CollectionName()}
	if rec != nil {
		env.Data = project(rec, cols)
	}
	return d(w, env, opts)
}

func encodeJSON(w io.Writer, v any, opts Options) error {
	enc := json.NewEncoder(w)
	if !opts.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v any, _ Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
