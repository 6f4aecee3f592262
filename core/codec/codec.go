// Package codec converts records to and from the remote property format.
//
// One handler per field kind (see kinds.go) produces the wire shape:
//
//	title        {"title": [{"text": {"content": v}}]}
//	text         {"rich_text": [{"text": {"content": v}}]}
//	integer      {"number": v}
//	select       {"select": {"name": v}}
//	multi_select {"multi_select": [{"name": v}, ...]}
//	date         {"date": {"start": v}}
//	boolean      {"checkbox": v}
//
// Encoding and decoding are pure and safe for concurrent use.
package codec

import (
	"fmt"

	"github.com/artpar/notionorm/core/schema"
	"github.com/artpar/notionorm/domain/notion"
	"github.com/artpar/notionorm/ports"
	"github.com/google/uuid"
)

// Codec encodes and decodes records.
type Codec struct {
	ids ports.IDGenerator
}

// New creates a codec. ids supplies the token of synthesized titles;
// nil uses random UUIDs.
func New(ids ports.IDGenerator) *Codec {
	if ids == nil {
		ids = uuidGenerator{}
	}
	return &Codec{ids: ids}
}

type uuidGenerator struct{}

func (uuidGenerator) New() string { return uuid.NewString() }

// EncodeCreate encodes every declared field of rec. Nil values encode as the
// wire's empty shape, except booleans, which are omitted. When the schema has
// no title field, a "Name" title "<Model>_<token>" is synthesized.
func (c *Codec) EncodeCreate(rec *schema.Record) (map[string]any, error) {
	s := rec.Schema()
	props := make(map[string]any, s.Len()+1)

	for _, f := range s.Fields() {
		wire, ok, err := encodeField(f, rec.Get(f.Attr))
		if err != nil {
			return nil, err
		}
		if ok {
			props[f.Property] = wire
		}
	}

	if _, ok := s.TitleField(); !ok {
		title := fmt.Sprintf("%s_%s", s.Name(), c.ids.New())
		wire, _ := titleHandler.encode(schema.TitleProperty, title)
		props[schema.TitleProperty] = map[string]any{titleHandler.tag: wire}
	}

	return props, nil
}

// EncodeUpdate encodes exactly the fields present on rec. No title is
// synthesized.
func (c *Codec) EncodeUpdate(rec *schema.Record) (map[string]any, error) {
	s := rec.Schema()
	props := make(map[string]any)

	for _, attr := range rec.PresentAttrs() {
		f, _ := s.Field(attr)
		wire, ok, err := encodeField(f, rec.Get(attr))
		if err != nil {
			return nil, err
		}
		if ok {
			props[f.Property] = wire
		}
	}

	return props, nil
}

// CreateRequest builds the page creation body for rec in collectionID.
func (c *Codec) CreateRequest(rec *schema.Record, collectionID string) (notion.PageRequest, error) {
	props, err := c.EncodeCreate(rec)
	if err != nil {
		return notion.PageRequest{}, err
	}
	parent := notion.DatabaseParent(collectionID)
	return notion.PageRequest{Parent: &parent, Properties: props}, nil
}

// UpdateRequest builds the page update body for rec. It never carries a parent.
func (c *Codec) UpdateRequest(rec *schema.Record) (notion.PageRequest, error) {
	props, err := c.EncodeUpdate(rec)
	if err != nil {
		return notion.PageRequest{}, err
	}
	return notion.PageRequest{Properties: props}, nil
}

func encodeField(f schema.Field, v any) (any, bool, error) {
	h, ok := handlerFor(f)
	if !ok {
		return nil, false, encodeError(f.Property, "unsupported field kind %s", f.Kind)
	}
	if v == nil {
		if h.empty == nil {
			return nil, false, nil
		}
		return map[string]any{h.tag: h.empty()}, true, nil
	}
	inner, err := h.encode(f.Property, v)
	if err != nil {
		return nil, false, err
	}
	return map[string]any{h.tag: inner}, true, nil
}

// Decode converts a queried page into a record of s bound to the page ID.
// Properties that are absent or empty decode as nil and are not marked
// present; properties that lack the key of their kind fail with a
// *CodecError. The values are validated as in schema.New.
func (c *Codec) Decode(s *schema.Schema, page notion.Page) (*schema.Record, error) {
	values := make(map[string]any, s.Len())

	for _, f := range s.Fields() {
		v, err := decodeField(f, page.Properties)
		if err != nil {
			return nil, err
		}
		if v != nil || f.Required {
			values[f.Attr] = v
		}
	}

	rec, err := s.New(values)
	if err != nil {
		return nil, fmt.Errorf("decode row %s: %w", page.ID, err)
	}
	rec.SetRowID(page.ID)
	return rec, nil
}

// DecodeAll decodes pages in order, stopping at the first failure.
func (c *Codec) DecodeAll(s *schema.Schema, pages []notion.Page) ([]*schema.Record, error) {
	records := make([]*schema.Record, 0, len(pages))
	for _, p := range pages {
		rec, err := c.Decode(s, p)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeField(f schema.Field, props map[string]any) (any, error) {
	raw, ok := props[f.Property]
	if !ok || raw == nil {
		return nil, nil
	}

	prop, ok := raw.(map[string]any)
	if !ok {
		return nil, decodeError(f.Property, "property is %T, expected an object", raw)
	}

	h, ok := handlerFor(f)
	if !ok {
		return nil, decodeError(f.Property, "unsupported field kind %s", f.Kind)
	}
	if _, ok := prop[h.tag]; !ok {
		return nil, decodeError(f.Property, "missing %q key", h.tag)
	}
	return h.decode(f.Property, prop)
}
