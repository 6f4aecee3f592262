// Package app contains the Collection service, the entry point for reading
// and writing rows of one model.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/artpar/notionorm/core/codec"
	"github.com/artpar/notionorm/core/filter"
	"github.com/artpar/notionorm/core/provision"
	"github.com/artpar/notionorm/core/schema"
	"github.com/artpar/notionorm/domain/notion"
	"github.com/artpar/notionorm/ports"
	"github.com/rs/zerolog"
)

// Operation names used in RemoteOperationError and logs.
const (
	OpMigrate  = "migrate"
	OpDescribe = "describe"
	OpInsert   = "insert"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpQuery    = "query"
)

// CollectionConfig contains optional configuration for a Collection.
type CollectionConfig struct {
	// CollectionID binds the service to an existing remote collection.
	CollectionID string

	// IDs supplies tokens for synthesized titles. Nil uses random UUIDs.
	IDs ports.IDGenerator

	// Colors draws palette colors for options declared without one when the
	// collection is migrated. Nil leaves the choice to the service.
	Colors ports.Intner
}

// Collection maps one schema onto one remote collection.
// It is safe for concurrent use; records passed to it are not.
type Collection struct {
	schema *schema.Schema
	gw     ports.Gateway
	codec  *codec.Codec
	colors ports.Intner
	logger zerolog.Logger

	mu sync.RWMutex
	id string
}

// NewCollection creates a collection service for s.
func NewCollection(s *schema.Schema, gw ports.Gateway, logger zerolog.Logger, cfg CollectionConfig) *Collection {
	return &Collection{
		schema: s,
		gw:     gw,
		codec:  codec.New(cfg.IDs),
		colors: cfg.Colors,
		logger: logger.With().Str("service", "collection").Str("model", s.Name()).Logger(),
		id:     cfg.CollectionID,
	}
}

// Schema returns the model served by c.
func (c *Collection) Schema() *schema.Schema { return c.schema }

// ID returns the remote collection id, or "" before Migrate or Bind.
func (c *Collection) ID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// Bind attaches c to an existing remote collection.
func (c *Collection) Bind(id string) {
	c.mu.Lock()
	c.id = id
	c.mu.Unlock()
}

func (c *Collection) boundID() (string, error) {
	id := c.ID()
	if id == "" {
		return "", fmt.Errorf("%s: %w", c.schema.Name(), ErrNoCollection)
	}
	return id, nil
}

func (c *Collection) remoteError(op, row string, err error) error {
	roe := &RemoteOperationError{Op: op, Collection: c.ID(), Row: row, Err: err}
	if roe.Collection == "" {
		roe.Collection = c.schema.CollectionName()
	}
	c.logger.Warn().Err(err).Str("op", op).Str("collection", roe.Collection).Str("row", row).Msg("remote operation failed")
	return roe
}

// Migrate provisions the remote collection under parentID and binds c to it.
func (c *Collection) Migrate(ctx context.Context, parentID string) (string, error) {
	props, err := c.properties()
	if err != nil {
		return "", err
	}

	db, err := c.gw.CreateCollection(ctx, provision.Title(c.schema), parentID, props)
	if err != nil {
		return "", c.remoteError(OpMigrate, "", err)
	}
	if db.ID == "" {
		return "", c.remoteError(OpMigrate, "", ErrNotAcknowledged)
	}

	c.Bind(db.ID)
	c.logger.Info().
		Str("collection", db.ID).
		Str("title", c.schema.CollectionName()).
		Int("properties", len(props)).
		Msg("collection provisioned")
	return db.ID, nil
}

func (c *Collection) properties() (map[string]any, error) {
	if c.colors != nil {
		return provision.ColoredProperties(c.schema, c.colors)
	}
	return provision.Properties(c.schema)
}

// Describe retrieves the remote collection.
func (c *Collection) Describe(ctx context.Context) (notion.Database, error) {
	id, err := c.boundID()
	if err != nil {
		return notion.Database{}, err
	}
	db, err := c.gw.GetCollection(ctx, id)
	if err != nil {
		return notion.Database{}, c.remoteError(OpDescribe, "", err)
	}
	return db, nil
}

func (c *Collection) check(rec *schema.Record) error {
	if rec.Schema() != c.schema {
		return fmt.Errorf("%s: %w: %s", c.schema.Name(), ErrSchemaMismatch, rec.Schema().Name())
	}
	return nil
}

// Insert creates a row from rec and binds rec to it. rec must hold every
// required field.
func (c *Collection) Insert(ctx context.Context, rec *schema.Record) error {
	if err := c.check(rec); err != nil {
		return err
	}
	if !rec.IsValid() {
		var missing []string
		for _, attr := range c.schema.RequiredAttrs() {
			if rec.Get(attr) == nil {
				missing = append(missing, attr)
			}
		}
		return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(missing, ", "))
	}
	id, err := c.boundID()
	if err != nil {
		return err
	}

	req, err := c.codec.CreateRequest(rec, id)
	if err != nil {
		return err
	}
	page, err := c.gw.InsertRow(ctx, req)
	if err != nil {
		return c.remoteError(OpInsert, "", err)
	}
	if page.ID == "" {
		return c.remoteError(OpInsert, "", ErrNotAcknowledged)
	}

	rec.SetRowID(page.ID)
	c.logger.Debug().Str("row", page.ID).Msg("row inserted")
	return nil
}

// Update sends the fields present on rec to its row. Fields not present are
// left unchanged remotely.
func (c *Collection) Update(ctx context.Context, rec *schema.Record) error {
	if err := c.check(rec); err != nil {
		return err
	}
	rowID := rec.RowID()
	if rowID == "" {
		return ErrNotPersisted
	}

	req, err := c.codec.UpdateRequest(rec)
	if err != nil {
		return err
	}
	page, err := c.gw.UpdateRow(ctx, rowID, req)
	if err != nil {
		return c.remoteError(OpUpdate, rowID, err)
	}
	if page.ID == "" {
		return c.remoteError(OpUpdate, rowID, ErrNotAcknowledged)
	}

	c.logger.Debug().Str("row", rowID).Strs("fields", rec.PresentAttrs()).Msg("row updated")
	return nil
}

// Delete archives the row of rec and unbinds rec.
func (c *Collection) Delete(ctx context.Context, rec *schema.Record) error {
	if err := c.check(rec); err != nil {
		return err
	}
	rowID := rec.RowID()
	if rowID == "" {
		return ErrNotPersisted
	}
	return c.DeleteRow(ctx, rowID, rec)
}

// DeleteRow archives a row by id. rec, if non-nil, is unbound on success.
func (c *Collection) DeleteRow(ctx context.Context, rowID string, rec *schema.Record) error {
	if rowID == "" {
		return ErrNotPersisted
	}
	page, err := c.gw.DeleteRow(ctx, rowID)
	if err != nil {
		return c.remoteError(OpDelete, rowID, err)
	}
	if !page.Archived {
		return c.remoteError(OpDelete, rowID, ErrNotAcknowledged)
	}

	if rec != nil {
		rec.ClearRowID()
	}
	c.logger.Debug().Str("row", rowID).Msg("row archived")
	return nil
}

// Query returns the rows matching conds joined by op, decoded into records.
func (c *Collection) Query(ctx context.Context, op filter.Operator, conds ...filter.Condition) ([]*schema.Record, error) {
	body, err := filter.FromConditions(c.schema, op, conds...)
	if err != nil {
		return nil, err
	}
	return c.Find(ctx, body)
}

// Find returns the rows matching a composed filter body, e.g. the output of
// filter.Compose. A nil or empty body matches every row.
func (c *Collection) Find(ctx context.Context, body map[string]any) ([]*schema.Record, error) {
	id, err := c.boundID()
	if err != nil {
		return nil, err
	}
	if body == nil {
		body = map[string]any{}
	}

	pages, err := c.gw.QueryCollection(ctx, id, body)
	if err != nil {
		return nil, c.remoteError(OpQuery, "", err)
	}
	records, err := c.codec.DecodeAll(c.schema, pages)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Int("rows", len(records)).Bool("filtered", len(body) > 0).Msg("query complete")
	return records, nil
}

// All returns every live row.
func (c *Collection) All(ctx context.Context) ([]*schema.Record, error) {
	return c.Find(ctx, nil)
}
