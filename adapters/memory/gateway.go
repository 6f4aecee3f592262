// Package memory provides an in-memory Gateway for tests and offline use.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/artpar/notionorm/adapters/clock"
	"github.com/artpar/notionorm/adapters/idgen"
	"github.com/artpar/notionorm/domain/notion"
	"github.com/artpar/notionorm/ports"
)

// Error mirrors the error object returned by the remote service.
type Error struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Status returns the HTTP status the remote service would have answered with.
func (e *Error) Status() int { return e.StatusCode }

func validationError(format string, args ...any) *Error {
	return &Error{StatusCode: 400, Code: "validation_error", Message: fmt.Sprintf(format, args...)}
}

func notFound(kind, id string) *Error {
	return &Error{StatusCode: 404, Code: "object_not_found", Message: fmt.Sprintf("Could not find %s with ID: %s.", kind, id)}
}

type database struct {
	db    notion.Database
	types map[string]string // property name -> type tag
	rows  []string          // page ids in insertion order
}

// Gateway is an in-memory implementation of ports.Gateway. It stores rows in
// wire form and evaluates the filter grammar on query.
type Gateway struct {
	mu        sync.RWMutex
	ids       ports.IDGenerator
	clock     ports.Clock
	databases map[string]*database
	pages     map[string]notion.Page
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithIDGenerator sets the source of database and page ids.
func WithIDGenerator(ids ports.IDGenerator) Option {
	return func(g *Gateway) { g.ids = ids }
}

// WithClock sets the source of created and edited timestamps.
func WithClock(c ports.Clock) Option {
	return func(g *Gateway) { g.clock = c }
}

// NewGateway creates an empty gateway.
func NewGateway(opts ...Option) *Gateway {
	g := &Gateway{
		ids:       idgen.UUID{},
		clock:     clock.Real{},
		databases: make(map[string]*database),
		pages:     make(map[string]notion.Page),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ ports.Gateway = (*Gateway)(nil)

func (g *Gateway) timestamp() string {
	return g.clock.Now().UTC().Format(time.RFC3339Nano)
}

// CreateCollection creates a database. Every argument is required and
// properties must declare exactly one title property.
func (g *Gateway) CreateCollection(ctx context.Context, title notion.DatabaseTitle, parentID string, properties map[string]any) (notion.Database, error) {
	if err := ctx.Err(); err != nil {
		return notion.Database{}, err
	}
	if title.Content == "" {
		return notion.Database{}, validationError("title is required")
	}
	if parentID == "" {
		return notion.Database{}, validationError("parent.page_id is required")
	}
	if len(properties) == 0 {
		return notion.Database{}, validationError("properties are required")
	}

	types := make(map[string]string, len(properties))
	schemas := make(map[string]notion.PropertySchema, len(properties))
	titles := 0
	for name, raw := range properties {
		tag, config, err := propertyType(name, raw)
		if err != nil {
			return notion.Database{}, err
		}
		if tag == "title" {
			titles++
		}
		types[name] = tag
		schemas[name] = propertySchema(g.ids.New(), name, tag, config)
	}
	if titles != 1 {
		return notion.Database{}, validationError("exactly one title property is required, got %d", titles)
	}

	now := g.timestamp()
	db := notion.Database{
		Object:         "database",
		ID:             g.ids.New(),
		CreatedTime:    now,
		LastEditedTime: now,
		Title:          withPlainText(title.RichText()),
		Properties:     schemas,
		Parent:         notion.PageParent(parentID),
	}

	g.mu.Lock()
	g.databases[db.ID] = &database{db: db, types: types}
	g.mu.Unlock()

	return cloneDatabase(db), nil
}

// GetCollection returns a database by id.
func (g *Gateway) GetCollection(ctx context.Context, id string) (notion.Database, error) {
	if err := ctx.Err(); err != nil {
		return notion.Database{}, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	d, ok := g.databases[id]
	if !ok {
		return notion.Database{}, notFound("database", id)
	}
	return cloneDatabase(d.db), nil
}

// QueryCollection returns the live rows of a database matching filter, oldest
// first.
func (g *Gateway) QueryCollection(ctx context.Context, collectionID string, filter map[string]any) ([]notion.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	d, ok := g.databases[collectionID]
	if !ok {
		return nil, notFound("database", collectionID)
	}

	var tree map[string]any
	if raw, ok := filter["filter"]; ok {
		tree, ok = raw.(map[string]any)
		if !ok {
			return nil, validationError("body.filter should be an object")
		}
	}

	results := []notion.Page{}
	for _, id := range d.rows {
		p := g.pages[id]
		if p.Archived {
			continue
		}
		if tree != nil {
			ok, err := match(d.types, tree, p.Properties)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		results = append(results, clonePage(p))
	}
	return results, nil
}

// InsertRow creates a row in the database named by req.Parent. Properties
// the request leaves out are filled with their empty value.
func (g *Gateway) InsertRow(ctx context.Context, req notion.PageRequest) (notion.Page, error) {
	if err := ctx.Err(); err != nil {
		return notion.Page{}, err
	}
	if req.Parent == nil || req.Parent.DatabaseID == "" {
		return notion.Page{}, validationError("parent.database_id is required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	d, ok := g.databases[req.Parent.DatabaseID]
	if !ok {
		return notion.Page{}, notFound("database", req.Parent.DatabaseID)
	}

	props := make(map[string]any, len(d.types))
	for name := range d.types {
		props[name] = d.emptyProperty(name)
	}
	if err := d.apply(props, req.Properties); err != nil {
		return notion.Page{}, err
	}

	now := g.timestamp()
	parent := notion.DatabaseParent(d.db.ID)
	parent.Type = "database_id"
	p := notion.Page{
		Object:         "page",
		ID:             g.ids.New(),
		CreatedTime:    now,
		LastEditedTime: now,
		Parent:         &parent,
		Properties:     props,
	}
	if req.Archived != nil {
		p.Archived = *req.Archived
	}

	g.pages[p.ID] = p
	d.rows = append(d.rows, p.ID)
	return clonePage(p), nil
}

// UpdateRow patches the properties present in req and applies req.Archived.
func (g *Gateway) UpdateRow(ctx context.Context, rowID string, req notion.PageRequest) (notion.Page, error) {
	if err := ctx.Err(); err != nil {
		return notion.Page{}, err
	}
	if req.Parent != nil {
		return notion.Page{}, validationError("parent cannot be changed")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.pages[rowID]
	if !ok {
		return notion.Page{}, notFound("page", rowID)
	}
	if p.Archived && (req.Archived == nil || *req.Archived) && len(req.Properties) > 0 {
		return notion.Page{}, validationError("Can't edit block that is archived.")
	}

	d := g.databases[p.Parent.DatabaseID]
	props := cloneProperties(p.Properties)
	if err := d.apply(props, req.Properties); err != nil {
		return notion.Page{}, err
	}
	p.Properties = props
	if req.Archived != nil {
		p.Archived = *req.Archived
	}
	p.LastEditedTime = g.timestamp()

	g.pages[rowID] = p
	return clonePage(p), nil
}

// DeleteRow archives a row.
func (g *Gateway) DeleteRow(ctx context.Context, rowID string) (notion.Page, error) {
	archived := true
	return g.UpdateRow(ctx, rowID, notion.PageRequest{Archived: &archived})
}

// Collections returns the ids of all databases, sorted.
func (g *Gateway) Collections() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]string, 0, len(g.databases))
	for id := range g.databases {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Page returns a stored row, including archived ones.
func (g *Gateway) Page(id string) (notion.Page, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	p, ok := g.pages[id]
	if !ok {
		return notion.Page{}, false
	}
	return clonePage(p), true
}

// Reset removes all databases and rows.
func (g *Gateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.databases = make(map[string]*database)
	g.pages = make(map[string]notion.Page)
}
