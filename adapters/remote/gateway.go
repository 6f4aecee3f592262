package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/artpar/notionorm/domain/notion"
	"github.com/artpar/notionorm/ports"
)

// ErrInvalidArgument is returned before any request is sent when a required
// argument is missing.
var ErrInvalidArgument = errors.New("invalid argument")

// Gateway implements ports.Gateway over the REST API.
//
// API Contract:
//
//	POST  /v1/databases               create a database
//	GET   /v1/databases/{id}          retrieve a database
//	POST  /v1/databases/{id}/query    query rows (first page only)
//	POST  /v1/pages                   create a row
//	PATCH /v1/pages/{id}              update a row, or archive it with {"archived": true}
type Gateway struct {
	client *Client
}

// NewGateway creates a remote gateway.
func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

var _ ports.Gateway = (*Gateway)(nil)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// CreateCollection creates a database under a parent page.
func (g *Gateway) CreateCollection(ctx context.Context, title notion.DatabaseTitle, parentID string, properties map[string]any) (notion.Database, error) {
	if title.Content == "" {
		return notion.Database{}, invalid("collection title is required")
	}
	if parentID == "" {
		return notion.Database{}, invalid("parent id is required")
	}
	if len(properties) == 0 {
		return notion.Database{}, invalid("properties are required")
	}

	body := notion.CreateDatabaseRequest{
		Parent:     notion.PageParent(parentID),
		Title:      title.RichText(),
		Properties: properties,
	}

	var db notion.Database
	if err := g.client.Request(ctx, http.MethodPost, "/v1/databases", body, &db); err != nil {
		return notion.Database{}, err
	}
	return db, nil
}

// GetCollection retrieves a database.
func (g *Gateway) GetCollection(ctx context.Context, id string) (notion.Database, error) {
	if id == "" {
		return notion.Database{}, invalid("collection id is required")
	}

	var db notion.Database
	if err := g.client.Request(ctx, http.MethodGet, "/v1/databases/"+url.PathEscape(id), nil, &db); err != nil {
		return notion.Database{}, err
	}
	return db, nil
}

// QueryCollection queries a database. Only the first page of results is
// returned.
func (g *Gateway) QueryCollection(ctx context.Context, collectionID string, filter map[string]any) ([]notion.Page, error) {
	if collectionID == "" {
		return nil, invalid("collection id is required")
	}
	if filter == nil {
		filter = map[string]any{}
	}

	var resp notion.QueryResponse
	path := "/v1/databases/" + url.PathEscape(collectionID) + "/query"
	if err := g.client.Request(ctx, http.MethodPost, path, filter, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []notion.Page{}, nil
	}
	return resp.Results, nil
}

// InsertRow creates a page in the database named by req.Parent.
func (g *Gateway) InsertRow(ctx context.Context, req notion.PageRequest) (notion.Page, error) {
	if req.Parent == nil || req.Parent.DatabaseID == "" {
		return notion.Page{}, invalid("parent database id is required")
	}

	var page notion.Page
	if err := g.client.Request(ctx, http.MethodPost, "/v1/pages", req, &page); err != nil {
		return notion.Page{}, err
	}
	return page, nil
}

// UpdateRow patches a page. Any parent on req is dropped.
func (g *Gateway) UpdateRow(ctx context.Context, rowID string, req notion.PageRequest) (notion.Page, error) {
	if rowID == "" {
		return notion.Page{}, invalid("row id is required")
	}
	req.Parent = nil

	var page notion.Page
	if err := g.client.Request(ctx, http.MethodPatch, "/v1/pages/"+url.PathEscape(rowID), req, &page); err != nil {
		return notion.Page{}, err
	}
	return page, nil
}

// DeleteRow archives a page.
func (g *Gateway) DeleteRow(ctx context.Context, rowID string) (notion.Page, error) {
	archived := true
	return g.UpdateRow(ctx, rowID, notion.PageRequest{Archived: &archived})
}
