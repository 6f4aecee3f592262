// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/artpar/notionorm/domain/notion"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Intner is a source of pseudo-random integers in [0, n).
// Implementations are not required to be cryptographically secure.
type Intner interface {
	IntN(n int) int
}

// -----------------------------------------------------------------------------
// Remote Ports
// -----------------------------------------------------------------------------

// Gateway performs the remote calls against the database service.
// Every method blocks on network I/O; cancellation and timeouts are carried
// by ctx and surface as ordinary errors.
type Gateway interface {
	// CreateCollection creates a database under the parent page and returns it.
	CreateCollection(ctx context.Context, title notion.DatabaseTitle, parentID string, properties map[string]any) (notion.Database, error)

	// GetCollection retrieves a database by ID.
	GetCollection(ctx context.Context, id string) (notion.Database, error)

	// QueryCollection returns the rows matching filter.
	// filter is a composed filter body ({"filter": ...}) or empty for all rows.
	QueryCollection(ctx context.Context, collectionID string, filter map[string]any) ([]notion.Page, error)

	// InsertRow creates a row. req.Parent must reference the collection.
	InsertRow(ctx context.Context, req notion.PageRequest) (notion.Page, error)

	// UpdateRow patches the properties present in req.
	UpdateRow(ctx context.Context, rowID string, req notion.PageRequest) (notion.Page, error)

	// DeleteRow archives a row. Success is reported by the returned page's Archived flag.
	DeleteRow(ctx context.Context, rowID string) (notion.Page, error)
}
