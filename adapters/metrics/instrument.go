package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/artpar/notionorm/domain/notion"
	"github.com/artpar/notionorm/ports"
)

// Gateway operation labels.
const (
	OpCreateCollection = "create_collection"
	OpGetCollection    = "get_collection"
	OpQueryCollection  = "query_collection"
	OpInsertRow        = "insert_row"
	OpUpdateRow        = "update_row"
	OpDeleteRow        = "delete_row"
)

// statusCoder is implemented by transport errors that carry an HTTP status.
type statusCoder interface {
	Status() int
}

// Instrumented decorates a Gateway with metrics.
type Instrumented struct {
	next ports.Gateway
	c    *Collector
	now  func() time.Time
}

// Instrument wraps gw so every call is counted and timed on c.
func Instrument(gw ports.Gateway, c *Collector) *Instrumented {
	return &Instrumented{next: gw, c: c, now: time.Now}
}

var _ ports.Gateway = (*Instrumented)(nil)

func (g *Instrumented) observe(op string) func(err error) {
	start := g.now()
	g.c.RequestsInFlight.Inc()
	return func(err error) {
		g.c.RequestsInFlight.Dec()
		g.c.RequestDuration.WithLabelValues(op).Observe(g.now().Sub(start).Seconds())
		if err != nil {
			g.c.RequestsTotal.WithLabelValues(op, "error").Inc()
			g.c.Errors.WithLabelValues(op, ErrorClass(err)).Inc()
			return
		}
		g.c.RequestsTotal.WithLabelValues(op, "ok").Inc()
	}
}

func (g *Instrumented) CreateCollection(ctx context.Context, title notion.DatabaseTitle, parentID string, properties map[string]any) (notion.Database, error) {
	done := g.observe(OpCreateCollection)
	db, err := g.next.CreateCollection(ctx, title, parentID, properties)
	done(err)
	return db, err
}

func (g *Instrumented) GetCollection(ctx context.Context, id string) (notion.Database, error) {
	done := g.observe(OpGetCollection)
	db, err := g.next.GetCollection(ctx, id)
	done(err)
	return db, err
}

func (g *Instrumented) QueryCollection(ctx context.Context, collectionID string, filter map[string]any) ([]notion.Page, error) {
	done := g.observe(OpQueryCollection)
	pages, err := g.next.QueryCollection(ctx, collectionID, filter)
	done(err)
	if err == nil {
		g.c.RowsReturned.WithLabelValues(OpQueryCollection).Add(float64(len(pages)))
	}
	return pages, err
}

func (g *Instrumented) InsertRow(ctx context.Context, req notion.PageRequest) (notion.Page, error) {
	done := g.observe(OpInsertRow)
	page, err := g.next.InsertRow(ctx, req)
	done(err)
	return page, err
}

func (g *Instrumented) UpdateRow(ctx context.Context, rowID string, req notion.PageRequest) (notion.Page, error) {
	done := g.observe(OpUpdateRow)
	page, err := g.next.UpdateRow(ctx, rowID, req)
	done(err)
	return page, err
}

func (g *Instrumented) DeleteRow(ctx context.Context, rowID string) (notion.Page, error) {
	done := g.observe(OpDeleteRow)
	page, err := g.next.DeleteRow(ctx, rowID)
	done(err)
	return page, err
}

// ErrorClass labels err for the errors counter: "canceled", "timeout",
// "status_<code>" for transport errors with a status, otherwise "other".
func ErrorClass(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		return "status_" + strconv.Itoa(sc.Status())
	}
	return "other"
}
