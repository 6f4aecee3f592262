package metrics_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/artpar/notionorm/adapters/idgen"
	"github.com/artpar/notionorm/adapters/memory"
	"github.com/artpar/notionorm/adapters/metrics"
	"github.com/artpar/notionorm/domain/notion"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func counterValue(f *dto.MetricFamily, labels map[string]string) float64 {
	if f == nil {
		return 0
	}
	for _, m := range f.GetMetric() {
		match := true
		for _, lp := range m.GetLabel() {
			if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
				match = false
			}
		}
		if match {
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	if m.RequestsTotal == nil || m.RequestDuration == nil || m.RequestsInFlight == nil {
		t.Error("gateway metrics not initialized")
	}
	if m.Errors == nil || m.RowsReturned == nil {
		t.Error("error and row metrics not initialized")
	}
	if m.ConfigReloads == nil || m.ConfigReloadErrors == nil || m.ConfigLastReload == nil {
		t.Error("config metrics not initialized")
	}
}

func TestNewWithRegistry_DuplicatePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewWithRegistry(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering twice on one registry should panic")
		}
	}()
	metrics.NewWithRegistry(reg)
}

func TestInstrument(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewWithRegistry(reg)
	gw := metrics.Instrument(memory.NewGateway(memory.WithIDGenerator(idgen.NewSequential("id"))), c)
	ctx := context.Background()

	db, err := gw.CreateCollection(ctx, notion.DatabaseTitle{Content: "t"}, "p",
		map[string]any{"Name": map[string]any{"title": map[string]any{}}})
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}

	parent := notion.DatabaseParent(db.ID)
	for i := 0; i < 3; i++ {
		if _, err := gw.InsertRow(ctx, notion.PageRequest{Parent: &parent}); err != nil {
			t.Fatalf("InsertRow failed: %v", err)
		}
	}
	if _, err := gw.QueryCollection(ctx, db.ID, nil); err != nil {
		t.Fatalf("QueryCollection failed: %v", err)
	}
	if _, err := gw.GetCollection(ctx, "missing"); err == nil {
		t.Fatal("expected error")
	}

	requests := gather(t, reg, "notionorm_gateway_requests_total")
	if got := counterValue(requests, map[string]string{"op": metrics.OpInsertRow, "outcome": "ok"}); got != 3 {
		t.Errorf("insert_row ok = %v, want 3", got)
	}
	if got := counterValue(requests, map[string]string{"op": metrics.OpGetCollection, "outcome": "error"}); got != 1 {
		t.Errorf("get_collection error = %v, want 1", got)
	}

	errs := gather(t, reg, "notionorm_gateway_errors_total")
	if got := counterValue(errs, map[string]string{"op": metrics.OpGetCollection, "class": "status_404"}); got != 1 {
		t.Errorf("get_collection status_404 = %v, want 1", got)
	}

	rows := gather(t, reg, "notionorm_gateway_rows_returned_total")
	if got := counterValue(rows, map[string]string{"op": metrics.OpQueryCollection}); got != 3 {
		t.Errorf("rows returned = %v, want 3", got)
	}

	if gather(t, reg, "notionorm_gateway_request_duration_seconds") == nil {
		t.Error("duration histogram not recorded")
	}
}

type statusErr int

func (e statusErr) Error() string { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) Status() int   { return int(e) }

func TestErrorClass(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{context.Canceled, "canceled"},
		{fmt.Errorf("wrapped: %w", context.DeadlineExceeded), "timeout"},
		{fmt.Errorf("wrapped: %w", statusErr(429)), "status_429"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		if got := metrics.ErrorClass(tt.err); got != tt.want {
			t.Errorf("ErrorClass(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
