package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/artpar/notionorm/core/schema"
	"gopkg.in/yaml.v3"
)

var taskSchema = schema.MustDefine("Task", "tasks",
	schema.Text("title", "Name", schema.Required()),
	schema.Integer("points", "Points"),
	schema.MultiSelect("tags", "Tags", []schema.SelectOption{{Name: "a"}, {Name: "b"}}),
	schema.Boolean("done", "Done"),
)

func testRecords() []*schema.Record {
	first := taskSchema.MustNew(map[string]any{"title": "Alice", "points": 3, "tags": []string{"a", "b"}, "done": true})
	first.SetRowID("row-1")
	second := taskSchema.MustNew(map[string]any{"title": "Bob"})
	second.SetRowID("row-2")
	return []*schema.Record{first, second}
}

func TestLookup(t *testing.T) {
	if got := strings.Join(Names(), ","); got != "json,table,yaml" {
		t.Errorf("Names = %s, want json,table,yaml", got)
	}
	for _, name := range Names() {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%s) error: %v", name, err)
		}
	}
	_, err := Lookup("csv")
	if err == nil || !strings.Contains(err.Error(), "available: json, table, yaml") {
		t.Errorf("Lookup(csv) error = %v", err)
	}
}

// ===========================================
// Column Tests
// ===========================================

func TestColumns(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		want      string
		wantErr   bool
	}{
		{"default", nil, "id,title,points,tags,done", false},
		{"attributes", []string{"points", "title"}, "points,title", false},
		{"property names", []string{"Name", "id"}, "title,id", false},
		{"unknown", []string{"nope"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Columns(taskSchema, tt.requested)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && strings.Join(got, ",") != tt.want {
				t.Errorf("Columns = %v, want %s", got, tt.want)
			}
		})
	}
}

// ===========================================
// Table Tests
// ===========================================

func TestTable_FormatList(t *testing.T) {
	var buf bytes.Buffer
	if err := (Table{}).FormatList(&buf, taskSchema, testRecords(), Options{}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if fields := strings.Fields(lines[0]); strings.Join(fields, " ") != "ID TITLE POINTS TAGS DONE" {
		t.Errorf("header = %q", lines[0])
	}
	for _, want := range []string{"row-1", "Alice", "3", "a, b", "yes"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row 1 %q missing %q", lines[1], want)
		}
	}
	if fields := strings.Fields(lines[2]); len(fields) != 5 || fields[2] != "-" || fields[4] != "-" {
		t.Errorf("row 2 = %q, want dashes for empty values", lines[2])
	}
}

func TestTable_Options(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Columns: []string{"title"}, NoHeader: true, MaxWidth: 4}
	if err := (Table{}).FormatList(&buf, taskSchema, testRecords(), opts); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "A...\nBob\n" {
		t.Errorf("output = %q", got)
	}

	buf.Reset()
	if err := (Table{}).FormatList(&buf, taskSchema, nil, Options{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No records found.\n" {
		t.Errorf("empty output = %q", buf.String())
	}

	if err := (Table{}).FormatList(&buf, taskSchema, testRecords(), Options{Columns: []string{"bad"}}); err == nil {
		t.Error("unknown column should fail")
	}
}

func TestTable_FormatRecord(t *testing.T) {
	var buf bytes.Buffer
	if err := (Table{}).FormatRecord(&buf, taskSchema, testRecords()[0], Options{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"ID:", "row-1", "Name:", "Alice", "Points:", "Tags:", "Done:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := (Table{}).FormatRecord(&buf, taskSchema, nil, Options{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Record not found.\n" {
		t.Errorf("nil record output = %q", buf.String())
	}
}

// ===========================================
// Document Tests
// ===========================================

func lookup(t *testing.T, name string) Formatter {
	t.Helper()
	f, err := Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestJSON_FormatList(t *testing.T) {
	var buf bytes.Buffer
	if err := lookup(t, "json").FormatList(&buf, taskSchema, testRecords(), Options{}); err != nil {
		t.Fatal(err)
	}

	var out struct {
		Model      string           `json:"model"`
		Collection string           `json:"collection"`
		Count      int              `json:"count"`
		Data       []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Model != "Task" || out.Collection != "tasks" || out.Count != 2 {
		t.Errorf("envelope = %+v", out)
	}
	if out.Data[0]["id"] != "row-1" || out.Data[0]["points"] != float64(3) || out.Data[0]["done"] != true {
		t.Errorf("data[0] = %v", out.Data[0])
	}
	if out.Data[1]["points"] != nil {
		t.Errorf("data[1].points = %v, want null", out.Data[1]["points"])
	}

	buf.Reset()
	if err := lookup(t, "json").FormatList(&buf, taskSchema, nil, Options{Compact: true}); err != nil {
		t.Fatal(err)
	}
	if want := `{"model":"Task","collection":"tasks","count":0,"data":[]}` + "\n"; buf.String() != want {
		t.Errorf("empty list = %q, want %q", buf.String(), want)
	}
}

func TestJSON_FormatRecord(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Columns: []string{"title"}, Compact: true}
	if err := lookup(t, "json").FormatRecord(&buf, taskSchema, testRecords()[1], opts); err != nil {
		t.Fatal(err)
	}
	want := `{"model":"Task","collection":"tasks","data":{"title":"Bob"}}` + "\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := lookup(t, "json").FormatRecord(&buf, taskSchema, nil, Options{Compact: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"data":null`) {
		t.Errorf("nil record output = %s", buf.String())
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := lookup(t, "yaml").FormatList(&buf, taskSchema, testRecords(), Options{Columns: []string{"id", "tags"}}); err != nil {
		t.Fatal(err)
	}

	var out map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if out["count"] != 2 {
		t.Errorf("count = %v", out["count"])
	}
	data := out["data"].([]any)
	first := data[0].(map[string]any)
	if first["id"] != "row-1" {
		t.Errorf("first = %v", first)
	}
	if tags, _ := first["tags"].([]any); len(tags) != 2 {
		t.Errorf("tags = %v", first["tags"])
	}
	if _, ok := first["title"]; ok {
		t.Error("unrequested column rendered")
	}

	buf.Reset()
	if err := lookup(t, "yaml").FormatRecord(&buf, taskSchema, testRecords()[0], Options{Columns: []string{"title"}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "title: Alice") {
		t.Errorf("record output = %s", buf.String())
	}
	if strings.Contains(buf.String(), "count:") {
		t.Errorf("single record should have no count:\n%s", buf.String())
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		in   any
		max  int
		want string
	}{
		{nil, 0, "-"},
		{"", 0, "-"},
		{"text", 0, "text"},
		{true, 0, "yes"},
		{false, 0, "no"},
		{int64(42), 0, "42"},
		{[]string{"x", "y"}, 0, "x, y"},
		{[]string{}, 0, ""},
		{"abcdefgh", 6, "abc..."},
		{map[string]int{"k": 1}, 0, `{"k":1}`},
	}
	for _, tt := range tests {
		if got := cell(tt.in, tt.max); got != tt.want {
			t.Errorf("cell(%v, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
