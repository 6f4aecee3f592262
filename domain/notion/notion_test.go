package notion

import (
	"sort"
	"testing"
)

func TestDatabasePlainTitle(t *testing.T) {
	db := Database{Title: []RichText{
		{PlainText: "Financial "},
		{Text: &TextContent{Content: "statements"}},
	}}
	if got := db.PlainTitle(); got != "Financial statements" {
		t.Errorf("PlainTitle() = %q, want %q", got, "Financial statements")
	}
}

func TestDatabasePropertyNames(t *testing.T) {
	db := Database{Properties: map[string]PropertySchema{
		"Name":  {Type: "title"},
		"Price": {Type: "number"},
	}}
	names := db.PropertyNames()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "Name" || names[1] != "Price" {
		t.Errorf("PropertyNames() = %v", names)
	}
}

func TestDatabaseTitleRichText(t *testing.T) {
	rt := DatabaseTitle{Content: "tasks"}.RichText()
	if len(rt) != 1 || rt[0].Type != "text" || rt[0].Text.Content != "tasks" {
		t.Errorf("RichText() = %+v", rt)
	}
}

func TestParents(t *testing.T) {
	if p := PageParent("p1"); p.Type != "page_id" || p.PageID != "p1" {
		t.Errorf("PageParent = %+v", p)
	}
	if p := DatabaseParent("d1"); p.DatabaseID != "d1" || p.Type != "" {
		t.Errorf("DatabaseParent = %+v", p)
	}
}
