// Package notion provides value types mirroring the remote database and page
// objects. This package has NO dependencies on I/O or external packages.
package notion

import "strings"

// DefaultVersion is the API version sent with every request.
const DefaultVersion = "2022-06-28"

// User is a partial user reference (created_by, last_edited_by).
type User struct {
	Object string `json:"object"`
	ID     string `json:"id"`
}

// TextContent is the text payload of a rich text object.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link is a rich text hyperlink.
type Link struct {
	URL string `json:"url"`
}

// Annotations are the styling flags of a rich text object.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// RichText is one element of a title or rich_text array.
type RichText struct {
	Type        string       `json:"type,omitempty"`
	Text        *TextContent `json:"text,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text,omitempty"`
	Href        *string      `json:"href,omitempty"`
}

// Parent identifies the container of a database or page.
type Parent struct {
	Type       string `json:"type,omitempty"`
	PageID     string `json:"page_id,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

// PageParent returns a page_id parent.
func PageParent(id string) Parent {
	return Parent{Type: "page_id", PageID: id}
}

// DatabaseParent returns a database_id parent.
func DatabaseParent(id string) Parent {
	return Parent{DatabaseID: id}
}

// SelectOption is an option of a select or multi_select property schema.
type SelectOption struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Color       string  `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
}

// PropertySchema is one entry of a database's property schema.
type PropertySchema struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Select      map[string]any `json:"select,omitempty"`
	MultiSelect map[string]any `json:"multi_select,omitempty"`
	Number      map[string]any `json:"number,omitempty"`
	Formula     map[string]any `json:"formula,omitempty"`
	Title       map[string]any `json:"title,omitempty"`
}

// Database mirrors the remote database object.
type Database struct {
	Object         string                    `json:"object"`
	ID             string                    `json:"id"`
	CreatedTime    string                    `json:"created_time,omitempty"`
	CreatedBy      *User                     `json:"created_by,omitempty"`
	LastEditedTime string                    `json:"last_edited_time,omitempty"`
	LastEditedBy   *User                     `json:"last_edited_by,omitempty"`
	Title          []RichText                `json:"title"`
	Description    []RichText                `json:"description,omitempty"`
	IsInline       bool                      `json:"is_inline"`
	Properties     map[string]PropertySchema `json:"properties"`
	Parent         Parent                    `json:"parent"`
	URL            string                    `json:"url,omitempty"`
	PublicURL      *string                   `json:"public_url,omitempty"`
	Archived       bool                      `json:"archived"`
	InTrash        bool                      `json:"in_trash"`
}

// PlainTitle joins the plain text of the database title.
func (d Database) PlainTitle() string {
	var b strings.Builder
	for _, t := range d.Title {
		if t.PlainText != "" {
			b.WriteString(t.PlainText)
		} else if t.Text != nil {
			b.WriteString(t.Text.Content)
		}
	}
	return b.String()
}

// PropertyNames returns the names of all properties in the database schema.
func (d Database) PropertyNames() []string {
	names := make([]string, 0, len(d.Properties))
	for name := range d.Properties {
		names = append(names, name)
	}
	return names
}

// DatabaseTitle is the title given to a database on creation.
type DatabaseTitle struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// RichText returns the title as a single-element rich text array.
func (t DatabaseTitle) RichText() []RichText {
	return []RichText{{Type: "text", Text: &TextContent{Content: t.Content, Link: t.Link}}}
}

// CreateDatabaseRequest is the body of a database creation request.
type CreateDatabaseRequest struct {
	Title      []RichText     `json:"title"`
	Parent     Parent         `json:"parent"`
	Properties map[string]any `json:"properties"`
}

// Page mirrors a remote page, i.e. one row of a database.
// Properties are kept in their wire form.
type Page struct {
	Object         string         `json:"object,omitempty"`
	ID             string         `json:"id"`
	CreatedTime    string         `json:"created_time,omitempty"`
	LastEditedTime string         `json:"last_edited_time,omitempty"`
	Parent         *Parent        `json:"parent,omitempty"`
	Archived       bool           `json:"archived"`
	InTrash        bool           `json:"in_trash,omitempty"`
	URL            string         `json:"url,omitempty"`
	Properties     map[string]any `json:"properties"`
}

// PageRequest is the body of a page create or update request.
// Parent is set on create only.
type PageRequest struct {
	Parent     *Parent        `json:"parent,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	Archived   *bool          `json:"archived,omitempty"`
}

// QueryResponse is one page of database query results.
type QueryResponse struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}
