/*
Package schema defines typed models mapped onto remote database collections.

A model is a named, ordered set of fields fixed when the model is defined.
Each field has an attribute name (used by application code) and a property
name (used on the remote side); both resolve to the same field.

# Defining a Model

	var Task = schema.MustDefine("Task", "tasks",
		schema.Text("title", "Name", schema.Required(), schema.MaxLength(200)),
		schema.Integer("points", "Points"),
		schema.Select("status", "Status", []schema.SelectOption{
			{Name: "todo", Color: schema.ColorGray},
			{Name: "done", Color: schema.ColorGreen},
		}),
		schema.MultiSelect("tags", "Tags", tagOptions),
		schema.Date("due", "Due"),
		schema.Boolean("archived", "Archived"),
	)

An empty collection name derives one from the model name ("TaskItem" ->
"task_items").

# Field Kinds

  - text:         string, limited to MaxLength runes (default 1000)
  - integer:      any Go integer type, stored as int64 (bool is not an integer)
  - select:       one of the declared option names
  - multi_select: list of declared option names, stored as []string
  - date:         "YYYY-MM-DD" string or time.Time, stored as the string
  - boolean:      bool

The field with property name "Name" is the title of the row and must be text.

# Records

	rec, err := Task.New(map[string]any{"title": "write docs", "Points": 3})

Keys may be attribute or property names. Unknown keys fail with a
*SchemaError, missing required fields with a *ValidationError; both list
every offending field at once.

# Model Files

Models can also be loaded from YAML:

	model: Task
	collection: tasks
	fields:
	  - { attr: title, property: Name, type: text, required: true }
	  - { attr: status, property: Status, type: select, options: [{name: todo}, {name: done}] }

	schemas, err := schema.ParseFile("models/task.yaml")
*/
package schema
