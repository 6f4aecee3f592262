package main

import (
	"fmt"
	"strings"

	"github.com/artpar/notionorm/core/filter"
	"github.com/artpar/notionorm/core/formatter"
	"github.com/artpar/notionorm/core/schema"
	"github.com/spf13/cobra"
)

var insertCmd = &cobra.Command{
	Use:   "insert <model> <field=value>...",
	Short: "Insert a row",
	Long: `Insert a row into a model's database.

Fields are named by attribute or property. Multi-select values are comma
separated.

Examples:
  notionorm insert Task title="Write docs" points=3 tags=docs,urgent`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInsert,
}

var updateCmd = &cobra.Command{
	Use:   "update <model> <row-id> <field=value>...",
	Short: "Update fields of a row",
	Long: `Update only the named fields of a row. An empty value clears the field.

Examples:
  notionorm update Task 1c2f... status=done points=`,
	Args: cobra.MinimumNArgs(3),
	RunE: runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <model> <row-id>...",
	Short: "Archive rows",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDelete,
}

var queryCmd = &cobra.Command{
	Use:   "query <model>",
	Short: "Query rows",
	Long: `Query rows of a model. Conditions are field:condition=value; flag
conditions (is_empty, is_not_empty) take no value. Conditions are joined
with AND unless --or is given.

Examples:
  notionorm query Task
  notionorm query Task --where "points:greater_than=2" --where "status:equals=todo"
  notionorm query Task --or --where "title:contains=docs" --where "tags:is_empty"
  notionorm query Task -o json --columns id,title`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var (
	queryWhere    []string
	queryOr       bool
	queryColumns  []string
	queryNoHeader bool
)

func init() {
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringArrayVarP(&queryWhere, "where", "w", nil, "condition field:condition=value (repeatable)")
	queryCmd.Flags().BoolVar(&queryOr, "or", false, "join conditions with OR")
	queryCmd.Flags().StringSliceVar(&queryColumns, "columns", nil, "columns to show")
	queryCmd.Flags().BoolVar(&queryNoHeader, "no-header", false, "omit the table header")
}

// parseAssignments converts field=value arguments into record values.
// An empty value yields nil.
func parseAssignments(s *schema.Schema, args []string) (map[string]any, error) {
	values := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q: want field=value", arg)
		}
		f, ok := s.Field(key)
		if !ok {
			return nil, fmt.Errorf("unknown field %q on %s", key, s.Name())
		}
		if raw == "" {
			values[f.Attr] = nil
			continue
		}
		v, err := f.Coerce(raw)
		if err != nil {
			return nil, err
		}
		values[f.Attr] = v
	}
	return values, nil
}

var flagConditions = map[string]bool{"is_empty": true, "is_not_empty": true}

// parseWhere converts field:condition=value into a filter condition.
func parseWhere(s *schema.Schema, expr string) (filter.Condition, error) {
	key, rest, ok := strings.Cut(expr, ":")
	if !ok || key == "" || rest == "" {
		return filter.Condition{}, fmt.Errorf("invalid condition %q: want field:condition=value", expr)
	}
	f, ok := s.Field(key)
	if !ok {
		return filter.Condition{}, fmt.Errorf("unknown field %q on %s", key, s.Name())
	}

	cond, raw, hasValue := strings.Cut(rest, "=")
	if flagConditions[cond] {
		if hasValue {
			return filter.Condition{}, fmt.Errorf("condition %s takes no value", cond)
		}
		return filter.Where(f.Attr, cond, true), nil
	}
	if !hasValue {
		return filter.Condition{}, fmt.Errorf("condition %s needs a value", cond)
	}

	var v any = raw
	if f.Kind == schema.KindInteger || f.Kind == schema.KindBoolean {
		coerced, err := f.Coerce(raw)
		if err != nil {
			return filter.Condition{}, err
		}
		v = coerced
	}
	return filter.Where(f.Attr, cond, v), nil
}

func runInsert(cmd *cobra.Command, args []string) error {
	ctx, a, closer, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closer()

	c, err := a.Collection(args[0])
	if err != nil {
		return err
	}
	values, err := parseAssignments(c.Schema(), args[1:])
	if err != nil {
		return err
	}
	rec, err := c.Schema().New(values)
	if err != nil {
		return err
	}
	if err := c.Insert(ctx, rec); err != nil {
		return err
	}

	f, err := outputFormatter()
	if err != nil {
		return err
	}
	return f.FormatRecord(cmd.OutOrStdout(), c.Schema(), rec, formatter.Options{})
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx, a, closer, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closer()

	c, err := a.Collection(args[0])
	if err != nil {
		return err
	}
	values, err := parseAssignments(c.Schema(), args[2:])
	if err != nil {
		return err
	}

	rec, err := c.Schema().Partial(values)
	if err != nil {
		return err
	}
	rec.SetRowID(args[1])

	if err := c.Update(ctx, rec); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Updated %s (%s)\n", checkMark, args[1], strings.Join(rec.PresentAttrs(), ", "))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx, a, closer, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closer()

	c, err := a.Collection(args[0])
	if err != nil {
		return err
	}
	for _, rowID := range args[1:] {
		if err := c.DeleteRow(ctx, rowID, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Archived %s\n", checkMark, rowID)
	}
	return nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx, a, closer, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closer()

	c, err := a.Collection(args[0])
	if err != nil {
		return err
	}
	f, err := outputFormatter()
	if err != nil {
		return err
	}

	conds := make([]filter.Condition, 0, len(queryWhere))
	for _, expr := range queryWhere {
		cond, err := parseWhere(c.Schema(), expr)
		if err != nil {
			return err
		}
		conds = append(conds, cond)
	}
	op := filter.And
	if queryOr {
		op = filter.Or
	}

	recs, err := c.Query(ctx, op, conds...)
	if err != nil {
		return err
	}
	return f.FormatList(cmd.OutOrStdout(), c.Schema(), recs, formatter.Options{
		Columns:  queryColumns,
		NoHeader: queryNoHeader,
	})
}
