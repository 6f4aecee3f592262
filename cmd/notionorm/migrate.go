package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <model>",
	Short: "Create the database for a model",
	Long: `Create a Notion database for a model under the parent page.

The new database id is printed; add it under 'collections' in the config
file to bind the model.

Examples:
  notionorm migrate Task
  notionorm migrate Task --parent 0f3c...`,
	Args: cobra.ExactArgs(1),
	RunE: runMigrate,
}

var describeCmd = &cobra.Command{
	Use:   "describe <model>",
	Short: "Show the remote database bound to a model",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

var migrateParent string

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(describeCmd)

	migrateCmd.Flags().StringVar(&migrateParent, "parent", "", "parent page id (default: notion.parent_id)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, a, closer, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closer()

	c, err := a.Collection(args[0])
	if err != nil {
		return err
	}
	if c.ID() != "" {
		return fmt.Errorf("%s is already bound to %s", args[0], c.ID())
	}

	parent := migrateParent
	if parent == "" {
		parent = a.Config().Notion.ParentID
	}
	if parent == "" {
		return fmt.Errorf("no parent page: pass --parent or set notion.parent_id")
	}

	id, err := c.Migrate(ctx, parent)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Created %s (%s)\n", checkMark, c.Schema().CollectionName(), id)
	fmt.Fprintf(out, "\nBind it in the config file:\n\ncollections:\n  %s: %s\n", args[0], id)
	return nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	ctx, a, closer, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closer()

	c, err := a.Collection(args[0])
	if err != nil {
		return err
	}
	db, err := c.Describe(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", db.PlainTitle(), db.ID)
	names := db.PropertyNames()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %s\n", name, db.Properties[name].Type)
	}
	return nil
}
