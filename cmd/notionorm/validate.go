package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and model definitions",
	Long: `Validate the notionorm configuration and every model definition.

Checks:
  - Config file (or NOTIONORM_* environment) is valid
  - Model definitions parse and are consistent
  - Bound collections exist remotely (with --remote)

Examples:
  notionorm validate
  notionorm validate --remote --config /etc/notionorm.yaml`,
	RunE: runValidate,
}

var validateRemote bool

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateRemote, "remote", false, "check that bound collections exist and match the models")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	ctx, a, closer, err := openApp(cmd)
	if err != nil {
		fmt.Fprintf(out, "  %s Configuration valid\n", crossMark)
		return err
	}
	defer closer()
	cfg := a.Config()

	fmt.Fprintf(out, "  %s Configuration valid\n", checkMark)
	fmt.Fprintf(out, "  %s API: %s (version %s)\n", checkMark, cfg.Notion.BaseURL, cfg.Notion.Version)
	fmt.Fprintf(out, "  %s Models: %d\n", checkMark, len(a.Schemas()))

	failed := 0
	for _, s := range a.Schemas() {
		id := cfg.Collections[s.Name()]
		if id == "" {
			fmt.Fprintf(out, "  %s %s: not bound (run 'notionorm migrate %s')\n", checkMark, s.Name(), s.Name())
			continue
		}
		if !validateRemote {
			fmt.Fprintf(out, "  %s %s: bound to %s\n", checkMark, s.Name(), id)
			continue
		}

		db, err := a.CollectionFor(s).Describe(ctx)
		if err != nil {
			failed++
			fmt.Fprintf(out, "  %s %s: %v\n", crossMark, s.Name(), err)
			continue
		}
		var missing []string
		for _, f := range s.Fields() {
			if _, ok := db.Properties[f.Property]; !ok {
				missing = append(missing, f.Property)
			}
		}
		if len(missing) > 0 {
			failed++
			fmt.Fprintf(out, "  %s %s: missing properties %s\n", crossMark, s.Name(), strings.Join(missing, ", "))
			continue
		}
		fmt.Fprintf(out, "  %s %s: %s matches\n", checkMark, s.Name(), db.PlainTitle())
	}

	for model := range cfg.Collections {
		if _, err := a.Schema(model); err != nil {
			fmt.Fprintf(out, "  %s collections.%s has no model definition\n", crossMark, model)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("validation failed: %d problem(s)", failed)
	}
	return nil
}
