package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/artpar/notionorm/core/schema"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models [model]",
	Short: "List model definitions or show one model's fields",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	_, a, closer, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closer()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer tw.Flush()

	if len(args) == 0 {
		fmt.Fprintln(tw, "MODEL\tCOLLECTION\tFIELDS\tBOUND")
		for _, s := range a.Schemas() {
			bound := a.Config().Collections[s.Name()]
			if bound == "" {
				bound = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.Name(), s.CollectionName(), s.Len(), bound)
		}
		return nil
	}

	s, err := a.Schema(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "ATTR\tPROPERTY\tTYPE\tREQUIRED\tOPTIONS")
	for _, f := range s.Fields() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", f.Attr, f.Property, f.Kind, f.Required, optionList(f))
	}
	return nil
}

func optionList(f schema.Field) string {
	if len(f.Options) == 0 {
		return "-"
	}
	return strings.Join(f.OptionNames(), ",")
}
