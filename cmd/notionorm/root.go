package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/artpar/notionorm/bootstrap"
	"github.com/artpar/notionorm/core/formatter"
	"github.com/artpar/notionorm/ports"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile      string
	outputFormat string

	// gatewayOverride replaces the remote gateway; set by tests.
	gatewayOverride ports.Gateway
)

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notionorm",
	Short: "Typed models over Notion databases",
	Long: `notionorm maps YAML model definitions onto Notion databases.

Models are read from the models directory named in the config file.

Quick start:
  notionorm validate              # Check config and models
  notionorm migrate Task          # Create the Task database
  notionorm insert Task title="Write docs" points=3
  notionorm query Task --where "points:greater_than=2"`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "notionorm.yaml", "config file path")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format ("+strings.Join(formatter.Names(), ", ")+")")
}

// openApp wires the application for one command. The returned context is
// canceled on SIGINT or SIGTERM.
func openApp(cmd *cobra.Command) (context.Context, *bootstrap.App, func(), error) {
	a, err := bootstrap.New(bootstrap.Options{
		ConfigPath: cfgFile,
		Gateway:    gatewayOverride,
		LogOutput:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	closer := func() {
		stop()
		if err := a.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("close failed")
		}
	}
	return ctx, a, closer, nil
}

func outputFormatter() (formatter.Formatter, error) {
	return formatter.Lookup(outputFormat)
}
