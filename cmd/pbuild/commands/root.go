// Package commands implements the CLI commands for the pbuild build tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.pbuild.dev/pbuild/internal/app"
	"go.pbuild.dev/pbuild/internal/engine/driver"
)

// ExitCodeError wraps a driver exit code that carries no Go error of its
// own (per-project diagnostics were already reported by the status/
// diagnostic reporters) but still needs to surface as a non-zero process
// exit.
type ExitCodeError int

func (e ExitCodeError) Error() string { return "build reported diagnostics" }

// asExitCodeErr converts a driver exit code into an error, or nil on
// ExitSuccess. Never return ExitCodeError(code) directly: a zero value
// wrapped in a non-nil interface is still a non-nil error.
func asExitCodeErr(code int) error {
	if code == driver.ExitSuccess {
		return nil
	}
	return ExitCodeError(code)
}

// CLI represents the command line interface for pbuild.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "pbuild",
		Short:         "An incremental build orchestrator for composite, reference-linked projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &CLI{app: a, rootCmd: rootCmd}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}
