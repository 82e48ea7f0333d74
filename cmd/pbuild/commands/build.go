package commands

import (
	"github.com/spf13/cobra"
	"go.pbuild.dev/pbuild/internal/engine/driver"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build the given projects and everything they reference",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptionsFromFlags(cmd)
			if err != nil {
				return err
			}
			code, err := c.app.Build(cmd.Context(), args, opts)
			if err != nil {
				return err
			}
			return asExitCodeErr(code)
		},
	}
	addBuildOptionFlags(cmd)
	return cmd
}

func addBuildOptionFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry", false, "Report what would be built without writing anything")
	cmd.Flags().BoolP("force", "f", false, "Treat every project as out of date")
	cmd.Flags().BoolP("verbose", "v", false, "Emit per-project status messages and the build queue")
}

func buildOptionsFromFlags(cmd *cobra.Command) (driver.Options, error) {
	dry, err := cmd.Flags().GetBool("dry")
	if err != nil {
		return driver.Options{}, err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return driver.Options{}, err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return driver.Options{}, err
	}
	return driver.Options{Dry: dry, Force: force, Verbose: verbose}, nil
}

