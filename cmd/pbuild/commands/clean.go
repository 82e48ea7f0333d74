package commands

import (
	"github.com/spf13/cobra"
	"go.pbuild.dev/pbuild/internal/engine/driver"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [targets...]",
		Short: "Delete the expected outputs of the given projects and everything they reference",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dry, err := cmd.Flags().GetBool("dry")
			if err != nil {
				return err
			}
			code, err := c.app.Clean(args, driver.Options{Dry: dry})
			if err != nil {
				return err
			}
			return asExitCodeErr(code)
		},
	}
	cmd.Flags().Bool("dry", false, "Report what would be deleted without writing anything")
	return cmd
}
