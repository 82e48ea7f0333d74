package commands

import (
	"time"

	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [targets...]",
		Short: "Build the given projects, then rebuild on filesystem changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptionsFromFlags(cmd)
			if err != nil {
				return err
			}
			root, err := cmd.Flags().GetString("root")
			if err != nil {
				return err
			}
			debounce, err := cmd.Flags().GetDuration("debounce")
			if err != nil {
				return err
			}
			ui, err := cmd.Flags().GetBool("ui")
			if err != nil {
				return err
			}
			return c.app.Watch(cmd.Context(), args, opts, root, debounce, ui)
		},
	}
	addBuildOptionFlags(cmd)
	cmd.Flags().String("root", ".", "Directory tree to watch for filesystem changes")
	cmd.Flags().Duration("debounce", 250*time.Millisecond, "Coalescing window for invalidation events")
	cmd.Flags().Bool("ui", false, "Show a live terminal dashboard while watching")
	return cmd
}
