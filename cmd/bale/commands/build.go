package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bale/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [entries...]",
		Short: "Build the given entry assets (or the configured entries)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			noCache, err := cmd.Flags().GetBool("no-cache")
			if err != nil {
				return err
			}
			return c.app.Run(cmd.Context(), configPath, args, app.RunOptions{NoCache: noCache})
		},
	}
	cmd.Flags().Bool("no-cache", false, "Skip reading and writing the build cache")
	return cmd
}
