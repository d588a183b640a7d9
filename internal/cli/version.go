package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, overridden at link time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pulsecheck %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
