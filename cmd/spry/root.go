package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd assembles the thin spry entrypoint: one subcommand per
// internal/ops operation, proving the five components (vcs, trailer,
// stack, store, ops) compose end to end. It is deliberately not a product
// CLI — no TUI, no interactive conflict resolution, no passthrough.
func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:          "spry",
		Short:        "Stacked-pull-request engine over a single local branch",
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(newInjectIDsCmd())
	root.AddCommand(newRebaseCmd())
	root.AddCommand(newSyncCmd())
	root.AddCommand(newFixCmd())
	root.AddCommand(newApplyGroupsCmd())
	root.AddCommand(newListCmd())

	return root
}
