package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spry.sh/spry/internal/ops"
)

func newFixCmd() *cobra.Command {
	var branch string
	var mode string

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Repair a split review group (dissolve it, or merge its commits back together)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var fixMode ops.FixMode
			switch mode {
			case "dissolve":
				fixMode = ops.FixDissolve
			case "merge-split":
				fixMode = ops.FixMergeSplit
			default:
				return fmt.Errorf("unknown --mode %q, want dissolve or merge-split", mode)
			}

			ctx := cmd.Context()
			o, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			modified, err := o.FixStack(ctx, branch, fixMode)
			if err != nil {
				return err
			}
			if modified == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "stack is already well-formed")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rewrote %d commit(s)\n", modified)
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "branch to operate on (default: current branch)")
	cmd.Flags().StringVar(&mode, "mode", "dissolve", "dissolve or merge-split")
	return cmd
}
