package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInjectIDsCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "inject-ids",
		Short: "Backfill Spry-Commit-Id on every commit in the stack that lacks one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			o, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			modified, rebased, err := o.InjectMissingIDs(ctx, branch)
			if err != nil {
				return err
			}

			if !rebased {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to inject")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "injected %d commit id(s)\n", modified)
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "branch to operate on (default: current branch)")
	return cmd
}
