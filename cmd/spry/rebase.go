package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRebaseCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "rebase",
		Short: "Rebase the stack onto the remote default branch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			o, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			result, err := o.RebaseOntoTrunk(ctx, branch)
			if err != nil {
				return err
			}

			if result.Err != nil {
				if result.Err.Conflict != nil {
					return result.Err.Conflict
				}
				return fmt.Errorf("%s", result.Err.Reason)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "rebased %d commit(s), new tip %s\n", result.Ok.CommitCount, result.Ok.NewTip)
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "branch to operate on (default: current branch)")
	return cmd
}
