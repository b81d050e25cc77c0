package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List local branches owned by the stacking model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			o, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			branches, err := o.ListStackLocalBranches(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(branches) == 0 {
				fmt.Fprintln(out, "no stack-owned branches")
				return nil
			}
			for _, b := range branches {
				location := "no worktree"
				if b.InWorktree {
					location = b.WorktreePath
				}
				missing := ""
				if b.HasMissingIDs {
					missing = " (missing ids)"
				}
				fmt.Fprintf(out, "%s\t%d commit(s)\t%s%s\n", b.Name, b.CommitCount, location, missing)
			}
			return nil
		},
	}
	return cmd
}
