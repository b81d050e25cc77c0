package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Rebase every stack-owned branch onto the remote default branch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			o, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			result, err := o.SyncAll(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range result.Rebased {
				fmt.Fprintf(out, "%s: rebased %d commit(s)", r.Branch, r.CommitCount)
				if r.IDsInjected > 0 {
					fmt.Fprintf(out, " (%d id(s) injected)", r.IDsInjected)
				}
				fmt.Fprintln(out)
			}
			for _, s := range result.Skipped {
				detail := s.Reason
				if s.Group != "" {
					detail = fmt.Sprintf("%s (group %s)", detail, s.Group)
				}
				if len(s.Files) > 0 {
					detail = fmt.Sprintf("%s: %s", detail, strings.Join(s.Files, ", "))
				}
				fmt.Fprintf(out, "%s: skipped, %s\n", s.Branch, detail)
			}
			if len(result.Rebased) == 0 && len(result.Skipped) == 0 {
				fmt.Fprintln(out, "no stack-owned branches")
			}
			return nil
		},
	}
	return cmd
}
