package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"spry.sh/spry/internal/ops"
)

func newApplyGroupsCmd() *cobra.Command {
	var branch string
	var file string

	cmd := &cobra.Command{
		Use:   "apply-groups",
		Short: "Reorder and regroup the stack per a JSON group spec",
		Long: `Reads a JSON document of the form
  {"order": ["<ref>", ...], "groups": [{"commits": ["<ref>", ...], "name": "<title>"}]}
from --file, or stdin if --file is omitted, and applies it to the stack.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open %s: %w", file, err)
				}
				defer f.Close()
				r = f
			}

			var spec ops.GroupSpec
			if err := json.NewDecoder(r).Decode(&spec); err != nil {
				return fmt.Errorf("decode group spec: %w", err)
			}

			ctx := cmd.Context()
			o, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			modified, err := o.ApplyGroupSpec(ctx, branch, spec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rewrote %d commit(s)\n", modified)
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "branch to operate on (default: current branch)")
	cmd.Flags().StringVar(&file, "file", "", "path to the group spec JSON (default: stdin)")
	return cmd
}
