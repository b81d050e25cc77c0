// Command spry is a minimal entrypoint over internal/ops: one subcommand
// per stack operation, enough to exercise the library end to end. Full
// interactive UX (conflict resolution, a TUI, passthrough git commands) is
// out of scope — see internal/ops for the actual engine.
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
