package vcs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"spry.sh/spry/internal/spryerr"
)

// MinVersion is the oldest git release the engine's plumbing depends on:
// 2.40 added the `--merge-base` option to `merge-tree --write-tree`, which
// MergeTree shells out to for every conflict simulation and rebase step.
const MinVersion = "2.40.0"

// CheckVersion runs `git --version` and compares it against MinVersion,
// returning a *spryerr.UnsupportedVCSVersionError if the installed binary
// is older. Callers run this once at startup, before opening a repo.
func CheckVersion(ctx context.Context) error {
	r := runner{}
	out, err := r.run(ctx, "--version")
	if err != nil {
		return fmt.Errorf("git --version: %w", err)
	}

	found := parseGitVersion(out)
	if found == "" {
		return fmt.Errorf("unrecognized git --version output: %q", out)
	}
	if compareVersions(found, MinVersion) < 0 {
		return &spryerr.UnsupportedVCSVersionError{Found: found, Required: MinVersion}
	}
	return nil
}

// parseGitVersion extracts the dotted version number from `git version
// X.Y.Z` output, which may carry a platform suffix (e.g. "2.39.2 (Apple
// Git-143)").
func parseGitVersion(out string) string {
	fields := strings.Fields(out)
	for _, f := range fields {
		if len(f) > 0 && (f[0] >= '0' && f[0] <= '9') {
			return f
		}
	}
	return ""
}

// compareVersions compares two dotted version strings component by
// component, treating a missing component as 0. It returns -1, 0, or 1.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av, bv := component(as, i), component(bs, i)
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

func component(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0
	}
	return v
}
