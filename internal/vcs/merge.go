package vcs

import (
	"context"
	"fmt"
	"strings"
)

// MergeResult is the outcome of a tree-level three-way merge.
type MergeResult struct {
	OK           bool
	Tree         Hash
	ConflictInfo string
}

// MergeTree three-way merges ours and theirs against base into a tree
// object only — no working directory is touched, and no commit is created.
// It shells out to `git merge-tree --write-tree`, the real plumbing command
// introduced for exactly this purpose; the teacher never needs it (its own
// rebases go through a real checkout), but the subprocess-wrapping idiom is
// the same one used throughout this package.
func (r *Repo) MergeTree(ctx context.Context, base, ours, theirs Hash) (MergeResult, error) {
	out, err := r.run.run(ctx, "merge-tree", "--write-tree",
		"--merge-base="+string(base), string(ours), string(theirs))
	if err == nil {
		tree := out
		if idx := strings.IndexByte(tree, 0); idx >= 0 {
			tree = tree[:idx]
		}
		return MergeResult{OK: true, Tree: Hash(strings.TrimSpace(tree))}, nil
	}

	var cmdErr *CommandError
	ce, ok := asCommandError(err, &cmdErr)
	if !ok {
		return MergeResult{}, fmt.Errorf("merge-tree: %w", err)
	}

	// Exit status 1 from `merge-tree --write-tree` means "merge completed
	// with conflicts"; its stdout holds the conflicted tree oid on the
	// first line followed by `CONFLICT (<kind>): <reason> <path>` lines.
	// Anything else is a genuine plumbing failure.
	lines := strings.Split(strings.TrimSpace(ce.Stdout), "\n")
	var conflictLines []string
	for _, line := range lines {
		if strings.HasPrefix(line, "CONFLICT") {
			conflictLines = append(conflictLines, line)
		}
	}
	if len(conflictLines) == 0 {
		return MergeResult{}, fmt.Errorf("merge-tree: %w", err)
	}

	return MergeResult{OK: false, ConflictInfo: strings.Join(conflictLines, "\n")}, nil
}

func asCommandError(err error, out **CommandError) (*CommandError, bool) {
	if ce, ok := err.(*CommandError); ok { //nolint:errorlint // our own sentinel type
		*out = ce
		return ce, true
	}
	return nil, false
}

// GetMergeBase returns the best common ancestor of two refs.
func (r *Repo) GetMergeBase(ctx context.Context, a, b string) (Hash, error) {
	out, err := r.run.run(ctx, "merge-base", a, b)
	if err != nil {
		return "", fmt.Errorf("merge-base %s %s: %w", a, b, err)
	}
	return Hash(out), nil
}

// IsAncestor reports whether ancestor is reachable from descendant.
func (r *Repo) IsAncestor(ctx context.Context, ancestor, descendant string) bool {
	_, err := r.run.run(ctx, "merge-base", "--is-ancestor", ancestor, descendant)
	return err == nil
}
