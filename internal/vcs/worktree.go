package vcs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Worktree describes one entry from `git worktree list --porcelain`.
type Worktree struct {
	Path      string
	Head      Hash
	Branch    string // branch short name, empty if detached
	IsMain    bool
	IsDetached bool
}

// ListWorktrees enumerates every worktree linked to the repository,
// including the main one. Paths are resolved so callers can compare them
// against a branch's checkout location by exact string match.
func (r *Repo) ListWorktrees(ctx context.Context) ([]Worktree, error) {
	out, err := r.run.run(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("worktree list: %w", err)
	}

	var worktrees []Worktree
	var cur *Worktree
	first := true

	flush := func() {
		if cur != nil {
			worktrees = append(worktrees, *cur)
		}
	}

	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			cur = &Worktree{Path: realpath(strings.TrimPrefix(line, "worktree ")), IsMain: first}
			first = false
		case strings.HasPrefix(line, "HEAD "):
			if cur != nil {
				cur.Head = Hash(strings.TrimPrefix(line, "HEAD "))
			}
		case strings.HasPrefix(line, "branch "):
			if cur != nil {
				ref := strings.TrimPrefix(line, "branch ")
				cur.Branch = strings.TrimPrefix(ref, "refs/heads/")
			}
		case line == "detached":
			if cur != nil {
				cur.IsDetached = true
			}
		}
	}
	flush()

	return worktrees, nil
}

// WorktreeForBranch returns the worktree branch is checked out in, if any.
func (r *Repo) WorktreeForBranch(ctx context.Context, branch string) (Worktree, bool, error) {
	worktrees, err := r.ListWorktrees(ctx)
	if err != nil {
		return Worktree{}, false, err
	}
	for _, w := range worktrees {
		if w.Branch == branch {
			return w, true, nil
		}
	}
	return Worktree{}, false, nil
}

// realpath resolves symlinks so worktree paths can be compared exactly;
// it falls back to an absolute path if the target doesn't exist yet.
func realpath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
