package vcs

import (
	"context"
	"fmt"
)

// CommitRange enumerates the commits in base..head, oldest first, with full
// hash/subject/body/identity for each. This is the "stack" primitive of
// spec.md §4.5.1: callers pass a merge-base as base and a branch tip (or
// HEAD) as head. `git rev-list --reverse` is authoritative for ordering a
// linear stack, the only shape the engine ever walks.
func (r *Repo) CommitRange(ctx context.Context, base, head Hash) ([]Commit, error) {
	out, err := r.run.run(ctx, "rev-list", "--reverse", string(base)+".."+string(head))
	if err != nil {
		return nil, fmt.Errorf("rev-list %s..%s: %w", base, head, err)
	}

	var ordered []Hash
	for _, line := range splitNonEmpty(out) {
		ordered = append(ordered, Hash(line))
	}

	commits := make([]Commit, 0, len(ordered))
	for _, h := range ordered {
		c, err := r.GetCommit(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("read commit %s: %w", h, err)
		}
		commits = append(commits, *c)
	}
	return commits, nil
}

func splitNonEmpty(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
