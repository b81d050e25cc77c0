package ops

import (
	"context"
	"strings"

	"spry.sh/spry/internal/trailer"
	"spry.sh/spry/internal/vcs"
)

// StackBranch describes one local branch owned by the stacking model.
type StackBranch struct {
	Name          string
	TipSha        vcs.Hash
	CommitCount   int
	InWorktree    bool
	WorktreePath  string
	HasMissingIDs bool
}

// ListStackLocalBranches enumerates every local branch distinct from the
// default branch that has commits ahead of remote/defaultBranch, at least
// one of them carrying Spry-Commit-Id. Branches nobody has ever run an
// injection on are not "stack-owned" and are left out.
func (o *Ops) ListStackLocalBranches(ctx context.Context) ([]StackBranch, error) {
	refs, err := o.repo.ListRefs(ctx, "refs/heads/")
	if err != nil {
		return nil, err
	}

	worktrees, err := o.repo.ListWorktrees(ctx)
	if err != nil {
		return nil, err
	}
	byBranch := make(map[string]vcs.Worktree, len(worktrees))
	for _, w := range worktrees {
		if w.Branch != "" {
			byBranch[w.Branch] = w
		}
	}

	onto := o.cfg.Remote + "/" + o.cfg.DefaultBranch

	var branches []StackBranch
	for ref, tip := range refs {
		name := strings.TrimPrefix(ref, "refs/heads/")
		if name == o.cfg.DefaultBranch {
			continue
		}

		base, err := o.repo.GetMergeBase(ctx, name, onto)
		if err != nil {
			continue
		}

		commits, err := o.repo.CommitRange(ctx, base, tip)
		if err != nil {
			return nil, err
		}
		if len(commits) == 0 {
			continue
		}

		hasAnyID := false
		hasMissing := false
		for _, c := range commits {
			trailers := trailer.ParseTrailers(c.Body)
			if trailers["Spry-Commit-Id"] != "" {
				hasAnyID = true
			} else {
				hasMissing = true
			}
		}
		if !hasAnyID {
			continue
		}

		entry := StackBranch{
			Name:          name,
			TipSha:        tip,
			CommitCount:   len(commits),
			HasMissingIDs: hasMissing,
		}
		if w, ok := byBranch[name]; ok {
			entry.InWorktree = true
			entry.WorktreePath = w.Path
		}
		branches = append(branches, entry)
	}

	return branches, nil
}
