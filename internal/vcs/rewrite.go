package vcs

import (
	"context"
	"fmt"
)

// RewriteResult is the outcome of rewriting a linear commit chain.
type RewriteResult struct {
	NewTip  Hash
	Mapping map[Hash]Hash
}

// RewriteCommitChain walks commits oldest-first, copying each commit's tree
// and identity unchanged, substituting the rewritten message from rewrites
// where present, and chaining each new commit onto the previously-produced
// new commit (or the first original parent, for the first commit in the
// chain). It never reorders or squashes: the output has exactly one new
// commit per input commit, in the same order.
func (r *Repo) RewriteCommitChain(ctx context.Context, commits []Hash, rewrites map[Hash]string) (RewriteResult, error) {
	mapping := make(map[Hash]Hash, len(commits))
	var parent Hash

	for i, h := range commits {
		c, err := r.GetCommit(ctx, h)
		if err != nil {
			return RewriteResult{}, fmt.Errorf("read commit %s: %w", h, err)
		}

		var parents []Hash
		if i == 0 {
			if len(c.Parents) > 0 {
				parents = []Hash{c.Parents[0]}
			}
		} else {
			parents = []Hash{parent}
		}

		message := c.Subject
		if c.Body != "" {
			message = c.Subject + "\n\n" + c.Body
		}
		if rewritten, ok := rewrites[h]; ok {
			message = rewritten
		}

		newHash, err := r.CreateCommit(ctx, c.Tree, parents, message, c.Identity)
		if err != nil {
			return RewriteResult{}, fmt.Errorf("rewrite commit %s: %w", h, err)
		}

		mapping[h] = newHash
		parent = newHash
	}

	return RewriteResult{NewTip: parent, Mapping: mapping}, nil
}

// RebaseOutcome is either a successful rebase (Ok populated) or the first
// conflict encountered (Conflict populated). Exactly one is set.
type RebaseOutcome struct {
	Ok       *RewriteResult
	Conflict *RebaseConflict
}

// RebaseConflict names the commit that failed to apply and the conflict
// detail produced by the underlying tree merge.
type RebaseConflict struct {
	Commit       Hash
	ConflictInfo string
}

// RebasePlumbing cherry-picks each commit in commits onto onto, computing
// each step as a tree-level three-way merge of (originalParent, currentTip,
// commit) — the same shape a single cherry-pick uses, chained. On the first
// conflict it returns early with the conflicting commit and no side effects
// on refs or the working directory; nothing is written until the caller
// accepts the result.
func (r *Repo) RebasePlumbing(ctx context.Context, onto Hash, commits []Hash) (RebaseOutcome, error) {
	mapping := make(map[Hash]Hash, len(commits))
	tip := onto

	for _, h := range commits {
		c, err := r.GetCommit(ctx, h)
		if err != nil {
			return RebaseOutcome{}, fmt.Errorf("read commit %s: %w", h, err)
		}
		if len(c.Parents) == 0 {
			return RebaseOutcome{}, fmt.Errorf("commit %s has no parent, cannot cherry-pick", h)
		}
		originalParent := c.Parents[0]

		result, err := r.MergeTree(ctx, originalParent, tip, h)
		if err != nil {
			return RebaseOutcome{}, fmt.Errorf("merge-tree for %s: %w", h, err)
		}
		if !result.OK {
			return RebaseOutcome{Conflict: &RebaseConflict{Commit: h, ConflictInfo: result.ConflictInfo}}, nil
		}

		message := c.Subject
		if c.Body != "" {
			message = c.Subject + "\n\n" + c.Body
		}

		newHash, err := r.CreateCommit(ctx, result.Tree, []Hash{tip}, message, c.Identity)
		if err != nil {
			return RebaseOutcome{}, fmt.Errorf("commit %s onto %s: %w", h, tip, err)
		}

		mapping[h] = newHash
		tip = newHash
	}

	return RebaseOutcome{Ok: &RewriteResult{NewTip: tip, Mapping: mapping}}, nil
}
