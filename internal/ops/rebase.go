package ops

import (
	"context"
	"fmt"

	"spry.sh/spry/internal/spryerr"
	"spry.sh/spry/internal/vcs"
)

// RebaseResult is the tagged outcome of RebaseOntoTrunk: exactly one of Ok
// or Err is non-nil.
type RebaseResult struct {
	Ok  *RebaseOk
	Err *RebaseErr
}

// RebaseOk reports a successful rebase.
type RebaseOk struct {
	CommitCount int
	NewTip      vcs.Hash
}

// RebaseErr reports why RebaseOntoTrunk failed. Reason is either
// "detached-head" or "conflict"; Conflict is set only for the latter.
type RebaseErr struct {
	Reason   string
	Conflict *spryerr.ConflictError
}

// RebaseOntoTrunk rebases branch's (or the current branch's, if branch is
// empty) stack onto remote/defaultBranch. It tries the plumbing path
// first; on conflict, the current branch falls back to a real working-tree
// rebase so the user can resolve in place, while any other branch reports
// the conflict as-is, since nobody is there to resolve it.
func (o *Ops) RebaseOntoTrunk(ctx context.Context, branch string) (RebaseResult, error) {
	worktreeDir, err := o.checkDetached(ctx, branch)
	if err != nil {
		var detached *spryerr.DetachedHeadError
		if asDetached(err, &detached) {
			return RebaseResult{Err: &RebaseErr{Reason: "detached-head"}}, nil
		}
		return RebaseResult{}, err
	}

	ref := branch
	if ref == "" {
		ref = "HEAD"
	}
	onto := o.cfg.Remote + "/" + o.cfg.DefaultBranch

	_, commits, err := o.currentStack(ctx, branch)
	if err != nil {
		return RebaseResult{}, err
	}
	if len(commits) == 0 {
		newTip, err := o.repo.FullHash(ctx, ref)
		if err != nil {
			return RebaseResult{}, err
		}
		return RebaseResult{Ok: &RebaseOk{CommitCount: 0, NewTip: newTip}}, nil
	}

	ontoSha, err := o.repo.FullHash(ctx, onto)
	if err != nil {
		return RebaseResult{}, fmt.Errorf("resolve %s: %w", onto, err)
	}

	oldTip, err := o.repo.FullHash(ctx, ref)
	if err != nil {
		return RebaseResult{}, err
	}

	hashes := make([]vcs.Hash, len(commits))
	subjects := make(map[vcs.Hash]string, len(commits))
	for i, c := range commits {
		hashes[i] = c.Hash
		subjects[c.Hash] = c.Subject
	}

	outcome, err := o.repo.RebasePlumbing(ctx, ontoSha, hashes)
	if err != nil {
		return RebaseResult{}, err
	}

	if outcome.Ok != nil {
		if err := o.finalize(ctx, branch, oldTip, outcome.Ok.NewTip, worktreeDir); err != nil {
			return RebaseResult{}, err
		}
		return RebaseResult{Ok: &RebaseOk{CommitCount: len(commits), NewTip: outcome.Ok.NewTip}}, nil
	}

	conflict := &spryerr.ConflictError{
		Commit:       string(outcome.Conflict.Commit),
		Subject:      subjects[outcome.Conflict.Commit],
		Files:        parseConflictFiles(outcome.Conflict.ConflictInfo),
		ConflictInfo: outcome.Conflict.ConflictInfo,
	}

	if branch != "" {
		return RebaseResult{Err: &RebaseErr{Reason: "conflict", Conflict: conflict}}, nil
	}

	ok, fallbackFiles, err := o.repo.TraditionalRebase(ctx, ontoSha)
	if err != nil {
		return RebaseResult{}, err
	}
	if ok {
		newTip, err := o.repo.FullHash(ctx, "HEAD")
		if err != nil {
			return RebaseResult{}, err
		}
		return RebaseResult{Ok: &RebaseOk{CommitCount: len(commits), NewTip: newTip}}, nil
	}

	if len(fallbackFiles) > 0 {
		conflict.Files = fallbackFiles
	}
	return RebaseResult{Err: &RebaseErr{Reason: "conflict", Conflict: conflict}}, nil
}

func asDetached(err error, out **spryerr.DetachedHeadError) bool {
	de, ok := err.(*spryerr.DetachedHeadError) //nolint:errorlint // our own sentinel type
	if !ok {
		return false
	}
	*out = de
	return true
}
