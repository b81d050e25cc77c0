package ops

import (
	"context"

	"spry.sh/spry/internal/stack"
	"spry.sh/spry/internal/trailer"
	"spry.sh/spry/internal/vcs"
)

// InjectMissingIDs backfills Spry-Commit-Id on every commit of branch's
// stack (or the current branch's, if branch is empty) that lacks one.
// Commits already carrying the trailer keep their message, tree and
// identity; when an earlier commit in the chain is rewritten they are
// re-created on the new parent, so their hashes change. rebasePerformed
// reports whether any commit in
// the chain was actually rewritten.
func (o *Ops) InjectMissingIDs(ctx context.Context, branch string) (modifiedCount int, rebasePerformed bool, err error) {
	worktreeDir, err := o.checkDetached(ctx, branch)
	if err != nil {
		return 0, false, err
	}

	ref := branch
	if ref == "" {
		ref = "HEAD"
	}

	_, commits, err := o.currentStack(ctx, branch)
	if err != nil {
		return 0, false, err
	}
	if len(commits) == 0 {
		return 0, false, nil
	}

	oldTip, err := o.repo.FullHash(ctx, ref)
	if err != nil {
		return 0, false, err
	}

	hashes := make([]vcs.Hash, len(commits))
	rewrites := map[vcs.Hash]string{}
	for i, c := range commits {
		hashes[i] = c.Hash

		trailers := trailer.ParseTrailers(c.Body)
		if id, ok := trailers["Spry-Commit-Id"]; ok && id != "" {
			continue
		}

		message := c.Subject
		if c.Body != "" {
			message = c.Subject + "\n\n" + c.Body
		}
		rewrites[c.Hash] = trailer.AddTrailers(message, trailer.Trailers{"Spry-Commit-Id": stack.GenerateCommitID()})
		modifiedCount++
	}

	if modifiedCount == 0 {
		return 0, false, nil
	}

	result, err := o.repo.RewriteCommitChain(ctx, hashes, rewrites)
	if err != nil {
		return 0, false, err
	}

	if err := o.finalize(ctx, branch, oldTip, result.NewTip, worktreeDir); err != nil {
		return 0, false, err
	}

	return modifiedCount, true, nil
}
