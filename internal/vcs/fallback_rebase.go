package vcs

import (
	"context"
	"strings"
)

// TraditionalRebase runs a real, working-directory `git rebase` of the
// current branch onto onto, the last resort when rebasePlumbing hits a
// conflict on the current branch and there is a user present to resolve
// it. Autosquash is explicitly disabled: fixup!/squash!/amend! commits
// must never move relative to their targets. On conflict, git itself
// leaves the repository mid-rebase with conflict markers in the working
// tree — this function does not abort it, so `git rebase --continue` /
// `--abort` remain valid for the user. The returned file list is every
// path `git diff --diff-filter=U` reports as unmerged.
func (r *Repo) TraditionalRebase(ctx context.Context, onto Hash) (ok bool, conflictFiles []string, err error) {
	_, err = r.run.run(ctx, "rebase", "--no-autosquash", string(onto))
	if err == nil {
		return true, nil, nil
	}

	var cmdErr *CommandError
	if _, matched := asCommandError(err, &cmdErr); !matched {
		return false, nil, err
	}

	out, lsErr := r.run.run(ctx, "diff", "--name-only", "--diff-filter=U")
	if lsErr != nil {
		return false, nil, nil //nolint:nilerr // best-effort file list; the rebase failure itself is reported via ok=false
	}

	files := splitNonEmpty(out)
	return false, files, nil
}
