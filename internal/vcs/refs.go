package vcs

import (
	"context"
	"fmt"
	"strings"
)

// UpdateRef atomically moves ref to newSha. If expectedOldSha is non-zero,
// the update is a compare-and-swap: it fails unless ref currently equals
// expectedOldSha.
func (r *Repo) UpdateRef(ctx context.Context, ref string, newSha Hash, expectedOldSha Hash) error {
	args := []string{"update-ref", ref, string(newSha)}
	if !expectedOldSha.IsZero() {
		args = append(args, string(expectedOldSha))
	}
	if _, err := r.run.run(ctx, args...); err != nil {
		return fmt.Errorf("update-ref %s: %w", ref, err)
	}
	return nil
}

// DeleteRef removes ref. Deleting an absent ref is not an error.
func (r *Repo) DeleteRef(ctx context.Context, ref string) error {
	if _, err := r.run.run(ctx, "update-ref", "-d", ref); err != nil {
		var cmdErr *CommandError
		if !isMissingRefError(err, &cmdErr) {
			return fmt.Errorf("delete ref %s: %w", ref, err)
		}
	}
	return nil
}

func isMissingRefError(err error, out **CommandError) bool {
	if ce, ok := err.(*CommandError); ok { //nolint:errorlint // exact-type dispatch on our own sentinel
		*out = ce
		return strings.Contains(ce.Stderr, "unable to resolve") || strings.Contains(ce.Stderr, "not a valid ref")
	}
	return false
}

// GetRef resolves a single ref to its hash, or "" if it does not exist.
func (r *Repo) GetRef(ctx context.Context, ref string) (Hash, error) {
	out, err := r.run.run(ctx, "rev-parse", "--verify", "-q", ref)
	if err != nil {
		return "", nil //nolint:nilerr // absent ref is a legitimate empty result
	}
	return Hash(out), nil
}

// ListRefs returns every ref under prefix, mapped to its hash.
func (r *Repo) ListRefs(ctx context.Context, prefix string) (map[string]Hash, error) {
	out, err := r.run.run(ctx, "for-each-ref", "--format=%(refname) %(objectname)", prefix)
	if err != nil {
		return nil, fmt.Errorf("for-each-ref %s: %w", prefix, err)
	}

	result := make(map[string]Hash)
	if out == "" {
		return result, nil
	}
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}
		result[parts[0]] = Hash(parts[1])
	}
	return result, nil
}

// ResetToCommit hard-resets the invoking worktree's working directory to
// commit. The only two places in this package allowed to touch a working
// directory are this function and the traditional-rebase fallback.
func (r *Repo) ResetToCommit(ctx context.Context, commit Hash) error {
	if _, err := r.run.run(ctx, "reset", "--hard", string(commit)); err != nil {
		return fmt.Errorf("reset --hard %s: %w", commit, err)
	}
	return nil
}

// FinalizeRewrite updates refs/heads/<branch> via compare-and-swap against
// oldTip, then — if the new tip's tree differs from the old tip's and
// branch is checked out in worktreeDir — hard-resets that worktree so it
// matches the new tip.
// Enforcing the reset here, in one place, is deliberate: spec.md's subtlest
// correctness point is that a ref update behind a checked-out worktree must
// always be paired with a reset of that worktree.
func (r *Repo) FinalizeRewrite(ctx context.Context, branch string, oldTip, newTip Hash, worktreeDir string) error {
	ref := "refs/heads/" + branch
	if err := r.UpdateRef(ctx, ref, newTip, oldTip); err != nil {
		return fmt.Errorf("finalize rewrite of %s: %w", branch, err)
	}
	if oldTip == newTip {
		return nil
	}
	if worktreeDir == "" {
		return nil
	}
	oldTree, err := r.GetTree(ctx, oldTip)
	if err != nil {
		return err
	}
	newTree, err := r.GetTree(ctx, newTip)
	if err != nil {
		return err
	}
	if oldTree == newTree {
		return nil
	}

	other := &Repo{dir: worktreeDir, run: runner{dir: worktreeDir}, gogit: r.gogit, gogitd: r.gogitd}
	return other.ResetToCommit(ctx, newTip)
}
