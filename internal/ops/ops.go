package ops

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"spry.sh/spry/internal/config"
	"spry.sh/spry/internal/spryerr"
	"spry.sh/spry/internal/stack"
	"spry.sh/spry/internal/store"
	"spry.sh/spry/internal/vcs"
)

// Ops is the stack engine: every operation is a method on a repo, a
// resolved configuration, and a logger, never a package-level global.
type Ops struct {
	repo   *vcs.Repo
	cfg    *config.Config
	user   string
	logger *slog.Logger
}

// New builds an Ops bound to repo. user identifies the ref-storage
// namespace (§4.4) this process writes to — normally the forge username,
// resolved once by the caller and passed in.
func New(repo *vcs.Repo, cfg *config.Config, user string, logger *slog.Logger) *Ops {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Ops{repo: repo, cfg: cfg, user: user, logger: logger}
}

// currentStack returns the commit range for branch (or HEAD), oldest
// first, and the onto sha it was computed against.
func (o *Ops) currentStack(ctx context.Context, branch string) (onto vcs.Hash, commits []vcs.Commit, err error) {
	ref := branch
	if ref == "" {
		ref = "HEAD"
	}

	ontoRef := o.cfg.Remote + "/" + o.cfg.DefaultBranch
	base, err := o.repo.GetMergeBase(ctx, ref, ontoRef)
	if err != nil {
		return "", nil, fmt.Errorf("merge base of %s and %s: %w", ref, ontoRef, err)
	}

	head, err := o.repo.FullHash(ctx, ref)
	if err != nil {
		return "", nil, fmt.Errorf("resolve %s: %w", ref, err)
	}

	commits, err = o.repo.CommitRange(ctx, base, head)
	if err != nil {
		return "", nil, err
	}
	return base, commits, nil
}

// checkDetached runs the detached-head precondition for the current
// branch, or for another branch's worktree if it is checked out elsewhere.
func (o *Ops) checkDetached(ctx context.Context, branch string) (worktreeDir string, err error) {
	if branch == "" {
		detached, err := o.repo.IsDetached(ctx)
		if err != nil {
			return "", err
		}
		if detached {
			return "", &spryerr.DetachedHeadError{Branch: ""}
		}
		return "", nil
	}

	wt, ok, err := o.repo.WorktreeForBranch(ctx, branch)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	if wt.IsDetached {
		return "", &spryerr.DetachedHeadError{Branch: branch}
	}
	return wt.Path, nil
}

// finalize applies the three-way rule every rewriting operation follows:
// current branch, other branch with no worktree, or other branch checked
// out elsewhere. branch == "" means "the current branch"; otherWorktreeDir
// is the checkDetached result for a non-current branch, or ignored.
func (o *Ops) finalize(ctx context.Context, branch string, oldTip, newTip vcs.Hash, otherWorktreeDir string) error {
	name := branch
	dir := otherWorktreeDir
	if branch == "" {
		var err error
		name, err = o.repo.CurrentBranch(ctx)
		if err != nil {
			return err
		}
		dir = o.repo.Dir()

		if oldTip != newTip {
			clean, err := o.repo.IsWorkingTreeClean(ctx)
			if err != nil {
				return err
			}
			if !clean {
				return &spryerr.DirtyWorkingTreeError{Branch: name}
			}
		}
	}
	return o.repo.FinalizeRewrite(ctx, name, oldTip, newTip, dir)
}

// groupTitles reads the group-titles side channel and adapts it to the
// type stack.ParseStack expects.
func (o *Ops) groupTitles(ctx context.Context) (stack.GroupTitles, error) {
	titles, err := store.ReadGroupTitles(ctx, o.repo, o.user)
	if err != nil {
		return nil, err
	}
	return stackTitles(titles), nil
}

func stackTitles(titles store.GroupTitles) stack.GroupTitles {
	out := make(stack.GroupTitles, len(titles))
	for k, v := range titles {
		out[k] = v
	}
	return out
}
