package ops

import (
	"context"
	"sync"

	"spry.sh/spry/internal/stack"
)

// SyncRebased reports one branch SyncAll successfully rebased.
type SyncRebased struct {
	Branch      string
	CommitCount int
	IDsInjected int
}

// SyncSkipped reports one branch SyncAll left untouched, and why.
type SyncSkipped struct {
	Branch string
	Reason string // "split-group" | "conflict" | "up-to-date"
	Group  string
	Files  []string
}

// SyncResult is SyncAll's aggregate outcome.
type SyncResult struct {
	Rebased []SyncRebased
	Skipped []SyncSkipped
}

type syncInspection struct {
	branch     StackBranch
	splitGroup *stack.SplitGroupError
	predict    PredictResult
	err        error
}

// SyncAll rebases every stack-owned branch onto remote/defaultBranch, in
// an order that processes the currently checked-out branch last: if a
// branch earlier in the list fails outright (as opposed to a recorded
// skip), the current branch is guaranteed not to have been touched yet.
// Read-only inspection (stack validation, conflict prediction) for every
// branch runs concurrently, since none of it mutates the repository;
// injection and rebase, the only steps that write, run one branch at a
// time in order.
func (o *Ops) SyncAll(ctx context.Context) (SyncResult, error) {
	branches, err := o.ListStackLocalBranches(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	current, err := o.repo.CurrentBranch(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	ordered := orderCurrentLast(branches, current)

	titles, err := o.groupTitles(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	inspections := make([]syncInspection, len(ordered))
	var wg sync.WaitGroup
	for i, b := range ordered {
		wg.Add(1)
		go func(i int, b StackBranch) {
			defer wg.Done()
			inspections[i] = o.inspectForSync(ctx, b, titles)
		}(i, b)
	}
	wg.Wait()

	onto := o.cfg.Remote + "/" + o.cfg.DefaultBranch
	ontoSha, err := o.repo.FullHash(ctx, onto)
	if err != nil {
		return SyncResult{}, err
	}

	var result SyncResult
	for _, insp := range inspections {
		if insp.err != nil {
			return SyncResult{}, insp.err
		}

		b := insp.branch
		if insp.splitGroup != nil {
			result.Skipped = append(result.Skipped, SyncSkipped{
				Branch: b.Name, Reason: "split-group", Group: insp.splitGroup.Group,
			})
			continue
		}

		idsInjected := 0
		if b.HasMissingIDs {
			modified, _, err := o.InjectMissingIDs(ctx, b.Name)
			if err != nil {
				return SyncResult{}, err
			}
			idsInjected = modified
		}

		if !insp.predict.OK {
			result.Skipped = append(result.Skipped, SyncSkipped{
				Branch: b.Name, Reason: "conflict", Files: insp.predict.Files,
			})
			continue
		}

		base, err := o.repo.GetMergeBase(ctx, b.Name, onto)
		if err != nil {
			return SyncResult{}, err
		}
		if base == ontoSha {
			result.Skipped = append(result.Skipped, SyncSkipped{Branch: b.Name, Reason: "up-to-date"})
			continue
		}

		rebaseResult, err := o.RebaseOntoTrunk(ctx, b.Name)
		if err != nil {
			return SyncResult{}, err
		}
		if rebaseResult.Err != nil {
			var files []string
			if rebaseResult.Err.Conflict != nil {
				files = rebaseResult.Err.Conflict.Files
			}
			result.Skipped = append(result.Skipped, SyncSkipped{Branch: b.Name, Reason: rebaseResult.Err.Reason, Files: files})
			continue
		}

		result.Rebased = append(result.Rebased, SyncRebased{
			Branch:      b.Name,
			CommitCount: rebaseResult.Ok.CommitCount,
			IDsInjected: idsInjected,
		})
	}

	return result, nil
}

func (o *Ops) inspectForSync(ctx context.Context, b StackBranch, titles stack.GroupTitles) syncInspection {
	_, commits, err := o.currentStack(ctx, b.Name)
	if err != nil {
		return syncInspection{branch: b, err: err}
	}

	if _, err := stack.ParseStack(commits, titles); err != nil {
		if split, ok := err.(*stack.SplitGroupError); ok { //nolint:errorlint // our own sentinel type
			return syncInspection{branch: b, splitGroup: split}
		}
		return syncInspection{branch: b, err: err}
	}

	predict, err := o.PredictRebaseConflicts(ctx, b.Name, "")
	if err != nil {
		return syncInspection{branch: b, err: err}
	}
	return syncInspection{branch: b, predict: predict}
}

// orderCurrentLast moves the branch named current, if present, to the end
// of branches, preserving the relative order of everything else.
func orderCurrentLast(branches []StackBranch, current string) []StackBranch {
	ordered := make([]StackBranch, 0, len(branches))
	var last *StackBranch
	for i, b := range branches {
		if b.Name == current {
			cp := branches[i]
			last = &cp
			continue
		}
		ordered = append(ordered, b)
	}
	if last != nil {
		ordered = append(ordered, *last)
	}
	return ordered
}
