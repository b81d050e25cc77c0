package ops

import (
	"context"
	"fmt"

	"spry.sh/spry/internal/vcs"
)

// PredictResult is the side-effect-free outcome of PredictRebaseConflicts.
type PredictResult struct {
	OK      bool
	Commit  vcs.Hash
	Subject string
	Files   []string
}

// PredictRebaseConflicts runs the same plumbing rebase RebaseOntoTrunk
// would, without finalizing anything: no ref is updated and no working
// directory is touched. onto defaults to remote/defaultBranch when empty.
// It may leave orphan commit objects behind on the success path; that is
// tolerated, not a bug.
func (o *Ops) PredictRebaseConflicts(ctx context.Context, branch, onto string) (PredictResult, error) {
	if onto == "" {
		onto = o.cfg.Remote + "/" + o.cfg.DefaultBranch
	}

	_, commits, err := o.currentStack(ctx, branch)
	if err != nil {
		return PredictResult{}, err
	}
	if len(commits) == 0 {
		return PredictResult{OK: true}, nil
	}

	ontoSha, err := o.repo.FullHash(ctx, onto)
	if err != nil {
		return PredictResult{}, fmt.Errorf("resolve %s: %w", onto, err)
	}

	hashes := make([]vcs.Hash, len(commits))
	subjects := make(map[vcs.Hash]string, len(commits))
	for i, c := range commits {
		hashes[i] = c.Hash
		subjects[c.Hash] = c.Subject
	}

	outcome, err := o.repo.RebasePlumbing(ctx, ontoSha, hashes)
	if err != nil {
		return PredictResult{}, err
	}
	if outcome.Ok != nil {
		return PredictResult{OK: true}, nil
	}

	return PredictResult{
		OK:      false,
		Commit:  outcome.Conflict.Commit,
		Subject: subjects[outcome.Conflict.Commit],
		Files:   parseConflictFiles(outcome.Conflict.ConflictInfo),
	}, nil
}

// PairStatus is the outcome of simulating a single pairwise merge when
// previewing a reorder.
type PairStatus int

const (
	// PairClean means the two commits' file sets don't overlap at all.
	PairClean PairStatus = iota
	// PairWarning means the file sets overlap but the merge is textually clean.
	PairWarning
	// PairConflict means the merge itself conflicts.
	PairConflict
)

// checkFileOverlap returns the files present in both a and b.
func checkFileOverlap(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, f := range a {
		set[f] = true
	}
	var overlap []string
	for _, f := range b {
		if set[f] {
			overlap = append(overlap, f)
		}
	}
	return overlap
}

// simulateMerge reports how two commits would combine against their common
// base. It returns PairClean without touching the VCS when overlap is
// empty, since disjoint file sets can never conflict.
func (o *Ops) simulateMerge(ctx context.Context, base, a, b vcs.Hash, overlap []string) (PairStatus, error) {
	if len(overlap) == 0 {
		return PairClean, nil
	}
	result, err := o.repo.MergeTree(ctx, base, a, b)
	if err != nil {
		return 0, err
	}
	if result.OK {
		return PairWarning, nil
	}
	return PairConflict, nil
}

// checkReorderConflicts previews a reorder: for every pair whose relative
// order is reversed between currentOrder and newOrder, it simulates the
// merge of that pair against base and records every non-clean result,
// keyed "<a>:<b>" using the commits' hashes in newOrder's order.
func (o *Ops) checkReorderConflicts(ctx context.Context, currentOrder, newOrder []vcs.Hash, base vcs.Hash) (map[string]PairStatus, error) {
	position := make(map[vcs.Hash]int, len(currentOrder))
	for i, h := range currentOrder {
		position[h] = i
	}

	files := make(map[vcs.Hash][]string, len(newOrder))
	for _, h := range newOrder {
		f, err := o.repo.GetCommitFiles(ctx, h)
		if err != nil {
			return nil, err
		}
		files[h] = f
	}

	results := map[string]PairStatus{}
	for i := 0; i < len(newOrder); i++ {
		for j := i + 1; j < len(newOrder); j++ {
			a, b := newOrder[i], newOrder[j]
			if position[a] < position[b] {
				continue
			}

			overlap := checkFileOverlap(files[a], files[b])
			status, err := o.simulateMerge(ctx, base, a, b, overlap)
			if err != nil {
				return nil, err
			}
			if status != PairClean {
				results[fmt.Sprintf("%s:%s", a, b)] = status
			}
		}
	}
	return results, nil
}
