package ops

import (
	"context"

	"spry.sh/spry/internal/spryerr"
	"spry.sh/spry/internal/stack"
	"spry.sh/spry/internal/store"
	"spry.sh/spry/internal/trailer"
	"spry.sh/spry/internal/vcs"
)

// GroupSpecGroup names one new or updated review group: the commits it
// should contain (any ref §4.3 can resolve) and its display title.
type GroupSpecGroup struct {
	Commits []string
	Name    string
}

// GroupSpec is a full reorder-and-group instruction: an optional new
// commit order, plus the groups to carve out of it. Commits not mentioned
// in Order keep their original relative order at the tail; commits not
// claimed by any Groups entry end up ungrouped.
type GroupSpec struct {
	Order  []string
	Groups []GroupSpecGroup
}

// resolveRefs resolves every ref in refs against commits, failing on the
// first one that does not name a commit in the stack. groupName labels the
// error; callers pass "order" for the top-level reorder list.
func resolveRefs(refs []string, commits []vcs.Commit, groupName string) ([]vcs.Hash, error) {
	hashes := make([]vcs.Hash, 0, len(refs))
	for _, ref := range refs {
		hash, ok := stack.ResolveCommitRef(ref, commits)
		if !ok {
			return nil, &spryerr.UnknownReferenceError{GroupName: groupName, Ref: ref}
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

// buildOrder applies spec's Order to commits: the resolved order refs
// first, then every commit not mentioned, in its original relative order.
func buildOrder(orderRefs []vcs.Hash, commits []vcs.Commit) []vcs.Hash {
	if len(orderRefs) == 0 {
		order := make([]vcs.Hash, len(commits))
		for i, c := range commits {
			order[i] = c.Hash
		}
		return order
	}

	mentioned := make(map[vcs.Hash]bool, len(orderRefs))
	for _, h := range orderRefs {
		mentioned[h] = true
	}

	order := append([]vcs.Hash{}, orderRefs...)
	for _, c := range commits {
		if !mentioned[c.Hash] {
			order = append(order, c.Hash)
		}
	}
	return order
}

// checkContiguous verifies every hash in group occupies a contiguous run
// of positions within order.
func checkContiguous(group []vcs.Hash, order []vcs.Hash) bool {
	position := make(map[vcs.Hash]int, len(order))
	for i, h := range order {
		position[h] = i
	}

	min, max := -1, -1
	for _, h := range group {
		p := position[h]
		if min == -1 || p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return max-min+1 == len(group)
}

// ApplyGroupSpec resolves, reorders, and regroups the stack of branch (or
// the current branch's, if branch is empty) per spec. Every commit's
// message is rebuilt: an existing Spry-Group trailer is always stripped
// first, so re-applying the same spec replaces the old trailer rather than
// accumulating a second one, and a fresh group id is generated for every
// spec group on every application.
func (o *Ops) ApplyGroupSpec(ctx context.Context, branch string, spec GroupSpec) (int, error) {
	worktreeDir, err := o.checkDetached(ctx, branch)
	if err != nil {
		return 0, err
	}

	ref := branch
	if ref == "" {
		ref = "HEAD"
	}

	_, commits, err := o.currentStack(ctx, branch)
	if err != nil {
		return 0, err
	}
	if len(commits) == 0 {
		return 0, nil
	}

	oldTip, err := o.repo.FullHash(ctx, ref)
	if err != nil {
		return 0, err
	}

	orderRefs, err := resolveRefs(spec.Order, commits, "order")
	if err != nil {
		return 0, err
	}
	order := buildOrder(orderRefs, commits)

	groupIDs := make([]string, len(spec.Groups))
	groupCommits := make([][]vcs.Hash, len(spec.Groups))
	assignment := map[vcs.Hash]string{}
	for i, g := range spec.Groups {
		hashes, err := resolveRefs(g.Commits, commits, g.Name)
		if err != nil {
			return 0, err
		}
		if !checkContiguous(hashes, order) {
			return 0, &spryerr.NonContiguousGroupError{GroupName: g.Name}
		}

		id := stack.GenerateCommitID()
		groupIDs[i] = id
		groupCommits[i] = hashes
		for _, h := range hashes {
			assignment[h] = id
		}
	}

	byHash := make(map[vcs.Hash]vcs.Commit, len(commits))
	for _, c := range commits {
		byHash[c.Hash] = c
	}

	rewrites := make(map[vcs.Hash]string, len(order))
	for _, h := range order {
		c := byHash[h]
		message := c.Subject
		if c.Body != "" {
			message = c.Subject + "\n\n" + c.Body
		}
		message = trailer.RemoveTrailers(message, "Spry-Group")
		if id, ok := assignment[h]; ok {
			message = trailer.AddTrailers(message, trailer.Trailers{"Spry-Group": id})
		}
		rewrites[h] = message
	}

	result, err := o.repo.RewriteCommitChain(ctx, order, rewrites)
	if err != nil {
		return 0, err
	}

	if err := o.finalize(ctx, branch, oldTip, result.NewTip, worktreeDir); err != nil {
		return 0, err
	}

	if len(spec.Groups) > 0 {
		titles, err := store.ReadGroupTitles(ctx, o.repo, o.user)
		if err != nil {
			return 0, err
		}
		for i, g := range spec.Groups {
			titles[groupIDs[i]] = g.Name
		}
		if err := store.WriteGroupTitles(ctx, o.repo, o.user, titles); err != nil {
			return 0, err
		}
	}

	return len(order), nil
}

// DissolveGroup strips the Spry-Group trailer (and the legacy
// Spry-Group-Title key, if present) from every commit in branch's stack
// bearing groupID. A groupID not present in the stack is a no-op success.
func (o *Ops) DissolveGroup(ctx context.Context, branch, groupID string) (int, error) {
	worktreeDir, err := o.checkDetached(ctx, branch)
	if err != nil {
		return 0, err
	}

	ref := branch
	if ref == "" {
		ref = "HEAD"
	}

	_, commits, err := o.currentStack(ctx, branch)
	if err != nil {
		return 0, err
	}
	if len(commits) == 0 {
		return 0, nil
	}

	oldTip, err := o.repo.FullHash(ctx, ref)
	if err != nil {
		return 0, err
	}

	hashes := make([]vcs.Hash, len(commits))
	rewrites := map[vcs.Hash]string{}
	modified := 0
	for i, c := range commits {
		hashes[i] = c.Hash
		trailers := trailer.ParseTrailers(c.Body)
		if trailers["Spry-Group"] != groupID {
			continue
		}

		message := c.Subject
		if c.Body != "" {
			message = c.Subject + "\n\n" + c.Body
		}
		rewrites[c.Hash] = trailer.RemoveTrailers(message, "Spry-Group", "Spry-Group-Title")
		modified++
	}

	if modified == 0 {
		return 0, nil
	}

	result, err := o.repo.RewriteCommitChain(ctx, hashes, rewrites)
	if err != nil {
		return 0, err
	}
	if err := o.finalize(ctx, branch, oldTip, result.NewTip, worktreeDir); err != nil {
		return 0, err
	}
	return modified, nil
}

// MergeSplitGroup reorders branch's stack so every commit carrying
// Spry-Group: groupID becomes contiguous (the first occurrence's position
// is kept; interrupting commits move after the group), then re-applies the
// grouping. The title is looked up in GroupTitles; if absent, the first
// group commit's subject is used.
func (o *Ops) MergeSplitGroup(ctx context.Context, branch, groupID string) (int, error) {
	_, commits, err := o.currentStack(ctx, branch)
	if err != nil {
		return 0, err
	}

	var groupHashes []vcs.Hash
	var order []string
	firstSubject := ""
	for _, c := range commits {
		trailers := trailer.ParseTrailers(c.Body)
		if trailers["Spry-Group"] == groupID {
			groupHashes = append(groupHashes, c.Hash)
			if firstSubject == "" {
				firstSubject = c.Subject
			}
		}
	}
	if len(groupHashes) == 0 {
		return 0, nil
	}

	nonGroup := map[vcs.Hash]bool{}
	for _, h := range groupHashes {
		nonGroup[h] = true
	}

	inserted := false
	for _, c := range commits {
		if nonGroup[c.Hash] {
			if !inserted {
				for _, h := range groupHashes {
					order = append(order, string(h))
				}
				inserted = true
			}
			continue
		}
		order = append(order, string(c.Hash))
	}

	titles, err := o.groupTitles(ctx)
	if err != nil {
		return 0, err
	}
	title := titles[groupID]
	if title == "" {
		title = firstSubject
	}

	commitRefs := make([]string, len(groupHashes))
	for i, h := range groupHashes {
		commitRefs[i] = string(h)
	}

	return o.ApplyGroupSpec(ctx, branch, GroupSpec{
		Order:  order,
		Groups: []GroupSpecGroup{{Commits: commitRefs, Name: title}},
	})
}

// addGroupTrailers adds a single Spry-Group trailer to commit and records
// title in ref storage under groupID.
func (o *Ops) addGroupTrailers(ctx context.Context, branch string, commit vcs.Hash, groupID, title string) error {
	_, commits, err := o.currentStack(ctx, branch)
	if err != nil {
		return err
	}

	worktreeDir, err := o.checkDetached(ctx, branch)
	if err != nil {
		return err
	}

	ref := branch
	if ref == "" {
		ref = "HEAD"
	}
	oldTip, err := o.repo.FullHash(ctx, ref)
	if err != nil {
		return err
	}

	hashes := make([]vcs.Hash, len(commits))
	rewrites := map[vcs.Hash]string{}
	for i, c := range commits {
		hashes[i] = c.Hash
		if c.Hash != commit {
			continue
		}
		message := c.Subject
		if c.Body != "" {
			message = c.Subject + "\n\n" + c.Body
		}
		rewrites[c.Hash] = trailer.AddTrailers(message, trailer.Trailers{"Spry-Group": groupID})
	}

	result, err := o.repo.RewriteCommitChain(ctx, hashes, rewrites)
	if err != nil {
		return err
	}
	if err := o.finalize(ctx, branch, oldTip, result.NewTip, worktreeDir); err != nil {
		return err
	}

	titles, err := store.ReadGroupTitles(ctx, o.repo, o.user)
	if err != nil {
		return err
	}
	titles[groupID] = title
	return store.WriteGroupTitles(ctx, o.repo, o.user, titles)
}

// removeGroupTrailers is addGroupTrailers's inverse: it strips Spry-Group
// from commit without touching any other commit or GroupTitles entry.
func (o *Ops) removeGroupTrailers(ctx context.Context, branch string, commit vcs.Hash) error {
	worktreeDir, err := o.checkDetached(ctx, branch)
	if err != nil {
		return err
	}

	ref := branch
	if ref == "" {
		ref = "HEAD"
	}
	oldTip, err := o.repo.FullHash(ctx, ref)
	if err != nil {
		return err
	}

	_, commits, err := o.currentStack(ctx, branch)
	if err != nil {
		return err
	}

	hashes := make([]vcs.Hash, len(commits))
	rewrites := map[vcs.Hash]string{}
	for i, c := range commits {
		hashes[i] = c.Hash
		if c.Hash != commit {
			continue
		}
		message := c.Subject
		if c.Body != "" {
			message = c.Subject + "\n\n" + c.Body
		}
		rewrites[c.Hash] = trailer.RemoveTrailers(message, "Spry-Group")
	}

	result, err := o.repo.RewriteCommitChain(ctx, hashes, rewrites)
	if err != nil {
		return err
	}
	return o.finalize(ctx, branch, oldTip, result.NewTip, worktreeDir)
}

// FixMode selects how FixStack repairs a detected split-group.
type FixMode int

const (
	// FixDissolve strips the offending group's trailers (the default).
	FixDissolve FixMode = iota
	// FixMergeSplit reorders the group's commits contiguous instead.
	FixMergeSplit
)

// FixStack auto-repairs a split-group error on branch's stack. It is
// idempotent: running it again once the stack already parses cleanly is a
// no-op.
func (o *Ops) FixStack(ctx context.Context, branch string, mode FixMode) (int, error) {
	_, commits, err := o.currentStack(ctx, branch)
	if err != nil {
		return 0, err
	}

	titles, err := o.groupTitles(ctx)
	if err != nil {
		return 0, err
	}

	_, err = stack.ParseStack(commits, titles)
	if err == nil {
		return 0, nil
	}

	split, ok := err.(*stack.SplitGroupError) //nolint:errorlint // our own sentinel type
	if !ok {
		return 0, err
	}

	if mode == FixMergeSplit {
		return o.MergeSplitGroup(ctx, branch, split.Group)
	}
	return o.DissolveGroup(ctx, branch, split.Group)
}
