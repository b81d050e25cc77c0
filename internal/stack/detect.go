package stack

import (
	"fmt"

	"spry.sh/spry/internal/trailer"
	"spry.sh/spry/internal/vcs"
)

// SplitGroupError reports that a group's commits were not contiguous: a
// commit bearing the same Spry-Group id was seen again after the group had
// already been closed by an interrupting commit.
type SplitGroupError struct {
	Group               string
	InterruptingCommits []vcs.Hash
}

func (e *SplitGroupError) Error() string {
	return fmt.Sprintf("group %q split by %d interrupting commit(s)", e.Group, len(e.InterruptingCommits))
}

func commitID(c vcs.Commit) string {
	trailers := trailer.ParseTrailers(c.Body)
	if id, ok := trailers["Spry-Commit-Id"]; ok && id != "" {
		return id
	}
	return shortHash(c.Hash)
}

func shortHash(h vcs.Hash) string {
	s := string(h)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

type openGroup struct {
	id        string
	commitIDs []string
	commits   []vcs.Hash
	subjects  []string
}

func (g *openGroup) toUnit(titles GroupTitles) Unit {
	return Unit{
		Kind:      Group,
		ID:        g.id,
		Title:     titles[g.id],
		CommitIDs: g.commitIDs,
		Commits:   g.commits,
		Subjects:  g.subjects,
	}
}

// DetectPRUnits walks commits oldest-first and partitions them into review
// units. A run of commits sharing the same Spry-Group id (uninterrupted)
// becomes one Group unit; everything else becomes a Single unit.
func DetectPRUnits(commits []vcs.Commit, titles GroupTitles) []Unit {
	units, _ := walkUnits(commits, titles)
	return units
}

// walkUnits does the single pass shared by DetectPRUnits and ParseStack. It
// also reports, for every group id once it is closed, the full ordered list
// of commit hashes seen carrying that group id. Both callers discard this
// second result; ParseStack finds split groups with its own scan of each
// group's first and last position.
func walkUnits(commits []vcs.Commit, titles GroupTitles) (units []Unit, closedGroupCommits map[string][]vcs.Hash) {
	closedGroupCommits = map[string][]vcs.Hash{}
	var open *openGroup

	closeOpen := func() {
		if open == nil {
			return
		}
		units = append(units, open.toUnit(titles))
		closedGroupCommits[open.id] = append(closedGroupCommits[open.id], open.commits...)
		open = nil
	}

	for _, c := range commits {
		trailers := trailer.ParseTrailers(c.Body)
		groupID, hasGroup := trailers["Spry-Group"]

		switch {
		case hasGroup && open != nil && open.id == groupID:
			open.commitIDs = append(open.commitIDs, commitID(c))
			open.commits = append(open.commits, c.Hash)
			open.subjects = append(open.subjects, c.Subject)
		case hasGroup:
			closeOpen()
			open = &openGroup{
				id:        groupID,
				commitIDs: []string{commitID(c)},
				commits:   []vcs.Hash{c.Hash},
				subjects:  []string{c.Subject},
			}
		default:
			closeOpen()
			units = append(units, Unit{
				Kind:      Single,
				ID:        commitID(c),
				Title:     c.Subject,
				CommitIDs: []string{commitID(c)},
				Commits:   []vcs.Hash{c.Hash},
				Subjects:  []string{c.Subject},
			})
		}
	}
	closeOpen()

	return units, closedGroupCommits
}

// ParseStack is DetectPRUnits plus validation: if a group's commits are
// split by an interrupting commit that does not carry that group's id, it
// returns a SplitGroupError naming the group and the interrupting commits
// (those appearing between the group's first and last occurrence with no
// Spry-Group trailer, or with a different group id).
func ParseStack(commits []vcs.Commit, titles GroupTitles) ([]Unit, error) {
	firstSeen := map[string]int{}
	lastSeen := map[string]int{}
	for i, c := range commits {
		trailers := trailer.ParseTrailers(c.Body)
		groupID, hasGroup := trailers["Spry-Group"]
		if !hasGroup {
			continue
		}
		if _, ok := firstSeen[groupID]; !ok {
			firstSeen[groupID] = i
		}
		lastSeen[groupID] = i
	}

	for groupID, first := range firstSeen {
		last := lastSeen[groupID]
		var interrupting []vcs.Hash
		for i := first; i <= last; i++ {
			trailers := trailer.ParseTrailers(commits[i].Body)
			if g, ok := trailers["Spry-Group"]; !ok || g != groupID {
				interrupting = append(interrupting, commits[i].Hash)
			}
		}
		if len(interrupting) > 0 {
			return nil, &SplitGroupError{Group: groupID, InterruptingCommits: interrupting}
		}
	}

	units, _ := walkUnits(commits, titles)
	return units, nil
}
