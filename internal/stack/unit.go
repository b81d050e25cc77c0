package stack

import "spry.sh/spry/internal/vcs"

// Kind distinguishes the two ReviewUnit variants.
type Kind int

const (
	// Single is one commit, one PR.
	Single Kind = iota
	// Group is a contiguous run of commits sharing a Spry-Group value, one PR.
	Group
)

// Unit is one PR's worth of change: either a single commit or a contiguous
// group of commits sharing a group id.
type Unit struct {
	Kind      Kind
	ID        string
	Title     string // subject for Single; looked-up title (possibly empty) for Group
	CommitIDs []string
	Commits   []vcs.Hash
	Subjects  []string
}

// GroupTitles maps a group id to its human-readable title.
type GroupTitles map[string]string
