package stack

import (
	"strings"

	"spry.sh/spry/internal/vcs"
)

// ResolveKind distinguishes the possible outcomes of ResolveIdentifier.
type ResolveKind int

const (
	// Resolved means exactly one unit matched.
	Resolved ResolveKind = iota
	// Ambiguous means more than one unit matched a prefix.
	Ambiguous
	// NotFound means nothing matched.
	NotFound
)

// ResolveResult is the outcome of resolving a user-typed identifier.
type ResolveResult struct {
	Kind      ResolveKind
	Unit      Unit
	Candidates []Unit
}

// ResolveIdentifier resolves a user-typed identifier against units, in the
// order the spec mandates: exact unit-id match, then unique unit-id prefix
// match, then unique commit-hash prefix match (mapped to its containing
// unit).
func ResolveIdentifier(input string, units []Unit, commits []vcs.Commit) ResolveResult {
	for _, u := range units {
		if u.ID == input {
			return ResolveResult{Kind: Resolved, Unit: u}
		}
	}

	var prefixMatches []Unit
	for _, u := range units {
		if strings.HasPrefix(u.ID, input) {
			prefixMatches = append(prefixMatches, u)
		}
	}
	switch len(prefixMatches) {
	case 1:
		return ResolveResult{Kind: Resolved, Unit: prefixMatches[0]}
	default:
		if len(prefixMatches) > 1 {
			return ResolveResult{Kind: Ambiguous, Candidates: prefixMatches}
		}
	}

	hashToUnit := map[vcs.Hash]Unit{}
	for _, u := range units {
		for _, h := range u.Commits {
			hashToUnit[h] = u
		}
	}
	var hashMatches []Unit
	seen := map[string]bool{}
	for _, c := range commits {
		if !strings.HasPrefix(string(c.Hash), input) {
			continue
		}
		u, ok := hashToUnit[c.Hash]
		if !ok || seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		hashMatches = append(hashMatches, u)
	}

	switch len(hashMatches) {
	case 0:
		return ResolveResult{Kind: NotFound}
	case 1:
		return ResolveResult{Kind: Resolved, Unit: hashMatches[0]}
	default:
		return ResolveResult{Kind: Ambiguous, Candidates: hashMatches}
	}
}

// ResolveCommitRef resolves a single ref (full/short hash or
// Spry-Commit-Id) to the concrete commit it names, as required by a group
// spec's commit lists — unlike ResolveIdentifier, this never groups
// commits into units; a ref always names one commit.
func ResolveCommitRef(ref string, commits []vcs.Commit) (vcs.Hash, bool) {
	for _, c := range commits {
		if commitID(c) == ref {
			return c.Hash, true
		}
	}

	var match vcs.Hash
	matches := 0
	for _, c := range commits {
		if strings.HasPrefix(string(c.Hash), ref) {
			match = c.Hash
			matches++
		}
	}
	if matches == 1 {
		return match, true
	}
	return "", false
}

// ResolveUpTo returns all unit ids from the first unit up to and including
// the one matched by input, oldest-first.
func ResolveUpTo(input string, units []Unit, commits []vcs.Commit) ([]string, error) {
	result := ResolveIdentifier(input, units, commits)
	switch result.Kind {
	case NotFound:
		return nil, &NotFoundError{Input: input}
	case Ambiguous:
		return nil, &AmbiguousError{Input: input, Candidates: result.Candidates}
	}

	var ids []string
	for _, u := range units {
		ids = append(ids, u.ID)
		if u.ID == result.Unit.ID {
			break
		}
	}
	return ids, nil
}
