package stack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"spry.sh/spry/internal/vcs"
)

func TestResolveIdentifierExactMatch(t *testing.T) {
	units := []Unit{{ID: "abc12345", Commits: []vcs.Hash{"abc1234500000000000000000000000000000000"}}}
	result := ResolveIdentifier("abc12345", units, nil)
	require.Equal(t, Resolved, result.Kind)
	require.Equal(t, "abc12345", result.Unit.ID)
}

func TestResolveIdentifierUniquePrefixMatch(t *testing.T) {
	units := []Unit{{ID: "abc12345"}, {ID: "ffffffff"}}
	result := ResolveIdentifier("abc1", units, nil)
	require.Equal(t, Resolved, result.Kind)
	require.Equal(t, "abc12345", result.Unit.ID)
}

func TestResolveIdentifierAmbiguousPrefix(t *testing.T) {
	units := []Unit{{ID: "abc11111"}, {ID: "abc22222"}}
	result := ResolveIdentifier("abc", units, nil)
	require.Equal(t, Ambiguous, result.Kind)
	require.Len(t, result.Candidates, 2)
}

func TestResolveIdentifierByCommitHashPrefix(t *testing.T) {
	h := vcs.Hash("deadbeef00000000000000000000000000000000")
	units := []Unit{{ID: "xyz99999", Commits: []vcs.Hash{h}}}
	commits := []vcs.Commit{{Hash: h}}

	result := ResolveIdentifier("deadbeef", units, commits)
	require.Equal(t, Resolved, result.Kind)
	require.Equal(t, "xyz99999", result.Unit.ID)
}

func TestResolveIdentifierNotFound(t *testing.T) {
	result := ResolveIdentifier("nosuchid", nil, nil)
	require.Equal(t, NotFound, result.Kind)
}

func TestResolveUpToReturnsPrefixOfUnits(t *testing.T) {
	units := []Unit{{ID: "a1"}, {ID: "b2"}, {ID: "c3"}}
	ids, err := ResolveUpTo("b2", units, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"a1", "b2"}, ids)
}

func TestResolveUpToNotFoundReturnsError(t *testing.T) {
	units := []Unit{{ID: "a1"}}
	_, err := ResolveUpTo("zzzz", units, nil)
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}
