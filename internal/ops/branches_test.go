package ops_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"spry.sh/spry/testhelpers"
)

func TestListStackLocalBranchesFiltersAndFlags(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, repo := newTestOps(t, scene, "alice")
	ctx := context.Background()

	// owned: has Spry-Commit-Id, ahead of trunk.
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("owned"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("owned work\n\nSpry-Commit-Id: aaaaaaaa", "o"))
	require.NoError(t, scene.Repo.CheckoutBranch("main"))

	// missing-id: has commits ahead of trunk but one still lacks the trailer.
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("missing-id"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("tagged\n\nSpry-Commit-Id: bbbbbbbb", "m1"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("untagged", "m2"))
	require.NoError(t, scene.Repo.CheckoutBranch("main"))

	// unowned: ahead of trunk, but never touched by the stacking model.
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("unowned"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("plain commit", "u"))
	require.NoError(t, scene.Repo.CheckoutBranch("main"))

	// not-ahead: branches at trunk, nothing to stack.
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("not-ahead"))
	require.NoError(t, scene.Repo.CheckoutBranch("main"))

	branches, err := o.ListStackLocalBranches(ctx)
	require.NoError(t, err)

	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.Name
	}
	sort.Strings(names)
	require.Equal(t, []string{"missing-id", "owned"}, names)

	byName := make(map[string]int)
	for i, b := range branches {
		byName[b.Name] = i
	}

	require.False(t, branches[byName["owned"]].HasMissingIDs)
	require.Equal(t, 1, branches[byName["owned"]].CommitCount)

	require.True(t, branches[byName["missing-id"]].HasMissingIDs)
	require.Equal(t, 2, branches[byName["missing-id"]].CommitCount)

	current, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	require.Equal(t, "main", current)
}

func TestListStackLocalBranchesSkipsDefaultBranch(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, _ := newTestOps(t, scene, "alice")

	require.NoError(t, scene.Repo.CreateChangeAndCommit("more on main\n\nSpry-Commit-Id: cccccccc", "m"))

	branches, err := o.ListStackLocalBranches(context.Background())
	require.NoError(t, err)
	for _, b := range branches {
		require.NotEqual(t, "main", b.Name)
	}
}
