package ops_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"spry.sh/spry/internal/ops"
	"spry.sh/spry/internal/trailer"
	"spry.sh/spry/internal/vcs"
	"spry.sh/spry/testhelpers"
)

func shortRef(h vcs.Hash) string {
	s := string(h)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func TestApplyGroupSpecReorderAndGroup(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, repo := newTestOps(t, scene, "alice")
	ctx := context.Background()

	baseHash, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("A", "a"))
	aHash, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("B", "b"))
	bHash, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("C", "c"))
	cHash, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)

	spec := ops.GroupSpec{
		Order: []string{shortRef(cHash), shortRef(aHash), shortRef(bHash)},
		Groups: []ops.GroupSpecGroup{
			{Commits: []string{shortRef(cHash), shortRef(aHash)}, Name: "Reordered"},
		},
	}

	modified, err := o.ApplyGroupSpec(ctx, "", spec)
	require.NoError(t, err)
	require.Equal(t, 3, modified)

	head, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)
	commits, err := repo.CommitRange(ctx, baseHash, head)
	require.NoError(t, err)
	require.Len(t, commits, 3)

	require.Equal(t, "C", commits[0].Subject)
	require.Equal(t, "A", commits[1].Subject)
	require.Equal(t, "B", commits[2].Subject)

	cGroup := trailer.ParseTrailers(commits[0].Body)["Spry-Group"]
	aGroup := trailer.ParseTrailers(commits[1].Body)["Spry-Group"]
	bGroup := trailer.ParseTrailers(commits[2].Body)["Spry-Group"]
	require.NotEmpty(t, cGroup)
	require.Equal(t, cGroup, aGroup)
	require.Empty(t, bGroup)
}

func TestApplyGroupSpecUnknownRefFails(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, _ := newTestOps(t, scene, "alice")
	ctx := context.Background()

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("A", "a"))

	_, err := o.ApplyGroupSpec(ctx, "", ops.GroupSpec{
		Groups: []ops.GroupSpecGroup{{Commits: []string{"deadbeef"}, Name: "g"}},
	})
	require.Error(t, err)
}

func TestApplyGroupSpecNonContiguousFails(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, repo := newTestOps(t, scene, "alice")
	ctx := context.Background()

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("A", "a"))
	aHash, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("B", "b"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("C", "c"))
	cHash, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)

	_, err = o.ApplyGroupSpec(ctx, "", ops.GroupSpec{
		Groups: []ops.GroupSpecGroup{{Commits: []string{shortRef(aHash), shortRef(cHash)}, Name: "split"}},
	})
	require.Error(t, err)
}

func TestDissolveGroupStripsTrailers(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, repo := newTestOps(t, scene, "alice")
	ctx := context.Background()

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("A\n\nSpry-Group: g1", "a"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("B\n\nSpry-Group: g1", "b"))

	modified, err := o.DissolveGroup(ctx, "", "g1")
	require.NoError(t, err)
	require.Equal(t, 2, modified)

	head, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)
	c, err := repo.GetCommit(ctx, head)
	require.NoError(t, err)
	require.Empty(t, trailer.ParseTrailers(c.Body)["Spry-Group"])
}

func TestDissolveGroupMissingIDIsNoop(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, _ := newTestOps(t, scene, "alice")
	modified, err := o.DissolveGroup(context.Background(), "", "nonexistent")
	require.NoError(t, err)
	require.Equal(t, 0, modified)
}

func TestFixStackDissolvesSplitGroup(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, repo := newTestOps(t, scene, "alice")
	ctx := context.Background()

	baseHash, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("A\n\nSpry-Group: g1", "a"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("B", "b"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("C\n\nSpry-Group: g1", "c"))

	modified, err := o.FixStack(ctx, "", ops.FixDissolve)
	require.NoError(t, err)
	require.Equal(t, 2, modified)

	head, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)
	commits, err := repo.CommitRange(ctx, baseHash, head)
	require.NoError(t, err)
	for _, c := range commits {
		require.Empty(t, trailer.ParseTrailers(c.Body)["Spry-Group"])
	}
}
