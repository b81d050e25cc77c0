package ops_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"spry.sh/spry/internal/spryerr"
	"spry.sh/spry/internal/trailer"
	"spry.sh/spry/testhelpers"
)

var commitIDRe = regexp.MustCompile(`^[0-9a-f]{8}$`)

func TestInjectMissingIDsOnCleanStack(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, repo := newTestOps(t, scene, "alice")
	ctx := context.Background()

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("first", "a"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("second", "b"))

	head, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)
	before, err := repo.GetCommit(ctx, head)
	require.NoError(t, err)

	modified, rebased, err := o.InjectMissingIDs(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 2, modified)
	require.True(t, rebased)

	newHead, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)
	after, err := repo.GetCommit(ctx, newHead)
	require.NoError(t, err)

	require.Equal(t, before.Tree, after.Tree)
	require.Equal(t, "second", after.Subject)
	trailers := trailer.ParseTrailers(after.Body)
	require.Regexp(t, commitIDRe, trailers["Spry-Commit-Id"])

	parent, err := repo.GetCommit(ctx, after.Parents[0])
	require.NoError(t, err)
	require.Equal(t, "first", parent.Subject)
	parentTrailers := trailer.ParseTrailers(parent.Body)
	require.Regexp(t, commitIDRe, parentTrailers["Spry-Commit-Id"])
}

func TestInjectMissingIDsPreservesExisting(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, repo := newTestOps(t, scene, "alice")
	ctx := context.Background()

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("first\n\nSpry-Commit-Id: abc12345", "a"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("second", "b"))

	modified, rebased, err := o.InjectMissingIDs(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 1, modified)
	require.True(t, rebased)

	head, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)
	second, err := repo.GetCommit(ctx, head)
	require.NoError(t, err)
	secondTrailers := trailer.ParseTrailers(second.Body)
	require.NotEqual(t, "abc12345", secondTrailers["Spry-Commit-Id"])
	require.Regexp(t, commitIDRe, secondTrailers["Spry-Commit-Id"])

	first, err := repo.GetCommit(ctx, second.Parents[0])
	require.NoError(t, err)
	firstTrailers := trailer.ParseTrailers(first.Body)
	require.Equal(t, "abc12345", firstTrailers["Spry-Commit-Id"])
}

func TestInjectMissingIDsEmptyStackIsNoop(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, _ := newTestOps(t, scene, "alice")
	modified, rebased, err := o.InjectMissingIDs(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 0, modified)
	require.False(t, rebased)
}

func TestInjectMissingIDsOnOtherBranchNoWorktree(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, repo := newTestOps(t, scene, "alice")
	ctx := context.Background()

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("first", "a"))
	require.NoError(t, scene.Repo.CheckoutBranch("main"))

	modified, rebased, err := o.InjectMissingIDs(ctx, "feature")
	require.NoError(t, err)
	require.Equal(t, 1, modified)
	require.True(t, rebased)

	current, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	require.Equal(t, "main", current)

	featureHash, err := repo.FullHash(ctx, "feature")
	require.NoError(t, err)
	c, err := repo.GetCommit(ctx, featureHash)
	require.NoError(t, err)
	trailers := trailer.ParseTrailers(c.Body)
	require.Regexp(t, commitIDRe, trailers["Spry-Commit-Id"])
}

func TestInjectMissingIDsRefusesDirtyCurrentBranch(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, repo := newTestOps(t, scene, "alice")
	ctx := context.Background()

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("first", "a"))
	require.NoError(t, scene.Repo.CreateChange("uncommitted", "dirty", true))

	oldHead, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)

	_, _, err = o.InjectMissingIDs(ctx, "")
	require.Error(t, err)
	var dirty *spryerr.DirtyWorkingTreeError
	require.ErrorAs(t, err, &dirty)
	require.Equal(t, "feature", dirty.Branch)

	newHead, err := repo.FullHash(ctx, "HEAD")
	require.NoError(t, err)
	require.Equal(t, oldHead, newHead)
}
