package ops_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"spry.sh/spry/internal/ops"
	"spry.sh/spry/testhelpers"
)

func TestSyncAllMixedOutcomes(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(scene.Dir, "shared.txt"), []byte("line1\nline2\nline3\n"), 0o644))
	require.NoError(t, scene.Repo.RunGitCommand("add", "."))
	require.NoError(t, scene.Repo.RunGitCommand("commit", "-m", "base"))

	o, repo := newTestOps(t, scene, "alice")
	ctx := context.Background()

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("clean"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("clean work\n\nSpry-Commit-Id: aaaaaaaa", "clean"))
	require.NoError(t, scene.Repo.CheckoutBranch("main"))

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("conflict"))
	require.NoError(t, os.WriteFile(filepath.Join(scene.Dir, "shared.txt"), []byte("line1\nCONFLICT\nline3\n"), 0o644))
	require.NoError(t, scene.Repo.RunGitCommand("add", "."))
	require.NoError(t, scene.Repo.RunGitCommand("commit", "-m", "conflict work\n\nSpry-Commit-Id: bbbbbbbb"))
	require.NoError(t, scene.Repo.CheckoutBranch("main"))

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("split"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("split a\n\nSpry-Commit-Id: cccccccc\nSpry-Group: g1", "sa"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("split b\n\nSpry-Commit-Id: dddddddd", "sb"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("split c\n\nSpry-Commit-Id: eeeeeeee\nSpry-Group: g1", "sc"))
	require.NoError(t, scene.Repo.CheckoutBranch("main"))

	require.NoError(t, os.WriteFile(filepath.Join(scene.Dir, "shared.txt"), []byte("line1\nUPSTREAM\nline3\n"), 0o644))
	require.NoError(t, scene.Repo.RunGitCommand("add", "."))
	require.NoError(t, scene.Repo.RunGitCommand("commit", "-m", "upstream work"))
	pointOriginMain(t, repo, "main")

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("uptodate"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("uptodate work\n\nSpry-Commit-Id: ffffffff", "ut"))

	result, err := o.SyncAll(ctx)
	require.NoError(t, err)

	rebasedBranches := map[string]ops.SyncRebased{}
	for _, r := range result.Rebased {
		rebasedBranches[r.Branch] = r
	}
	skippedBranches := map[string]ops.SyncSkipped{}
	for _, s := range result.Skipped {
		skippedBranches[s.Branch] = s
	}

	require.Contains(t, rebasedBranches, "clean")
	require.Equal(t, 1, rebasedBranches["clean"].CommitCount)

	require.Contains(t, skippedBranches, "conflict")
	require.Equal(t, "conflict", skippedBranches["conflict"].Reason)
	require.Contains(t, skippedBranches["conflict"].Files, "shared.txt")

	require.Contains(t, skippedBranches, "split")
	require.Equal(t, "split-group", skippedBranches["split"].Reason)
	require.Equal(t, "g1", skippedBranches["split"].Group)

	require.Contains(t, skippedBranches, "uptodate")
	require.Equal(t, "up-to-date", skippedBranches["uptodate"].Reason)

	current, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	require.Equal(t, "uptodate", current)
}

func TestSyncAllNoStackBranchesIsEmpty(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, _ := newTestOps(t, scene, "alice")
	result, err := o.SyncAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, result.Rebased)
	require.Empty(t, result.Skipped)
}
