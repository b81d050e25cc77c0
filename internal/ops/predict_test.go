package ops_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"spry.sh/spry/testhelpers"
)

func TestPredictRebaseConflictsReportsConflict(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(scene.Dir, "shared.txt"), []byte("line1\nline2\nline3\n"), 0o644))
	require.NoError(t, scene.Repo.RunGitCommand("add", "."))
	require.NoError(t, scene.Repo.RunGitCommand("commit", "-m", "base"))

	o, repo := newTestOps(t, scene, "alice")
	ctx := context.Background()

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("x"))
	require.NoError(t, os.WriteFile(filepath.Join(scene.Dir, "shared.txt"), []byte("line1\nX\nline3\n"), 0o644))
	require.NoError(t, scene.Repo.RunGitCommand("add", "."))
	require.NoError(t, scene.Repo.RunGitCommand("commit", "-m", "x edits"))

	require.NoError(t, scene.Repo.CheckoutBranch("main"))
	require.NoError(t, os.WriteFile(filepath.Join(scene.Dir, "shared.txt"), []byte("line1\nY\nline3\n"), 0o644))
	require.NoError(t, scene.Repo.RunGitCommand("add", "."))
	require.NoError(t, scene.Repo.RunGitCommand("commit", "-m", "y edits"))
	pointOriginMain(t, repo, "main")

	result, err := o.PredictRebaseConflicts(ctx, "x", "")
	require.NoError(t, err)
	require.False(t, result.OK)
	require.Equal(t, "x edits", result.Subject)
	require.Contains(t, result.Files, "shared.txt")

	// side-effect-free: the branch and refs are untouched.
	current, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	require.Equal(t, "main", current)
}

func TestPredictRebaseConflictsCleanCase(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("base", "base"))

	o, repo := newTestOps(t, scene, "alice")
	ctx := context.Background()

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("feature work", "f"))

	require.NoError(t, scene.Repo.CheckoutBranch("main"))
	require.NoError(t, os.WriteFile(filepath.Join(scene.Dir, "upstream.txt"), []byte("u"), 0o644))
	require.NoError(t, scene.Repo.RunGitCommand("add", "."))
	require.NoError(t, scene.Repo.RunGitCommand("commit", "-m", "upstream"))
	pointOriginMain(t, repo, "main")

	result, err := o.PredictRebaseConflicts(ctx, "feature", "")
	require.NoError(t, err)
	require.True(t, result.OK)
}
