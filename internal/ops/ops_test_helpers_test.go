package ops_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"spry.sh/spry/internal/config"
	"spry.sh/spry/internal/ops"
	"spry.sh/spry/internal/vcs"
	"spry.sh/spry/testhelpers"
)

func newTestOps(t *testing.T, scene *testhelpers.Scene, user string) (*ops.Ops, *vcs.Repo) {
	t.Helper()

	repo, err := vcs.Open(scene.Dir)
	require.NoError(t, err)

	pointOriginMain(t, repo, "HEAD")

	cfg := &config.Config{
		BranchPrefix:       "spry",
		DefaultBranch:      "main",
		Remote:             "origin",
		TempCommitPrefixes: []string{"WIP", "fixup!", "amend!", "squash!"},
	}
	return ops.New(repo, cfg, user, nil), repo
}

// pointOriginMain moves refs/remotes/origin/main to wherever ref resolves,
// standing in for a real remote so tests never need actual network access.
func pointOriginMain(t *testing.T, repo *vcs.Repo, ref string) vcs.Hash {
	t.Helper()
	ctx := context.Background()

	hash, err := repo.FullHash(ctx, ref)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateRef(ctx, "refs/remotes/origin/main", hash, ""))
	return hash
}
