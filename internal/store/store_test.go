package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"spry.sh/spry/internal/store"
	"spry.sh/spry/internal/vcs"
	"spry.sh/spry/testhelpers"
)

func TestReadGroupTitlesMissingRefIsEmpty(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("a", "a"))

	ctx := context.Background()
	repo, err := vcs.Open(scene.Dir)
	require.NoError(t, err)

	titles, err := store.ReadGroupTitles(ctx, repo, "alice")
	require.NoError(t, err)
	require.Empty(t, titles)
}

func TestWriteThenReadGroupTitlesRoundtrips(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("a", "a"))

	ctx := context.Background()
	repo, err := vcs.Open(scene.Dir)
	require.NoError(t, err)

	require.NoError(t, store.WriteGroupTitles(ctx, repo, "alice", store.GroupTitles{"g1": "My Feature"}))

	titles, err := store.ReadGroupTitles(ctx, repo, "alice")
	require.NoError(t, err)
	require.Equal(t, "My Feature", titles["g1"])
}

func TestPurgeOrphanedTitlesRemovesUnreferencedIDs(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("a", "a"))

	ctx := context.Background()
	repo, err := vcs.Open(scene.Dir)
	require.NoError(t, err)

	require.NoError(t, store.WriteGroupTitles(ctx, repo, "alice", store.GroupTitles{
		"g1": "Kept",
		"g2": "Orphan",
	}))

	purged, err := store.PurgeOrphanedTitles(ctx, repo, "alice", map[string]bool{"g1": true})
	require.NoError(t, err)
	require.Equal(t, []string{"g2"}, purged)

	titles, err := store.ReadGroupTitles(ctx, repo, "alice")
	require.NoError(t, err)
	require.Equal(t, store.GroupTitles{"g1": "Kept"}, titles)
}

func TestPurgeOrphanedTitlesNoopWhenNothingOrphaned(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("a", "a"))

	ctx := context.Background()
	repo, err := vcs.Open(scene.Dir)
	require.NoError(t, err)

	require.NoError(t, store.WriteGroupTitles(ctx, repo, "alice", store.GroupTitles{"g1": "Kept"}))

	purged, err := store.PurgeOrphanedTitles(ctx, repo, "alice", map[string]bool{"g1": true})
	require.NoError(t, err)
	require.Empty(t, purged)
}

func TestReadStackSettingsMissingRefIsEmpty(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("a", "a"))

	ctx := context.Background()
	repo, err := vcs.Open(scene.Dir)
	require.NoError(t, err)

	settings, err := store.ReadStackSettings(ctx, repo, "alice")
	require.NoError(t, err)
	require.Empty(t, settings.Stacks)
	require.Empty(t, settings.ContentHashes)
}

func TestWriteThenReadStackSettingsRoundtrips(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("a", "a"))

	ctx := context.Background()
	repo, err := vcs.Open(scene.Dir)
	require.NoError(t, err)

	showLinks := true
	settings := store.StackSettings{
		Stacks: map[string]store.StackConfig{
			"root1": {ShowStackLinks: &showLinks, PRTemplateLocation: "afterBody"},
		},
		ContentHashes: map[string]string{"unit1": "deadbeef"},
	}
	require.NoError(t, store.WriteStackSettings(ctx, repo, "alice", settings))

	got, err := store.ReadStackSettings(ctx, repo, "alice")
	require.NoError(t, err)
	require.Equal(t, "afterBody", got.Stacks["root1"].PRTemplateLocation)
	require.Equal(t, "deadbeef", got.ContentHashes["unit1"])
}
