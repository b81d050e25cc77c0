package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"spry.sh/spry/internal/vcs"
)

// GroupTitles maps a group id to its human-readable title.
type GroupTitles map[string]string

// ReadGroupTitles reads the group-titles blob for user. A missing ref, an
// empty blob, or a non-object payload all yield the empty map rather than
// an error: this side channel is advisory and callers always have a
// sensible fallback (the group's first commit subject).
func ReadGroupTitles(ctx context.Context, repo *vcs.Repo, user string) (GroupTitles, error) {
	titles := GroupTitles{}

	hash, err := repo.GetRef(ctx, GroupTitlesRef(user))
	if err != nil {
		return nil, fmt.Errorf("resolve group-titles ref: %w", err)
	}
	if hash.IsZero() {
		return titles, nil
	}

	content, err := repo.ReadBlob(ctx, hash)
	if err != nil {
		return titles, nil //nolint:nilerr // malformed/missing blob is a tolerated empty read
	}

	if err := json.Unmarshal(content, &titles); err != nil {
		return GroupTitles{}, nil //nolint:nilerr // non-object payload is a tolerated empty read
	}
	return titles, nil
}

// WriteGroupTitles serializes titles as pretty-printed JSON with a
// trailing newline, hashes it into a blob, and moves the user's
// group-titles ref onto that blob.
func WriteGroupTitles(ctx context.Context, repo *vcs.Repo, user string, titles GroupTitles) error {
	content, err := marshalPretty(titles)
	if err != nil {
		return fmt.Errorf("marshal group titles: %w", err)
	}

	hash, err := repo.CreateBlob(ctx, content)
	if err != nil {
		return fmt.Errorf("create group-titles blob: %w", err)
	}

	if err := repo.UpdateRef(ctx, GroupTitlesRef(user), hash, ""); err != nil {
		return fmt.Errorf("update group-titles ref: %w", err)
	}
	return nil
}

// PushGroupTitles replicates the user's group-titles ref to remote. A
// remote lacking the ref is not an error.
func PushGroupTitles(ctx context.Context, repo *vcs.Repo, remote, user string) error {
	ref := GroupTitlesRef(user)
	return repo.PushRef(ctx, remote, ref, ref)
}

// FetchGroupTitles replicates the user's group-titles ref from remote. A
// remote lacking the ref is not an error.
func FetchGroupTitles(ctx context.Context, repo *vcs.Repo, remote, user string) error {
	ref := GroupTitlesRef(user)
	return repo.FetchRef(ctx, remote, ref, ref)
}

// PurgeOrphanedTitles deletes title entries whose group id is not in
// currentGroupIDs, rewrites the blob if anything changed, and returns the
// purged ids.
func PurgeOrphanedTitles(ctx context.Context, repo *vcs.Repo, user string, currentGroupIDs map[string]bool) ([]string, error) {
	titles, err := ReadGroupTitles(ctx, repo, user)
	if err != nil {
		return nil, err
	}

	var purged []string
	for id := range titles {
		if !currentGroupIDs[id] {
			purged = append(purged, id)
		}
	}
	if len(purged) == 0 {
		return nil, nil
	}

	sort.Strings(purged)
	for _, id := range purged {
		delete(titles, id)
	}

	if err := WriteGroupTitles(ctx, repo, user, titles); err != nil {
		return nil, err
	}
	return purged, nil
}

func marshalPretty(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
