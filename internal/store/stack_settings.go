package store

import (
	"context"
	"encoding/json"
	"fmt"

	"spry.sh/spry/internal/vcs"
)

// StackConfig is the per-stack override of the process-wide template and
// display options. Fields are pointers so "unset" (inherit the process
// config) is distinguishable from an explicit false.
type StackConfig struct {
	ShowStackLinks     *bool  `json:"showStackLinks,omitempty"`
	IncludePRTemplate  *bool  `json:"includePrTemplate,omitempty"`
	PRTemplateLocation string `json:"prTemplateLocation,omitempty"`
}

// StackSettings is the per-stack configuration and the content-hash map
// used to detect when a downstream PR body needs a refresh.
type StackSettings struct {
	Stacks        map[string]StackConfig `json:"stacks"`
	ContentHashes map[string]string       `json:"contentHashes"`
}

func emptyStackSettings() StackSettings {
	return StackSettings{Stacks: map[string]StackConfig{}, ContentHashes: map[string]string{}}
}

// ReadStackSettings reads the stack-settings blob for user, tolerating a
// missing ref, empty blob, or malformed payload by returning the empty
// value.
func ReadStackSettings(ctx context.Context, repo *vcs.Repo, user string) (StackSettings, error) {
	settings := emptyStackSettings()

	hash, err := repo.GetRef(ctx, StackSettingsRef(user))
	if err != nil {
		return StackSettings{}, fmt.Errorf("resolve stack-settings ref: %w", err)
	}
	if hash.IsZero() {
		return settings, nil
	}

	content, err := repo.ReadBlob(ctx, hash)
	if err != nil {
		return settings, nil //nolint:nilerr // tolerated empty read
	}

	if err := json.Unmarshal(content, &settings); err != nil {
		return emptyStackSettings(), nil //nolint:nilerr // tolerated empty read
	}
	if settings.Stacks == nil {
		settings.Stacks = map[string]StackConfig{}
	}
	if settings.ContentHashes == nil {
		settings.ContentHashes = map[string]string{}
	}
	return settings, nil
}

// WriteStackSettings serializes settings as pretty-printed JSON with a
// trailing newline and moves the user's stack-settings ref onto it.
func WriteStackSettings(ctx context.Context, repo *vcs.Repo, user string, settings StackSettings) error {
	content, err := marshalPretty(settings)
	if err != nil {
		return fmt.Errorf("marshal stack settings: %w", err)
	}

	hash, err := repo.CreateBlob(ctx, content)
	if err != nil {
		return fmt.Errorf("create stack-settings blob: %w", err)
	}

	if err := repo.UpdateRef(ctx, StackSettingsRef(user), hash, ""); err != nil {
		return fmt.Errorf("update stack-settings ref: %w", err)
	}
	return nil
}

// PushStackSettings replicates the user's stack-settings ref to remote.
func PushStackSettings(ctx context.Context, repo *vcs.Repo, remote, user string) error {
	ref := StackSettingsRef(user)
	return repo.PushRef(ctx, remote, ref, ref)
}

// FetchStackSettings replicates the user's stack-settings ref from remote.
func FetchStackSettings(ctx context.Context, repo *vcs.Repo, remote, user string) error {
	ref := StackSettingsRef(user)
	return repo.FetchRef(ctx, remote, ref, ref)
}
