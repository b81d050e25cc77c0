package main

import (
	"context"
	"fmt"
	"os"

	"spry.sh/spry/internal/config"
	"spry.sh/spry/internal/forge"
	"spry.sh/spry/internal/ops"
	"spry.sh/spry/internal/spryctx"
	"spry.sh/spry/internal/vcs"
)

// bootstrap opens the repository rooted at the current working directory,
// loads configuration, resolves the ref-storage username, and wires
// together an *ops.Ops. Every subcommand calls this first; cobra's RunE
// then only has to translate flags into an ops.* call and print the
// result.
func bootstrap(ctx context.Context) (*ops.Ops, error) {
	if err := vcs.CheckVersion(ctx); err != nil {
		return nil, err
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	repo, err := vcs.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", dir, err)
	}

	cfg, err := config.Load(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	user, err := resolveUser(ctx, repo, cfg.Remote)
	if err != nil {
		return nil, err
	}

	logger, closer, err := spryctx.NewLogger(os.Getenv("SPRY_LOG_FILE"))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	return ops.New(repo, cfg, user, logger), nil
}

// resolveUser prefers a live GitHub client (so the same login that will
// own any PRs this process touches also owns its ref-storage namespace),
// falling back to the gh CLI directly when no token is configured — the
// stack-engine commands never call the forge, so a missing GITHUB_TOKEN
// should not block them.
func resolveUser(ctx context.Context, repo *vcs.Repo, remote string) (string, error) {
	if client, err := forge.NewGitHubClient(ctx, repo, remote); err == nil {
		if user, err := client.CurrentUser(ctx); err == nil {
			return user, nil
		}
	}

	user, err := forge.CurrentUserFromGh(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve forge username (set GITHUB_TOKEN or run `gh auth login`): %w", err)
	}
	return user, nil
}
