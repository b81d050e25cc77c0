package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"spry.sh/spry/internal/vcs"
)

// appName prefixes every recognized git-config key: spry.branchPrefix,
// spry.defaultBranch, and so on.
const appName = "spry"

// TemplateLocation is where the PR-body template text is placed relative
// to the generated body.
type TemplateLocation string

const (
	TemplatePrepend         TemplateLocation = "prepend"
	TemplateAfterBody       TemplateLocation = "afterBody"
	TemplateAfterStackLinks TemplateLocation = "afterStackLinks"
	TemplateAppend          TemplateLocation = "append"
)

// Config is the engine's process-wide configuration.
type Config struct {
	BranchPrefix       string
	DefaultBranch      string
	Remote             string
	TempCommitPrefixes []string
	ShowStackLinks     bool
	IncludePRTemplate  bool
	PRTemplateLocation TemplateLocation
}

func defaults() Config {
	return Config{
		BranchPrefix:       "spry",
		Remote:             "origin",
		TempCommitPrefixes: []string{"WIP", "fixup!", "amend!", "squash!"},
		ShowStackLinks:     true,
		IncludePRTemplate:  true,
		PRTemplateLocation: TemplateAfterBody,
	}
}

var (
	memoized     *Config
	memoizedOnce sync.Once
	memoizedErr  error
)

// Load reads configuration from repo's config store, falling back to
// defaults for anything unset, and memoizes the result for the lifetime
// of the process. Call Reset (tests only) to force a re-read.
func Load(ctx context.Context, repo *vcs.Repo) (*Config, error) {
	memoizedOnce.Do(func() {
		memoized, memoizedErr = load(ctx, repo)
	})
	return memoized, memoizedErr
}

// Reset clears the per-process memoization. Tests use this to observe a
// fresh config after changing the underlying git config or repo.
func Reset() {
	memoizedOnce = sync.Once{}
	memoized = nil
	memoizedErr = nil
}

func load(ctx context.Context, repo *vcs.Repo) (*Config, error) {
	cfg := defaults()

	if v, ok, err := getString(ctx, repo, "branchPrefix"); err != nil {
		return nil, err
	} else if ok {
		cfg.BranchPrefix = v
	}

	if v, ok, err := getString(ctx, repo, "remote"); err != nil {
		return nil, err
	} else if ok {
		cfg.Remote = v
	}

	if v, ok, err := getString(ctx, repo, "defaultBranch"); err != nil {
		return nil, err
	} else if ok {
		cfg.DefaultBranch = v
	} else {
		branch, err := DetectDefaultBranch(ctx, repo, cfg.Remote)
		if err != nil {
			return nil, err
		}
		cfg.DefaultBranch = branch
	}

	if v, ok, err := getString(ctx, repo, "tempCommitPrefixes"); err != nil {
		return nil, err
	} else if ok && v != "" {
		cfg.TempCommitPrefixes = strings.Split(v, ",")
	}

	if v, ok, err := getBool(ctx, repo, "showStackLinks"); err != nil {
		return nil, err
	} else if ok {
		cfg.ShowStackLinks = v
	}

	if v, ok, err := getBool(ctx, repo, "includePrTemplate"); err != nil {
		return nil, err
	} else if ok {
		cfg.IncludePRTemplate = v
	}

	if v, ok, err := getString(ctx, repo, "prTemplateLocation"); err != nil {
		return nil, err
	} else if ok {
		cfg.PRTemplateLocation = TemplateLocation(v)
	}

	return &cfg, nil
}

func getString(ctx context.Context, repo *vcs.Repo, option string) (string, bool, error) {
	key := fmt.Sprintf("%s.%s", appName, option)
	v, ok, err := repo.ConfigGet(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return v, ok, nil
}

func getBool(ctx context.Context, repo *vcs.Repo, option string) (bool, bool, error) {
	v, ok, err := getString(ctx, repo, option)
	if err != nil || !ok {
		return false, ok, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false, fmt.Errorf("parse %s.%s=%q as bool: %w", appName, option, v, err)
	}
	return b, true, nil
}
