package forge

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// CurrentUser returns the forge username that owns the ref-storage
// namespace (§4.4): internal/ops writes refs/spry/<user>/... under this
// name, so it must be stable for the lifetime of the process. Resolved
// once per process and memoized, the same way config.Load caches the repo
// configuration — a second GitHub round trip per command would be wasted
// work, and a value that changed mid-run would split one user's stack
// across two ref namespaces.
func (c *GitHubClient) CurrentUser(ctx context.Context) (string, error) {
	memoizedUserOnce.Do(func() {
		u, _, err := c.gh.Users.Get(ctx, "")
		if err != nil {
			memoizedUserErr = fmt.Errorf("get authenticated user: %w", err)
			return
		}
		if u.GetLogin() == "" {
			memoizedUserErr = fmt.Errorf("authenticated user has no login")
			return
		}
		memoizedUser = u.GetLogin()
	})
	return memoizedUser, memoizedUserErr
}

var (
	memoizedUser     string
	memoizedUserOnce sync.Once
	memoizedUserErr  error
)

// ResetCurrentUser clears the per-process memoization. Tests use this to
// observe a fresh lookup after swapping the underlying client.
func ResetCurrentUser() {
	memoizedUserOnce = sync.Once{}
	memoizedUser = ""
	memoizedUserErr = nil
}

// CurrentUserFromGh shells out to the gh CLI, bypassing the go-github
// client entirely. Callers that only need the ref-storage namespace (not a
// full Client) use this so a missing GITHUB_TOKEN doesn't block commands
// that never talk to the forge.
func CurrentUserFromGh(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "gh", "api", "user", "--jq", ".login").Output()
	if err != nil {
		return "", fmt.Errorf("gh api user: %w", err)
	}
	login := strings.TrimSpace(string(out))
	if login == "" {
		return "", fmt.Errorf("gh api user returned an empty login")
	}
	return login, nil
}
