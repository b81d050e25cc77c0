package config

import (
	"context"
	"fmt"
	"strings"

	"spry.sh/spry/internal/spryerr"
	"spry.sh/spry/internal/vcs"
)

const refsRemotesPrefix = "refs/remotes/"
const refsHeadsPrefix = "refs/heads/"

// DetectDefaultBranch resolves the trunk branch name. Preferred path: the
// local refs/remotes/<remote>/HEAD symbolic ref. Fallback: ask the remote
// directly for its HEAD symbolic ref. If neither succeeds, returns a
// ConfigMissingError instructing the user to set spry.defaultBranch.
func DetectDefaultBranch(ctx context.Context, repo *vcs.Repo, remote string) (string, error) {
	localRef := fmt.Sprintf("%s%s/HEAD", refsRemotesPrefix, remote)
	if target, err := repo.SymbolicRef(ctx, localRef); err == nil && target != "" {
		if name, ok := strings.CutPrefix(target, fmt.Sprintf("%s%s/", refsRemotesPrefix, remote)); ok {
			return name, nil
		}
	}

	if target, err := repo.LsRemoteHead(ctx, remote); err == nil && target != "" {
		if name, ok := strings.CutPrefix(target, refsHeadsPrefix); ok {
			return name, nil
		}
	}

	return "", &spryerr.ConfigMissingError{Option: fmt.Sprintf("%s.defaultBranch", appName)}
}
