package forge

import (
	"fmt"
	"strings"
)

// RepoRef identifies a GitHub-hosted repository, including the hostname so
// GitHub Enterprise remotes resolve to the right API base URL.
type RepoRef struct {
	Hostname string
	Owner    string
	Repo     string
}

// ParseGitHubRemoteURL extracts hostname, owner, and repo from a git remote
// URL, accepting both SSH (git@host:owner/repo) and HTTPS
// (https://host/owner/repo) forms, github.com or Enterprise.
func ParseGitHubRemoteURL(remoteURL string) (RepoRef, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	remoteURL = strings.TrimSuffix(remoteURL, ".git")

	var hostname, owner, repo string

	if strings.Contains(remoteURL, "@") {
		parts := strings.SplitN(remoteURL, "@", 2)
		if len(parts) != 2 {
			return RepoRef{}, fmt.Errorf("invalid ssh remote url %q", remoteURL)
		}
		hostAndPath := parts[1]

		var path string
		if strings.Contains(hostAndPath, ":") {
			hostPathParts := strings.SplitN(hostAndPath, ":", 2)
			hostname = hostPathParts[0]
			path = hostPathParts[1]
		} else {
			pathParts := strings.SplitN(hostAndPath, "/", 2)
			if len(pathParts) < 2 {
				return RepoRef{}, fmt.Errorf("invalid ssh remote url %q: missing path", remoteURL)
			}
			hostname = pathParts[0]
			path = pathParts[1]
		}

		pathParts := strings.Split(path, "/")
		if len(pathParts) < 2 {
			return RepoRef{}, fmt.Errorf("invalid ssh remote url %q: path must be owner/repo", remoteURL)
		}
		owner = pathParts[0]
		repo = pathParts[len(pathParts)-1]
	} else {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(remoteURL, "https://"), "http://")
		parts := strings.Split(trimmed, "/")
		if len(parts) < 3 {
			return RepoRef{}, fmt.Errorf("invalid https remote url %q: must be protocol://host/owner/repo", remoteURL)
		}
		hostname = parts[0]
		owner = parts[len(parts)-2]
		repo = parts[len(parts)-1]
	}

	if hostname == "" || owner == "" || repo == "" {
		return RepoRef{}, fmt.Errorf("could not parse hostname, owner, or repo from remote url %q", remoteURL)
	}
	return RepoRef{Hostname: hostname, Owner: owner, Repo: repo}, nil
}
