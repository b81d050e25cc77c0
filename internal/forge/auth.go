package forge

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"spry.sh/spry/internal/vcs"
)

// resolveToken tries GITHUB_TOKEN first, then the gh CLI's cached
// credential, the same fallback order the teacher's getGitHubToken uses.
func resolveToken(ctx context.Context) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		return "", fmt.Errorf("no GITHUB_TOKEN set and gh auth token failed: %w", err)
	}
	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", fmt.Errorf("gh auth token returned an empty token")
	}
	return token, nil
}

// resolveRepoRef reads the remote's URL from repo's config and parses it.
func resolveRepoRef(ctx context.Context, repo *vcs.Repo, remote string) (RepoRef, error) {
	remoteURL, ok, err := repo.ConfigGet(ctx, fmt.Sprintf("remote.%s.url", remote))
	if err != nil {
		return RepoRef{}, fmt.Errorf("read remote.%s.url: %w", remote, err)
	}
	if !ok {
		return RepoRef{}, fmt.Errorf("remote %q has no url configured", remote)
	}
	return ParseGitHubRemoteURL(remoteURL)
}

func newGitHubClient(ctx context.Context, hostname, token string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if hostname == "github.com" || hostname == "" {
		return client, nil
	}

	baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", hostname))
	if err != nil {
		return nil, fmt.Errorf("parse base url for hostname %s: %w", hostname, err)
	}
	uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", hostname))
	if err != nil {
		return nil, fmt.Errorf("parse upload url for hostname %s: %w", hostname, err)
	}
	client.BaseURL = baseURL
	client.UploadURL = uploadURL
	return client, nil
}
