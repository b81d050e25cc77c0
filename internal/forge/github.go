package forge

import (
	"context"
	"fmt"

	"github.com/google/go-github/v62/github"

	"spry.sh/spry/internal/vcs"
)

// GitHubClient implements Client against a real GitHub (or GitHub
// Enterprise) repository.
type GitHubClient struct {
	gh   *github.Client
	repo RepoRef
}

// NewGitHubClient resolves a token (GITHUB_TOKEN, falling back to the gh
// CLI's cached credential) and remote's repository, and constructs an
// Enterprise-aware client.
func NewGitHubClient(ctx context.Context, repo *vcs.Repo, remote string) (*GitHubClient, error) {
	token, err := resolveToken(ctx)
	if err != nil {
		return nil, err
	}
	ref, err := resolveRepoRef(ctx, repo, remote)
	if err != nil {
		return nil, err
	}
	gh, err := newGitHubClient(ctx, ref.Hostname, token)
	if err != nil {
		return nil, err
	}
	return &GitHubClient{gh: gh, repo: ref}, nil
}

// NewGitHubClientFromRaw builds a GitHubClient around an already-configured
// *github.Client — used by tests to point at a mock server, and by callers
// that already have a client from elsewhere.
func NewGitHubClientFromRaw(gh *github.Client, repo RepoRef) *GitHubClient {
	return &GitHubClient{gh: gh, repo: repo}
}

// WithRepo returns a client pinned to a different repository, sharing the
// same underlying HTTP client and credentials — used when a group of
// commits targets a fork or a sibling repo.
func (c *GitHubClient) WithRepo(ref RepoRef) *GitHubClient {
	return &GitHubClient{gh: c.gh, repo: ref}
}

func (c *GitHubClient) FindPRByBranch(ctx context.Context, branch string) (*PullRequest, error) {
	prs, _, err := c.gh.PullRequests.List(ctx, c.repo.Owner, c.repo.Repo, &github.PullRequestListOptions{
		Head:        fmt.Sprintf("%s:%s", c.repo.Owner, branch),
		State:       "all",
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("list pull requests for %s: %w", branch, err)
	}
	if len(prs) == 0 {
		return nil, nil
	}
	return toPullRequest(prs[0]), nil
}

func (c *GitHubClient) FindPRsByBranches(ctx context.Context, branches []string) (map[string]*PullRequest, error) {
	result := make(map[string]*PullRequest, len(branches))
	for _, branch := range branches {
		pr, err := c.FindPRByBranch(ctx, branch)
		if err != nil {
			return nil, err
		}
		result[branch] = pr
	}
	return result, nil
}

func (c *GitHubClient) CreatePR(ctx context.Context, opts CreatePROptions) (*PullRequest, error) {
	newPR := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Head:  github.String(opts.Head),
		Base:  github.String(opts.Base),
		Draft: github.Bool(opts.Draft),
	}
	if opts.Body != "" {
		newPR.Body = github.String(opts.Body)
	}
	created, _, err := c.gh.PullRequests.Create(ctx, c.repo.Owner, c.repo.Repo, newPR)
	if err != nil {
		return nil, fmt.Errorf("create pull request for %s: %w", opts.Head, err)
	}
	return toPullRequest(created), nil
}

func (c *GitHubClient) RetargetPR(ctx context.Context, number int, newBase string) error {
	update := &github.PullRequest{Base: &github.PullRequestBranch{Ref: github.String(newBase)}}
	if _, _, err := c.gh.PullRequests.Edit(ctx, c.repo.Owner, c.repo.Repo, number, update); err != nil {
		return fmt.Errorf("retarget PR #%d to %s: %w", number, newBase, err)
	}
	return nil
}

func (c *GitHubClient) UpdatePRBody(ctx context.Context, number int, body string) error {
	update := &github.PullRequest{Body: github.String(body)}
	if _, _, err := c.gh.PullRequests.Edit(ctx, c.repo.Owner, c.repo.Repo, number, update); err != nil {
		return fmt.Errorf("update body of PR #%d: %w", number, err)
	}
	return nil
}

func (c *GitHubClient) ClosePR(ctx context.Context, number int, comment string) error {
	if comment != "" {
		issueComment := &github.IssueComment{Body: github.String(comment)}
		if _, _, err := c.gh.Issues.CreateComment(ctx, c.repo.Owner, c.repo.Repo, number, issueComment); err != nil {
			return fmt.Errorf("comment on PR #%d before closing: %w", number, err)
		}
	}
	update := &github.PullRequest{State: github.String("closed")}
	if _, _, err := c.gh.PullRequests.Edit(ctx, c.repo.Owner, c.repo.Repo, number, update); err != nil {
		return fmt.Errorf("close PR #%d: %w", number, err)
	}
	return nil
}

func (c *GitHubClient) GetPRState(ctx context.Context, number int) (PRState, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.repo.Owner, c.repo.Repo, number)
	if err != nil {
		return "", fmt.Errorf("get PR #%d: %w", number, err)
	}
	if pr.GetMerged() {
		return StateMerged, nil
	}
	switch pr.GetState() {
	case "closed":
		return StateClosed, nil
	default:
		return StateOpen, nil
	}
}

func (c *GitHubClient) GetPRBody(ctx context.Context, number int) (string, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.repo.Owner, c.repo.Repo, number)
	if err != nil {
		return "", fmt.Errorf("get PR #%d: %w", number, err)
	}
	return pr.GetBody(), nil
}

func (c *GitHubClient) GetPRBaseBranch(ctx context.Context, number int) (string, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.repo.Owner, c.repo.Repo, number)
	if err != nil {
		return "", fmt.Errorf("get PR #%d: %w", number, err)
	}
	return pr.GetBase().GetRef(), nil
}

func toPullRequest(pr *github.PullRequest) *PullRequest {
	state := StateOpen
	switch {
	case pr.GetMerged():
		state = StateMerged
	case pr.GetState() == "closed":
		state = StateClosed
	}
	return &PullRequest{
		Number:  pr.GetNumber(),
		NodeID:  pr.GetNodeID(),
		HTMLURL: pr.GetHTMLURL(),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
		Base:    pr.GetBase().GetRef(),
		Head:    pr.GetHead().GetRef(),
		State:   state,
		Draft:   pr.GetDraft(),
	}
}
