package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-github/v62/github"
)

// GetPRReviewStatus reduces a PR's review history to a single status:
// changes_requested beats approved, which beats review_required for an
// untouched PR.
func (c *GitHubClient) GetPRReviewStatus(ctx context.Context, number int) (ReviewStatus, error) {
	reviews, _, err := c.gh.PullRequests.ListReviews(ctx, c.repo.Owner, c.repo.Repo, number, &github.ListOptions{PerPage: 100})
	if err != nil {
		return "", fmt.Errorf("list reviews for PR #%d: %w", number, err)
	}

	latestByUser := map[string]string{}
	for _, review := range reviews {
		state := review.GetState()
		if state == "COMMENTED" || state == "PENDING" {
			continue
		}
		latestByUser[review.GetUser().GetLogin()] = state
	}

	if len(latestByUser) == 0 {
		return ReviewRequired, nil
	}

	approved := false
	for _, state := range latestByUser {
		if state == "CHANGES_REQUESTED" {
			return ReviewChangesRequested, nil
		}
		if state == "APPROVED" {
			approved = true
		}
	}
	if approved {
		return ReviewApproved, nil
	}
	return ReviewNone, nil
}

// reviewThreadsQuery counts total and resolved review-comment threads via
// the GraphQL API, which the REST API has no equivalent for — the same
// GraphQL-over-REST escape hatch the teacher uses for draft status.
const reviewThreadsQuery = `
query($owner: String!, $name: String!, $number: Int!, $after: String) {
  repository(owner: $owner, name: $name) {
    pullRequest(number: $number) {
      reviewThreads(first: 100, after: $after) {
        pageInfo { hasNextPage endCursor }
        nodes { isResolved }
      }
    }
  }
}`

type reviewThreadsResponse struct {
	Data struct {
		Repository struct {
			PullRequest struct {
				ReviewThreads struct {
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
					Nodes []struct {
						IsResolved bool `json:"isResolved"`
					} `json:"nodes"`
				} `json:"reviewThreads"`
			} `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// GetPRCommentStatus counts total and resolved review-comment threads.
func (c *GitHubClient) GetPRCommentStatus(ctx context.Context, number int) (CommentStatus, error) {
	var status CommentStatus
	after := ""
	for {
		resp, err := c.graphQL(ctx, reviewThreadsQuery, map[string]any{
			"owner":  c.repo.Owner,
			"name":   c.repo.Repo,
			"number": number,
			"after":  nullableString(after),
		})
		if err != nil {
			return CommentStatus{}, fmt.Errorf("query review threads for PR #%d: %w", number, err)
		}

		var parsed reviewThreadsResponse
		if err := json.Unmarshal(resp, &parsed); err != nil {
			return CommentStatus{}, fmt.Errorf("parse review threads response: %w", err)
		}
		if len(parsed.Errors) > 0 {
			messages := make([]string, len(parsed.Errors))
			for i, e := range parsed.Errors {
				messages[i] = e.Message
			}
			return CommentStatus{}, fmt.Errorf("review threads query failed: %s", strings.Join(messages, "; "))
		}

		threads := parsed.Data.Repository.PullRequest.ReviewThreads
		for _, n := range threads.Nodes {
			status.Total++
			if n.IsResolved {
				status.Resolved++
			}
		}

		if !threads.PageInfo.HasNextPage {
			break
		}
		after = threads.PageInfo.EndCursor
	}
	return status, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (c *GitHubClient) graphQLURL() string {
	if c.repo.Hostname == "" || c.repo.Hostname == "github.com" {
		return "https://api.github.com/graphql"
	}
	return fmt.Sprintf("https://%s/api/graphql", c.repo.Hostname)
}

// graphQL issues a raw GraphQL request against the underlying client's HTTP
// transport, reusing its authentication. go-github has no native GraphQL
// support; this mirrors the teacher's updatePRDraftStatus request shape.
func (c *GitHubClient) graphQL(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphQLURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.gh.Client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute graphql request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read graphql response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graphql request failed with status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
