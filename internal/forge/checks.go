package forge

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v62/github"
)

const (
	checkConclusionFailure        = "FAILURE"
	checkConclusionCanceled       = "CANCELED"
	checkConclusionTimedOut       = "TIMED_OUT"
	checkConclusionActionRequired = "ACTION_REQUIRED"
	checkStateFailure             = "FAILURE"
	checkStateError               = "ERROR"
	checkStatePending             = "PENDING"
)

// GetPRChecksStatus merges check-runs and combined-status results for the
// PR's head commit, the same two-source merge the teacher's
// GetPRChecksStatus uses (check runs take precedence over legacy statuses
// sharing the same name).
func (c *GitHubClient) GetPRChecksStatus(ctx context.Context, number int) (ChecksStatus, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.repo.Owner, c.repo.Repo, number)
	if err != nil {
		return "", fmt.Errorf("get PR #%d: %w", number, err)
	}
	headSHA := pr.GetHead().GetSHA()
	if headSHA == "" {
		return ChecksNone, nil
	}

	seen := map[string]bool{}
	hasPending, hasFailing, hasAny := false, false, false

	checkRuns, _, err := c.gh.Checks.ListCheckRunsForRef(ctx, c.repo.Owner, c.repo.Repo, headSHA, &github.ListCheckRunsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err == nil && checkRuns != nil {
		for _, run := range checkRuns.CheckRuns {
			hasAny = true
			seen[run.GetName()] = true
			status := strings.ToUpper(run.GetStatus())
			conclusion := strings.ToUpper(run.GetConclusion())
			if status == "QUEUED" || status == "IN_PROGRESS" {
				hasPending = true
			}
			if conclusion == checkConclusionFailure || conclusion == checkConclusionCanceled ||
				conclusion == checkConclusionTimedOut || conclusion == checkConclusionActionRequired {
				hasFailing = true
			}
		}
	}

	combined, _, err := c.gh.Repositories.GetCombinedStatus(ctx, c.repo.Owner, c.repo.Repo, headSHA, nil)
	if err == nil && combined != nil {
		for _, status := range combined.Statuses {
			if seen[status.GetContext()] {
				continue
			}
			hasAny = true
			switch strings.ToUpper(status.GetState()) {
			case checkStatePending:
				hasPending = true
			case checkStateFailure, checkStateError:
				hasFailing = true
			}
		}
	}

	switch {
	case !hasAny:
		return ChecksNone, nil
	case hasFailing:
		return ChecksFailing, nil
	case hasPending:
		return ChecksPending, nil
	default:
		return ChecksPassing, nil
	}
}
