package testhelpers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-github/v62/github"
)

// MockGitHubServerConfig configures the behavior of a mock GitHub server.
type MockGitHubServerConfig struct {
	PRs        map[string]*github.PullRequest // branch -> PR, for list-by-head
	CreatedPRs []*github.PullRequest
	UpdatedPRs map[int]*github.PullRequest
	Owner      string
	Repo       string
}

// NewMockGitHubServerConfig returns a config with sensible defaults.
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		PRs:        map[string]*github.PullRequest{},
		UpdatedPRs: map[int]*github.PullRequest{},
		Owner:      "owner",
		Repo:       "repo",
	}
}

// NewMockGitHubServer starts an httptest server that serves
// /repos/{owner}/{repo}/pulls[/{number}] against config.
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	basePath := "/repos/" + config.Owner + "/" + config.Repo + "/pulls"

	mux := http.NewServeMux()
	mux.HandleFunc(basePath, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var newPR github.NewPullRequest
			if err := json.NewDecoder(r.Body).Decode(&newPR); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			number := len(config.CreatedPRs) + 1
			pr := &github.PullRequest{
				Number:  github.Int(number),
				Title:   newPR.Title,
				Body:    newPR.Body,
				Head:    &github.PullRequestBranch{Ref: newPR.Head},
				Base:    &github.PullRequestBranch{Ref: newPR.Base},
				Draft:   newPR.Draft,
				State:   github.String("open"),
				HTMLURL: github.String(fmt.Sprintf("https://github.com/%s/%s/pull/%d", config.Owner, config.Repo, number)),
			}
			config.CreatedPRs = append(config.CreatedPRs, pr)
			config.PRs[newPR.GetHead()] = pr
			writeJSON(w, http.StatusCreated, pr)
		case http.MethodGet:
			head := r.URL.Query().Get("head")
			branch := strings.TrimPrefix(head, config.Owner+":")
			pr, ok := config.PRs[branch]
			if !ok {
				writeJSON(w, http.StatusOK, []*github.PullRequest{})
				return
			}
			writeJSON(w, http.StatusOK, []*github.PullRequest{pr})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc(basePath+"/", func(w http.ResponseWriter, r *http.Request) {
		number, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, basePath+"/"))
		if err != nil {
			http.Error(w, "invalid PR number", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodPatch:
			pr := findOrCreatePR(config, number)
			var update struct {
				Title *string `json:"title"`
				Body  *string `json:"body"`
				Base  *string `json:"base"`
				State *string `json:"state"`
			}
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &update); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if update.Title != nil {
				pr.Title = update.Title
			}
			if update.Body != nil {
				pr.Body = update.Body
			}
			if update.Base != nil {
				if pr.Base == nil {
					pr.Base = &github.PullRequestBranch{}
				}
				pr.Base.Ref = update.Base
			}
			if update.State != nil {
				pr.State = update.State
			}
			config.UpdatedPRs[number] = pr
			writeJSON(w, http.StatusOK, pr)
		case http.MethodGet:
			pr := findOrCreatePR(config, number)
			writeJSON(w, http.StatusOK, pr)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func findOrCreatePR(config *MockGitHubServerConfig, number int) *github.PullRequest {
	if pr, ok := config.UpdatedPRs[number]; ok {
		return pr
	}
	for _, pr := range config.CreatedPRs {
		if pr.GetNumber() == number {
			return pr
		}
	}
	pr := &github.PullRequest{Number: github.Int(number), State: github.String("open"), Base: &github.PullRequestBranch{}}
	config.CreatedPRs = append(config.CreatedPRs, pr)
	return pr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewMockGitHubClient points a *github.Client at a fresh mock server and
// returns it with the configured owner/repo.
func NewMockGitHubClient(t *testing.T, config *MockGitHubServerConfig) (*github.Client, string, string) {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}
	server := NewMockGitHubServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL
	return client, config.Owner, config.Repo
}
