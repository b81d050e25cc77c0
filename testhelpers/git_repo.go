package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const textFileName = "test.txt"

// GitRepo wraps a real on-disk Git repository used as a test fixture.
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a fresh repository in dir, with "main" as its
// initial branch and a test identity configured so commits succeed.
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}

	cmd := exec.Command("git", "init", dir, "-b", "main")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("init repo: %w", err)
	}

	if err := repo.runGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.runGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}

	return repo, nil
}

// NewGitRepoFromTemplate creates dir as a local clone of templateDir. Tests
// use this to avoid re-running `git init` and initial setup for every
// scene: clone a cached template directory instead of rebuilding one.
func NewGitRepoFromTemplate(dir, templateDir string) (*GitRepo, error) {
	cmd := exec.Command("git", "clone", "--local", templateDir, dir)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("clone template %s: %w", templateDir, err)
	}

	repo := &GitRepo{Dir: dir}
	if err := repo.runGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.runGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *GitRepo) runGitCommand(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	if os.Getenv("DEBUG") == "" {
		cmd.Stdout = nil
		cmd.Stderr = nil
	}
	return cmd.Run()
}

// RunGitCommand executes a git command in the repository directory.
func (r *GitRepo) RunGitCommand(args ...string) error {
	return r.runGitCommand(args...)
}

func (r *GitRepo) runGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git command failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// RunGitCommandAndGetOutput executes a git command and returns its output.
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	return r.runGitCommandAndGetOutput(args...)
}

// CreateChange writes a file change. If unstaged is false, the change is
// staged via `git add`.
func (r *GitRepo) CreateChange(textValue string, prefix string, unstaged bool) error {
	fileName := textFileName
	if prefix != "" {
		fileName = prefix + "_" + fileName
	}
	filePath := filepath.Join(r.Dir, fileName)

	if err := os.WriteFile(filePath, []byte(textValue), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if !unstaged {
		return r.runGitCommand("add", filePath)
	}
	return nil
}

// CreateChangeAndCommit writes a file change and commits it, using
// textValue as the commit subject.
func (r *GitRepo) CreateChangeAndCommit(textValue string, prefix string) error {
	if err := r.CreateChange(textValue, prefix, false); err != nil {
		return err
	}
	if err := r.runGitCommand("add", "."); err != nil {
		return err
	}
	return r.runGitCommand("commit", "-m", textValue)
}

// CreateChangeAndAmend writes a file change and amends it onto HEAD.
func (r *GitRepo) CreateChangeAndAmend(textValue string, prefix string) error {
	if err := r.CreateChange(textValue, prefix, false); err != nil {
		return err
	}
	if err := r.runGitCommand("add", "."); err != nil {
		return err
	}
	return r.runGitCommand("commit", "--amend", "--no-edit")
}

// DeleteBranch force-deletes a branch.
func (r *GitRepo) DeleteBranch(name string) error {
	return r.runGitCommand("branch", "-D", name)
}

// CreateAndCheckoutBranch creates and checks out a new branch.
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.runGitCommand("checkout", "-b", name)
}

// CheckoutBranch checks out an existing branch.
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.runGitCommand("checkout", name)
}

// AddWorktree adds a worktree at path checked out to branch (created if new).
func (r *GitRepo) AddWorktree(path, branch string, create bool) error {
	args := []string{"worktree", "add", path}
	if create {
		args = append(args, "-b", branch)
	} else {
		args = append(args, branch)
	}
	return r.runGitCommand(args...)
}

// RebaseInProgress reports whether a rebase is mid-flight in this repo.
func (r *GitRepo) RebaseInProgress() bool {
	rebasePath := filepath.Join(r.Dir, ".git", "rebase-merge")
	_, err := os.Stat(rebasePath)
	return err == nil
}

// CurrentBranchName returns the name of the current branch.
func (r *GitRepo) CurrentBranchName() (string, error) {
	output, err := r.runGitCommandAndGetOutput("branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// GetRef returns the SHA a ref points to.
func (r *GitRepo) GetRef(refName string) (string, error) {
	return r.runGitCommandAndGetOutput("show-ref", "-s", refName)
}

// ListCurrentBranchCommitMessages returns every non-empty line of each full
// commit message on the current branch, newest commit first (matching
// `git log`).
func (r *GitRepo) ListCurrentBranchCommitMessages() ([]string, error) {
	output, err := r.runGitCommandAndGetOutput("log", "--oneline", "--format=%B")
	if err != nil {
		return nil, err
	}

	lines := []string{}
	for _, line := range splitLines(output) {
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// MergeBranch checks out branch and merges mergeIn into it.
func (r *GitRepo) MergeBranch(branch, mergeIn string) error {
	if err := r.CheckoutBranch(branch); err != nil {
		return err
	}
	return r.runGitCommand("merge", mergeIn)
}

func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
