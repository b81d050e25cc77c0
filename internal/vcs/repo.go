package vcs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Hash is a 40-character lowercase hex object id, or a prefix of one when
// used as a short hash. The package never distinguishes the two by type;
// callers that need a "short hash" accept any non-empty prefix.
type Hash string

// IsZero reports whether h is the empty hash, used as "no parent" / "no
// CAS expectation".
func (h Hash) IsZero() bool { return h == "" }

// Identity captures the author/committer name, email and timestamp to
// preserve across a rewrite.
type Identity struct {
	AuthorName     string
	AuthorEmail    string
	AuthorTime     time.Time
	CommitterName  string
	CommitterEmail string
	CommitterTime  time.Time
}

// Commit is the immutable record read back from the object store.
type Commit struct {
	Hash     Hash
	Parents  []Hash
	Tree     Hash
	Subject  string
	Body     string
	Identity Identity
}

// Repo is a handle onto one Git working directory (or bare repository).
// All operations funnel through it so no operation depends on process cwd.
type Repo struct {
	dir    string
	run    runner
	gogit  *gogit.Repository
	gogitd string
}

// Open opens the repository rooted at dir (or its ancestors, per normal git
// discovery rules if dir is inside a worktree).
func Open(dir string) (*Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve repo path: %w", err)
	}

	gr, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", abs, err)
	}

	return &Repo{
		dir:    abs,
		run:    runner{dir: abs},
		gogit:  gr,
		gogitd: abs,
	}, nil
}

// Dir returns the working directory this Repo is bound to.
func (r *Repo) Dir() string { return r.dir }

func (r *Repo) resolve(ctx context.Context, ref string) (Hash, error) {
	out, err := r.run.run(ctx, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", ref, err)
	}
	return Hash(out), nil
}

// FullHash resolves any ref, branch name, or short hash to its full commit
// hash.
func (r *Repo) FullHash(ctx context.Context, ref string) (Hash, error) {
	return r.resolve(ctx, ref)
}

// CurrentBranch returns the branch HEAD points to, or "" if detached.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.run.run(ctx, "symbolic-ref", "--short", "-q", "HEAD")
	if err != nil {
		return "", nil //nolint:nilerr // detached HEAD: symbolic-ref fails by design
	}
	return strings.TrimSpace(out), nil
}

// IsDetached reports whether the invoking worktree's HEAD is detached.
func (r *Repo) IsDetached(ctx context.Context) (bool, error) {
	branch, err := r.CurrentBranch(ctx)
	if err != nil {
		return false, err
	}
	return branch == "", nil
}

// IsWorkingTreeClean reports whether the invoking worktree has no staged or
// unstaged changes.
func (r *Repo) IsWorkingTreeClean(ctx context.Context) (bool, error) {
	out, err := r.run.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("status: %w", err)
	}
	return out == "", nil
}

func hashFromPlumbing(h plumbing.Hash) Hash { return Hash(h.String()) }
