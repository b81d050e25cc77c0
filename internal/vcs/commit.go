package vcs

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// GetCommit reads the full commit record: tree, parents, subject, body, and
// author/committer identity.
func (r *Repo) GetCommit(_ context.Context, hash Hash) (*Commit, error) {
	obj, err := r.gogit.CommitObject(plumbing.NewHash(string(hash)))
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", hash, err)
	}

	parents := make([]Hash, 0, len(obj.ParentHashes))
	for _, p := range obj.ParentHashes {
		parents = append(parents, hashFromPlumbing(p))
	}

	message := obj.Message
	subject := message
	body := ""
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		subject = message[:idx]
		body = strings.TrimPrefix(message[idx+1:], "\n")
	}
	subject = strings.TrimSpace(subject)
	body = strings.TrimRight(body, "\n")

	return &Commit{
		Hash:    hash,
		Parents: parents,
		Tree:    hashFromPlumbing(obj.TreeHash),
		Subject: subject,
		Body:    body,
		Identity: Identity{
			AuthorName:     obj.Author.Name,
			AuthorEmail:    obj.Author.Email,
			AuthorTime:     obj.Author.When,
			CommitterName:  obj.Committer.Name,
			CommitterEmail: obj.Committer.Email,
			CommitterTime:  obj.Committer.When,
		},
	}, nil
}

// GetTree returns the tree object a commit points to.
func (r *Repo) GetTree(ctx context.Context, commit Hash) (Hash, error) {
	c, err := r.GetCommit(ctx, commit)
	if err != nil {
		return "", err
	}
	return c.Tree, nil
}

// GetParent returns the first parent of commit, or "" for a root commit.
func (r *Repo) GetParent(ctx context.Context, commit Hash) (Hash, error) {
	parents, err := r.GetParents(ctx, commit)
	if err != nil {
		return "", err
	}
	if len(parents) == 0 {
		return "", nil
	}
	return parents[0], nil
}

// GetParents returns all parents of commit (0 for root, 1 normal, ≥2 merge).
func (r *Repo) GetParents(ctx context.Context, commit Hash) ([]Hash, error) {
	c, err := r.GetCommit(ctx, commit)
	if err != nil {
		return nil, err
	}
	return c.Parents, nil
}

// GetAuthorAndCommitterEnv returns the identity to preserve when rewriting
// a commit.
func (r *Repo) GetAuthorAndCommitterEnv(ctx context.Context, commit Hash) (Identity, error) {
	c, err := r.GetCommit(ctx, commit)
	if err != nil {
		return Identity{}, err
	}
	return c.Identity, nil
}

// GetCommitFiles returns the files changed by commit versus its first
// parent (or all files, for a root commit).
func (r *Repo) GetCommitFiles(ctx context.Context, commit Hash) ([]string, error) {
	c, err := r.GetCommit(ctx, commit)
	if err != nil {
		return nil, err
	}

	var args []string
	if len(c.Parents) == 0 {
		args = []string{"diff-tree", "--no-commit-id", "--name-only", "-r", string(commit)}
	} else {
		args = []string{"diff", "--name-only", string(c.Parents[0]), string(commit)}
	}

	out, err := r.run.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("diff files for %s: %w", commit, err)
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
