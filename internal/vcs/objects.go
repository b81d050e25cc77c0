package vcs

import (
	"context"
	"fmt"
)

// CreateBlob hashes content into the object store and returns its blob hash.
// Equivalent to `git hash-object -w --stdin`, grounded on the ref-storage
// side-channel's need for a content-addressed handle to a JSON document.
func (r *Repo) CreateBlob(ctx context.Context, content []byte) (Hash, error) {
	out, err := r.run.runWithInput(ctx, string(content), "hash-object", "-w", "--stdin")
	if err != nil {
		return "", fmt.Errorf("hash-object: %w", err)
	}
	return Hash(out), nil
}

// ReadBlob returns the content of a blob.
func (r *Repo) ReadBlob(ctx context.Context, hash Hash) ([]byte, error) {
	out, err := r.run.runRaw(ctx, "cat-file", "-p", string(hash))
	if err != nil {
		return nil, fmt.Errorf("cat-file %s: %w", hash, err)
	}
	return []byte(out), nil
}

// CreateCommit writes a new commit object whose tree and parents are
// exactly as given and returns its hash. It never updates a ref.
func (r *Repo) CreateCommit(ctx context.Context, tree Hash, parents []Hash, message string, identity Identity) (Hash, error) {
	args := []string{"commit-tree", string(tree)}
	for _, p := range parents {
		args = append(args, "-p", string(p))
	}
	args = append(args, "-m", message)

	env := identityEnv(identity)
	out, err := r.run.runWithEnv(ctx, env, args...)
	if err != nil {
		return "", fmt.Errorf("commit-tree: %w", err)
	}
	return Hash(out), nil
}

func identityEnv(id Identity) []string {
	env := []string{}
	if id.AuthorName != "" {
		env = append(env, "GIT_AUTHOR_NAME="+id.AuthorName)
	}
	if id.AuthorEmail != "" {
		env = append(env, "GIT_AUTHOR_EMAIL="+id.AuthorEmail)
	}
	if !id.AuthorTime.IsZero() {
		env = append(env, "GIT_AUTHOR_DATE="+id.AuthorTime.Format("2006-01-02T15:04:05Z07:00"))
	}
	if id.CommitterName != "" {
		env = append(env, "GIT_COMMITTER_NAME="+id.CommitterName)
	}
	if id.CommitterEmail != "" {
		env = append(env, "GIT_COMMITTER_EMAIL="+id.CommitterEmail)
	}
	if !id.CommitterTime.IsZero() {
		env = append(env, "GIT_COMMITTER_DATE="+id.CommitterTime.Format("2006-01-02T15:04:05Z07:00"))
	}
	return env
}
