package vcs

import (
	"context"
	"fmt"
	"strings"
)

// PushRef force-pushes localRef to remoteRef on remote. A missing localRef
// is not an error: the side-channel refs this backs (group titles, stack
// settings) are legitimately absent until first written.
func (r *Repo) PushRef(ctx context.Context, remote, localRef, remoteRef string) error {
	spec := "+" + localRef + ":" + remoteRef
	if _, err := r.run.run(ctx, "push", remote, spec); err != nil {
		var cmdErr *CommandError
		if isMissingRefError(err, &cmdErr) || (cmdErr != nil && strings.Contains(cmdErr.Stderr, "does not match any")) {
			return nil
		}
		return fmt.Errorf("push %s: %w", spec, err)
	}
	return nil
}

// FetchRef force-fetches remoteRef from remote into localRef. A remote that
// doesn't have remoteRef yet is not an error.
func (r *Repo) FetchRef(ctx context.Context, remote, remoteRef, localRef string) error {
	spec := "+" + remoteRef + ":" + localRef
	if _, err := r.run.run(ctx, "fetch", remote, spec); err != nil {
		if isMissingRemoteRefError(err) {
			return nil
		}
		return fmt.Errorf("fetch %s: %w", spec, err)
	}
	return nil
}

func isMissingRemoteRefError(err error) bool {
	ce, ok := err.(*CommandError) //nolint:errorlint // exact-type dispatch on our own sentinel
	if !ok {
		return false
	}
	stderr := strings.ToLower(ce.Stderr)
	return strings.Contains(stderr, "couldn't find remote ref") || strings.Contains(stderr, "no such ref")
}
