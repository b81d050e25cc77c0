package vcs

import "context"

// ConfigGet reads a single key from the VCS's config store (`git config
// --get`). ok is false when the key is unset; that is not an error.
func (r *Repo) ConfigGet(ctx context.Context, key string) (value string, ok bool, err error) {
	out, runErr := r.run.run(ctx, "config", "--get", key)
	if runErr != nil {
		// `git config --get` exits 1 with empty output for an unset key;
		// anything else on stderr is a genuine config-store failure.
		if ce, isCmdErr := runErr.(*CommandError); isCmdErr && ce.Stderr == "" { //nolint:errorlint // exact-type dispatch
			return "", false, nil
		}
		return "", false, runErr
	}
	return out, true, nil
}

// ConfigSet writes a single key to the repository-local config store.
func (r *Repo) ConfigSet(ctx context.Context, key, value string) error {
	_, err := r.run.run(ctx, "config", key, value)
	return err
}

// SymbolicRef reads a symbolic ref (e.g. refs/remotes/origin/HEAD),
// returning the ref it points to, or "" if it does not exist or is not
// symbolic.
func (r *Repo) SymbolicRef(ctx context.Context, ref string) (string, error) {
	out, err := r.run.run(ctx, "symbolic-ref", "-q", ref)
	if err != nil {
		return "", nil //nolint:nilerr // absent or non-symbolic ref is a legitimate empty result
	}
	return out, nil
}

// LsRemoteHead queries remote directly for its HEAD symbolic ref, parsing
// `ref: refs/heads/<name>\tHEAD` from `git ls-remote --symref`. Used as a
// fallback when the local refs/remotes/<remote>/HEAD tracking ref hasn't
// been created yet.
func (r *Repo) LsRemoteHead(ctx context.Context, remote string) (string, error) {
	out, err := r.run.run(ctx, "ls-remote", "--symref", remote, "HEAD")
	if err != nil {
		return "", err
	}
	return parseSymrefLine(out), nil
}

func parseSymrefLine(out string) string {
	const prefix = "ref: "
	for _, line := range splitNonEmpty(out) {
		if len(line) > len(prefix) && line[:len(prefix)] == prefix {
			rest := line[len(prefix):]
			for i := 0; i < len(rest); i++ {
				if rest[i] == '\t' {
					return rest[:i]
				}
			}
		}
	}
	return ""
}
