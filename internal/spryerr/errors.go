// Package spryerr provides the engine's error taxonomy: sentinel errors
// for use with errors.Is, and typed error structs carrying the context a
// downstream formatter needs for a one-screen diagnostic.
package spryerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the error kinds that carry no per-occurrence state.
var (
	// ErrDetachedHead indicates an operation was attempted on a branch with no HEAD.
	ErrDetachedHead = errors.New("detached head")

	// ErrDirtyWorkingTree indicates a current-branch operation that needs a
	// reset found uncommitted changes first.
	ErrDirtyWorkingTree = errors.New("dirty working tree")

	// ErrConfigMissing indicates a required configuration option was not set.
	ErrConfigMissing = errors.New("config missing")

	// ErrConflict indicates a rebase or merge step could not complete
	// without manual resolution.
	ErrConflict = errors.New("conflict")

	// ErrUnsupportedVCSVersion indicates the installed git binary predates
	// what the engine's plumbing commands require.
	ErrUnsupportedVCSVersion = errors.New("unsupported vcs version")
)

// DetachedHeadError reports a detached-HEAD failure. Branch names the branch
// whose worktree is detached, or is empty when the invoking worktree's own
// HEAD is detached.
type DetachedHeadError struct {
	Branch string
}

func (e *DetachedHeadError) Error() string {
	return fmt.Sprintf("%s has no HEAD (detached)", e.Branch)
}

func (e *DetachedHeadError) Is(target error) bool { return target == ErrDetachedHead }

// DirtyWorkingTreeError reports uncommitted changes blocking a
// current-branch operation that needs a working-directory reset.
type DirtyWorkingTreeError struct {
	Branch string
}

func (e *DirtyWorkingTreeError) Error() string {
	return fmt.Sprintf("%s has uncommitted changes", e.Branch)
}

func (e *DirtyWorkingTreeError) Is(target error) bool { return target == ErrDirtyWorkingTree }

// ConflictError reports a rebase or merge conflict: the commit that failed
// to apply, the files involved, and raw conflict detail from the merge.
type ConflictError struct {
	Commit       string
	Subject      string
	Files        []string
	ConflictInfo string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict applying %s (%s): %s", e.Commit, e.Subject, e.ConflictInfo)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ConfigMissingError reports a required option with no value in any
// config layer.
type ConfigMissingError struct {
	Option string
}

func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("missing required config option %q", e.Option)
}

func (e *ConfigMissingError) Is(target error) bool { return target == ErrConfigMissing }

// UnsupportedVCSVersionError reports a VCS binary too old to run the
// engine's plumbing commands (startup check).
type UnsupportedVCSVersionError struct {
	Found    string
	Required string
}

func (e *UnsupportedVCSVersionError) Error() string {
	return fmt.Sprintf("git %s found, %s or newer required", e.Found, e.Required)
}

func (e *UnsupportedVCSVersionError) Is(target error) bool { return target == ErrUnsupportedVCSVersion }

// NonContiguousGroupError reports that applying a group spec would leave a
// named group's commits scattered rather than contiguous.
type NonContiguousGroupError struct {
	GroupName string
}

func (e *NonContiguousGroupError) Error() string {
	return fmt.Sprintf("group %q has non-contiguous commits", e.GroupName)
}

// UnknownReferenceError reports a group-spec ref that did not resolve to
// any commit in the current stack.
type UnknownReferenceError struct {
	GroupName string
	Ref       string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown commit reference in group %q: %s", e.GroupName, e.Ref)
}
