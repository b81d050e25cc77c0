// Package vcs wraps object-level Git operations: tree/parent lookup, commit
// creation, three-way merge into a tree, ref updates, and working-directory
// resets. Every operation accepts a context and operates against a Repo
// bound to a single working directory, so callers never depend on process
// cwd.
package vcs
