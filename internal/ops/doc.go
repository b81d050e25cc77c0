// Package ops is the stack engine: the operations a caller (cmd/spry)
// drives directly. It generalizes the teacher's internal/engine package
// away from a per-branch parent/child graph and onto a single-branch,
// trailer-delimited stack model, built entirely from internal/vcs,
// internal/trailer, internal/stack, and internal/store primitives.
package ops
