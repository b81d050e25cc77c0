// Package stack turns a commit sequence into typed review units, validates
// that the sequence's groups are contiguous, and resolves user-typed
// identifiers (hash prefixes, commit ids, group ids) against that sequence.
package stack
