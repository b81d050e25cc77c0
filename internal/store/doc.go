// Package store holds the ref-storage side channel: group titles and
// per-stack settings serialized as JSON blobs under private refs
// (refs/spry/<user>/...), independent of commit trailers so they can be
// edited without rewriting any commit. Grounded on the metadata-ref
// pattern used throughout this codebase's git-object layer: read
// tolerantly (missing ref or malformed blob yields the empty value),
// write by hashing a blob and moving a ref onto it.
package store
