// Package trailer parses and augments the Key: Value trailer block at the
// end of a commit message. It has no dependency on the VCS: it operates on
// plain strings, the same shape go-git and git itself hand back for a
// commit body.
package trailer
