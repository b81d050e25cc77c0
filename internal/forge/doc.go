// Package forge is the engine's consumed contract for a code-review forge:
// find, create, retarget, and inspect pull requests. internal/ops does not
// import this package; cmd/spry is its only caller. Client in client.go is
// the contract; GitHubClient is the concrete implementation, adapted from
// the teacher's internal/github package.
package forge
