package spryerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"spry.sh/spry/internal/spryerr"
)

func TestDetachedHeadErrorMatchesSentinel(t *testing.T) {
	err := &spryerr.DetachedHeadError{Branch: "feature"}
	require.True(t, errors.Is(err, spryerr.ErrDetachedHead))
}

func TestDirtyWorkingTreeErrorMatchesSentinel(t *testing.T) {
	err := &spryerr.DirtyWorkingTreeError{Branch: "feature"}
	require.True(t, errors.Is(err, spryerr.ErrDirtyWorkingTree))
}

func TestConfigMissingErrorMatchesSentinel(t *testing.T) {
	err := &spryerr.ConfigMissingError{Option: "spry.defaultBranch"}
	require.True(t, errors.Is(err, spryerr.ErrConfigMissing))
}

func TestConflictErrorMessageIncludesCommit(t *testing.T) {
	err := &spryerr.ConflictError{Commit: "abc1234", Subject: "add widget", Files: []string{"a.go"}}
	require.Contains(t, err.Error(), "abc1234")
}

func TestConflictErrorMatchesSentinel(t *testing.T) {
	err := &spryerr.ConflictError{Commit: "abc1234"}
	require.True(t, errors.Is(err, spryerr.ErrConflict))
}

func TestUnsupportedVCSVersionErrorMatchesSentinel(t *testing.T) {
	err := &spryerr.UnsupportedVCSVersionError{Found: "2.20.0", Required: "2.38.0"}
	require.True(t, errors.Is(err, spryerr.ErrUnsupportedVCSVersion))
	require.Contains(t, err.Error(), "2.20.0")
}
