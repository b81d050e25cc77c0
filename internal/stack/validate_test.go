package stack

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateIdentifierAcceptsHex(t *testing.T) {
	require.NoError(t, ValidateIdentifier("abc12345"))
}

func TestValidateIdentifierAcceptsNameHex(t *testing.T) {
	require.NoError(t, ValidateIdentifier("my-feature-abc1"))
}

func TestValidateIdentifierRejectsEmpty(t *testing.T) {
	require.Error(t, ValidateIdentifier(""))
}

func TestValidateIdentifierRejectsTooLong(t *testing.T) {
	require.Error(t, ValidateIdentifier(strings.Repeat("a", 101)))
}

func TestValidateIdentifierRejectsGarbage(t *testing.T) {
	require.Error(t, ValidateIdentifier("not valid!!"))
}

func TestValidateBranchNameAcceptsNormal(t *testing.T) {
	require.NoError(t, ValidateBranchName("spry/my-feature"))
}

func TestValidateBranchNameRejectsSpaces(t *testing.T) {
	require.Error(t, ValidateBranchName("my feature"))
}

func TestValidateBranchNameRejectsLeadingSlash(t *testing.T) {
	require.Error(t, ValidateBranchName("/leading"))
}

func TestValidateBranchNameRejectsDotLockSuffix(t *testing.T) {
	require.Error(t, ValidateBranchName("branch.lock"))
}

func TestValidateBranchNameRejectsDoubleSlash(t *testing.T) {
	require.Error(t, ValidateBranchName("a//b"))
}

func TestValidateBranchNameRejectsForbiddenChars(t *testing.T) {
	require.Error(t, ValidateBranchName("weird~branch"))
}

func TestValidateTitleAcceptsNormal(t *testing.T) {
	require.NoError(t, ValidateTitle("Fix the widget"))
}

func TestValidateTitleRejectsEmpty(t *testing.T) {
	require.Error(t, ValidateTitle("   "))
}

func TestValidateTitleRejectsTooLong(t *testing.T) {
	require.Error(t, ValidateTitle(strings.Repeat("a", 501)))
}

func TestValidateTitleAllowsNewlines(t *testing.T) {
	require.NoError(t, ValidateTitle("Fix the widget\nwith detail"))
}

func TestValidateTitleRejectsControlChars(t *testing.T) {
	require.Error(t, ValidateTitle("Fix the\x00widget"))
}
