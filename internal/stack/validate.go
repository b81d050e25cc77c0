package stack

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	identifierRe    = regexp.MustCompile(`^[0-9a-f]{4,40}$`)
	identifierAltRe = regexp.MustCompile(`^[\w-]+-[0-9a-f]{4,}$`)
)

// InvalidRefError reports a user-entered identifier that doesn't match
// either recognized identifier shape.
type InvalidRefError struct {
	Input string
}

func (e *InvalidRefError) Error() string {
	return fmt.Sprintf("invalid identifier %q", e.Input)
}

// ValidateIdentifier checks the format of a user-entered identifier:
// nonempty, at most 100 characters, and matching a hex-hash shape or a
// name-hex shape.
func ValidateIdentifier(input string) error {
	if input == "" || len(input) > 100 {
		return &InvalidRefError{Input: input}
	}
	if identifierRe.MatchString(input) || identifierAltRe.MatchString(input) {
		return nil
	}
	return &InvalidRefError{Input: input}
}

// InvalidBranchNameError reports a branch name that fails validation.
type InvalidBranchNameError struct {
	Name   string
	Reason string
}

func (e *InvalidBranchNameError) Error() string {
	return fmt.Sprintf("invalid branch name %q: %s", e.Name, e.Reason)
}

var branchForbidden = []string{"~", "^", ":", "?", "*", "[", "\\", "..", "@{"}

// ValidateBranchName enforces the branch-naming rules: nonempty, at most
// 255 characters, no spaces or control characters, none of the forbidden
// substrings, must not start or end with '/', must not end in ".lock", and
// no consecutive slashes.
func ValidateBranchName(name string) error {
	if name == "" {
		return &InvalidBranchNameError{Name: name, Reason: "must not be empty"}
	}
	if len(name) > 255 {
		return &InvalidBranchNameError{Name: name, Reason: "must be at most 255 characters"}
	}
	for _, r := range name {
		if r == ' ' || r < 0x20 || r == 0x7f {
			return &InvalidBranchNameError{Name: name, Reason: "must not contain spaces or control characters"}
		}
	}
	for _, bad := range branchForbidden {
		if strings.Contains(name, bad) {
			return &InvalidBranchNameError{Name: name, Reason: fmt.Sprintf("must not contain %q", bad)}
		}
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return &InvalidBranchNameError{Name: name, Reason: "must not start or end with '/'"}
	}
	if strings.HasSuffix(name, ".lock") {
		return &InvalidBranchNameError{Name: name, Reason: "must not end with \".lock\""}
	}
	if strings.Contains(name, "//") {
		return &InvalidBranchNameError{Name: name, Reason: "must not contain consecutive slashes"}
	}
	return nil
}

// InvalidTitleError reports a PR title that fails validation.
type InvalidTitleError struct {
	Title  string
	Reason string
}

func (e *InvalidTitleError) Error() string {
	return fmt.Sprintf("invalid PR title: %s", e.Reason)
}

// ValidateTitle enforces the PR-title rules: after trimming, 1-500
// characters, no control characters except \n and \r.
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if len(trimmed) < 1 || len(trimmed) > 500 {
		return &InvalidTitleError{Title: title, Reason: "must be 1-500 characters after trimming"}
	}
	for _, r := range trimmed {
		if r == '\n' || r == '\r' {
			continue
		}
		if r < 0x20 || r == 0x7f {
			return &InvalidTitleError{Title: title, Reason: "must not contain control characters"}
		}
	}
	return nil
}
