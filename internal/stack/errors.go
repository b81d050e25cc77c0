package stack

import "fmt"

// NotFoundError reports that an identifier resolved to nothing.
type NotFoundError struct {
	Input string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no commit or unit matches %q", e.Input)
}

// AmbiguousError reports that an identifier resolved to more than one unit.
type AmbiguousError struct {
	Input      string
	Candidates []Unit
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%q is ambiguous: matches %d units", e.Input, len(e.Candidates))
}
