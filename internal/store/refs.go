package store

import "fmt"

const refNamespace = "spry"

// GroupTitlesRef is the private ref holding the group-titles blob for user.
func GroupTitlesRef(user string) string {
	return fmt.Sprintf("refs/%s/%s/group-titles", refNamespace, user)
}

// StackSettingsRef is the private ref holding the stack-settings blob for user.
func StackSettingsRef(user string) string {
	return fmt.Sprintf("refs/%s/%s/stack-settings", refNamespace, user)
}
