package ops

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"spry.sh/spry/internal/config"
	"spry.sh/spry/internal/stack"
	"spry.sh/spry/internal/store"
)

// stackLinksHeader opens the footer RenderStackLinks produces; PlacePRTemplate
// looks for it to find where the footer starts and ends inside a body.
const stackLinksHeader = "Stack:\n"

// RenderStackLinks renders the footer embedded in every PR body when
// Config.ShowStackLinks is set: a bulleted list of every unit in the
// stack, oldest first, with the unit identified by current marked.
// Grounded on the teacher's submit.go PR-body assembly, which walks a
// stack's units in order to build a body.
func RenderStackLinks(units []stack.Unit, current string) string {
	if len(units) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(stackLinksHeader)
	for _, u := range units {
		title := u.Title
		if title == "" {
			title = u.ID
		}
		marker := ""
		if u.ID == current {
			marker = " \U0001F448"
		}
		fmt.Fprintf(&b, "- %s%s\n", title, marker)
	}
	return strings.TrimRight(b.String(), "\n")
}

// PlacePRTemplate splices template into body at placement, one of the four
// positions config.TemplateLocation enumerates. afterBody and
// afterStackLinks both look for the stack-links footer RenderStackLinks
// produced; if body has none, they fall back to appending at the end.
func PlacePRTemplate(body, template string, placement config.TemplateLocation) string {
	if template == "" {
		return body
	}

	switch placement {
	case config.TemplatePrepend:
		return strings.TrimSpace(template + "\n\n" + body)

	case config.TemplateAppend:
		return strings.TrimSpace(body + "\n\n" + template)

	case config.TemplateAfterStackLinks:
		idx := strings.Index(body, stackLinksHeader)
		if idx < 0 {
			return strings.TrimSpace(body + "\n\n" + template)
		}
		insertAt := len(body)
		if end := strings.Index(body[idx:], "\n\n"); end >= 0 {
			insertAt = idx + end
		}
		return strings.TrimSpace(body[:insertAt] + "\n\n" + template + body[insertAt:])

	case config.TemplateAfterBody:
		fallthrough
	default:
		idx := strings.Index(body, stackLinksHeader)
		if idx < 0 {
			return strings.TrimSpace(body + "\n\n" + template)
		}
		return strings.TrimSpace(body[:idx] + template + "\n\n" + body[idx:])
	}
}

// contentHash fingerprints a unit's reviewable content: its commit hashes
// and their subjects, in order. It changes whenever a commit is added,
// removed, reordered, or reworded within the unit.
func contentHash(unit stack.Unit) string {
	h := sha256.New()
	for i, commit := range unit.Commits {
		fmt.Fprintf(h, "%s\x00", commit)
		if i < len(unit.Subjects) {
			fmt.Fprintf(h, "%s\x00", unit.Subjects[i])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// NeedsBodyRefresh reports whether unit's PR body should be regenerated:
// its current content hash differs from the one recorded the last time
// the body was written, or none was ever recorded. This is what
// StackSettings.ContentHashes exists for per its own doc comment.
func NeedsBodyRefresh(unit stack.Unit, settings store.StackSettings) bool {
	stored, ok := settings.ContentHashes[unit.ID]
	if !ok {
		return true
	}
	return stored != contentHash(unit)
}

// RecordBodyHash stores unit's current content hash in settings, the
// counterpart write to NeedsBodyRefresh's read: call after successfully
// writing a PR body so the next check sees it as up to date.
func RecordBodyHash(unit stack.Unit, settings store.StackSettings) {
	if settings.ContentHashes == nil {
		settings.ContentHashes = map[string]string{}
	}
	settings.ContentHashes[unit.ID] = contentHash(unit)
}
