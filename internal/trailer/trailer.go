package trailer

import (
	"regexp"
	"strings"
)

// Trailers is a mapping from trailer key to its value, the last occurrence
// winning when a key repeats.
type Trailers map[string]string

var trailerLineRe = regexp.MustCompile(`^([A-Za-z0-9-]+):\s?(.*)$`)

// ParseTrailers extracts the final trailer block from a commit body:
// consecutive `Key: Value` lines, keys matching [A-Za-z0-9-]+, separated
// from the rest of the body by a blank line or appearing at end of body.
func ParseTrailers(body string) Trailers {
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")

	end := len(lines)
	start := end
	for i := end - 1; i >= 0; i-- {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			if start < end {
				break
			}
			continue
		}
		if !trailerLineRe.MatchString(line) {
			break
		}
		start = i
	}

	trailers := Trailers{}
	if start == end {
		return trailers
	}
	for _, line := range lines[start:end] {
		m := trailerLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		trailers[m[1]] = m[2]
	}
	return trailers
}

// AddTrailers appends trailers to message's trailer block, replacing any
// existing occurrence of each key rather than accumulating duplicates. An
// empty trailers map returns message unchanged. AddTrailers is idempotent:
// applying it twice with the same trailers produces the same result as
// applying it once.
func AddTrailers(message string, trailers Trailers) string {
	if len(trailers) == 0 {
		return message
	}

	trimmed := strings.TrimRight(message, "\n")
	lines := strings.Split(trimmed, "\n")

	blockStart := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			if blockStart < len(lines) {
				break
			}
			continue
		}
		if !trailerLineRe.MatchString(line) {
			break
		}
		blockStart = i
	}

	var existing []string
	hasBlock := blockStart < len(lines)
	if hasBlock {
		existing = lines[blockStart:]
		lines = lines[:blockStart]
	}

	merged := Trailers{}
	var order []string
	for _, line := range existing {
		m := trailerLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if _, seen := merged[m[1]]; !seen {
			order = append(order, m[1])
		}
		merged[m[1]] = m[2]
	}
	for k, v := range trailers {
		if _, seen := merged[k]; !seen {
			order = append(order, k)
		}
		merged[k] = v
	}

	var block []string
	for _, k := range order {
		block = append(block, k+": "+merged[k])
	}

	body := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	if body == "" {
		return strings.Join(block, "\n") + "\n"
	}
	return body + "\n\n" + strings.Join(block, "\n") + "\n"
}

// RemoveTrailers drops every occurrence of the given keys from message's
// trailer block, leaving the rest of the block (and the message if it
// carries no trailer block at all) untouched. Removing a key not present
// is a no-op.
func RemoveTrailers(message string, keys ...string) string {
	if len(keys) == 0 {
		return message
	}
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}

	trimmed := strings.TrimRight(message, "\n")
	lines := strings.Split(trimmed, "\n")

	blockStart := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			if blockStart < len(lines) {
				break
			}
			continue
		}
		if !trailerLineRe.MatchString(line) {
			break
		}
		blockStart = i
	}
	if blockStart == len(lines) {
		return message
	}

	existing := lines[blockStart:]
	lines = lines[:blockStart]

	var block []string
	for _, line := range existing {
		m := trailerLineRe.FindStringSubmatch(line)
		if m == nil || drop[m[1]] {
			continue
		}
		block = append(block, line)
	}

	body := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	if len(block) == 0 {
		return body + "\n"
	}
	if body == "" {
		return strings.Join(block, "\n") + "\n"
	}
	return body + "\n\n" + strings.Join(block, "\n") + "\n"
}
