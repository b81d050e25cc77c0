package ops

import "strings"

// parseConflictFiles extracts the conflicting paths out of a
// vcs.MergeResult.ConflictInfo blob: one or more lines of the shape
// `CONFLICT (<kind>): <reason> <path>`, path always the final field.
func parseConflictFiles(conflictInfo string) []string {
	var files []string
	seen := map[string]bool{}
	for _, line := range strings.Split(conflictInfo, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		path := fields[len(fields)-1]
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	return files
}
