package index

import "strings"

// deriveTitle returns the first H1 heading of a Markdown document, or empty
// string when there is none. Pattern documents carry no frontmatter, so the
// heading is the only title source.
func deriveTitle(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
