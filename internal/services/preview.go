package services

import "strings"

// PreviewLimit is the maximum preview length in code points
const PreviewLimit = 64

// BuildPreview produces the bounded listing preview for an email body.
// Whitespace runs (including newlines) collapse to single spaces and the
// result is trimmed; text longer than limit is cut to limit-3 code points,
// right-trimmed, and terminated with "...".
func BuildPreview(text string, limit int) string {
	normalized := strings.Join(strings.Fields(text), " ")
	runes := []rune(normalized)
	if len(runes) <= limit {
		return normalized
	}
	return strings.TrimRight(string(runes[:limit-3]), " ") + "..."
}
