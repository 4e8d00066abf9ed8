package chatstore

import (
	"strings"
	"unicode"
)

const maxTitleRunes = 80

// deriveTitle produces a chat title from the first user message: internal
// whitespace collapsed, trimmed, and cut at a word boundary where possible.
// The cut is rune-based so multi-byte text is never split mid-character.
func deriveTitle(text string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsSpace(r) {
			if !prevSpace {
				cleaned.WriteRune(' ')
			}
			prevSpace = true
			continue
		}
		cleaned.WriteRune(r)
		prevSpace = false
	}

	title := cleaned.String()
	if title == "" {
		return "New Chat"
	}

	runes := []rune(title)
	if len(runes) <= maxTitleRunes {
		return title
	}

	truncated := string(runes[:maxTitleRunes])
	if idx := strings.LastIndex(truncated, " "); idx > maxTitleRunes/2 {
		truncated = truncated[:idx]
	}
	return truncated
}
