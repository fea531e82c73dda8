package rewrite

import (
	"regexp"
	"strings"
)

var (
	// Parenthesized or bracketed model disclaimers, e.g.
	// "(Note: This is a machine rewrite ...)".
	inlineNoteRe = regexp.MustCompile(`(?i)[\(\[]\s*note:[^)\]]*[\)\]]`)
	// Blank-line runs collapse to a single newline.
	blankRunsRe = regexp.MustCompile(`\n\s*\n+`)
)

// Sanitize normalizes LLM prose before publishing: drops disclaimer
// segments and lines, collapses blank-line runs into single newlines and
// trims the result.
func Sanitize(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	text = inlineNoteRe.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(trimmed, "note:") {
			continue
		}
		kept = append(kept, line)
	}
	text = strings.Join(kept, "\n")

	text = blankRunsRe.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
