package akn

import (
	"regexp"
	"strings"
)

var (
	trailingSpacePattern = regexp.MustCompile(`[ \t]+\n`)
	blankRunPattern      = regexp.MustCompile(`\n[ \t]*\n[\s]*`)
)

// FixText repairs paragraph-boundary formatting in body text: trailing
// whitespace is stripped from each line, runs of blank lines collapse to a
// single paragraph break, and outer blank space is trimmed. Runs immediately
// before the tree is finalized, after all other mutations.
func FixText(text string) string {
	text = trailingSpacePattern.ReplaceAllString(text, "\n")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// SplitParagraphs breaks a body region into its paragraphs: every non-blank
// line is one paragraph, matching the shape the raw filings use.
func SplitParagraphs(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
