package cleaner

import (
	"regexp"
	"strings"
)

// urlPattern matches a scheme-prefixed run of non-whitespace characters.
// Unicode spaces (NBSP, ideographic space, ...) end a match like ASCII ones.
var urlPattern = regexp.MustCompile(`https?://[^\s\v\p{Z}\x{1c}-\x{1f}\x{85}]+`)

// trailingPunct is stripped from the right end of detected candidates.
const trailingPunct = ".,!?)"

// Detect returns every URL-like substring of text in order of appearance.
// Duplicates are kept.
func Detect(text string) []string {
	if text == "" {
		return nil
	}
	return urlPattern.FindAllString(text, -1)
}

// TrimTrailing removes sentence punctuation glued to the end of a candidate,
// e.g. "https://x.com/a)." becomes "https://x.com/a".
func TrimTrailing(candidate string) string {
	return strings.TrimRight(candidate, trailingPunct)
}
