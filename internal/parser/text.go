package parser

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended when text is cut without landing on a sentence end.
const Ellipsis = "..."

// sentenceEndings are the markers TruncateSentence may cut after. The two
// Korean endings matter because "다." and "요." close most news sentences.
var sentenceEndings = []string{
	".", "?", "!",
	"。", "！", "？", "…", "．", "․", "·", "‥", "ㅤ", "⸺",
	"요.", "다.",
}

// Clean collapses every whitespace run into a single space and trims the
// ends.
func Clean(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// TruncateSentence shortens text to at most maxLen characters, cutting right
// after the last sentence-ending marker that fits. Text that already fits is
// returned unchanged. When no marker fits, the first maxLen characters are
// returned followed by Ellipsis.
//
// Lengths count runes. Markers that end at the same position produce the
// same cut, so marker order never changes the result.
func TruncateSentence(text string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	window := prefix(text, maxLen)
	best := 0
	for _, marker := range sentenceEndings {
		idx := strings.LastIndex(window, marker)
		if idx < 0 {
			continue
		}
		end := utf8.RuneCountInString(window[:idx]) + utf8.RuneCountInString(marker)
		if end > best {
			best = end
		}
	}

	if best <= 0 {
		return window + Ellipsis
	}
	return prefix(text, best)
}

// Cut shortens text to maxLen characters plus Ellipsis, without looking for
// sentence boundaries.
func Cut(text string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	return prefix(text, maxLen) + Ellipsis
}

// RuneLen is the character length used by every limit in this package.
func RuneLen(text string) int {
	return utf8.RuneCountInString(text)
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
