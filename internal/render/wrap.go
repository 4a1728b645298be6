package render

import (
	"strings"
	"unicode/utf8"
)

// Wrap splits text into lines of at most width characters, breaking at
// whitespace. Words longer than width are split across lines. Whitespace
// runs collapse to one space and blank input yields no lines.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	var line strings.Builder
	lineLen := 0

	flush := func() {
		if lineLen > 0 {
			lines = append(lines, line.String())
			line.Reset()
			lineLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)

		if lineLen > 0 && lineLen+1+wordLen <= width {
			line.WriteByte(' ')
			line.WriteString(word)
			lineLen += 1 + wordLen
			continue
		}
		flush()

		for wordLen > width {
			head, tail := splitRunes(word, width)
			lines = append(lines, head)
			word, wordLen = tail, wordLen-width
		}
		line.WriteString(word)
		lineLen = wordLen
	}
	flush()

	return lines
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
