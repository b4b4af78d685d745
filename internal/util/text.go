package util

import (
	"strings"
	"unicode"
)

// CleanText normalizes raw extracted text. Runs of whitespace collapse to a
// single space, paragraph breaks (blank lines) are kept as a single newline,
// and non-printable runes left behind by PDF extraction are dropped.
func CleanText(text string) string {
	text = strings.ToValidUTF8(text, "")

	var b strings.Builder
	b.Grow(len(text))

	newlines := 0
	spaces := 0
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r':
			newlines++
		case unicode.IsSpace(r):
			spaces++
		case unicode.IsPrint(r):
			if b.Len() > 0 {
				if newlines > 1 {
					b.WriteByte('\n')
				} else if newlines == 1 || spaces > 0 {
					b.WriteByte(' ')
				}
			}
			newlines = 0
			spaces = 0
			b.WriteRune(r)
		}
	}

	return b.String()
}

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
