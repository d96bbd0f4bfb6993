package ocr

import (
	"strings"
	"unicode/utf8"
)

// snippet returns a shortened version of text for logging, cut on a rune
// boundary.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

// cleanTranscript normalizes line endings and drops trailing spaces and blank
// trailing lines. Line structure is kept: the extractors read it.
func cleanTranscript(t string) string {
	t = strings.ReplaceAll(t, "\r\n", "\n")
	t = strings.ReplaceAll(t, "\f", "\n")
	lines := strings.Split(t, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(strings.ReplaceAll(l, "\t", " "), " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
