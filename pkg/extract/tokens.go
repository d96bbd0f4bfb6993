package extract

import (
	"fmt"
	"iter"
	"regexp"
	"slices"
)

// durationRE matches clock-like tokens: 1-3 digits, colon, two digits 00-59 and an
// optional second colon group. Whitespace around colons is OCR noise and allowed.
var durationRE = regexp.MustCompile(`\d{1,3}\s*:\s*[0-5]\d(?:\s*:\s*[0-5]\d)?`)

// Token is a duration-looking substring of a transcript. It is not yet assigned a
// meaning: a two-part token may be M:SS or H:MM depending on where it sits.
type Token struct {
	Raw   string
	Start int // byte offset of the first character
	End   int // byte offset just past the last character
	Parts []int
}

// Colons reports how many field separators the token has (1 or 2).
func (t Token) Colons() int { return len(t.Parts) - 1 }

// shift moves the offsets of a token found in a substring starting at off.
func (t Token) shift(off int) Token {
	t.Start += off
	t.End += off
	return t
}

// ClockTime reads a two-part token as a 24-hour H:MM time of day.
func (t Token) ClockTime() (string, bool) {
	if len(t.Parts) != 2 || t.Parts[0] > 23 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", t.Parts[0], t.Parts[1]), true
}

// Tokens yields every duration token of text in document order. The sequence is
// restartable: each range over it scans text again.
func Tokens(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for _, loc := range durationRE.FindAllStringIndex(text, -1) {
			raw := text[loc[0]:loc[1]]
			parts, ok := splitFields(raw)
			if !ok {
				continue
			}
			if !yield(Token{Raw: raw, Start: loc[0], End: loc[1], Parts: parts}) {
				return
			}
		}
	}
}

// FindTokens collects Tokens into a slice.
func FindTokens(text string) []Token {
	return slices.Collect(Tokens(text))
}

// firstToken returns the first token of s, if any.
func firstToken(s string) (Token, bool) {
	for t := range Tokens(s) {
		return t, true
	}
	return Token{}, false
}

// lastToken returns the last token of s, if any.
func lastToken(s string) (Token, bool) {
	var last Token
	found := false
	for t := range Tokens(s) {
		last, found = t, true
	}
	return last, found
}
