package extract

import "strings"

// DefaultProximityWindow is how many bytes either side of a token start are
// searched for a keyword by the window fallback.
const DefaultProximityWindow = 60

type line struct {
	text  string
	start int
}

// splitLines splits on \n keeping each line's byte offset; a trailing \r is dropped.
func splitLines(text string) []line {
	if text == "" {
		return nil
	}
	var out []line
	start := 0
	for {
		i := strings.IndexByte(text[start:], '\n')
		if i == -1 {
			out = append(out, line{text: strings.TrimSuffix(text[start:], "\r"), start: start})
			return out
		}
		out = append(out, line{text: strings.TrimSuffix(text[start:start+i], "\r"), start: start})
		start += i + 1
	}
}

// containsAny reports whether the lowercase form of s contains one of the
// (lowercase) keywords.
func containsAny(s string, keywords []string) bool {
	low := strings.ToLower(s)
	for _, k := range keywords {
		if k != "" && strings.Contains(low, k) {
			return true
		}
	}
	return false
}

func lowerAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		out = append(out, strings.ToLower(strings.TrimSpace(k)))
	}
	return out
}

// window returns text[start-radius : start+radius] clamped to the text bounds.
func window(text string, start, radius int) string {
	lo, hi := start-radius, start+radius
	if lo < 0 {
		lo = 0
	}
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

// NearKeywords returns the duration string best associated with one of keywords.
// The first line holding a keyword is tried, then the line after it; failing
// that, the first token (document order) with a keyword inside its proximity
// window, keywords tried in the order given. "" means no association exists.
func NearKeywords(text string, keywords []string) string {
	return nearKeywords(text, keywords, DefaultProximityWindow)
}

func nearKeywords(text string, keywords []string, radius int) string {
	t, _ := nearKeywordsToken(text, keywords, radius)
	return t.Raw
}

// nearKeywordsToken is nearKeywords keeping the token offsets.
func nearKeywordsToken(text string, keywords []string, radius int) (Token, bool) {
	keywords = lowerAll(keywords)
	if t, ok := sameOrNextLine(text, keywords); ok {
		return t, true
	}
	return inWindow(text, keywords, radius)
}

func sameOrNextLine(text string, keywords []string) (Token, bool) {
	lines := splitLines(text)
	for i, l := range lines {
		if !containsAny(l.text, keywords) {
			continue
		}
		if t, ok := firstToken(l.text); ok {
			return t.shift(l.start), true
		}
		if i+1 < len(lines) {
			if t, ok := firstToken(lines[i+1].text); ok {
				return t.shift(lines[i+1].start), true
			}
		}
		return Token{}, false
	}
	return Token{}, false
}

func inWindow(text string, keywords []string, radius int) (Token, bool) {
	tokens := FindTokens(text)
	for _, k := range keywords {
		if k == "" {
			continue
		}
		for _, t := range tokens {
			if strings.Contains(strings.ToLower(window(text, t.Start, radius)), k) {
				return t, true
			}
		}
	}
	return Token{}, false
}
