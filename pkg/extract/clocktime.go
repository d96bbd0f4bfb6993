package extract

import "strings"

// DefaultClockWindow is the exclusion radius around a token for duration words.
const DefaultClockWindow = 50

// ClockExcludeWords mark a token as a duration rather than a time of day.
var ClockExcludeWords = []string{"tempo", "durata", "totale", "allenamento", "movimento"}

// ClockTime picks the time of day the activity started: the first single-colon
// token far from every exclude word whose hour is 0-23, formatted HH:MM.
// "" tells the caller to use another clock source.
func ClockTime(text string, exclude []string) string {
	return clockTime(text, exclude, DefaultClockWindow, nil)
}

// clockTime skips the tokens whose start offset is in claimed: they already
// hold a duration field.
func clockTime(text string, exclude []string, radius int, claimed map[int]bool) string {
	exclude = lowerAll(exclude)
	for t := range Tokens(text) {
		if t.Colons() != 1 || claimed[t.Start] {
			continue
		}
		if nearWord(text, t.Start, radius, exclude) {
			continue
		}
		if hm, ok := t.ClockTime(); ok {
			return hm
		}
	}
	return ""
}

func nearWord(text string, start, radius int, words []string) bool {
	w := strings.ToLower(window(text, start, radius))
	for _, k := range words {
		if k != "" && strings.Contains(w, k) {
			return true
		}
	}
	return false
}
