package extract

import (
	"regexp"
	"strings"
)

// DefaultLookback is how many lines above a label are searched for its value.
const DefaultLookback = 5

var (
	// TotalTimeKeywords label the overall session duration.
	TotalTimeKeywords = []string{"tempo totale", "durata totale"}
	// TrainingTimeKeywords label the time actually spent moving.
	TrainingTimeKeywords = []string{"tempo di allenamento", "tempo in movimento", "allenamento", "movimento"}
)

// ResolveLabeled finds the duration labeled by keywords. Screenshot layouts put
// the value above its label, so the search runs backward: the nearest of the
// lookback lines above the label, then the last token anywhere before it, and
// finally NearKeywords.
func ResolveLabeled(text string, keywords []string) string {
	return resolveLabeled(text, keywords, DefaultLookback, DefaultProximityWindow)
}

func resolveLabeled(text string, keywords []string, lookback, radius int) string {
	t, _ := resolveLabeledToken(text, keywords, lookback, radius)
	return t.Raw
}

func resolveLabeledToken(text string, keywords []string, lookback, radius int) (Token, bool) {
	low := lowerAll(keywords)
	lines := splitLines(text)
	label := -1
	for i, l := range lines {
		if containsAny(l.text, low) {
			label = i
			break
		}
	}
	if label != -1 {
		for j := label - 1; j >= 0 && j >= label-lookback; j-- {
			if t, ok := firstToken(lines[j].text); ok {
				return t.shift(lines[j].start), true
			}
		}
		if t, ok := lastToken(text[:lines[label].start]); ok {
			return t, true
		}
	}
	return nearKeywordsToken(text, low, radius)
}

// ResolveTotalTime resolves the total-time value with the default keywords.
func ResolveTotalTime(text string) string {
	return ResolveLabeled(text, TotalTimeKeywords)
}

// ResolveTrainingTime resolves the training-time value with the default keywords.
func ResolveTrainingTime(text string) string {
	return ResolveLabeled(text, TrainingTimeKeywords)
}

// PreLabel returns the last duration token that starts before the first
// occurrence of any keyword, or "" when there is no label or no such token.
func PreLabel(text string, keywords []string) string {
	re := labelPattern(keywords)
	if re == nil {
		return ""
	}
	t, _ := preLabelToken(text, re)
	return t.Raw
}

// labelPattern compiles keywords into one case-insensitive alternation. The
// leftmost match is the first occurrence of any of them. nil means no keyword.
func labelPattern(keywords []string) *regexp.Regexp {
	var alts []string
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			alts = append(alts, regexp.QuoteMeta(k))
		}
	}
	if len(alts) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
}

func preLabelToken(text string, label *regexp.Regexp) (Token, bool) {
	loc := label.FindStringIndex(text)
	if loc == nil {
		return Token{}, false
	}
	return lastToken(text[:loc[0]])
}

// Arbitrate picks between a total-time candidate and the value found directly
// before the training-time label, keeping whichever decodes to more seconds.
// OCR sometimes anchors the total label to the smaller of two adjacent values.
// It acts only when both decode; otherwise, and on ties, total is returned
// unchanged, so a missing total stays missing.
func Arbitrate(total, preLabel string) string {
	td, tok := ParseDuration(total)
	pd, pok := ParseDuration(preLabel)
	if tok && pok && pd > td {
		return preLabel
	}
	return total
}

// Pause is total minus training, reported only when both decode and the
// difference is not negative.
func Pause(total, training string) string {
	td, tok := ParseDuration(total)
	rd, rok := ParseDuration(training)
	if !tok || !rok || td < rd {
		return ""
	}
	return (td - rd).String()
}
