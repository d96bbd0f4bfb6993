package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// DefaultCalorieFallbackMax caps the largest-number fallback.
const DefaultCalorieFallbackMax = 999

// Confusables maps letters OCR commonly produces in place of digits.
var Confusables = map[rune]rune{
	'b': '5', 'B': '8',
	'S': '5', 's': '5',
	'O': '0', 'o': '0',
	'l': '1', 'I': '1',
	'L': '4', 'Z': '2',
	'A': '4',
}

var (
	directCalRE  = regexp.MustCompile(`(?i)(\d[\s\d]{1,6})\s*k?\s*c\s*a\s*[l1]`)
	noisyUnitRE  = regexp.MustCompile(`(?i)k?\s*c\s*a\s*[l1]`)
	calTailRE    = regexp.MustCompile(`(?i)c\s*a\s*[l1]`)
	bareNumberRE = regexp.MustCompile(`\b\d{2,5}\b`)
	calDigitsRE  = regexp.MustCompile(`^\d{2,5}$`)
	calStripRE   = regexp.MustCompile(`\s+|[,:;.\-]`)
)

// CalorieStrategy is one layer of the calorie search. It reports a definite
// success or absence.
type CalorieStrategy struct {
	Name string
	Find func(text string) (string, bool)
}

// CalorieStrategies returns the layers in the order they are tried. A
// fallbackMax of 0 drops the largest-number layer.
func CalorieStrategies(fallbackMax int) []CalorieStrategy {
	out := []CalorieStrategy{
		{Name: "direct", Find: DirectCalories},
		{Name: "reconstructed", Find: ReconstructedCalories},
		{Name: "unit-adjacent", Find: UnitAdjacentCalories},
	}
	if fallbackMax > 0 {
		out = append(out, CalorieStrategy{Name: "largest-number", Find: func(text string) (string, bool) {
			return LargestNumberCalories(text, fallbackMax)
		}})
	}
	return out
}

// Calories runs the default layers; "" when none succeeds.
func Calories(text string) string {
	v, _ := runCalories(text, CalorieStrategies(DefaultCalorieFallbackMax))
	return v
}

// runCalories returns the value and the name of the layer that produced it.
func runCalories(text string, layers []CalorieStrategy) (string, string) {
	for _, l := range layers {
		if v, ok := l.Find(text); ok {
			return v, l.Name
		}
	}
	return "", ""
}

// DirectCalories matches digits immediately followed by a noisy "kcal"/"cal".
func DirectCalories(text string) (string, bool) {
	m := directCalRE.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := strings.Join(strings.Fields(m[1]), "")
	return v, v != ""
}

// ReconstructedCalories walks backward from every noisy unit occurrence,
// collecting digits, spacing, punctuation and confusable letters, then maps the
// letters back to digits. Only 2-5 digit results are accepted.
func ReconstructedCalories(text string) (string, bool) {
	for _, loc := range noisyUnitRE.FindAllStringIndex(text, -1) {
		raw := walkBack(text, loc[0])
		if raw == "" {
			continue
		}
		num := calStripRE.ReplaceAllString(correctConfusables(raw), "")
		if calDigitsRE.MatchString(num) {
			return num, true
		}
	}
	return "", false
}

func walkBack(text string, end int) string {
	j := end
	for j > 0 {
		c := rune(text[j-1])
		if text[j-1] >= 0x80 || !isCalorieRun(c) {
			break
		}
		j--
	}
	return text[j:end]
}

func isCalorieRun(c rune) bool {
	if unicode.IsDigit(c) || unicode.IsSpace(c) || strings.ContainsRune(",.-:;", c) {
		return true
	}
	_, ok := Confusables[c]
	return ok
}

func correctConfusables(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := Confusables[r]; ok {
			return d
		}
		return r
	}, s)
}

// UnitAdjacentCalories accepts a bare 2-5 digit number followed (after spacing)
// by a "k" with a noisy "cal" within the next five characters.
func UnitAdjacentCalories(text string) (string, bool) {
	for _, loc := range bareNumberRE.FindAllStringIndex(text, -1) {
		k := loc[1]
		for k < len(text) && isSpaceByte(text[k]) {
			k++
		}
		if k >= len(text) || (text[k] != 'k' && text[k] != 'K') {
			continue
		}
		end := k + 6
		if end > len(text) {
			end = len(text)
		}
		if calTailRE.MatchString(text[k+1 : end]) {
			return text[loc[0]:loc[1]], true
		}
	}
	return "", false
}

// LargestNumberCalories returns the largest bare 2-5 digit number not followed by
// "m" and not above max. Calorie counts on the supported export layout are the
// largest small number on screen; other layouts may not hold to that.
func LargestNumberCalories(text string, max int) (string, bool) {
	best := -1
	for _, loc := range bareNumberRE.FindAllStringIndex(text, -1) {
		if loc[1] < len(text) && (text[loc[1]] == 'm' || text[loc[1]] == 'M') {
			continue
		}
		n, err := strconv.Atoi(text[loc[0]:loc[1]])
		if err != nil || n > max {
			continue
		}
		if n > best {
			best = n
		}
	}
	if best < 0 {
		return "", false
	}
	return strconv.Itoa(best), true
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
