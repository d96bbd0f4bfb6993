package extract

import (
	"regexp"
	"strings"
)

var distanceRE = regexp.MustCompile(`(?i)(\d{1,3}(?:[.,]\d{1,2})?)\s*km\b`)

// Distance returns the first number written right before a "km" unit, with a
// decimal comma normalized to a point.
func Distance(text string) string {
	m := distanceRE.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], ",", ".")
}
