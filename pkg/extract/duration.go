package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// Duration is a non-negative number of seconds decoded from a duration token.
type Duration int

// ParseDuration decodes "H:MM:SS" or "M:SS" (whitespace around the colons tolerated).
// Minutes and seconds must be 0-59 in the trailing fields.
func ParseDuration(s string) (Duration, bool) {
	parts, ok := splitFields(s)
	if !ok {
		return 0, false
	}
	switch len(parts) {
	case 3:
		return Duration(parts[0]*3600 + parts[1]*60 + parts[2]), true
	case 2:
		return Duration(parts[0]*60 + parts[1]), true
	}
	return 0, false
}

// Seconds returns the raw second count.
func (d Duration) Seconds() int { return int(d) }

// String renders M:SS under one hour and H:MM:SS otherwise (no leading zero on the hour).
func (d Duration) String() string {
	sec := int(d)
	if sec >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", sec/3600, (sec%3600)/60, sec%60)
	}
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

// FormatDuration formats an optional duration; absent renders as "".
func FormatDuration(d Duration, ok bool) string {
	if !ok {
		return ""
	}
	return d.String()
}

// Canonical re-renders a duration string, or returns "" when it does not parse.
func Canonical(s string) string {
	d, ok := ParseDuration(s)
	return FormatDuration(d, ok)
}

// splitFields parses colon-separated numeric fields. The first field is free
// (1-3 digits), every following field must be two digits in 00-59.
func splitFields(s string) ([]int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	raw := strings.Split(s, ":")
	if len(raw) < 2 || len(raw) > 3 {
		return nil, false
	}
	out := make([]int, 0, len(raw))
	for i, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" || len(r) > 3 || onlyDigits(r) != r {
			return nil, false
		}
		n, err := strconv.Atoi(r)
		if err != nil {
			return nil, false
		}
		if i > 0 && (len(r) != 2 || n > 59) {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// onlyDigits extracts decimal digits from a string.
func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
