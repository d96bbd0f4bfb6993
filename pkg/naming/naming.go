// Package naming reads the workout context encoded in screenshot filenames:
//
//	"<date>[.<n>] <mode words> - <start> [via ...] <end> [(<note>)].jpg"
package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrNotWorkout marks files whose name has no " - " separator.
	ErrNotWorkout = errors.New("filename is not a workout screenshot")
	// ErrNoRoute marks names with nothing after the separator.
	ErrNoRoute = errors.New("filename has no route")
)

const separator = " - "

// Context is what a filename says about the workout.
type Context struct {
	Date  string
	Mode  string
	Start string
	End   string
}

// Parse extracts the Context from a file name or path.
func Parse(filename string) (Context, error) {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	left, route, ok := strings.Cut(name, separator)
	if !ok {
		return Context{}, fmt.Errorf("%q: %w", base, ErrNotWorkout)
	}

	var c Context
	words := strings.Fields(left)
	if len(words) > 0 {
		c.Date, _, _ = strings.Cut(words[0], ".")
		c.Mode = strings.Join(words[1:], " ")
	}

	route, _, _ = strings.Cut(route, " (")
	stops := strings.Fields(route)
	if len(stops) == 0 {
		return c, fmt.Errorf("%q: %w", base, ErrNoRoute)
	}
	c.Start = stops[0]
	c.End = stops[len(stops)-1]
	return c, nil
}
