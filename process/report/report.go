// Package report aggregates workouts per month.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"fitocr/pkg/extract"
	"fitocr/pkg/store"
	"fitocr/pkg/workout"
)

// Summary is the aggregate of one month. Rows with an unparseable field
// count as sessions but contribute nothing to that field's total.
type Summary struct {
	Month         string         `json:"month" yaml:"month"`
	Sessions      int            `json:"sessions" yaml:"sessions"`
	DistanceKM    float64        `json:"distance_km" yaml:"distance_km"`
	Calories      int            `json:"calories" yaml:"calories"`
	TotalTime     string         `json:"total_time" yaml:"total_time"`
	AverageTime   string         `json:"average_time" yaml:"average_time"`
	TimedSessions int            `json:"timed_sessions" yaml:"timed_sessions"`
	ByMode        map[string]int `json:"by_mode" yaml:"by_mode"`
}

// ValidateMonth checks the YYYY-MM form.
func ValidateMonth(month string) error {
	if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("invalid month format, expected YYYY-MM: %w", err)
	}
	return nil
}

// Summarize aggregates the rows whose date starts with month. An empty month
// keeps every row.
func Summarize(rows []workout.Row, month string) Summary {
	s := Summary{Month: month, ByMode: map[string]int{}}
	var total extract.Duration
	for _, r := range rows {
		if month != "" && !strings.HasPrefix(r.Date, month) {
			continue
		}
		s.Sessions++
		mode := r.Mode
		if mode == "" {
			mode = "-"
		}
		s.ByMode[mode]++
		if km, err := strconv.ParseFloat(r.DistanceKM, 64); err == nil {
			s.DistanceKM += km
		}
		if kcal, err := strconv.Atoi(r.Calories); err == nil {
			s.Calories += kcal
		}
		if d, ok := extract.ParseDuration(r.TotalTime); ok {
			total += d
			s.TimedSessions++
		}
	}
	s.TotalTime = extract.FormatDuration(total, s.TimedSessions > 0)
	if s.TimedSessions > 0 {
		s.AverageTime = (total / extract.Duration(s.TimedSessions)).String()
	}
	return s
}

// Print writes the summary as plain text, optionally followed by the rows.
func Print(w io.Writer, who string, s Summary, rows []workout.Row) {
	fmt.Fprintf(w, "Report for user=%s month=%s:\n", who, s.Month)
	fmt.Fprintf(w, "  sessions=%d distance_km=%.2f calories=%d total_time=%s average_time=%s\n",
		s.Sessions, s.DistanceKM, s.Calories, dash(s.TotalTime), dash(s.AverageTime))
	modes := make([]string, 0, len(s.ByMode))
	for m := range s.ByMode {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	for _, m := range modes {
		fmt.Fprintf(w, "  mode %s: %d\n", m, s.ByMode[m])
	}
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r.Strings(), "|"))
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RunReport prints the month report of username from the workout store.
func RunReport(w io.Writer, st *store.Store, username, month string, list bool) error {
	if err := ValidateMonth(month); err != nil {
		return err
	}
	user, err := st.FindUser(username)
	if err != nil {
		return fmt.Errorf("user %s: %w", username, err)
	}
	items, err := st.ListWorkouts(store.WorkoutFilter{UserID: &user.ID, Month: month})
	if err != nil {
		return fmt.Errorf("query workouts: %w", err)
	}
	rows := make([]workout.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, it.Row())
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	var listed []workout.Row
	if list {
		listed = rows
	}
	Print(w, user.Username, Summarize(rows, month), listed)
	return nil
}
