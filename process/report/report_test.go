package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"fitocr/pkg/workout"
)

var rows = []workout.Row{
	{Date: "2024-05-01", Mode: "corsa", TotalTime: "1:10:00", DistanceKM: "8.4", Calories: "612"},
	{Date: "2024-05-03", Mode: "bici", TotalTime: "50:00", DistanceKM: "20", Calories: "410"},
	{Date: "2024-05-07", Mode: "corsa", DistanceKM: "", Calories: "abc"},
	{Date: "2024-06-01", Mode: "corsa", TotalTime: "30:00", DistanceKM: "5", Calories: "300"},
}

func TestSummarize_Month(t *testing.T) {
	s := Summarize(rows, "2024-05")
	assert.Equal(t, 3, s.Sessions)
	assert.InDelta(t, 28.4, s.DistanceKM, 1e-9)
	assert.Equal(t, 1022, s.Calories)
	assert.Equal(t, "2:00:00", s.TotalTime)
	assert.Equal(t, 2, s.TimedSessions)
	assert.Equal(t, "1:00:00", s.AverageTime)
	assert.Equal(t, map[string]int{"corsa": 2, "bici": 1}, s.ByMode)
}

func TestSummarize_EmptyMonth(t *testing.T) {
	s := Summarize(rows, "2023-01")
	assert.Zero(t, s.Sessions)
	assert.Empty(t, s.TotalTime)
	assert.Empty(t, s.AverageTime)

	assert.Equal(t, 4, Summarize(rows, "").Sessions)
}

func TestValidateMonth(t *testing.T) {
	assert.NoError(t, ValidateMonth("2024-05"))
	assert.Error(t, ValidateMonth("2024-5-01"))
	assert.Error(t, ValidateMonth("maggio"))
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, "runner", Summarize(rows, "2024-06"), rows[3:])
	assert.Equal(t, "Report for user=runner month=2024-06:\n"+
		"  sessions=1 distance_km=5.00 calories=300 total_time=30:00 average_time=30:00\n"+
		"  mode corsa: 1\n"+
		"2024-06-01||corsa|||30:00|5||300\n", buf.String())
}
