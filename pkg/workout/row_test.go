package workout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fitocr/pkg/extract"
	"fitocr/pkg/naming"
)

func TestBuild_FileTimeOnlyWhenNoClock(t *testing.T) {
	c := naming.Context{Date: "2024-05-01", Mode: "corsa", Start: "Milano", End: "Monza"}
	mtime := time.Date(2024, 5, 1, 6, 58, 9, 0, time.Local)

	row := Build(c, extract.Record{TotalTime: "1:10:00", Calories: "612"}, mtime)
	assert.Equal(t, "06:58:09", row.ClockTime)
	assert.Equal(t, []string{"2024-05-01", "06:58:09", "corsa", "Milano", "Monza", "1:10:00", "", "", "612"}, row.Strings())

	row = Build(c, extract.Record{ClockTime: "07:42"}, mtime)
	assert.Equal(t, "07:42", row.ClockTime)
}

func TestBuild_EmptyTranscriptStillHasContext(t *testing.T) {
	row := Build(naming.Context{Date: "2024-05-01", Start: "A", End: "B"}, extract.Record{}, time.Time{})
	assert.Equal(t, Row{Date: "2024-05-01", StartLocation: "A", EndLocation: "B"}, row)
	assert.Len(t, row.Strings(), len(Header))
}
