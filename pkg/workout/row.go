// Package workout holds the output row shared by the batch writers, the
// database models and the reports.
package workout

import (
	"time"

	"fitocr/pkg/extract"
	"fitocr/pkg/naming"
)

// Header is the column order of every tabular output.
var Header = []string{
	"date", "clock_time", "mode", "start_location", "end_location",
	"total_time", "distance_km", "pause", "calories",
}

// Row is one workout. Missing values are empty strings.
type Row struct {
	Date          string `json:"date" yaml:"date" parquet:"date"`
	ClockTime     string `json:"clock_time" yaml:"clock_time" parquet:"clock_time"`
	Mode          string `json:"mode" yaml:"mode" parquet:"mode"`
	StartLocation string `json:"start_location" yaml:"start_location" parquet:"start_location"`
	EndLocation   string `json:"end_location" yaml:"end_location" parquet:"end_location"`
	TotalTime     string `json:"total_time" yaml:"total_time" parquet:"total_time"`
	DistanceKM    string `json:"distance_km" yaml:"distance_km" parquet:"distance_km"`
	Pause         string `json:"pause" yaml:"pause" parquet:"pause"`
	Calories      string `json:"calories" yaml:"calories" parquet:"calories"`
}

// Strings returns the row in Header order.
func (r Row) Strings() []string {
	return []string{r.Date, r.ClockTime, r.Mode, r.StartLocation, r.EndLocation, r.TotalTime, r.DistanceKM, r.Pause, r.Calories}
}

// ClockLayout formats the file-time fallback for the clock column.
const ClockLayout = "15:04:05"

// Build joins the filename context, the extracted record and the file time.
// fileTime fills the clock column only when the transcript had none.
func Build(c naming.Context, rec extract.Record, fileTime time.Time) Row {
	clock := rec.ClockTime
	if clock == "" && !fileTime.IsZero() {
		clock = fileTime.Format(ClockLayout)
	}
	return Row{
		Date:          c.Date,
		ClockTime:     clock,
		Mode:          c.Mode,
		StartLocation: c.Start,
		EndLocation:   c.End,
		TotalTime:     rec.TotalTime,
		DistanceKM:    rec.DistanceKM,
		Pause:         rec.Pause,
		Calories:      rec.Calories,
	}
}
