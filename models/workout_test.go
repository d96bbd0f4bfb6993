package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fitocr/pkg/workout"
)

func TestNewWorkout_RoundTripsRow(t *testing.T) {
	row := workout.Row{Date: "2024-05-01", ClockTime: "07:42", Mode: "corsa", StartLocation: "Milano", EndLocation: "Monza", TotalTime: "1:10:00", DistanceKM: "8.4", Pause: "10:00", Calories: "612"}
	w := NewWorkout(3, "a.jpg", SourceBatch, row)

	assert.Equal(t, uint(3), w.UserID)
	assert.Equal(t, 4200, w.TotalSeconds)
	assert.Equal(t, SourceBatch, w.Source)
	assert.Equal(t, row, w.Row())

	assert.Zero(t, NewWorkout(3, "b.jpg", SourceBatch, workout.Row{}).TotalSeconds)
}
