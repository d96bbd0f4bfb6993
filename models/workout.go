package models

import (
	"time"

	"fitocr/pkg/extract"
	"fitocr/pkg/workout"
)

// Workout sources.
const (
	SourceBatch  = "batch"
	SourceUpload = "upload"
)

// Workout is one extracted row, unique per user and file name.
type Workout struct {
	ID            uint `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UserID        uint   `gorm:"index;not null;uniqueIndex:idx_workout_user_file"`
	FileName      string `gorm:"size:255;not null;uniqueIndex:idx_workout_user_file"`
	Date          string `gorm:"size:32;index"`
	ClockTime     string `gorm:"size:16"`
	Mode          string `gorm:"size:128"`
	StartLocation string `gorm:"size:255"`
	EndLocation   string `gorm:"size:255"`
	TotalTime     string `gorm:"size:16"`
	TotalSeconds  int    `gorm:"not null;default:0"`
	DistanceKM    string `gorm:"size:16"`
	Pause         string `gorm:"size:16"`
	Calories      string `gorm:"size:16"`
	Source        string `gorm:"size:16"`
}

// NewWorkout maps a row to a Workout owned by userID.
func NewWorkout(userID uint, fileName, source string, r workout.Row) Workout {
	w := Workout{
		UserID:        userID,
		FileName:      fileName,
		Date:          r.Date,
		ClockTime:     r.ClockTime,
		Mode:          r.Mode,
		StartLocation: r.StartLocation,
		EndLocation:   r.EndLocation,
		TotalTime:     r.TotalTime,
		DistanceKM:    r.DistanceKM,
		Pause:         r.Pause,
		Calories:      r.Calories,
		Source:        source,
	}
	if d, ok := extract.ParseDuration(r.TotalTime); ok {
		w.TotalSeconds = d.Seconds()
	}
	return w
}

// Row converts back to the tabular form.
func (w Workout) Row() workout.Row {
	return workout.Row{
		Date:          w.Date,
		ClockTime:     w.ClockTime,
		Mode:          w.Mode,
		StartLocation: w.StartLocation,
		EndLocation:   w.EndLocation,
		TotalTime:     w.TotalTime,
		DistanceKM:    w.DistanceKM,
		Pause:         w.Pause,
		Calories:      w.Calories,
	}
}
