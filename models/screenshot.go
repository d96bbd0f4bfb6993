package models

import (
	"time"
)

// Screenshot is an uploaded image. Failed screenshots are kept for review.
type Screenshot struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       uint   `gorm:"index;not null"`
	FileName     string `gorm:"size:255;not null"`
	StorePath    string `gorm:"column:store_path;size:512"`
	ContentType  string `gorm:"size:128"`
	WorkoutID    *uint  `gorm:"index"`
	Failed       bool   `gorm:"default:false;index"`
	FailedReason string `gorm:"size:255"`
}
