package models

import (
	"fmt"
	"time"
)

// Schedule is a dated programming period owning a set of spots.
// StartDate and EndDate are inclusive calendar days.
type Schedule struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement;column:id"`
	StartDate time.Time `json:"start_date" gorm:"type:date;not null;column:start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" gorm:"type:date;not null;column:end_date" validate:"required"`
}

// TableName overrides GORM's pluralization
func (Schedule) TableName() string {
	return "schedules"
}

// NewSchedule creates a schedule covering the inclusive date range
func NewSchedule(startDate, endDate time.Time) *Schedule {
	return &Schedule{
		StartDate: truncateToDate(startDate),
		EndDate:   truncateToDate(endDate),
	}
}

// Contains reports whether the given day falls within the schedule's range
func (s *Schedule) Contains(day time.Time) bool {
	d := truncateToDate(day)
	return !d.Before(truncateToDate(s.StartDate)) && !d.After(truncateToDate(s.EndDate))
}

// String renders the schedule's range, e.g. "2026-01-05 until 2026-03-29"
func (s *Schedule) String() string {
	return fmt.Sprintf("%s until %s",
		s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"))
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
