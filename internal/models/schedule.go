package models

import (
	"fmt"
	"time"
)

// ScheduleSource distinguishes class-wide instances from individually
// scheduled ones.
type ScheduleSource string

const (
	SourceClass      ScheduleSource = "CLASS"
	SourceIndividual ScheduleSource = "INDIVIDUAL"
)

// WeeklyScheduleTemplate is the recurring definition a class follows:
// one row per (class level, week number, day of week, period number).
// Edits after materialization do not alter already-created instances.
type WeeklyScheduleTemplate struct {
	ID            int64
	ClassLevel    string
	WeekNumber    int
	DayOfWeek     time.Weekday
	PeriodNumber  int
	SubjectID     int64
	LessonTopicID int64
	TeacherName   string
	StartTime     string // "HH:MM", may be empty
	EndTime       string // "HH:MM", may be empty
	AssessmentID  *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasTimeWindow reports whether both clock times are present.
func (t *WeeklyScheduleTemplate) HasTimeWindow() bool {
	return t.StartTime != "" && t.EndTime != ""
}

// DailyScheduleInstance is one concrete occurrence of a template for one
// student on one date. Unique per (student, date, period number).
type DailyScheduleInstance struct {
	ID                    int64
	StudentID             int64
	TemplateID            *int64
	SubjectID             int64
	LessonTopicID         *int64
	AssessmentID          *int64
	ScheduledDate         time.Time
	PeriodNumber          int
	StartTime             string
	EndTime               string
	AssessmentWindowStart *time.Time
	AssessmentWindowEnd   *time.Time
	Source                ScheduleSource
	PeriodSequence        *int
	TotalPeriodsForTopic  *int
	CreatedAt             time.Time
}

// IsMultiPeriod reports whether this instance is part of a multi-period
// lesson sequence.
func (i *DailyScheduleInstance) IsMultiPeriod() bool {
	return i.TotalPeriodsForTopic != nil && *i.TotalPeriodsForTopic > 1
}

// ParseClock parses a "HH:MM" clock string.
func ParseClock(s string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return hour, minute, nil
}

// CombineDateClock builds an absolute time from a date and a "HH:MM"
// clock string, in the date's location.
func CombineDateClock(date time.Time, clock string) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}
