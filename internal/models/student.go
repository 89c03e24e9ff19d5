package models

import "time"

// StudentProfile represents an enrolled student
type StudentProfile struct {
	ID         int64
	Name       string
	ClassLevel string
	Email      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Subject represents a taught subject for a class level
type Subject struct {
	ID         int64
	Name       string
	ClassLevel string
	CreatedAt  time.Time
}

// LessonTopic represents one topic within a subject's term plan
type LessonTopic struct {
	ID         int64
	SubjectID  int64
	TermID     int64
	Title      string
	WeekNumber int
	CreatedAt  time.Time
}
