package models

import "time"

// Assessment represents a graded assessment tied to a lesson topic.
// Custom assessments target a single student when AI-generated questions
// are insufficient for a period.
type Assessment struct {
	ID              int64
	LessonTopicID   int64
	SubjectID       int64
	Title           string
	TotalMarks      int
	DurationMinutes int
	IsPublished     bool
	TargetStudentID *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AssessmentSubmission records a student's completed attempt.
type AssessmentSubmission struct {
	ID           int64
	AssessmentID int64
	StudentID    int64
	Score        *float64
	SubmittedAt  time.Time
}
