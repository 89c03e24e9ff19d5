package models

import "time"

// StudentLessonProgress tracks one lesson occurrence for one student:
// completion state and assessment-access state. Mirrors the daily
// schedule instance 1:1, keyed by (student, date, period number).
type StudentLessonProgress struct {
	ID                       int64
	StudentID                int64
	LessonTopicID            int64
	ScheduleInstanceID       *int64
	AssessmentID             *int64
	ScheduledDate            time.Time
	PeriodNumber             int
	PeriodSequence           *int
	TotalPeriodsInSequence   *int
	PreviousPeriodProgressID *int64
	AssessmentAccessible     bool
	Completed                bool
	CompletedAt              *time.Time
	AssessmentWindowStart    *time.Time
	AssessmentWindowEnd      *time.Time
	GracePeriodEnd           *time.Time
	RequiresCustomAssessment bool
	SubmissionID             *int64
	IncompleteReason         string
	AutoMarkedIncompleteAt   *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// HasPreviousPeriod reports whether this progress depends on an earlier
// period of the same topic.
func (p *StudentLessonProgress) HasPreviousPeriod() bool {
	return p.PreviousPeriodProgressID != nil
}

// HasWindow reports whether both window bounds are set.
func (p *StudentLessonProgress) HasWindow() bool {
	return p.AssessmentWindowStart != nil && p.AssessmentWindowEnd != nil
}

// SequenceOrDefault returns the period sequence, defaulting to 1 for
// single-period lessons.
func (p *StudentLessonProgress) SequenceOrDefault() int {
	if p.PeriodSequence != nil {
		return *p.PeriodSequence
	}
	return 1
}
