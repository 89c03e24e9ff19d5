package models

import "time"

// AssessmentWindowReschedule is a teacher-issued override of one
// student's access window for one assessment. At most one is active per
// (student, assessment); the progress record's own window is kept
// unmodified for audit.
type AssessmentWindowReschedule struct {
	ID             int64
	StudentID      int64
	AssessmentID   int64
	ReferenceCode  string
	NewWindowStart time.Time
	NewWindowEnd   time.Time
	NewGraceEnd    *time.Time
	Reason         string
	Active         bool
	CreatedByID    int64
	CreatedAt      time.Time
	DeactivatedAt  *time.Time
}

// CoversTime reports whether now falls within the rescheduled window.
func (r *AssessmentWindowReschedule) CoversTime(now time.Time) bool {
	return !now.Before(r.NewWindowStart) && !now.After(r.NewWindowEnd)
}
