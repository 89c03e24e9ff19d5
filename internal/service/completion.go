package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

var (
	// ErrAlreadySubmitted is returned when a second submission is
	// attempted for the same (assessment, student).
	ErrAlreadySubmitted = errors.New("submission already exists")
	// ErrNotAccessible is returned when a submission is recorded for an
	// assessment whose access check denies the student.
	ErrNotAccessible = errors.New("assessment is not accessible")
)

// CompletionService drives progress records through their completion
// transitions and records assessment submissions.
type CompletionService struct {
	progress    ProgressStore
	assessments AssessmentStore
	arbiter     *AccessArbiter
}

// NewCompletionService creates a new completion service
func NewCompletionService(progress ProgressStore, assessments AssessmentStore, arbiter *AccessArbiter) *CompletionService {
	return &CompletionService{progress: progress, assessments: assessments, arbiter: arbiter}
}

// CompleteLesson marks a progress record completed. Completing an
// already completed record is a no-op.
func (s *CompletionService) CompleteLesson(progressID int64, now time.Time) error {
	p, err := s.progress.GetByID(progressID)
	if err != nil {
		return err
	}
	if p.Completed {
		return nil
	}
	return s.progress.MarkCompleted(progressID, now)
}

// MarkLessonIncomplete records that a lesson was not completed, with a
// reason shown to staff.
func (s *CompletionService) MarkLessonIncomplete(progressID int64, reason string, now time.Time) error {
	if _, err := s.progress.GetByID(progressID); err != nil {
		return err
	}
	return s.progress.MarkIncomplete(progressID, reason, now)
}

// RecordSubmission stores a student's submission, links it to the
// matching progress record, and marks that record completed. The access
// decision is re-checked at submission time so a student cannot submit
// outside their window.
func (s *CompletionService) RecordSubmission(studentID, assessmentID int64, score *float64, now time.Time) (*models.AssessmentSubmission, error) {
	exists, err := s.assessments.ExistsSubmission(assessmentID, studentID)
	if err != nil {
		return nil, fmt.Errorf("checking submission: %w", err)
	}
	if exists {
		return nil, ErrAlreadySubmitted
	}

	access, err := s.arbiter.CheckAssessmentAccess(studentID, assessmentID, now)
	if err != nil {
		return nil, err
	}
	if !access.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrNotAccessible, access.Reason)
	}

	submission, err := s.assessments.CreateSubmission(assessmentID, studentID, score)
	if err != nil {
		return nil, fmt.Errorf("creating submission: %w", err)
	}

	rows, err := s.progress.ListByStudentAndAssessment(studentID, assessmentID)
	if err != nil {
		return submission, fmt.Errorf("loading progress rows: %w", err)
	}
	for i := range rows {
		p := &rows[i]
		if p.Completed {
			continue
		}
		if err := s.progress.LinkSubmission(p.ID, submission.ID); err != nil {
			return submission, fmt.Errorf("linking submission: %w", err)
		}
		if err := s.progress.MarkCompleted(p.ID, now); err != nil {
			return submission, fmt.Errorf("completing progress %d: %w", p.ID, err)
		}
		break
	}
	return submission, nil
}
