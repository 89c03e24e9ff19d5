package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

var (
	// ErrWindowInPast is returned when a reschedule window starts at or
	// before the current time.
	ErrWindowInPast = errors.New("rescheduled window must start in the future")
	// ErrInvalidWindow is returned when a window's end does not follow
	// its start.
	ErrInvalidWindow = errors.New("window end must be after window start")
)

// RescheduleNotifier lets the reschedule service tell a student about
// their new window. The email service implements it; a nil notifier
// disables notification.
type RescheduleNotifier interface {
	SendRescheduleNotice(ctx context.Context, student *models.StudentProfile, assessment *models.Assessment, rs *models.AssessmentWindowReschedule) error
}

// RescheduleService manages teacher-issued window overrides. At most
// one reschedule is active per (student, assessment); creating a new
// one retires any predecessor.
type RescheduleService struct {
	reschedules RescheduleStore
	assessments AssessmentStore
	students    StudentStore
	notifier    RescheduleNotifier
}

// NewRescheduleService creates a new reschedule service
func NewRescheduleService(reschedules RescheduleStore, assessments AssessmentStore, students StudentStore, notifier RescheduleNotifier) *RescheduleService {
	return &RescheduleService{
		reschedules: reschedules,
		assessments: assessments,
		students:    students,
		notifier:    notifier,
	}
}

// Create issues a new reschedule. A zero newEnd defaults to one hour
// after newStart; the grace end defaults to thirty minutes after the
// end. The student is notified by email when a notifier is configured,
// and a notification failure never fails the reschedule itself.
func (s *RescheduleService) Create(ctx context.Context, studentID, assessmentID int64, newStart, newEnd time.Time, reason string, createdByID int64, now time.Time) (*models.AssessmentWindowReschedule, error) {
	student, err := s.students.GetByID(studentID)
	if err != nil {
		return nil, fmt.Errorf("loading student %d: %w", studentID, err)
	}
	assessment, err := s.assessments.GetByID(assessmentID)
	if err != nil {
		return nil, fmt.Errorf("loading assessment %d: %w", assessmentID, err)
	}

	if !newStart.After(now) {
		return nil, ErrWindowInPast
	}
	if newEnd.IsZero() {
		newEnd = newStart.Add(time.Hour)
	}
	if !newEnd.After(newStart) {
		return nil, ErrInvalidWindow
	}
	graceEnd := newEnd.Add(RescheduleGraceMins * time.Minute)

	if err := s.reschedules.DeactivateAllFor(studentID, assessmentID, now); err != nil {
		return nil, fmt.Errorf("retiring previous reschedules: %w", err)
	}

	rs, err := s.reschedules.Create(&models.AssessmentWindowReschedule{
		StudentID:      studentID,
		AssessmentID:   assessmentID,
		ReferenceCode:  newReferenceCode(),
		NewWindowStart: newStart,
		NewWindowEnd:   newEnd,
		NewGraceEnd:    &graceEnd,
		Reason:         reason,
		CreatedByID:    createdByID,
	})
	if err != nil {
		return nil, fmt.Errorf("creating reschedule: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.SendRescheduleNotice(ctx, student, assessment, rs); err != nil {
			log.Printf("Failed to send reschedule notice %s: %v", rs.ReferenceCode, err)
		}
	}
	return rs, nil
}

// Cancel deactivates a reschedule, restoring the progress record's own
// window.
func (s *RescheduleService) Cancel(id int64, now time.Time) error {
	return s.reschedules.Deactivate(id, now)
}

// ListActiveForStudent returns a student's active reschedules.
func (s *RescheduleService) ListActiveForStudent(studentID int64) ([]models.AssessmentWindowReschedule, error) {
	return s.reschedules.ListActiveForStudent(studentID)
}

func newReferenceCode() string {
	return "RS-" + strings.ToUpper(uuid.NewString()[:8])
}
