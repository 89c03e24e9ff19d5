package service

import (
	"errors"
	"testing"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

func newCompletionFixture() (*arbiterFixture, *CompletionService) {
	f := newArbiterFixture()
	svc := NewCompletionService(f.progress, f.assessments, f.arbiter)
	return f, svc
}

func TestRecordSubmission(t *testing.T) {
	date := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	f, svc := newCompletionFixture()
	p := seedBiologyTuesday(f)
	score := 17.5

	submission, err := svc.RecordSubmission(1, 100, &score, at(date, "10:20"))
	if err != nil {
		t.Fatalf("RecordSubmission() unexpected error: %v", err)
	}
	if submission.AssessmentID != 100 || submission.StudentID != 1 {
		t.Errorf("submission = assessment %d student %d, want 100/1", submission.AssessmentID, submission.StudentID)
	}

	after, err := f.progress.GetByID(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !after.Completed {
		t.Error("progress not completed after submission")
	}
	if after.SubmissionID == nil || *after.SubmissionID != submission.ID {
		t.Errorf("progress submission link = %v, want %d", after.SubmissionID, submission.ID)
	}
}

func TestRecordSubmissionRejectsDuplicate(t *testing.T) {
	date := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	f, svc := newCompletionFixture()
	seedBiologyTuesday(f)

	if _, err := svc.RecordSubmission(1, 100, nil, at(date, "10:10")); err != nil {
		t.Fatalf("first RecordSubmission() unexpected error: %v", err)
	}
	if _, err := svc.RecordSubmission(1, 100, nil, at(date, "10:20")); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second RecordSubmission() error = %v, want ErrAlreadySubmitted", err)
	}
}

func TestRecordSubmissionRejectsOutsideWindow(t *testing.T) {
	date := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	f, svc := newCompletionFixture()
	seedBiologyTuesday(f)

	if _, err := svc.RecordSubmission(1, 100, nil, at(date, "12:00")); !errors.Is(err, ErrNotAccessible) {
		t.Errorf("RecordSubmission() after window error = %v, want ErrNotAccessible", err)
	}
}

func TestCompleteLesson(t *testing.T) {
	f, svc := newCompletionFixture()
	p := seedProgress(f.progress, models.StudentLessonProgress{
		StudentID: 1, LessonTopicID: 5,
		ScheduledDate: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
	})

	now := time.Date(2024, 1, 9, 11, 0, 0, 0, time.UTC)
	if err := svc.CompleteLesson(p.ID, now); err != nil {
		t.Fatalf("CompleteLesson() unexpected error: %v", err)
	}

	after, err := f.progress.GetByID(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !after.Completed || after.CompletedAt == nil {
		t.Error("lesson not marked completed")
	}

	// Completing again keeps the original timestamp
	if err := svc.CompleteLesson(p.ID, now.Add(time.Hour)); err != nil {
		t.Fatalf("repeat CompleteLesson() unexpected error: %v", err)
	}
	again, err := f.progress.GetByID(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CompletedAt.Equal(*after.CompletedAt) {
		t.Errorf("CompletedAt changed from %v to %v", after.CompletedAt, again.CompletedAt)
	}
}

func TestMarkLessonIncomplete(t *testing.T) {
	f, svc := newCompletionFixture()
	p := seedProgress(f.progress, models.StudentLessonProgress{
		StudentID: 1, LessonTopicID: 5,
		ScheduledDate: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
	})

	now := time.Date(2024, 1, 9, 18, 0, 0, 0, time.UTC)
	if err := svc.MarkLessonIncomplete(p.ID, "Absent from class", now); err != nil {
		t.Fatalf("MarkLessonIncomplete() unexpected error: %v", err)
	}

	after, err := f.progress.GetByID(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.IncompleteReason != "Absent from class" || after.AutoMarkedIncompleteAt == nil {
		t.Errorf("incomplete reason = %q, stamp = %v", after.IncompleteReason, after.AutoMarkedIncompleteAt)
	}
}
