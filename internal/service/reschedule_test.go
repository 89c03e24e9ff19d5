package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

type recordingNotifier struct {
	sent []string
	err  error
}

func (n *recordingNotifier) SendRescheduleNotice(ctx context.Context, student *models.StudentProfile, assessment *models.Assessment, rs *models.AssessmentWindowReschedule) error {
	n.sent = append(n.sent, rs.ReferenceCode)
	return n.err
}

type rescheduleFixture struct {
	reschedules *fakeRescheduleStore
	assessments *fakeAssessmentStore
	students    *fakeStudentStore
	notifier    *recordingNotifier
	svc         *RescheduleService
}

func newRescheduleFixture() *rescheduleFixture {
	f := &rescheduleFixture{
		reschedules: newFakeRescheduleStore(),
		assessments: newFakeAssessmentStore(),
		students:    &fakeStudentStore{students: make(map[int64]*models.StudentProfile)},
		notifier:    &recordingNotifier{},
	}
	f.students.students[1] = &models.StudentProfile{ID: 1, Name: "Ada", ClassLevel: "JSS1", Email: "ada@example.com"}
	f.assessments.assessments[100] = &models.Assessment{ID: 100, LessonTopicID: 5, SubjectID: 10, Title: "Quiz"}
	f.svc = NewRescheduleService(f.reschedules, f.assessments, f.students, f.notifier)
	return f
}

func TestRescheduleCreate(t *testing.T) {
	f := newRescheduleFixture()
	now := time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC)
	start := time.Date(2024, 1, 9, 14, 0, 0, 0, time.UTC)

	rs, err := f.svc.Create(context.Background(), 1, 100, start, time.Time{}, "Missed class trip", 9, now)
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if !rs.NewWindowEnd.Equal(start.Add(time.Hour)) {
		t.Errorf("default end = %v, want one hour after start", rs.NewWindowEnd)
	}
	if rs.NewGraceEnd == nil || !rs.NewGraceEnd.Equal(rs.NewWindowEnd.Add(RescheduleGraceMins*time.Minute)) {
		t.Errorf("grace end = %v, want end+%dm", rs.NewGraceEnd, RescheduleGraceMins)
	}
	if rs.ReferenceCode == "" {
		t.Error("missing reference code")
	}
	if len(f.notifier.sent) != 1 {
		t.Errorf("notifications sent = %d, want 1", len(f.notifier.sent))
	}
}

func TestRescheduleCreateValidation(t *testing.T) {
	now := time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{
			name:    "start in the past",
			start:   now.Add(-time.Hour),
			wantErr: ErrWindowInPast,
		},
		{
			name:    "end before start",
			start:   now.Add(2 * time.Hour),
			end:     now.Add(time.Hour),
			wantErr: ErrInvalidWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRescheduleFixture()
			if _, err := f.svc.Create(context.Background(), 1, 100, tt.start, tt.end, "reason", 9, now); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRescheduleCreateRetiresPredecessor(t *testing.T) {
	f := newRescheduleFixture()
	now := time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC)

	first, err := f.svc.Create(context.Background(), 1, 100, now.Add(time.Hour), time.Time{}, "first", 9, now)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.svc.Create(context.Background(), 1, 100, now.Add(2*time.Hour), time.Time{}, "second", 9, now)
	if err != nil {
		t.Fatal(err)
	}

	active, err := f.reschedules.GetActive(1, 100)
	if err != nil {
		t.Fatalf("GetActive() unexpected error: %v", err)
	}
	if active.ID != second.ID {
		t.Errorf("active reschedule = %d, want %d", active.ID, second.ID)
	}

	retired, err := f.reschedules.GetByID(first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if retired.Active {
		t.Error("first reschedule still active")
	}
}

func TestRescheduleNotifierFailureDoesNotFailCreate(t *testing.T) {
	f := newRescheduleFixture()
	f.notifier.err = errors.New("ses unavailable")
	now := time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC)

	if _, err := f.svc.Create(context.Background(), 1, 100, now.Add(time.Hour), time.Time{}, "reason", 9, now); err != nil {
		t.Errorf("Create() error = %v, want nil despite notifier failure", err)
	}
}

func TestRescheduleCancel(t *testing.T) {
	f := newRescheduleFixture()
	now := time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC)

	rs, err := f.svc.Create(context.Background(), 1, 100, now.Add(time.Hour), time.Time{}, "reason", 9, now)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Cancel(rs.ID, now); err != nil {
		t.Fatalf("Cancel() unexpected error: %v", err)
	}

	active, err := f.svc.ListActiveForStudent(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("active reschedules after cancel = %d, want 0", len(active))
	}
}
