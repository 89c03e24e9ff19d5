package service

import (
	"testing"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

type arbiterFixture struct {
	progress    *fakeProgressStore
	assessments *fakeAssessmentStore
	templates   *fakeTemplateStore
	topics      *fakeTopicStore
	reschedules *fakeRescheduleStore
	arbiter     *AccessArbiter
}

func newArbiterFixture() *arbiterFixture {
	f := &arbiterFixture{
		progress:    newFakeProgressStore(),
		assessments: newFakeAssessmentStore(),
		templates:   &fakeTemplateStore{},
		topics:      &fakeTopicStore{topics: make(map[int64]*models.LessonTopic)},
		reschedules: newFakeRescheduleStore(),
	}
	f.arbiter = NewAccessArbiter(f.assessments, f.progress, f.templates, f.topics, f.reschedules)
	return f
}

func at(d time.Time, clock string) time.Time {
	combined, err := models.CombineDateClock(d, clock)
	if err != nil {
		panic(err)
	}
	return combined
}

// Tuesday 2024-01-09, Biology period 2, window 10:00-10:40.
func seedBiologyTuesday(f *arbiterFixture) *models.StudentLessonProgress {
	f.assessments.assessments[100] = &models.Assessment{
		ID: 100, LessonTopicID: 5, SubjectID: 10, Title: "Cell Structure Quiz", TotalMarks: 20, IsPublished: true,
	}
	f.topics.topics[5] = &models.LessonTopic{ID: 5, SubjectID: 10, Title: "Cell Structure", WeekNumber: 2}

	date := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	start := at(date, "10:00")
	end := at(date, "10:40")
	grace := end.Add(GracePeriodMinutes * time.Minute)
	assessmentID := int64(100)
	return seedProgress(f.progress, models.StudentLessonProgress{
		StudentID: 1, LessonTopicID: 5, AssessmentID: &assessmentID,
		ScheduledDate: date, PeriodNumber: 2,
		AssessmentAccessible:  true,
		AssessmentWindowStart: &start,
		AssessmentWindowEnd:   &end,
		GracePeriodEnd:        &grace,
	})
}

func TestCheckAssessmentAccessWindow(t *testing.T) {
	date := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		now          time.Time
		wantStatus   models.AccessStatus
		wantMinsOpen int64
		wantMinsLeft int64
	}{
		{name: "before window", now: at(date, "09:00"), wantStatus: models.AccessNotYetOpen, wantMinsOpen: 60},
		{name: "inside window", now: at(date, "10:20"), wantStatus: models.AccessAllowed, wantMinsLeft: 20},
		{name: "after window", now: at(date, "11:00"), wantStatus: models.AccessExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newArbiterFixture()
			seedBiologyTuesday(f)

			result, err := f.arbiter.CheckAssessmentAccess(1, 100, tt.now)
			if err != nil {
				t.Fatalf("CheckAssessmentAccess() unexpected error: %v", err)
			}
			if result.Status != tt.wantStatus {
				t.Fatalf("CheckAssessmentAccess() status = %s (%q), want %s", result.Status, result.Reason, tt.wantStatus)
			}
			if result.MinutesUntilOpen != tt.wantMinsOpen {
				t.Errorf("MinutesUntilOpen = %d, want %d", result.MinutesUntilOpen, tt.wantMinsOpen)
			}
			if result.MinutesRemaining != tt.wantMinsLeft {
				t.Errorf("MinutesRemaining = %d, want %d", result.MinutesRemaining, tt.wantMinsLeft)
			}
			if (result.Status == models.AccessAllowed) != result.Allowed {
				t.Errorf("Allowed = %v inconsistent with status %s", result.Allowed, result.Status)
			}
		})
	}
}

func TestCheckAssessmentAccessReschedulePrecedence(t *testing.T) {
	date := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

	f := newArbiterFixture()
	p := seedBiologyTuesday(f)

	// Own window 10:00-10:40, rescheduled to 14:00-14:40
	if _, err := f.reschedules.Create(&models.AssessmentWindowReschedule{
		StudentID: 1, AssessmentID: 100, ReferenceCode: "RS-TEST",
		NewWindowStart: at(date, "14:00"),
		NewWindowEnd:   at(date, "14:40"),
	}); err != nil {
		t.Fatal(err)
	}

	result, err := f.arbiter.CheckAssessmentAccess(1, 100, at(date, "10:20"))
	if err != nil {
		t.Fatalf("CheckAssessmentAccess() unexpected error: %v", err)
	}
	if result.Status != models.AccessNotYetOpen {
		t.Fatalf("inside own window with reschedule: status = %s, want %s", result.Status, models.AccessNotYetOpen)
	}
	if !result.Rescheduled {
		t.Error("result not marked as rescheduled")
	}

	result, err = f.arbiter.CheckAssessmentAccess(1, 100, at(date, "14:10"))
	if err != nil {
		t.Fatalf("CheckAssessmentAccess() unexpected error: %v", err)
	}
	if result.Status != models.AccessAllowed {
		t.Fatalf("inside rescheduled window: status = %s (%q), want %s", result.Status, result.Reason, models.AccessAllowed)
	}

	// The progress record's own window stays untouched for audit
	stored, err := f.progress.GetByID(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.AssessmentWindowStart.Equal(at(date, "10:00")) {
		t.Errorf("own window start mutated to %v", stored.AssessmentWindowStart)
	}
}

func TestCheckAssessmentAccessSubmissionPrecedence(t *testing.T) {
	date := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

	f := newArbiterFixture()
	seedBiologyTuesday(f)
	f.assessments.submissions[[2]int64{100, 1}] = true

	result, err := f.arbiter.CheckAssessmentAccess(1, 100, at(date, "10:20"))
	if err != nil {
		t.Fatalf("CheckAssessmentAccess() unexpected error: %v", err)
	}
	if result.Status != models.AccessAlreadySubmitted {
		t.Errorf("status = %s, want %s", result.Status, models.AccessAlreadySubmitted)
	}
}

func TestCheckAssessmentAccessNoProgress(t *testing.T) {
	f := newArbiterFixture()
	f.assessments.assessments[100] = &models.Assessment{ID: 100, LessonTopicID: 5, SubjectID: 10, Title: "Quiz"}

	result, err := f.arbiter.CheckAssessmentAccess(1, 100, time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("CheckAssessmentAccess() unexpected error: %v", err)
	}
	if result.Status != models.AccessBlocked {
		t.Errorf("status = %s, want %s", result.Status, models.AccessBlocked)
	}
}

func TestCheckAssessmentAccessUnknownAssessment(t *testing.T) {
	f := newArbiterFixture()

	result, err := f.arbiter.CheckAssessmentAccess(1, 999, time.Now())
	if err != nil {
		t.Fatalf("CheckAssessmentAccess() unexpected error: %v", err)
	}
	if result.Status != models.AccessBlocked {
		t.Errorf("status = %s, want %s", result.Status, models.AccessBlocked)
	}
}

func TestCheckAssessmentAccessWindowRepair(t *testing.T) {
	// Tuesday 2024-01-09; progress exists for today but has no window.
	date := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

	f := newArbiterFixture()
	f.assessments.assessments[100] = &models.Assessment{ID: 100, LessonTopicID: 5, SubjectID: 10, Title: "Quiz"}
	f.topics.topics[5] = &models.LessonTopic{ID: 5, SubjectID: 10, Title: "Cell Structure"}
	f.templates.templates = []models.WeeklyScheduleTemplate{{
		ID: 1, ClassLevel: "JSS1", WeekNumber: 2, DayOfWeek: time.Tuesday, PeriodNumber: 2,
		SubjectID: 10, LessonTopicID: 5, StartTime: "10:00", EndTime: "10:40",
	}}
	p := seedProgress(f.progress, models.StudentLessonProgress{
		StudentID: 1, LessonTopicID: 5,
		ScheduledDate: date, PeriodNumber: 2,
		AssessmentAccessible: true,
	})

	result, err := f.arbiter.CheckAssessmentAccess(1, 100, at(date, "10:20"))
	if err != nil {
		t.Fatalf("CheckAssessmentAccess() unexpected error: %v", err)
	}
	if result.Status != models.AccessAllowed {
		t.Fatalf("status = %s (%q), want %s", result.Status, result.Reason, models.AccessAllowed)
	}

	repaired, err := f.progress.GetByID(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !repaired.HasWindow() {
		t.Fatal("window not persisted by repair")
	}
	if !repaired.AssessmentWindowStart.Equal(at(date, "10:00")) || !repaired.AssessmentWindowEnd.Equal(at(date, "10:40")) {
		t.Errorf("repaired window = %v..%v, want 10:00..10:40", repaired.AssessmentWindowStart, repaired.AssessmentWindowEnd)
	}
	if repaired.AssessmentID == nil || *repaired.AssessmentID != 100 {
		t.Error("assessment not linked to today's progress")
	}

	// A second check must decide identically without further repairs
	writesAfterFirst := f.progress.writes
	again, err := f.arbiter.CheckAssessmentAccess(1, 100, at(date, "10:20"))
	if err != nil {
		t.Fatalf("second CheckAssessmentAccess() unexpected error: %v", err)
	}
	if again.Status != models.AccessAllowed {
		t.Errorf("second check status = %s, want %s", again.Status, models.AccessAllowed)
	}
	if f.progress.writes != writesAfterFirst {
		t.Errorf("second check performed %d extra writes", f.progress.writes-writesAfterFirst)
	}

	unchanged, err := f.progress.GetByID(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !unchanged.AssessmentWindowStart.Equal(*repaired.AssessmentWindowStart) ||
		!unchanged.AssessmentWindowEnd.Equal(*repaired.AssessmentWindowEnd) {
		t.Error("window changed between checks")
	}
}

func TestCheckAssessmentAccessNoTemplateForToday(t *testing.T) {
	// Progress without a window and no template slot on today's weekday.
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC) // Wednesday

	f := newArbiterFixture()
	f.assessments.assessments[100] = &models.Assessment{ID: 100, LessonTopicID: 5, SubjectID: 10, Title: "Quiz"}
	f.topics.topics[5] = &models.LessonTopic{ID: 5, SubjectID: 10, Title: "Cell Structure"}
	seedProgress(f.progress, models.StudentLessonProgress{
		StudentID: 1, LessonTopicID: 5,
		ScheduledDate: date, PeriodNumber: 2,
		AssessmentAccessible: true,
	})

	result, err := f.arbiter.CheckAssessmentAccess(1, 100, at(date, "10:20"))
	if err != nil {
		t.Fatalf("CheckAssessmentAccess() unexpected error: %v", err)
	}
	if result.Status != models.AccessBlocked {
		t.Errorf("status = %s, want %s", result.Status, models.AccessBlocked)
	}
}

func TestCheckAssessmentAccessSelfHealsAccessibleFlag(t *testing.T) {
	date := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

	f := newArbiterFixture()
	f.assessments.assessments[100] = &models.Assessment{ID: 100, LessonTopicID: 5, SubjectID: 10, Title: "Quiz"}
	start := at(date, "10:00")
	end := at(date, "10:40")
	assessmentID := int64(100)
	p := seedProgress(f.progress, models.StudentLessonProgress{
		StudentID: 1, LessonTopicID: 5, AssessmentID: &assessmentID,
		ScheduledDate: date, PeriodNumber: 2,
		AssessmentWindowStart: &start,
		AssessmentWindowEnd:   &end,
	})

	result, err := f.arbiter.CheckAssessmentAccess(1, 100, at(date, "10:20"))
	if err != nil {
		t.Fatalf("CheckAssessmentAccess() unexpected error: %v", err)
	}
	if result.Status != models.AccessAllowed {
		t.Fatalf("status = %s (%q), want %s", result.Status, result.Reason, models.AccessAllowed)
	}

	healed, err := f.progress.GetByID(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !healed.AssessmentAccessible {
		t.Error("accessible flag not repaired")
	}
}
