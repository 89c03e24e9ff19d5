package service

import (
	"sort"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
	"github.com/forhay123/haybee-edu-sub005/internal/repository"
)

// In-memory stores backing the service tests.

type fakeProgressStore struct {
	rows     map[int64]*models.StudentLessonProgress
	nextID   int64
	writes   int
	failNext error
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{rows: make(map[int64]*models.StudentLessonProgress)}
}

func (f *fakeProgressStore) Create(p *models.StudentLessonProgress) (*models.StudentLessonProgress, error) {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return nil, err
	}
	f.nextID++
	cp := *p
	cp.ID = f.nextID
	f.rows[cp.ID] = &cp
	f.writes++
	out := cp
	return &out, nil
}

func (f *fakeProgressStore) GetByID(id int64) (*models.StudentLessonProgress, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProgressStore) GetByStudentTopicDate(studentID, lessonTopicID int64, date time.Time) (*models.StudentLessonProgress, error) {
	var match *models.StudentLessonProgress
	for _, p := range f.rows {
		if p.StudentID == studentID && p.LessonTopicID == lessonTopicID &&
			models.DateOnly(p.ScheduledDate).Equal(models.DateOnly(date)) {
			if match == nil || p.PeriodNumber < match.PeriodNumber {
				match = p
			}
		}
	}
	if match == nil {
		return nil, repository.ErrNotFound
	}
	cp := *match
	return &cp, nil
}

func (f *fakeProgressStore) ListByStudentAndAssessment(studentID, assessmentID int64) ([]models.StudentLessonProgress, error) {
	var out []models.StudentLessonProgress
	for _, p := range f.rows {
		if p.StudentID == studentID && p.AssessmentID != nil && *p.AssessmentID == assessmentID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].SequenceOrDefault() != out[b].SequenceOrDefault() {
			return out[a].SequenceOrDefault() < out[b].SequenceOrDefault()
		}
		if !out[a].ScheduledDate.Equal(out[b].ScheduledDate) {
			return out[a].ScheduledDate.Before(out[b].ScheduledDate)
		}
		return out[a].PeriodNumber < out[b].PeriodNumber
	})
	return out, nil
}

func (f *fakeProgressStore) ListByStudentAndDate(studentID int64, date time.Time) ([]models.StudentLessonProgress, error) {
	var out []models.StudentLessonProgress
	for _, p := range f.rows {
		if p.StudentID == studentID && models.DateOnly(p.ScheduledDate).Equal(models.DateOnly(date)) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].PeriodNumber < out[b].PeriodNumber })
	return out, nil
}

func (f *fakeProgressStore) ListOverdueIncomplete(now time.Time) ([]models.StudentLessonProgress, error) {
	var out []models.StudentLessonProgress
	for _, p := range f.rows {
		if p.Completed || p.SubmissionID != nil || p.AutoMarkedIncompleteAt != nil {
			continue
		}
		switch {
		case p.GracePeriodEnd != nil && p.GracePeriodEnd.Before(now):
			out = append(out, *p)
		case p.GracePeriodEnd == nil && p.AssessmentWindowEnd != nil &&
			p.AssessmentWindowEnd.Before(now.Add(-GracePeriodMinutes*time.Minute)):
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (f *fakeProgressStore) Exists(studentID int64, date time.Time, lessonTopicID int64) (bool, error) {
	_, err := f.GetByStudentTopicDate(studentID, lessonTopicID, date)
	if err == repository.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeProgressStore) UpdateWindow(id int64, windowStart, windowEnd time.Time, graceEnd *time.Time) error {
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.AssessmentWindowStart = &windowStart
	p.AssessmentWindowEnd = &windowEnd
	p.GracePeriodEnd = graceEnd
	f.writes++
	return nil
}

func (f *fakeProgressStore) SetAccessible(id int64, accessible bool) error {
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.AssessmentAccessible = accessible
	f.writes++
	return nil
}

func (f *fakeProgressStore) SetSequence(id int64, sequence, total *int) error {
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.PeriodSequence = sequence
	p.TotalPeriodsInSequence = total
	return nil
}

func (f *fakeProgressStore) SetPreviousPeriod(id int64, previousID *int64) error {
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.PreviousPeriodProgressID = previousID
	return nil
}

func (f *fakeProgressStore) LinkAssessment(id, assessmentID int64) error {
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.AssessmentID = &assessmentID
	f.writes++
	return nil
}

func (f *fakeProgressStore) LinkSubmission(id, submissionID int64) error {
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.SubmissionID = &submissionID
	return nil
}

func (f *fakeProgressStore) MarkCompleted(id int64, at time.Time) error {
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Completed = true
	p.CompletedAt = &at
	return nil
}

func (f *fakeProgressStore) MarkIncomplete(id int64, reason string, at time.Time) error {
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Completed = false
	p.IncompleteReason = reason
	p.AutoMarkedIncompleteAt = &at
	return nil
}

type fakeInstanceStore struct {
	rows   map[int64]*models.DailyScheduleInstance
	nextID int64
}

func newFakeInstanceStore() *fakeInstanceStore {
	return &fakeInstanceStore{rows: make(map[int64]*models.DailyScheduleInstance)}
}

func (f *fakeInstanceStore) Create(i *models.DailyScheduleInstance) (*models.DailyScheduleInstance, error) {
	f.nextID++
	cp := *i
	cp.ID = f.nextID
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeInstanceStore) Exists(studentID int64, date time.Time, periodNumber int) (bool, error) {
	for _, i := range f.rows {
		if i.StudentID == studentID && i.PeriodNumber == periodNumber &&
			models.DateOnly(i.ScheduledDate).Equal(models.DateOnly(date)) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInstanceStore) ListByStudentAndDate(studentID int64, date time.Time) ([]models.DailyScheduleInstance, error) {
	var out []models.DailyScheduleInstance
	for _, i := range f.rows {
		if i.StudentID == studentID && models.DateOnly(i.ScheduledDate).Equal(models.DateOnly(date)) {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].PeriodNumber < out[b].PeriodNumber })
	return out, nil
}

func (f *fakeInstanceStore) ListByStudentAndDateRange(studentID int64, from, to time.Time) ([]models.DailyScheduleInstance, error) {
	var out []models.DailyScheduleInstance
	for _, i := range f.rows {
		d := models.DateOnly(i.ScheduledDate)
		if i.StudentID == studentID && !d.Before(models.DateOnly(from)) && !d.After(models.DateOnly(to)) {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].ScheduledDate.Equal(out[b].ScheduledDate) {
			return out[a].ScheduledDate.Before(out[b].ScheduledDate)
		}
		return out[a].PeriodNumber < out[b].PeriodNumber
	})
	return out, nil
}

func (f *fakeInstanceStore) UpdateSequence(id int64, sequence, totalPeriods *int) error {
	i, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	i.PeriodSequence = sequence
	i.TotalPeriodsForTopic = totalPeriods
	return nil
}

type fakeTemplateStore struct {
	templates []models.WeeklyScheduleTemplate
}

func (f *fakeTemplateStore) ListByClassWeek(classLevel string, weekNumber int) ([]models.WeeklyScheduleTemplate, error) {
	var out []models.WeeklyScheduleTemplate
	for _, t := range f.templates {
		if t.ClassLevel == classLevel && t.WeekNumber == weekNumber {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTemplateStore) FindByTopicAndDay(lessonTopicID int64, day time.Weekday) (*models.WeeklyScheduleTemplate, error) {
	var match *models.WeeklyScheduleTemplate
	for i := range f.templates {
		t := &f.templates[i]
		if t.LessonTopicID == lessonTopicID && t.DayOfWeek == day {
			if match == nil || t.PeriodNumber < match.PeriodNumber {
				match = t
			}
		}
	}
	if match == nil {
		return nil, repository.ErrNotFound
	}
	cp := *match
	return &cp, nil
}

type fakeAssessmentStore struct {
	assessments map[int64]*models.Assessment
	submissions map[[2]int64]bool
	nextSubID   int64
}

func newFakeAssessmentStore() *fakeAssessmentStore {
	return &fakeAssessmentStore{
		assessments: make(map[int64]*models.Assessment),
		submissions: make(map[[2]int64]bool),
	}
}

func (f *fakeAssessmentStore) GetByID(id int64) (*models.Assessment, error) {
	a, ok := f.assessments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssessmentStore) ExistsSubmission(assessmentID, studentID int64) (bool, error) {
	return f.submissions[[2]int64{assessmentID, studentID}], nil
}

func (f *fakeAssessmentStore) CreateSubmission(assessmentID, studentID int64, score *float64) (*models.AssessmentSubmission, error) {
	f.submissions[[2]int64{assessmentID, studentID}] = true
	f.nextSubID++
	return &models.AssessmentSubmission{
		ID:           f.nextSubID,
		AssessmentID: assessmentID,
		StudentID:    studentID,
		Score:        score,
		SubmittedAt:  time.Now(),
	}, nil
}

type fakeRescheduleStore struct {
	rows   map[int64]*models.AssessmentWindowReschedule
	nextID int64
}

func newFakeRescheduleStore() *fakeRescheduleStore {
	return &fakeRescheduleStore{rows: make(map[int64]*models.AssessmentWindowReschedule)}
}

func (f *fakeRescheduleStore) Create(rs *models.AssessmentWindowReschedule) (*models.AssessmentWindowReschedule, error) {
	f.nextID++
	cp := *rs
	cp.ID = f.nextID
	cp.Active = true
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeRescheduleStore) GetByID(id int64) (*models.AssessmentWindowReschedule, error) {
	rs, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rs
	return &cp, nil
}

func (f *fakeRescheduleStore) GetActive(studentID, assessmentID int64) (*models.AssessmentWindowReschedule, error) {
	var match *models.AssessmentWindowReschedule
	for _, rs := range f.rows {
		if rs.Active && rs.StudentID == studentID && rs.AssessmentID == assessmentID {
			if match == nil || rs.ID > match.ID {
				match = rs
			}
		}
	}
	if match == nil {
		return nil, repository.ErrNotFound
	}
	cp := *match
	return &cp, nil
}

func (f *fakeRescheduleStore) DeactivateAllFor(studentID, assessmentID int64, at time.Time) error {
	for _, rs := range f.rows {
		if rs.Active && rs.StudentID == studentID && rs.AssessmentID == assessmentID {
			rs.Active = false
			t := at
			rs.DeactivatedAt = &t
		}
	}
	return nil
}

func (f *fakeRescheduleStore) Deactivate(id int64, at time.Time) error {
	rs, ok := f.rows[id]
	if !ok || !rs.Active {
		return repository.ErrNotFound
	}
	rs.Active = false
	rs.DeactivatedAt = &at
	return nil
}

func (f *fakeRescheduleStore) ListActiveForStudent(studentID int64) ([]models.AssessmentWindowReschedule, error) {
	var out []models.AssessmentWindowReschedule
	for _, rs := range f.rows {
		if rs.Active && rs.StudentID == studentID {
			out = append(out, *rs)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

type fakeTopicStore struct {
	topics map[int64]*models.LessonTopic
}

func (f *fakeTopicStore) GetTopicByID(id int64) (*models.LessonTopic, error) {
	t, ok := f.topics[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

type fakeStudentStore struct {
	students map[int64]*models.StudentProfile
}

func (f *fakeStudentStore) GetByID(id int64) (*models.StudentProfile, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudentStore) ListByClassLevel(classLevel string) ([]models.StudentProfile, error) {
	var out []models.StudentProfile
	for _, s := range f.students {
		if s.ClassLevel == classLevel {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (f *fakeStudentStore) ListAll() ([]models.StudentProfile, error) {
	var out []models.StudentProfile
	for _, s := range f.students {
		out = append(out, *s)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}
