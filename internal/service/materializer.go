package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
	"github.com/forhay123/haybee-edu-sub005/internal/repository"
)

// ErrAlreadyScheduled is returned when a single-instance materialization
// hits an existing (student, date, period) slot.
var ErrAlreadyScheduled = errors.New("schedule instance already exists")

// ScheduleMaterializer turns weekly templates into concrete per-student
// daily instances and their matching progress rows. Materialization is
// a snapshot: later template edits do not touch existing instances.
type ScheduleMaterializer struct {
	templates TemplateStore
	instances InstanceStore
	progress  ProgressStore
	students  StudentStore
	calendar  *TermCalendar
	sequencer *PeriodSequencer
}

// NewScheduleMaterializer creates a new schedule materializer
func NewScheduleMaterializer(templates TemplateStore, instances InstanceStore, progress ProgressStore, students StudentStore) *ScheduleMaterializer {
	return &ScheduleMaterializer{
		templates: templates,
		instances: instances,
		progress:  progress,
		students:  students,
		calendar:  NewTermCalendar(),
		sequencer: NewPeriodSequencer(),
	}
}

// WeekResult summarizes one student's week materialization.
type WeekResult struct {
	StudentID        int64
	InstancesCreated int
	Skipped          int
	SequenceIssues   []string
}

// BatchResult summarizes a multi-student materialization run. A failure
// for one student never aborts the rest of the batch.
type BatchResult struct {
	StudentsProcessed int
	InstancesCreated  int
	Skipped           int
	Failures          []string
}

// MaterializeInstance creates a single instance plus its progress row
// from one template on one date. Unlike the batch paths this treats an
// existing slot as an error, since the caller asked for this exact
// placement.
func (m *ScheduleMaterializer) MaterializeInstance(student *models.StudentProfile, tmpl *models.WeeklyScheduleTemplate, date time.Time) (*models.DailyScheduleInstance, error) {
	date = models.DateOnly(date)
	exists, err := m.instances.Exists(student.ID, date, tmpl.PeriodNumber)
	if err != nil {
		return nil, fmt.Errorf("checking existing instance: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("student %d, %s period %d: %w",
			student.ID, date.Format("2006-01-02"), tmpl.PeriodNumber, ErrAlreadyScheduled)
	}
	return m.createInstance(student, tmpl, date, models.SourceIndividual)
}

// MaterializeWeekForStudent creates the given term week's instances for
// one student from the class templates. Existing slots are skipped, so
// re-running after a partial failure fills only the gaps. After the
// instances exist, multi-period sequence numbers and previous-period
// links are computed for the whole week.
func (m *ScheduleMaterializer) MaterializeWeekForStudent(student *models.StudentProfile, term *models.Term, weekNumber int) (*WeekResult, error) {
	week, err := m.calendar.Week(term, weekNumber)
	if err != nil {
		return nil, err
	}
	templates, err := m.templates.ListByClassWeek(student.ClassLevel, weekNumber)
	if err != nil {
		return nil, fmt.Errorf("loading templates for %s week %d: %w", student.ClassLevel, weekNumber, err)
	}

	result := &WeekResult{StudentID: student.ID}
	for i := range templates {
		tmpl := &templates[i]
		date, ok := dateInWeek(week, tmpl.DayOfWeek)
		if !ok {
			continue
		}
		exists, err := m.instances.Exists(student.ID, date, tmpl.PeriodNumber)
		if err != nil {
			return result, fmt.Errorf("checking existing instance: %w", err)
		}
		if exists {
			result.Skipped++
			continue
		}
		if _, err := m.createInstance(student, tmpl, date, models.SourceClass); err != nil {
			return result, err
		}
		result.InstancesCreated++
	}

	issues, err := m.sequenceWeek(student.ID, week)
	if err != nil {
		return result, err
	}
	result.SequenceIssues = issues
	return result, nil
}

// MaterializeWeekForClass materializes one term week for every student
// in a class level. Per-student failures are collected, not fatal.
func (m *ScheduleMaterializer) MaterializeWeekForClass(classLevel string, term *models.Term, weekNumber int) (*BatchResult, error) {
	students, err := m.students.ListByClassLevel(classLevel)
	if err != nil {
		return nil, fmt.Errorf("loading students for %s: %w", classLevel, err)
	}
	return m.materializeBatch(students, term, weekNumber), nil
}

// MaterializeWeekForAll materializes one term week for every student.
func (m *ScheduleMaterializer) MaterializeWeekForAll(term *models.Term, weekNumber int) (*BatchResult, error) {
	students, err := m.students.ListAll()
	if err != nil {
		return nil, fmt.Errorf("loading students: %w", err)
	}
	return m.materializeBatch(students, term, weekNumber), nil
}

func (m *ScheduleMaterializer) materializeBatch(students []models.StudentProfile, term *models.Term, weekNumber int) *BatchResult {
	batch := &BatchResult{}
	for i := range students {
		student := &students[i]
		res, err := m.MaterializeWeekForStudent(student, term, weekNumber)
		if res != nil {
			batch.InstancesCreated += res.InstancesCreated
			batch.Skipped += res.Skipped
		}
		if err != nil {
			log.Printf("Materialization failed for student %d: %v", student.ID, err)
			batch.Failures = append(batch.Failures, fmt.Sprintf("student %d: %v", student.ID, err))
			continue
		}
		batch.StudentsProcessed++
	}
	return batch
}

func (m *ScheduleMaterializer) createInstance(student *models.StudentProfile, tmpl *models.WeeklyScheduleTemplate, date time.Time, source models.ScheduleSource) (*models.DailyScheduleInstance, error) {
	inst := &models.DailyScheduleInstance{
		StudentID:     student.ID,
		TemplateID:    &tmpl.ID,
		SubjectID:     tmpl.SubjectID,
		LessonTopicID: &tmpl.LessonTopicID,
		AssessmentID:  tmpl.AssessmentID,
		ScheduledDate: date,
		PeriodNumber:  tmpl.PeriodNumber,
		StartTime:     tmpl.StartTime,
		EndTime:       tmpl.EndTime,
		Source:        source,
	}
	if tmpl.HasTimeWindow() {
		start, err := models.CombineDateClock(date, tmpl.StartTime)
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", tmpl.ID, err)
		}
		end, err := models.CombineDateClock(date, tmpl.EndTime)
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", tmpl.ID, err)
		}
		inst.AssessmentWindowStart = &start
		inst.AssessmentWindowEnd = &end
	}

	created, err := m.instances.Create(inst)
	if err != nil {
		return nil, fmt.Errorf("creating instance: %w", err)
	}
	if err := m.ensureProgress(student, tmpl, created); err != nil {
		return created, err
	}
	return created, nil
}

// ensureProgress creates the progress row mirroring an instance. One
// progress row exists per (student, date, topic); a second period of
// the same topic on the same date reuses the first period's row.
func (m *ScheduleMaterializer) ensureProgress(student *models.StudentProfile, tmpl *models.WeeklyScheduleTemplate, inst *models.DailyScheduleInstance) error {
	exists, err := m.progress.Exists(student.ID, inst.ScheduledDate, tmpl.LessonTopicID)
	if err != nil {
		return fmt.Errorf("checking existing progress: %w", err)
	}
	if exists {
		return nil
	}

	p := &models.StudentLessonProgress{
		StudentID:             student.ID,
		LessonTopicID:         tmpl.LessonTopicID,
		ScheduleInstanceID:    &inst.ID,
		AssessmentID:          tmpl.AssessmentID,
		ScheduledDate:         inst.ScheduledDate,
		PeriodNumber:          inst.PeriodNumber,
		AssessmentAccessible:  true,
		AssessmentWindowStart: inst.AssessmentWindowStart,
		AssessmentWindowEnd:   inst.AssessmentWindowEnd,
	}
	if inst.AssessmentWindowEnd != nil {
		grace := inst.AssessmentWindowEnd.Add(GracePeriodMinutes * time.Minute)
		p.GracePeriodEnd = &grace
	}
	if _, err := m.progress.Create(p); err != nil {
		return fmt.Errorf("creating progress: %w", err)
	}
	return nil
}

// sequenceWeek recomputes multi-period sequence metadata across one
// student's week and persists it on instances and progress rows,
// including the previous-period dependency chain.
func (m *ScheduleMaterializer) sequenceWeek(studentID int64, week models.TermWeek) ([]string, error) {
	instances, err := m.instances.ListByStudentAndDateRange(studentID, week.Start, week.End)
	if err != nil {
		return nil, fmt.Errorf("loading week instances: %w", err)
	}
	analysis := m.sequencer.AnalyzeWeek(instances)

	for _, inst := range instances {
		if err := m.instances.UpdateSequence(inst.ID, inst.PeriodSequence, inst.TotalPeriodsForTopic); err != nil {
			return nil, fmt.Errorf("storing sequence for instance %d: %w", inst.ID, err)
		}
	}

	for _, group := range analysis.MultiPeriodGroups() {
		var prevProgressID *int64
		for _, inst := range group.Instances {
			if inst.LessonTopicID == nil {
				continue
			}
			p, err := m.progress.GetByStudentTopicDate(studentID, *inst.LessonTopicID, inst.ScheduledDate)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("loading progress for topic %d on %s: %w",
					*inst.LessonTopicID, models.DateOnly(inst.ScheduledDate).Format("2006-01-02"), err)
			}
			// A double period on one date shares a single progress row;
			// the chain advances only when the group reaches a new row.
			if prevProgressID != nil && *prevProgressID == p.ID {
				continue
			}
			if err := m.progress.SetSequence(p.ID, inst.PeriodSequence, inst.TotalPeriodsForTopic); err != nil {
				return nil, fmt.Errorf("storing sequence for progress %d: %w", p.ID, err)
			}
			if err := m.progress.SetPreviousPeriod(p.ID, prevProgressID); err != nil {
				return nil, fmt.Errorf("linking previous period for progress %d: %w", p.ID, err)
			}
			id := p.ID
			prevProgressID = &id
		}
	}

	return m.sequencer.Validate(analysis), nil
}

// dateInWeek resolves the calendar date within a term week that falls
// on the given weekday. Weeks shorter than seven days can miss a day.
func dateInWeek(week models.TermWeek, day time.Weekday) (time.Time, bool) {
	for d := week.Start; !d.After(week.End); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == day {
			return d, true
		}
	}
	return time.Time{}, false
}
