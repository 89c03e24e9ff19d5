package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
	"github.com/forhay123/haybee-edu-sub005/internal/repository"
)

const rescheduledNote = " (Rescheduled by teacher)"

// AccessArbiter answers the question "may this student open this
// assessment right now". It reads progress and reschedule state,
// repairs missing window data from the weekly template when it can,
// and returns a decision. Denials are decisions, never errors; an
// error means a lookup or repair write failed and no decision was
// reached.
type AccessArbiter struct {
	assessments AssessmentStore
	progress    ProgressStore
	templates   TemplateStore
	topics      TopicStore
	reschedules RescheduleStore
}

// NewAccessArbiter creates a new access arbiter
func NewAccessArbiter(assessments AssessmentStore, progress ProgressStore, templates TemplateStore, topics TopicStore, reschedules RescheduleStore) *AccessArbiter {
	return &AccessArbiter{
		assessments: assessments,
		progress:    progress,
		templates:   templates,
		topics:      topics,
		reschedules: reschedules,
	}
}

// CheckAssessmentAccess decides access for (student, assessment) at the
// given instant. An active reschedule's window replaces the progress
// record's own window entirely.
func (a *AccessArbiter) CheckAssessmentAccess(studentID, assessmentID int64, now time.Time) (models.AccessCheckResult, error) {
	assessment, err := a.assessments.GetByID(assessmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.BlockedResult("Assessment not found"), nil
	}
	if err != nil {
		return models.AccessCheckResult{}, fmt.Errorf("loading assessment %d: %w", assessmentID, err)
	}

	reschedule, err := a.reschedules.GetActive(studentID, assessmentID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return models.AccessCheckResult{}, fmt.Errorf("loading reschedule: %w", err)
	}
	hasReschedule := reschedule != nil

	progress, err := a.selectProgress(studentID, assessment, now)
	if err != nil {
		return models.AccessCheckResult{}, err
	}
	if progress == nil {
		return models.BlockedResult("This assessment is not currently scheduled for you. Please check your timetable or contact your teacher."), nil
	}

	if !progress.HasWindow() {
		blocked, err := a.repairWindow(progress, now)
		if err != nil {
			return models.AccessCheckResult{}, err
		}
		if blocked != nil {
			return *blocked, nil
		}
	}

	if !progress.AssessmentAccessible {
		if err := a.progress.SetAccessible(progress.ID, true); err != nil {
			return models.AccessCheckResult{}, fmt.Errorf("repairing accessible flag: %w", err)
		}
		progress.AssessmentAccessible = true
	}

	windowStart := *progress.AssessmentWindowStart
	windowEnd := *progress.AssessmentWindowEnd
	graceEnd := windowEnd.Add(GracePeriodMinutes * time.Minute)
	if progress.GracePeriodEnd != nil {
		graceEnd = *progress.GracePeriodEnd
	}
	if hasReschedule {
		windowStart = reschedule.NewWindowStart
		windowEnd = reschedule.NewWindowEnd
		graceEnd = windowEnd.Add(GracePeriodMinutes * time.Minute)
		if reschedule.NewGraceEnd != nil {
			graceEnd = *reschedule.NewGraceEnd
		}
	}

	if now.Before(windowStart) {
		reason := fmt.Sprintf("This assessment opens at %s", windowStart.Format("15:04"))
		if hasReschedule {
			reason += rescheduledNote
		}
		result := models.NotYetOpenResult(reason, windowStart, windowEnd, int64(windowStart.Sub(now).Minutes()))
		result.Rescheduled = hasReschedule
		return result, nil
	}

	if now.After(windowEnd) {
		reason := fmt.Sprintf("This assessment closed at %s", windowEnd.Format("15:04"))
		if hasReschedule {
			reason += rescheduledNote
		}
		result := models.ExpiredResult(reason, windowEnd)
		result.Rescheduled = hasReschedule
		return result, nil
	}

	submitted, err := a.assessments.ExistsSubmission(assessmentID, studentID)
	if err != nil {
		return models.AccessCheckResult{}, fmt.Errorf("checking submission: %w", err)
	}
	if submitted {
		return models.AlreadySubmittedResult(), nil
	}

	inGrace := now.After(windowEnd) && !now.After(graceEnd)
	result := models.AllowedResult(windowEnd, int64(windowEnd.Sub(now).Minutes()), inGrace)
	result.WindowStart = &windowStart
	result.Rescheduled = hasReschedule
	return result, nil
}

// selectProgress picks the progress row an access check should judge:
// the earliest-by-sequence row that is accessible, incomplete, and
// carries a window. Multi-period lessons produce several rows per
// assessment, so all of them must be considered. When none qualifies, a
// row scheduled today for the assessment's topic is adopted and linked.
func (a *AccessArbiter) selectProgress(studentID int64, assessment *models.Assessment, now time.Time) (*models.StudentLessonProgress, error) {
	rows, err := a.progress.ListByStudentAndAssessment(studentID, assessment.ID)
	if err != nil {
		return nil, fmt.Errorf("loading progress rows: %w", err)
	}
	for i := range rows {
		p := &rows[i]
		if p.AssessmentAccessible && !p.Completed && p.HasWindow() {
			return p, nil
		}
	}

	fallback, err := a.progress.GetByStudentTopicDate(studentID, assessment.LessonTopicID, models.DateOnly(now))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading today's progress: %w", err)
	}
	if fallback.Completed {
		return nil, nil
	}
	if fallback.AssessmentID == nil {
		if err := a.progress.LinkAssessment(fallback.ID, assessment.ID); err != nil {
			return nil, fmt.Errorf("linking assessment: %w", err)
		}
		fallback.AssessmentID = &assessment.ID
	}
	return fallback, nil
}

// repairWindow derives a missing window from the weekly template slot
// for the lesson topic on today's weekday and persists it. Returns a
// blocked decision when no template slot with scheduled times exists.
// Repair values are deterministic, so a concurrent repair of the same
// row writes the same window.
func (a *AccessArbiter) repairWindow(progress *models.StudentLessonProgress, now time.Time) (*models.AccessCheckResult, error) {
	day := now.Weekday()
	tmpl, err := a.templates.FindByTopicAndDay(progress.LessonTopicID, day)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading template for topic %d: %w", progress.LessonTopicID, err)
	}
	if tmpl == nil || !tmpl.HasTimeWindow() {
		title := "this lesson"
		if topic, err := a.topics.GetTopicByID(progress.LessonTopicID); err == nil {
			title = fmt.Sprintf("'%s'", topic.Title)
		}
		blocked := models.BlockedResult(fmt.Sprintf(
			"Lesson %s is not scheduled for %s. Please check your timetable.", title, day))
		return &blocked, nil
	}

	date := models.DateOnly(now)
	start, err := models.CombineDateClock(date, tmpl.StartTime)
	if err != nil {
		return nil, fmt.Errorf("template %d: %w", tmpl.ID, err)
	}
	end, err := models.CombineDateClock(date, tmpl.EndTime)
	if err != nil {
		return nil, fmt.Errorf("template %d: %w", tmpl.ID, err)
	}
	grace := end.Add(GracePeriodMinutes * time.Minute)

	if err := a.progress.UpdateWindow(progress.ID, start, end, &grace); err != nil {
		return nil, fmt.Errorf("repairing window: %w", err)
	}
	progress.AssessmentWindowStart = &start
	progress.AssessmentWindowEnd = &end
	progress.GracePeriodEnd = &grace
	return nil, nil
}
