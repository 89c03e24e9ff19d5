package service

import (
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

// Store interfaces consumed by the services in this package. The
// repository package provides the database-backed implementations;
// tests substitute in-memory ones.

type TermStore interface {
	GetByID(id int64) (*models.Term, error)
	GetActive() (*models.Term, error)
}

type StudentStore interface {
	GetByID(id int64) (*models.StudentProfile, error)
	ListByClassLevel(classLevel string) ([]models.StudentProfile, error)
	ListAll() ([]models.StudentProfile, error)
}

type TopicStore interface {
	GetTopicByID(id int64) (*models.LessonTopic, error)
}

type TemplateStore interface {
	ListByClassWeek(classLevel string, weekNumber int) ([]models.WeeklyScheduleTemplate, error)
	FindByTopicAndDay(lessonTopicID int64, day time.Weekday) (*models.WeeklyScheduleTemplate, error)
}

type InstanceStore interface {
	Create(i *models.DailyScheduleInstance) (*models.DailyScheduleInstance, error)
	Exists(studentID int64, date time.Time, periodNumber int) (bool, error)
	ListByStudentAndDate(studentID int64, date time.Time) ([]models.DailyScheduleInstance, error)
	ListByStudentAndDateRange(studentID int64, from, to time.Time) ([]models.DailyScheduleInstance, error)
	UpdateSequence(id int64, sequence, totalPeriods *int) error
}

type ProgressStore interface {
	Create(p *models.StudentLessonProgress) (*models.StudentLessonProgress, error)
	GetByID(id int64) (*models.StudentLessonProgress, error)
	GetByStudentTopicDate(studentID, lessonTopicID int64, date time.Time) (*models.StudentLessonProgress, error)
	ListByStudentAndAssessment(studentID, assessmentID int64) ([]models.StudentLessonProgress, error)
	ListByStudentAndDate(studentID int64, date time.Time) ([]models.StudentLessonProgress, error)
	ListOverdueIncomplete(now time.Time) ([]models.StudentLessonProgress, error)
	Exists(studentID int64, date time.Time, lessonTopicID int64) (bool, error)
	UpdateWindow(id int64, windowStart, windowEnd time.Time, graceEnd *time.Time) error
	SetAccessible(id int64, accessible bool) error
	SetSequence(id int64, sequence, total *int) error
	SetPreviousPeriod(id int64, previousID *int64) error
	LinkAssessment(id, assessmentID int64) error
	LinkSubmission(id, submissionID int64) error
	MarkCompleted(id int64, at time.Time) error
	MarkIncomplete(id int64, reason string, at time.Time) error
}

type AssessmentStore interface {
	GetByID(id int64) (*models.Assessment, error)
	ExistsSubmission(assessmentID, studentID int64) (bool, error)
	CreateSubmission(assessmentID, studentID int64, score *float64) (*models.AssessmentSubmission, error)
}

type RescheduleStore interface {
	Create(rs *models.AssessmentWindowReschedule) (*models.AssessmentWindowReschedule, error)
	GetByID(id int64) (*models.AssessmentWindowReschedule, error)
	GetActive(studentID, assessmentID int64) (*models.AssessmentWindowReschedule, error)
	DeactivateAllFor(studentID, assessmentID int64, at time.Time) error
	Deactivate(id int64, at time.Time) error
	ListActiveForStudent(studentID int64) ([]models.AssessmentWindowReschedule, error)
}
