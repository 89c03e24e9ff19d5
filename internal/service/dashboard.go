package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
	"github.com/forhay123/haybee-edu-sub005/internal/repository"
)

// DayEntry is one schedule slot on a student's dashboard together with
// its progress and access state.
type DayEntry struct {
	Instance models.DailyScheduleInstance
	Progress *models.StudentLessonProgress
	Period   *models.PeriodAccessDecision
	Access   *models.AccessCheckResult
}

// DashboardService assembles a student's daily view: each period with
// its completion state, dependency verdict, and assessment access
// decision.
type DashboardService struct {
	instances InstanceStore
	progress  ProgressStore
	gate      *PeriodDependencyGate
	arbiter   *AccessArbiter
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(instances InstanceStore, progress ProgressStore, gate *PeriodDependencyGate, arbiter *AccessArbiter) *DashboardService {
	return &DashboardService{instances: instances, progress: progress, gate: gate, arbiter: arbiter}
}

// DaySchedule returns a student's schedule for one date with per-period
// state evaluated at the given instant.
func (s *DashboardService) DaySchedule(studentID int64, date, now time.Time) ([]DayEntry, error) {
	instances, err := s.instances.ListByStudentAndDate(studentID, date)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}

	entries := make([]DayEntry, 0, len(instances))
	for _, inst := range instances {
		entry := DayEntry{Instance: inst}
		if inst.LessonTopicID != nil {
			p, err := s.progress.GetByStudentTopicDate(studentID, *inst.LessonTopicID, inst.ScheduledDate)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("loading progress: %w", err)
			}
			if p != nil {
				entry.Progress = p
				decision, err := s.gate.CanAccessPeriod(p)
				if err != nil {
					return nil, err
				}
				entry.Period = &decision
				if p.AssessmentID != nil {
					access, err := s.arbiter.CheckAssessmentAccess(studentID, *p.AssessmentID, now)
					if err != nil {
						return nil, err
					}
					entry.Access = &access
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// BlockedPeriods returns the entries on a day whose dependency gate
// denies access, for the dashboard's blocked-lesson banner.
func (s *DashboardService) BlockedPeriods(studentID int64, date, now time.Time) ([]DayEntry, error) {
	entries, err := s.DaySchedule(studentID, date, now)
	if err != nil {
		return nil, err
	}
	var blocked []DayEntry
	for _, e := range entries {
		if e.Period != nil && !e.Period.Allowed {
			blocked = append(blocked, e)
		}
	}
	return blocked, nil
}
