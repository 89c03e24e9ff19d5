package service

import (
	"fmt"
	"sort"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

// TopicGroup is one subject's instances within a week, in chronological
// order. Groups of two or more form a multi-period lesson.
type TopicGroup struct {
	SubjectID int64
	Instances []models.DailyScheduleInstance
}

// IsMultiPeriod reports whether the group spans more than one period
func (g *TopicGroup) IsMultiPeriod() bool {
	return len(g.Instances) > 1
}

// WeekAnalysis is the result of sequencing one week's instances
type WeekAnalysis struct {
	Groups []TopicGroup
}

// MultiPeriodGroups returns only the groups that need sequencing
func (a *WeekAnalysis) MultiPeriodGroups() []TopicGroup {
	var groups []TopicGroup
	for _, g := range a.Groups {
		if g.IsMultiPeriod() {
			groups = append(groups, g)
		}
	}
	return groups
}

// PeriodSequencer assigns chronological sequence numbers to multi-period
// lessons within a week and validates their ordering. Pure computation;
// persistence of the results belongs to the caller.
type PeriodSequencer struct{}

// NewPeriodSequencer creates a new period sequencer
func NewPeriodSequencer() *PeriodSequencer {
	return &PeriodSequencer{}
}

// AnalyzeWeek groups a week's instances by subject, orders each group by
// (date, start time), and assigns 1-based sequence numbers to groups of
// size two or more. Single-occurrence subjects get no sequence. The
// input slice's elements are annotated in place.
func (s *PeriodSequencer) AnalyzeWeek(instances []models.DailyScheduleInstance) WeekAnalysis {
	bySubject := make(map[int64][]int)
	var order []int64
	for idx, inst := range instances {
		if _, seen := bySubject[inst.SubjectID]; !seen {
			order = append(order, inst.SubjectID)
		}
		bySubject[inst.SubjectID] = append(bySubject[inst.SubjectID], idx)
	}

	analysis := WeekAnalysis{}
	for _, subjectID := range order {
		indexes := bySubject[subjectID]
		sort.SliceStable(indexes, func(a, b int) bool {
			ia, ib := instances[indexes[a]], instances[indexes[b]]
			da, db := models.DateOnly(ia.ScheduledDate), models.DateOnly(ib.ScheduledDate)
			if !da.Equal(db) {
				return da.Before(db)
			}
			return ia.StartTime < ib.StartTime
		})

		group := TopicGroup{SubjectID: subjectID}
		total := len(indexes)
		for rank, idx := range indexes {
			if total >= 2 {
				seq := rank + 1
				tot := total
				instances[idx].PeriodSequence = &seq
				instances[idx].TotalPeriodsForTopic = &tot
			} else {
				instances[idx].PeriodSequence = nil
				instances[idx].TotalPeriodsForTopic = nil
			}
			group.Instances = append(group.Instances, instances[idx])
		}
		analysis.Groups = append(analysis.Groups, group)
	}
	return analysis
}

// Validate checks every multi-period group for strictly increasing dates
// and contiguous sequence numbers starting at 1. Violations are
// collected as human-readable messages for an administrator, never
// returned as errors.
func (s *PeriodSequencer) Validate(analysis WeekAnalysis) []string {
	var issues []string
	for _, group := range analysis.MultiPeriodGroups() {
		for i, inst := range group.Instances {
			if inst.PeriodSequence == nil {
				issues = append(issues, fmt.Sprintf(
					"subject %d: period on %s has no sequence number",
					group.SubjectID, models.DateOnly(inst.ScheduledDate).Format("2006-01-02")))
				continue
			}
			if *inst.PeriodSequence != i+1 {
				issues = append(issues, fmt.Sprintf(
					"subject %d: expected sequence %d on %s, found %d",
					group.SubjectID, i+1,
					models.DateOnly(inst.ScheduledDate).Format("2006-01-02"), *inst.PeriodSequence))
			}
			if i == 0 {
				continue
			}
			prev := group.Instances[i-1]
			if !models.DateOnly(inst.ScheduledDate).After(models.DateOnly(prev.ScheduledDate)) {
				issues = append(issues, fmt.Sprintf(
					"subject %d: period %d on %s does not follow period %d on %s",
					group.SubjectID, i+1,
					models.DateOnly(inst.ScheduledDate).Format("2006-01-02"), i,
					models.DateOnly(prev.ScheduledDate).Format("2006-01-02")))
			}
		}
	}
	return issues
}
