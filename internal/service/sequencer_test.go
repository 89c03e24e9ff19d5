package service

import (
	"testing"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

func day(d int) time.Time {
	// January 2024: the 1st is a Monday
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func inst(id, subjectID int64, d int, period int, start string) models.DailyScheduleInstance {
	return models.DailyScheduleInstance{
		ID:            id,
		StudentID:     1,
		SubjectID:     subjectID,
		ScheduledDate: day(d),
		PeriodNumber:  period,
		StartTime:     start,
	}
}

func TestAnalyzeWeek(t *testing.T) {
	sequencer := NewPeriodSequencer()

	tests := []struct {
		name      string
		instances []models.DailyScheduleInstance
		wantSeq   []*int
		wantTotal []*int
	}{
		{
			name: "single period subject gets no sequence",
			instances: []models.DailyScheduleInstance{
				inst(1, 10, 1, 1, "09:00"),
			},
			wantSeq:   []*int{nil},
			wantTotal: []*int{nil},
		},
		{
			name: "two periods ordered by date",
			instances: []models.DailyScheduleInstance{
				inst(1, 10, 3, 1, "09:00"),
				inst(2, 10, 1, 2, "10:00"),
			},
			wantSeq:   []*int{intPtr(2), intPtr(1)},
			wantTotal: []*int{intPtr(2), intPtr(2)},
		},
		{
			name: "same day ordered by start time",
			instances: []models.DailyScheduleInstance{
				inst(1, 10, 1, 3, "11:00"),
				inst(2, 10, 1, 1, "09:00"),
			},
			wantSeq:   []*int{intPtr(2), intPtr(1)},
			wantTotal: []*int{intPtr(2), intPtr(2)},
		},
		{
			name: "mixed subjects sequenced independently",
			instances: []models.DailyScheduleInstance{
				inst(1, 10, 1, 1, "09:00"),
				inst(2, 20, 1, 2, "10:00"),
				inst(3, 10, 2, 1, "09:00"),
				inst(4, 10, 4, 1, "09:00"),
			},
			wantSeq:   []*int{intPtr(1), nil, intPtr(2), intPtr(3)},
			wantTotal: []*int{intPtr(3), nil, intPtr(3), intPtr(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sequencer.AnalyzeWeek(tt.instances)
			for i := range tt.instances {
				if !intPtrEqual(tt.instances[i].PeriodSequence, tt.wantSeq[i]) {
					t.Errorf("instance %d PeriodSequence = %v, want %v",
						tt.instances[i].ID, fmtIntPtr(tt.instances[i].PeriodSequence), fmtIntPtr(tt.wantSeq[i]))
				}
				if !intPtrEqual(tt.instances[i].TotalPeriodsForTopic, tt.wantTotal[i]) {
					t.Errorf("instance %d TotalPeriodsForTopic = %v, want %v",
						tt.instances[i].ID, fmtIntPtr(tt.instances[i].TotalPeriodsForTopic), fmtIntPtr(tt.wantTotal[i]))
				}
			}
		})
	}
}

func TestAnalyzeWeekContiguity(t *testing.T) {
	sequencer := NewPeriodSequencer()
	instances := []models.DailyScheduleInstance{
		inst(1, 10, 5, 1, "09:00"),
		inst(2, 10, 2, 1, "09:00"),
		inst(3, 10, 3, 1, "09:00"),
		inst(4, 10, 1, 1, "09:00"),
	}

	analysis := sequencer.AnalyzeWeek(instances)

	seen := make(map[int]bool)
	for _, i := range instances {
		if i.PeriodSequence == nil {
			t.Fatalf("instance %d missing sequence", i.ID)
		}
		seen[*i.PeriodSequence] = true
	}
	for n := 1; n <= len(instances); n++ {
		if !seen[n] {
			t.Errorf("sequence %d not assigned", n)
		}
	}

	if issues := sequencer.Validate(analysis); len(issues) != 0 {
		t.Errorf("Validate() = %v, want no issues", issues)
	}
}

func TestValidate(t *testing.T) {
	sequencer := NewPeriodSequencer()

	// Two periods of the same subject on the same date violate the
	// strictly increasing date rule.
	instances := []models.DailyScheduleInstance{
		inst(1, 10, 1, 1, "09:00"),
		inst(2, 10, 1, 3, "11:00"),
	}
	analysis := sequencer.AnalyzeWeek(instances)

	issues := sequencer.Validate(analysis)
	if len(issues) == 0 {
		t.Fatal("Validate() = no issues, want same-date violation")
	}
}

func intPtr(n int) *int { return &n }

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtIntPtr(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
