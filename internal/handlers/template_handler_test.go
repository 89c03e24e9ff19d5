package handlers

import (
	"testing"
)

func validTemplateRequest() templateRequest {
	return templateRequest{
		ClassLevel:    "JSS1",
		WeekNumber:    2,
		DayOfWeek:     2,
		PeriodNumber:  1,
		SubjectID:     10,
		LessonTopicID: 5,
		StartTime:     "10:00",
		EndTime:       "10:40",
	}
}

func TestTemplateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*templateRequest)
		wantErr bool
	}{
		{"valid", func(r *templateRequest) {}, false},
		{"no time window", func(r *templateRequest) { r.StartTime, r.EndTime = "", "" }, false},
		{"missing class level", func(r *templateRequest) { r.ClassLevel = "" }, true},
		{"zero week", func(r *templateRequest) { r.WeekNumber = 0 }, true},
		{"zero period", func(r *templateRequest) { r.PeriodNumber = 0 }, true},
		{"missing subject", func(r *templateRequest) { r.SubjectID = 0 }, true},
		{"day out of range", func(r *templateRequest) { r.DayOfWeek = 7 }, true},
		{"end before start", func(r *templateRequest) { r.StartTime, r.EndTime = "11:00", "10:00" }, true},
		{"start without end", func(r *templateRequest) { r.EndTime = "" }, true},
		{"bad clock", func(r *templateRequest) { r.StartTime = "ten" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validTemplateRequest()
			tt.mutate(&req)
			err := req.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
