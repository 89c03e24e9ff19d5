package handlers

import (
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
	"github.com/forhay123/haybee-edu-sub005/internal/service"
)

// Response shapes for the JSON API. Domain structs stay free of
// transport tags; converters live next to the shapes they fill.

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	StudentID *int64 `json:"studentId,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		StudentID: u.StudentID,
	}
}

type accessCheckResponse struct {
	Status           string     `json:"status"`
	Allowed          bool       `json:"allowed"`
	Reason           string     `json:"reason"`
	WindowStart      *time.Time `json:"windowStart,omitempty"`
	WindowEnd        *time.Time `json:"windowEnd,omitempty"`
	MinutesUntilOpen int64      `json:"minutesUntilOpen,omitempty"`
	MinutesRemaining int64      `json:"minutesRemaining,omitempty"`
	InGracePeriod    bool       `json:"inGracePeriod"`
	Rescheduled      bool       `json:"rescheduled"`
}

func toAccessCheckResponse(r models.AccessCheckResult) accessCheckResponse {
	return accessCheckResponse{
		Status:           string(r.Status),
		Allowed:          r.Allowed,
		Reason:           r.Reason,
		WindowStart:      r.WindowStart,
		WindowEnd:        r.WindowEnd,
		MinutesUntilOpen: r.MinutesUntilOpen,
		MinutesRemaining: r.MinutesRemaining,
		InGracePeriod:    r.InGracePeriod,
		Rescheduled:      r.Rescheduled,
	}
}

type periodDecisionResponse struct {
	Allowed            bool     `json:"allowed"`
	Reason             string   `json:"reason,omitempty"`
	Requirements       []string `json:"requirements,omitempty"`
	BlockingProgressID *int64   `json:"blockingProgressId,omitempty"`
}

func toPeriodDecisionResponse(d models.PeriodAccessDecision) periodDecisionResponse {
	return periodDecisionResponse{
		Allowed:            d.Allowed,
		Reason:             d.Reason,
		Requirements:       d.Requirements,
		BlockingProgressID: d.BlockingProgressID,
	}
}

type progressResponse struct {
	ID                     int64      `json:"id"`
	LessonTopicID          int64      `json:"lessonTopicId"`
	AssessmentID           *int64     `json:"assessmentId,omitempty"`
	ScheduledDate          string     `json:"scheduledDate"`
	PeriodNumber           int        `json:"periodNumber"`
	PeriodSequence         *int       `json:"periodSequence,omitempty"`
	TotalPeriodsInSequence *int       `json:"totalPeriodsInSequence,omitempty"`
	Completed              bool       `json:"completed"`
	CompletedAt            *time.Time `json:"completedAt,omitempty"`
	IncompleteReason       string     `json:"incompleteReason,omitempty"`
	WindowStart            *time.Time `json:"windowStart,omitempty"`
	WindowEnd              *time.Time `json:"windowEnd,omitempty"`
	GracePeriodEnd         *time.Time `json:"gracePeriodEnd,omitempty"`
}

func toProgressResponse(p *models.StudentLessonProgress) *progressResponse {
	if p == nil {
		return nil
	}
	return &progressResponse{
		ID:                     p.ID,
		LessonTopicID:          p.LessonTopicID,
		AssessmentID:           p.AssessmentID,
		ScheduledDate:          p.ScheduledDate.Format("2006-01-02"),
		PeriodNumber:           p.PeriodNumber,
		PeriodSequence:         p.PeriodSequence,
		TotalPeriodsInSequence: p.TotalPeriodsInSequence,
		Completed:              p.Completed,
		CompletedAt:            p.CompletedAt,
		IncompleteReason:       p.IncompleteReason,
		WindowStart:            p.AssessmentWindowStart,
		WindowEnd:              p.AssessmentWindowEnd,
		GracePeriodEnd:         p.GracePeriodEnd,
	}
}

type instanceResponse struct {
	ID            int64  `json:"id"`
	SubjectID     int64  `json:"subjectId"`
	LessonTopicID *int64 `json:"lessonTopicId,omitempty"`
	AssessmentID  *int64 `json:"assessmentId,omitempty"`
	ScheduledDate string `json:"scheduledDate"`
	PeriodNumber  int    `json:"periodNumber"`
	StartTime     string `json:"startTime,omitempty"`
	EndTime       string `json:"endTime,omitempty"`
	Source        string `json:"source"`
}

func toInstanceResponse(i models.DailyScheduleInstance) instanceResponse {
	return instanceResponse{
		ID:            i.ID,
		SubjectID:     i.SubjectID,
		LessonTopicID: i.LessonTopicID,
		AssessmentID:  i.AssessmentID,
		ScheduledDate: i.ScheduledDate.Format("2006-01-02"),
		PeriodNumber:  i.PeriodNumber,
		StartTime:     i.StartTime,
		EndTime:       i.EndTime,
		Source:        string(i.Source),
	}
}

type dayEntryResponse struct {
	Instance instanceResponse        `json:"instance"`
	Progress *progressResponse       `json:"progress,omitempty"`
	Period   *periodDecisionResponse `json:"period,omitempty"`
	Access   *accessCheckResponse    `json:"access,omitempty"`
}

func toDayEntryResponse(e service.DayEntry) dayEntryResponse {
	resp := dayEntryResponse{
		Instance: toInstanceResponse(e.Instance),
		Progress: toProgressResponse(e.Progress),
	}
	if e.Period != nil {
		d := toPeriodDecisionResponse(*e.Period)
		resp.Period = &d
	}
	if e.Access != nil {
		a := toAccessCheckResponse(*e.Access)
		resp.Access = &a
	}
	return resp
}

func toDayEntryResponses(entries []service.DayEntry) []dayEntryResponse {
	out := make([]dayEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toDayEntryResponse(e))
	}
	return out
}

type termResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	AcademicYear string `json:"academicYear"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	IsActive     bool   `json:"isActive"`
	WeekCount    int    `json:"weekCount"`
}

func toTermResponse(t *models.Term) termResponse {
	return termResponse{
		ID:           t.ID,
		Name:         t.Name,
		AcademicYear: t.AcademicYear,
		StartDate:    t.StartDate.Format("2006-01-02"),
		EndDate:      t.EndDate.Format("2006-01-02"),
		IsActive:     t.IsActive,
		WeekCount:    t.WeekCount(),
	}
}

type templateResponse struct {
	ID            int64  `json:"id"`
	ClassLevel    string `json:"classLevel"`
	WeekNumber    int    `json:"weekNumber"`
	DayOfWeek     int    `json:"dayOfWeek"`
	PeriodNumber  int    `json:"periodNumber"`
	SubjectID     int64  `json:"subjectId"`
	LessonTopicID int64  `json:"lessonTopicId"`
	TeacherName   string `json:"teacherName,omitempty"`
	StartTime     string `json:"startTime,omitempty"`
	EndTime       string `json:"endTime,omitempty"`
	AssessmentID  *int64 `json:"assessmentId,omitempty"`
}

func toTemplateResponse(t *models.WeeklyScheduleTemplate) templateResponse {
	return templateResponse{
		ID:            t.ID,
		ClassLevel:    t.ClassLevel,
		WeekNumber:    t.WeekNumber,
		DayOfWeek:     int(t.DayOfWeek),
		PeriodNumber:  t.PeriodNumber,
		SubjectID:     t.SubjectID,
		LessonTopicID: t.LessonTopicID,
		TeacherName:   t.TeacherName,
		StartTime:     t.StartTime,
		EndTime:       t.EndTime,
		AssessmentID:  t.AssessmentID,
	}
}

type rescheduleResponse struct {
	ID             int64      `json:"id"`
	StudentID      int64      `json:"studentId"`
	AssessmentID   int64      `json:"assessmentId"`
	ReferenceCode  string     `json:"referenceCode"`
	NewWindowStart time.Time  `json:"newWindowStart"`
	NewWindowEnd   time.Time  `json:"newWindowEnd"`
	NewGraceEnd    *time.Time `json:"newGraceEnd,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	Active         bool       `json:"active"`
}

func toRescheduleResponse(rs *models.AssessmentWindowReschedule) rescheduleResponse {
	return rescheduleResponse{
		ID:             rs.ID,
		StudentID:      rs.StudentID,
		AssessmentID:   rs.AssessmentID,
		ReferenceCode:  rs.ReferenceCode,
		NewWindowStart: rs.NewWindowStart,
		NewWindowEnd:   rs.NewWindowEnd,
		NewGraceEnd:    rs.NewGraceEnd,
		Reason:         rs.Reason,
		Active:         rs.Active,
	}
}

type batchResultResponse struct {
	StudentsProcessed int      `json:"studentsProcessed"`
	InstancesCreated  int      `json:"instancesCreated"`
	Skipped           int      `json:"skipped"`
	Failures          []string `json:"failures,omitempty"`
}

type weekResultResponse struct {
	StudentID        int64    `json:"studentId"`
	InstancesCreated int      `json:"instancesCreated"`
	Skipped          int      `json:"skipped"`
	SequenceIssues   []string `json:"sequenceIssues,omitempty"`
}
