package models

import "time"

// Term represents one academic term: an immutable date range split into weeks.
// Exactly one term may be active system-wide at any time.
type Term struct {
	ID           int64
	Name         string
	AcademicYear string
	StartDate    time.Time
	EndDate      time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WeekCount returns the number of weeks spanned by the term, rounding up
// so a partial final week still counts.
func (t *Term) WeekCount() int {
	if t.EndDate.Before(t.StartDate) {
		return 0
	}
	days := int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
	return (days + 6) / 7
}

// ContainsDate reports whether d falls within [StartDate, EndDate].
func (t *Term) ContainsDate(d time.Time) bool {
	day := DateOnly(d)
	return !day.Before(DateOnly(t.StartDate)) && !day.After(DateOnly(t.EndDate))
}

// TermWeek is one concrete week of a term.
type TermWeek struct {
	Number int
	Start  time.Time
	End    time.Time
}

// Contains reports whether d falls within the week's date range.
func (w TermWeek) Contains(d time.Time) bool {
	day := DateOnly(d)
	return !day.Before(DateOnly(w.Start)) && !day.After(DateOnly(w.End))
}

// DateOnly truncates a time to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MondayOf returns the Monday of the calendar week containing d.
// Weeks start on Monday, so a Sunday belongs to the preceding Monday's week.
func MondayOf(d time.Time) time.Time {
	day := DateOnly(d)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

// SameCalendarWeek reports whether a and b fall in the same Monday-start week.
func SameCalendarWeek(a, b time.Time) bool {
	return MondayOf(a).Equal(MondayOf(b))
}
