package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

// Scheduling constants. The pre-window lead time lets a student see an
// upcoming assessment before it opens; the grace period tolerates late
// submissions after the nominal window end.
const (
	PreWindowMinutes    = 30
	GracePeriodMinutes  = 30
	RescheduleGraceMins = 30
)

// Allowed reschedule target hours: weekday evenings and Saturday
// midday. Sundays are not schedulable.
const (
	weekdayOpenHour  = 16
	weekdayCloseHour = 18
	saturdayOpenHour = 12
	saturdayCloseHr  = 15
)

var (
	ErrWeekOutOfRange = errors.New("week number out of range")
	ErrNoActiveTerm   = errors.New("no active term")
)

// TermCalendar maps (term, week number) pairs to concrete date ranges
// and answers week-containment questions. Pure date arithmetic; the
// caller supplies the term and the clock.
type TermCalendar struct{}

// NewTermCalendar creates a new term calendar
func NewTermCalendar() *TermCalendar {
	return &TermCalendar{}
}

// Week returns week n of the term. n must be within [1, WeekCount].
func (c *TermCalendar) Week(term *models.Term, n int) (models.TermWeek, error) {
	count := term.WeekCount()
	if n < 1 || n > count {
		return models.TermWeek{}, fmt.Errorf("%w: %d not in [1, %d]", ErrWeekOutOfRange, n, count)
	}
	start := models.DateOnly(term.StartDate).AddDate(0, 0, 7*(n-1))
	end := start.AddDate(0, 0, 6)
	return models.TermWeek{Number: n, Start: start, End: end}, nil
}

// WeekForDate returns the term week containing d
func (c *TermCalendar) WeekForDate(term *models.Term, d time.Time) (models.TermWeek, error) {
	if !term.ContainsDate(d) {
		return models.TermWeek{}, fmt.Errorf("%w: %s outside term", ErrWeekOutOfRange, models.DateOnly(d).Format("2006-01-02"))
	}
	days := int(models.DateOnly(d).Sub(models.DateOnly(term.StartDate)).Hours() / 24)
	return c.Week(term, days/7+1)
}

// CurrentWeek returns the week containing now
func (c *TermCalendar) CurrentWeek(term *models.Term, now time.Time) (models.TermWeek, error) {
	return c.WeekForDate(term, now)
}

// NextWeek returns the week after the one containing now. Used by the
// weekly generation job, which prepares schedules one week ahead.
func (c *TermCalendar) NextWeek(term *models.Term, now time.Time) (models.TermWeek, error) {
	current, err := c.WeekForDate(term, now)
	if err != nil {
		return models.TermWeek{}, err
	}
	return c.Week(term, current.Number+1)
}

// IsWithinAllowedWindow reports whether now falls inside the hours a
// rescheduled assessment may be placed in, with a reason when it does
// not.
func (c *TermCalendar) IsWithinAllowedWindow(now time.Time) (bool, string) {
	switch now.Weekday() {
	case time.Sunday:
		return false, "Assessments cannot be scheduled on Sundays"
	case time.Saturday:
		if now.Hour() < saturdayOpenHour || now.Hour() >= saturdayCloseHr {
			return false, fmt.Sprintf("Saturday assessments run from %02d:00 to %02d:00", saturdayOpenHour, saturdayCloseHr)
		}
	default:
		if now.Hour() < weekdayOpenHour || now.Hour() >= weekdayCloseHour {
			return false, fmt.Sprintf("Weekday assessments run from %02d:00 to %02d:00", weekdayOpenHour, weekdayCloseHour)
		}
	}
	return true, ""
}
