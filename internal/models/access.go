package models

import "time"

// AccessStatus is the outcome class of an assessment access check.
type AccessStatus string

const (
	AccessAllowed          AccessStatus = "ALLOWED"
	AccessNotYetOpen       AccessStatus = "NOT_YET_OPEN"
	AccessExpired          AccessStatus = "EXPIRED"
	AccessAlreadySubmitted AccessStatus = "ALREADY_SUBMITTED"
	AccessBlocked          AccessStatus = "BLOCKED"
)

// AccessCheckResult is the decision returned for one (student,
// assessment, now) query. Denials are outcomes, not errors; Reason is
// suitable for direct display to the student.
type AccessCheckResult struct {
	Status           AccessStatus
	Allowed          bool
	Reason           string
	WindowStart      *time.Time
	WindowEnd        *time.Time
	MinutesUntilOpen int64
	MinutesRemaining int64
	InGracePeriod    bool
	Rescheduled      bool
}

// AllowedResult builds an ALLOWED decision.
func AllowedResult(windowEnd time.Time, minutesRemaining int64, inGracePeriod bool) AccessCheckResult {
	return AccessCheckResult{
		Status:           AccessAllowed,
		Allowed:          true,
		Reason:           "Assessment is open",
		WindowEnd:        &windowEnd,
		MinutesRemaining: minutesRemaining,
		InGracePeriod:    inGracePeriod,
	}
}

// NotYetOpenResult builds a NOT_YET_OPEN decision.
func NotYetOpenResult(reason string, windowStart, windowEnd time.Time, minutesUntilOpen int64) AccessCheckResult {
	return AccessCheckResult{
		Status:           AccessNotYetOpen,
		Reason:           reason,
		WindowStart:      &windowStart,
		WindowEnd:        &windowEnd,
		MinutesUntilOpen: minutesUntilOpen,
	}
}

// ExpiredResult builds an EXPIRED decision.
func ExpiredResult(reason string, windowEnd time.Time) AccessCheckResult {
	return AccessCheckResult{
		Status:    AccessExpired,
		Reason:    reason,
		WindowEnd: &windowEnd,
	}
}

// AlreadySubmittedResult builds an ALREADY_SUBMITTED decision.
func AlreadySubmittedResult() AccessCheckResult {
	return AccessCheckResult{
		Status: AccessAlreadySubmitted,
		Reason: "You have already submitted this assessment",
	}
}

// BlockedResult builds a BLOCKED decision.
func BlockedResult(reason string) AccessCheckResult {
	return AccessCheckResult{
		Status: AccessBlocked,
		Reason: reason,
	}
}

// PeriodAccessDecision is the dependency gate's verdict for one
// progress record.
type PeriodAccessDecision struct {
	Allowed            bool
	Reason             string
	BlockingProgressID *int64
	Requirements       []string
}

// AllowedPeriod builds a permissive period decision.
func AllowedPeriod() PeriodAccessDecision {
	return PeriodAccessDecision{Allowed: true}
}

// BlockedPeriod builds a blocked period decision.
func BlockedPeriod(reason string, blockingProgressID *int64, requirements ...string) PeriodAccessDecision {
	return PeriodAccessDecision{
		Reason:             reason,
		BlockingProgressID: blockingProgressID,
		Requirements:       requirements,
	}
}
