package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateClockWindow checks a "HH:MM" start/end pair and requires the
// end to come after the start.
func ValidateClockWindow(start, end string) error {
	startHour, startMinute, err := models.ParseClock(start)
	if err != nil {
		return ValidationError{Field: "startTime", Message: err.Error()}
	}
	endHour, endMinute, err := models.ParseClock(end)
	if err != nil {
		return ValidationError{Field: "endTime", Message: err.Error()}
	}
	if endHour*60+endMinute <= startHour*60+startMinute {
		return ValidationError{Field: "endTime", Message: "end time must be after start time"}
	}
	return nil
}

// ValidateDayOfWeek checks that a weekday number is valid
func ValidateDayOfWeek(day int) error {
	if day < int(time.Sunday) || day > int(time.Saturday) {
		return ValidationError{Field: "dayOfWeek", Message: "day of week must be between 0 (Sunday) and 6 (Saturday)"}
	}
	return nil
}

// ValidateTermDates checks that a term's date range is coherent
func ValidateTermDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ValidationError{Field: "dates", Message: "start and end dates are required"}
	}
	if !end.After(start) {
		return ValidationError{Field: "endDate", Message: "end date must be after start date"}
	}
	return nil
}
