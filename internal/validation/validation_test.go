package validation

import (
	"testing"
	"time"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "user@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
		{
			name:    "spaces in email",
			email:   "test @example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "valid name",
			input:   "John Doe",
			wantErr: false,
		},
		{
			name:    "single name",
			input:   "John",
			wantErr: false,
		},
		{
			name:    "empty name",
			input:   "",
			wantErr: true,
		},
		{
			name:    "name too short",
			input:   "J",
			wantErr: true,
		},
		{
			name:    "name with hyphen",
			input:   "Mary-Jane",
			wantErr: false,
		},
		{
			name:    "name with apostrophe",
			input:   "O'Brien",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "password123",
			wantErr:  false,
		},
		{
			name:     "password exactly 8 characters",
			password: "pass1234",
			wantErr:  false,
		},
		{
			name:     "password too short",
			password: "pass123",
			wantErr:  true,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  true,
		},
		{
			name:     "long password",
			password: "thisIsAVeryLongPasswordThatShouldBeValid123",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateClockWindow(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{
			name:    "valid window",
			start:   "10:00",
			end:     "10:40",
			wantErr: false,
		},
		{
			name:    "end equals start",
			start:   "10:00",
			end:     "10:00",
			wantErr: true,
		},
		{
			name:    "end before start",
			start:   "14:00",
			end:     "09:00",
			wantErr: true,
		},
		{
			name:    "bad start time",
			start:   "25:00",
			end:     "10:00",
			wantErr: true,
		},
		{
			name:    "empty end time",
			start:   "10:00",
			end:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClockWindow(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateClockWindow(%q, %q) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDayOfWeek(t *testing.T) {
	for day := 0; day <= 6; day++ {
		if err := ValidateDayOfWeek(day); err != nil {
			t.Errorf("ValidateDayOfWeek(%d) error = %v, want nil", day, err)
		}
	}
	if err := ValidateDayOfWeek(-1); err == nil {
		t.Error("ValidateDayOfWeek(-1) expected error")
	}
	if err := ValidateDayOfWeek(7); err == nil {
		t.Error("ValidateDayOfWeek(7) expected error")
	}
}

func TestValidateTermDates(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 28, 0, 0, 0, 0, time.UTC)

	if err := ValidateTermDates(start, end); err != nil {
		t.Errorf("ValidateTermDates() error = %v, want nil", err)
	}
	if err := ValidateTermDates(end, start); err == nil {
		t.Error("ValidateTermDates() with reversed range expected error")
	}
	if err := ValidateTermDates(time.Time{}, end); err == nil {
		t.Error("ValidateTermDates() with zero start expected error")
	}
}
