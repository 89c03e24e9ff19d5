package models

import "time"

// User roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User represents a staff or student account in the system
type User struct {
	ID            int64
	Email         string
	PasswordHash  string
	Name          string
	Role          string
	OAuthProvider string
	OAuthSubject  string
	StudentID     *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsStaff reports whether the user may administer schedules and terms
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleTeacher
}

// Session represents an authenticated session
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
