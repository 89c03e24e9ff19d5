package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/models"
	"github.com/forhay123/haybee-edu-sub005/internal/repository"
	"github.com/forhay123/haybee-edu-sub005/internal/security"
	"github.com/forhay123/haybee-edu-sub005/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrStudentRequired    = errors.New("student accounts must reference a student profile")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo        *repository.UserRepository
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new user account. Student accounts must be linked
// to a student profile; staff accounts must not be.
func (s *AuthService) Register(ctx context.Context, emailService *EmailService, email, password, name, role string, studentID *int64) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && role != models.RoleTeacher && role != models.RoleStudent {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	if role == models.RoleStudent && studentID == nil {
		return nil, ErrStudentRequired
	}
	if role != models.RoleStudent {
		studentID = nil
	}

	existingUser, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(email, passwordHash, name, role, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if emailService != nil && emailService.IsEnabled() {
		if err := emailService.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
			// Registration already succeeded
			log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return user, nil
}

// Login authenticates a user and creates a session
func (s *AuthService) Login(email, password string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.userRepo.CreateSession(sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, user, nil
}

// ValidateSession checks if a session is valid and returns the associated user
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		// Clean up expired session
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}

	return user, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.userRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.userRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}

// OAuthLogin authenticates or creates a staff user from an OAuth
// identity. New accounts default to the teacher role; student accounts
// are never created this way.
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.Session, *models.User, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth user: %w", err)
	}

	if user == nil {
		existingUser, err := s.userRepo.GetUserByEmail(email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
		}
		if existingUser != nil {
			if existingUser.OAuthProvider != "" && existingUser.OAuthProvider != provider {
				return nil, nil, ErrEmailTaken
			}
			if err := s.userRepo.LinkOAuthProvider(existingUser.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			user = existingUser
		} else {
			if name == "" {
				name = strings.Split(email, "@")[0]
			}
			randomPasswordHash, err := security.HashPassword(security.GenerateSessionID())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to generate oauth password hash: %w", err)
			}
			newUser, err := s.userRepo.CreateUser(email, randomPasswordHash, name, models.RoleTeacher, nil)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create oauth user: %w", err)
			}
			if err := s.userRepo.LinkOAuthProvider(newUser.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			user = newUser
		}
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)
	session, err := s.userRepo.CreateSession(sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, user, nil
}
