package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/database"
	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

// UserRepository handles database operations for users and sessions
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, name, role,
	COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), student_id, created_at, updated_at`

// CreateUser inserts a new user into the database
func (r *UserRepository) CreateUser(email, passwordHash, name, role string, studentID *int64) (*models.User, error) {
	// First registered user becomes an administrator
	var userCount int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if userCount == 0 {
		role = models.RoleAdmin
	}

	query := `
		INSERT INTO users (email, password_hash, name, role, student_id)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, email, passwordHash, name, role, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		StudentID:    studentID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// GetUserByEmail retrieves a user by email address
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	return r.scanUser(r.db.QueryRow(query, email))
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return r.scanUser(r.db.QueryRow(query, id))
}

// GetUserByOAuth retrieves a user by OAuth provider and subject
func (r *UserRepository) GetUserByOAuth(provider, subject string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE oauth_provider = ? AND oauth_subject = ?"
	return r.scanUser(r.db.QueryRow(query, provider, subject))
}

// LinkOAuthProvider links an existing user to an OAuth provider
func (r *UserRepository) LinkOAuthProvider(userID int64, provider, subject string) error {
	query := `
		UPDATE users
		SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		AND (oauth_provider IS NULL OR oauth_provider = '')
	`
	result, err := r.db.Exec(query, provider, subject, userID)
	if err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read link result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("oauth provider already linked")
	}

	return nil
}

// CreateSession creates a new session for a user
func (r *UserRepository) CreateSession(sessionID string, userID int64, expiresAt time.Time) (*models.Session, error) {
	query := `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES (?, ?, ?)
	`
	if _, err := r.db.Exec(query, sessionID, userID, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// GetSession retrieves a session by ID
func (r *UserRepository) GetSession(sessionID string) (*models.Session, error) {
	query := `
		SELECT id, user_id, expires_at, created_at
		FROM sessions
		WHERE id = ?
	`
	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session from the database
func (r *UserRepository) DeleteSession(sessionID string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions
func (r *UserRepository) DeleteExpiredSessions() error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var studentID sql.NullInt64
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&studentID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if studentID.Valid {
		user.StudentID = &studentID.Int64
	}
	return user, nil
}
