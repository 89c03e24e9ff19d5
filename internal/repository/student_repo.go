package repository

import (
	"database/sql"

	"github.com/forhay123/haybee-edu-sub005/internal/database"
	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

// StudentRepository handles database operations for student profiles
type StudentRepository struct {
	db *database.DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *database.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a new student profile
func (r *StudentRepository) Create(name, classLevel, email string) (*models.StudentProfile, error) {
	query := `
		INSERT INTO students (name, class_level, email)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, name, classLevel, email)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(id int64) (*models.StudentProfile, error) {
	query := `
		SELECT id, name, class_level, email, created_at, updated_at
		FROM students
		WHERE id = ?
	`
	s := &models.StudentProfile{}
	err := r.db.QueryRow(query, id).Scan(&s.ID, &s.Name, &s.ClassLevel, &s.Email, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListByClassLevel retrieves all students in a class level
func (r *StudentRepository) ListByClassLevel(classLevel string) ([]models.StudentProfile, error) {
	query := `
		SELECT id, name, class_level, email, created_at, updated_at
		FROM students
		WHERE class_level = ?
		ORDER BY name ASC
	`
	return r.list(query, classLevel)
}

// ListAll retrieves every student
func (r *StudentRepository) ListAll() ([]models.StudentProfile, error) {
	query := `
		SELECT id, name, class_level, email, created_at, updated_at
		FROM students
		ORDER BY class_level ASC, name ASC
	`
	return r.list(query)
}

func (r *StudentRepository) list(query string, args ...interface{}) ([]models.StudentProfile, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []models.StudentProfile
	for rows.Next() {
		var s models.StudentProfile
		if err := rows.Scan(&s.ID, &s.Name, &s.ClassLevel, &s.Email, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
