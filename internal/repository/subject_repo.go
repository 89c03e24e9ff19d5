package repository

import (
	"database/sql"

	"github.com/forhay123/haybee-edu-sub005/internal/database"
	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

// SubjectRepository handles database operations for subjects and lesson topics
type SubjectRepository struct {
	db *database.DB
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *database.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// CreateSubject inserts a new subject
func (r *SubjectRepository) CreateSubject(name, classLevel string) (*models.Subject, error) {
	id, err := r.db.ExecReturningID("INSERT INTO subjects (name, class_level) VALUES (?, ?)", name, classLevel)
	if err != nil {
		return nil, err
	}
	return r.GetSubjectByID(id)
}

// GetSubjectByID retrieves a subject by ID
func (r *SubjectRepository) GetSubjectByID(id int64) (*models.Subject, error) {
	s := &models.Subject{}
	err := r.db.QueryRow("SELECT id, name, class_level, created_at FROM subjects WHERE id = ?", id).
		Scan(&s.ID, &s.Name, &s.ClassLevel, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSubjectsByClassLevel retrieves subjects taught at a class level
func (r *SubjectRepository) ListSubjectsByClassLevel(classLevel string) ([]models.Subject, error) {
	rows, err := r.db.Query("SELECT id, name, class_level, created_at FROM subjects WHERE class_level = ? ORDER BY name ASC", classLevel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.ClassLevel, &s.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// CreateTopic inserts a new lesson topic
func (r *SubjectRepository) CreateTopic(subjectID, termID int64, title string, weekNumber int) (*models.LessonTopic, error) {
	query := `
		INSERT INTO lesson_topics (subject_id, term_id, title, week_number)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, subjectID, termID, title, weekNumber)
	if err != nil {
		return nil, err
	}
	return r.GetTopicByID(id)
}

// GetTopicByID retrieves a lesson topic by ID
func (r *SubjectRepository) GetTopicByID(id int64) (*models.LessonTopic, error) {
	query := `
		SELECT id, subject_id, term_id, title, week_number, created_at
		FROM lesson_topics
		WHERE id = ?
	`
	t := &models.LessonTopic{}
	err := r.db.QueryRow(query, id).Scan(&t.ID, &t.SubjectID, &t.TermID, &t.Title, &t.WeekNumber, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTopicsBySubject retrieves all topics for a subject ordered by week
func (r *SubjectRepository) ListTopicsBySubject(subjectID int64) ([]models.LessonTopic, error) {
	query := `
		SELECT id, subject_id, term_id, title, week_number, created_at
		FROM lesson_topics
		WHERE subject_id = ?
		ORDER BY week_number ASC, id ASC
	`
	rows, err := r.db.Query(query, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []models.LessonTopic
	for rows.Next() {
		var t models.LessonTopic
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.TermID, &t.Title, &t.WeekNumber, &t.CreatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}
