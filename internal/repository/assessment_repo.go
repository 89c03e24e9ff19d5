package repository

import (
	"database/sql"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/database"
	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

// AssessmentRepository handles database operations for assessments and submissions
type AssessmentRepository struct {
	db *database.DB
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *database.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

const assessmentColumns = `id, lesson_topic_id, subject_id, title, total_marks,
	duration_minutes, is_published, target_student_id, created_at, updated_at`

// Create inserts a new assessment
func (r *AssessmentRepository) Create(a *models.Assessment) (*models.Assessment, error) {
	query := `
		INSERT INTO assessments
			(lesson_topic_id, subject_id, title, total_marks, duration_minutes, is_published, target_student_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		a.LessonTopicID, a.SubjectID, a.Title, a.TotalMarks,
		a.DurationMinutes, a.IsPublished, a.TargetStudentID,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves an assessment by ID
func (r *AssessmentRepository) GetByID(id int64) (*models.Assessment, error) {
	query := "SELECT " + assessmentColumns + " FROM assessments WHERE id = ?"
	a := &models.Assessment{}
	var targetStudentID sql.NullInt64
	err := r.db.QueryRow(query, id).Scan(
		&a.ID, &a.LessonTopicID, &a.SubjectID, &a.Title, &a.TotalMarks,
		&a.DurationMinutes, &a.IsPublished, &targetStudentID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if targetStudentID.Valid {
		a.TargetStudentID = &targetStudentID.Int64
	}
	return a, nil
}

// SetPublished updates the published flag
func (r *AssessmentRepository) SetPublished(id int64, published bool) error {
	result, err := r.db.Exec("UPDATE assessments SET is_published = ?, updated_at = ? WHERE id = ?", published, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ExistsSubmission reports whether a student has already submitted an assessment
func (r *AssessmentRepository) ExistsSubmission(assessmentID, studentID int64) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM assessment_submissions WHERE assessment_id = ? AND student_id = ?"
	err := r.db.QueryRow(query, assessmentID, studentID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateSubmission records a student's submission. The unique constraint
// on (assessment, student) rejects duplicates.
func (r *AssessmentRepository) CreateSubmission(assessmentID, studentID int64, score *float64) (*models.AssessmentSubmission, error) {
	query := `
		INSERT INTO assessment_submissions (assessment_id, student_id, score)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, assessmentID, studentID, score)
	if err != nil {
		return nil, err
	}
	return r.GetSubmissionByID(id)
}

// GetSubmissionByID retrieves a submission by ID
func (r *AssessmentRepository) GetSubmissionByID(id int64) (*models.AssessmentSubmission, error) {
	query := "SELECT id, assessment_id, student_id, score, submitted_at FROM assessment_submissions WHERE id = ?"
	s := &models.AssessmentSubmission{}
	var score sql.NullFloat64
	err := r.db.QueryRow(query, id).Scan(&s.ID, &s.AssessmentID, &s.StudentID, &score, &s.SubmittedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if score.Valid {
		s.Score = &score.Float64
	}
	return s, nil
}
