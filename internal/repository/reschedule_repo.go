package repository

import (
	"database/sql"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/database"
	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

// RescheduleRepository handles database operations for assessment window reschedules
type RescheduleRepository struct {
	db *database.DB
}

// NewRescheduleRepository creates a new reschedule repository
func NewRescheduleRepository(db *database.DB) *RescheduleRepository {
	return &RescheduleRepository{db: db}
}

const rescheduleColumns = `id, student_id, assessment_id, reference_code,
	new_window_start, new_window_end, new_grace_end, reason, active,
	created_by_id, created_at, deactivated_at`

// Create inserts a new reschedule
func (r *RescheduleRepository) Create(rs *models.AssessmentWindowReschedule) (*models.AssessmentWindowReschedule, error) {
	query := `
		INSERT INTO assessment_window_reschedules
			(student_id, assessment_id, reference_code, new_window_start,
			 new_window_end, new_grace_end, reason, active, created_by_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		rs.StudentID, rs.AssessmentID, rs.ReferenceCode, rs.NewWindowStart,
		rs.NewWindowEnd, rs.NewGraceEnd, rs.Reason, true, rs.CreatedByID,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves a reschedule by ID
func (r *RescheduleRepository) GetByID(id int64) (*models.AssessmentWindowReschedule, error) {
	query := "SELECT " + rescheduleColumns + " FROM assessment_window_reschedules WHERE id = ?"
	row := r.db.QueryRow(query, id)
	rs, err := scanReschedule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return rs, err
}

// GetActive retrieves the active reschedule for (student, assessment),
// or ErrNotFound when none exists. Newest wins if data ever holds more
// than one.
func (r *RescheduleRepository) GetActive(studentID, assessmentID int64) (*models.AssessmentWindowReschedule, error) {
	query := "SELECT " + rescheduleColumns + ` FROM assessment_window_reschedules
		WHERE student_id = ? AND assessment_id = ? AND active = ?
		ORDER BY created_at DESC LIMIT 1`
	row := r.db.QueryRow(query, studentID, assessmentID, true)
	rs, err := scanReschedule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return rs, err
}

// DeactivateAllFor deactivates every active reschedule for (student,
// assessment). Called before creating a replacement.
func (r *RescheduleRepository) DeactivateAllFor(studentID, assessmentID int64, at time.Time) error {
	query := `
		UPDATE assessment_window_reschedules
		SET active = ?, deactivated_at = ?
		WHERE student_id = ? AND assessment_id = ? AND active = ?
	`
	_, err := r.db.Exec(query, false, at, studentID, assessmentID, true)
	return err
}

// Deactivate cancels a single reschedule
func (r *RescheduleRepository) Deactivate(id int64, at time.Time) error {
	query := "UPDATE assessment_window_reschedules SET active = ?, deactivated_at = ? WHERE id = ? AND active = ?"
	result, err := r.db.Exec(query, false, at, id, true)
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

// ListActiveForStudent retrieves all active reschedules for a student
func (r *RescheduleRepository) ListActiveForStudent(studentID int64) ([]models.AssessmentWindowReschedule, error) {
	query := "SELECT " + rescheduleColumns + ` FROM assessment_window_reschedules
		WHERE student_id = ? AND active = ?
		ORDER BY new_window_start ASC`
	rows, err := r.db.Query(query, studentID, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reschedules []models.AssessmentWindowReschedule
	for rows.Next() {
		rs, err := scanReschedule(rows.Scan)
		if err != nil {
			return nil, err
		}
		reschedules = append(reschedules, *rs)
	}
	return reschedules, rows.Err()
}

func scanReschedule(scan func(dest ...interface{}) error) (*models.AssessmentWindowReschedule, error) {
	rs := &models.AssessmentWindowReschedule{}
	var graceEnd, deactivatedAt sql.NullTime

	err := scan(
		&rs.ID, &rs.StudentID, &rs.AssessmentID, &rs.ReferenceCode,
		&rs.NewWindowStart, &rs.NewWindowEnd, &graceEnd, &rs.Reason, &rs.Active,
		&rs.CreatedByID, &rs.CreatedAt, &deactivatedAt,
	)
	if err != nil {
		return nil, err
	}
	if graceEnd.Valid {
		rs.NewGraceEnd = &graceEnd.Time
	}
	if deactivatedAt.Valid {
		rs.DeactivatedAt = &deactivatedAt.Time
	}
	return rs, nil
}
