package repository

import (
	"database/sql"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/database"
	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

// ProgressRepository handles database operations for student lesson progress
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

const progressColumns = `id, student_id, lesson_topic_id, schedule_instance_id, assessment_id,
	scheduled_date, period_number, period_sequence, total_periods_in_sequence,
	previous_period_progress_id, assessment_accessible, completed, completed_at,
	window_start, window_end, grace_period_end, requires_custom_assessment,
	submission_id, incomplete_reason, auto_marked_incomplete_at, created_at, updated_at`

// Create inserts a new progress record
func (r *ProgressRepository) Create(p *models.StudentLessonProgress) (*models.StudentLessonProgress, error) {
	query := `
		INSERT INTO student_lesson_progress
			(student_id, lesson_topic_id, schedule_instance_id, assessment_id,
			 scheduled_date, period_number, period_sequence, total_periods_in_sequence,
			 previous_period_progress_id, assessment_accessible, completed,
			 window_start, window_end, grace_period_end, requires_custom_assessment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		p.StudentID, p.LessonTopicID, p.ScheduleInstanceID, p.AssessmentID,
		models.DateOnly(p.ScheduledDate), p.PeriodNumber, p.PeriodSequence, p.TotalPeriodsInSequence,
		p.PreviousPeriodProgressID, p.AssessmentAccessible, p.Completed,
		p.AssessmentWindowStart, p.AssessmentWindowEnd, p.GracePeriodEnd, p.RequiresCustomAssessment,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves a progress record by ID
func (r *ProgressRepository) GetByID(id int64) (*models.StudentLessonProgress, error) {
	query := "SELECT " + progressColumns + " FROM student_lesson_progress WHERE id = ?"
	row := r.db.QueryRow(query, id)
	p, err := scanProgress(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

// GetByStudentTopicDate retrieves the progress record for one topic
// occurrence, or ErrNotFound.
func (r *ProgressRepository) GetByStudentTopicDate(studentID, lessonTopicID int64, date time.Time) (*models.StudentLessonProgress, error) {
	query := "SELECT " + progressColumns + ` FROM student_lesson_progress
		WHERE student_id = ? AND lesson_topic_id = ? AND scheduled_date = ?
		ORDER BY period_number ASC LIMIT 1`
	row := r.db.QueryRow(query, studentID, lessonTopicID, models.DateOnly(date))
	p, err := scanProgress(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

// ListByStudentAndAssessment retrieves all progress rows linking a
// student to an assessment, ordered by period sequence. Multi-period
// lessons produce several rows per assessment.
func (r *ProgressRepository) ListByStudentAndAssessment(studentID, assessmentID int64) ([]models.StudentLessonProgress, error) {
	query := "SELECT " + progressColumns + ` FROM student_lesson_progress
		WHERE student_id = ? AND assessment_id = ?
		ORDER BY period_sequence ASC, scheduled_date ASC, period_number ASC`
	return r.list(query, studentID, assessmentID)
}

// ListByStudentAndDate retrieves a student's progress rows for one date
func (r *ProgressRepository) ListByStudentAndDate(studentID int64, date time.Time) ([]models.StudentLessonProgress, error) {
	query := "SELECT " + progressColumns + ` FROM student_lesson_progress
		WHERE student_id = ? AND scheduled_date = ?
		ORDER BY period_number ASC`
	return r.list(query, studentID, models.DateOnly(date))
}

// ListOverdueIncomplete retrieves unsubmitted, uncompleted rows whose
// effective grace end has passed. The 30 minute fallback applies when no
// explicit grace end is stored.
func (r *ProgressRepository) ListOverdueIncomplete(now time.Time) ([]models.StudentLessonProgress, error) {
	fallback := now.Add(-30 * time.Minute)
	query := "SELECT " + progressColumns + ` FROM student_lesson_progress
		WHERE completed = ? AND submission_id IS NULL
		  AND auto_marked_incomplete_at IS NULL
		  AND window_end IS NOT NULL
		  AND ((grace_period_end IS NOT NULL AND grace_period_end < ?)
		       OR (grace_period_end IS NULL AND window_end < ?))
		ORDER BY scheduled_date ASC`
	return r.list(query, false, now, fallback)
}

// Exists reports whether a record exists for (student, date, topic)
func (r *ProgressRepository) Exists(studentID int64, date time.Time, lessonTopicID int64) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM student_lesson_progress
		WHERE student_id = ? AND scheduled_date = ? AND lesson_topic_id = ?
	`
	err := r.db.QueryRow(query, studentID, models.DateOnly(date), lessonTopicID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateWindow persists a repaired or derived access window
func (r *ProgressRepository) UpdateWindow(id int64, windowStart, windowEnd time.Time, graceEnd *time.Time) error {
	query := `
		UPDATE student_lesson_progress
		SET window_start = ?, window_end = ?, grace_period_end = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, windowStart, windowEnd, graceEnd, time.Now(), id)
	return err
}

// SetAccessible persists the assessment-accessible flag
func (r *ProgressRepository) SetAccessible(id int64, accessible bool) error {
	query := "UPDATE student_lesson_progress SET assessment_accessible = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, accessible, time.Now(), id)
	return err
}

// LinkAssessment attaches an assessment to an unlinked progress record
func (r *ProgressRepository) LinkAssessment(id, assessmentID int64) error {
	query := "UPDATE student_lesson_progress SET assessment_id = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, assessmentID, time.Now(), id)
	return err
}

// LinkSubmission attaches a submission once one exists
func (r *ProgressRepository) LinkSubmission(id, submissionID int64) error {
	query := "UPDATE student_lesson_progress SET submission_id = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, submissionID, time.Now(), id)
	return err
}

// SetPreviousPeriod stores the back-reference to the preceding period's
// progress record.
func (r *ProgressRepository) SetPreviousPeriod(id int64, previousID *int64) error {
	query := "UPDATE student_lesson_progress SET previous_period_progress_id = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, previousID, time.Now(), id)
	return err
}

// MarkCompleted marks a record completed at the given time
func (r *ProgressRepository) MarkCompleted(id int64, at time.Time) error {
	query := `
		UPDATE student_lesson_progress
		SET completed = ?, completed_at = ?, incomplete_reason = '', updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, true, at, time.Now(), id)
	return err
}

// MarkIncomplete records that a lesson was not completed in time
func (r *ProgressRepository) MarkIncomplete(id int64, reason string, at time.Time) error {
	query := `
		UPDATE student_lesson_progress
		SET completed = ?, incomplete_reason = ?, auto_marked_incomplete_at = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, false, reason, at, time.Now(), id)
	return err
}

func (r *ProgressRepository) list(query string, args ...interface{}) ([]models.StudentLessonProgress, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.StudentLessonProgress
	for rows.Next() {
		p, err := scanProgress(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *p)
	}
	return records, rows.Err()
}

func scanProgress(scan func(dest ...interface{}) error) (*models.StudentLessonProgress, error) {
	p := &models.StudentLessonProgress{}
	var instanceID, assessmentID, previousID, submissionID sql.NullInt64
	var sequence, total sql.NullInt64
	var completedAt, windowStart, windowEnd, graceEnd, autoMarkedAt sql.NullTime

	err := scan(
		&p.ID, &p.StudentID, &p.LessonTopicID, &instanceID, &assessmentID,
		&p.ScheduledDate, &p.PeriodNumber, &sequence, &total,
		&previousID, &p.AssessmentAccessible, &p.Completed, &completedAt,
		&windowStart, &windowEnd, &graceEnd, &p.RequiresCustomAssessment,
		&submissionID, &p.IncompleteReason, &autoMarkedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if instanceID.Valid {
		p.ScheduleInstanceID = &instanceID.Int64
	}
	if assessmentID.Valid {
		p.AssessmentID = &assessmentID.Int64
	}
	if previousID.Valid {
		p.PreviousPeriodProgressID = &previousID.Int64
	}
	if submissionID.Valid {
		p.SubmissionID = &submissionID.Int64
	}
	if sequence.Valid {
		v := int(sequence.Int64)
		p.PeriodSequence = &v
	}
	if total.Valid {
		v := int(total.Int64)
		p.TotalPeriodsInSequence = &v
	}
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}
	if windowStart.Valid {
		p.AssessmentWindowStart = &windowStart.Time
	}
	if windowEnd.Valid {
		p.AssessmentWindowEnd = &windowEnd.Time
	}
	if graceEnd.Valid {
		p.GracePeriodEnd = &graceEnd.Time
	}
	if autoMarkedAt.Valid {
		p.AutoMarkedIncompleteAt = &autoMarkedAt.Time
	}
	return p, nil
}

// SetSequence stores computed multi-period sequence metadata
func (r *ProgressRepository) SetSequence(id int64, sequence, total *int) error {
	query := `
		UPDATE student_lesson_progress
		SET period_sequence = ?, total_periods_in_sequence = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, sequence, total, time.Now(), id)
	return err
}
