package repository

import (
	"database/sql"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/database"
	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

// TemplateRepository handles database operations for weekly schedule templates
type TemplateRepository struct {
	db *database.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *database.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = `id, class_level, week_number, day_of_week, period_number,
	subject_id, lesson_topic_id, teacher_name, start_time, end_time,
	assessment_id, created_at, updated_at`

// Create inserts a new weekly schedule template
func (r *TemplateRepository) Create(t *models.WeeklyScheduleTemplate) (*models.WeeklyScheduleTemplate, error) {
	query := `
		INSERT INTO weekly_schedule_templates
			(class_level, week_number, day_of_week, period_number, subject_id,
			 lesson_topic_id, teacher_name, start_time, end_time, assessment_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		t.ClassLevel, t.WeekNumber, int(t.DayOfWeek), t.PeriodNumber, t.SubjectID,
		t.LessonTopicID, t.TeacherName, t.StartTime, t.EndTime, t.AssessmentID,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves a template by ID
func (r *TemplateRepository) GetByID(id int64) (*models.WeeklyScheduleTemplate, error) {
	query := "SELECT " + templateColumns + " FROM weekly_schedule_templates WHERE id = ?"
	return r.scanTemplate(r.db.QueryRow(query, id))
}

// ListByClassWeek retrieves templates for one class level and week number,
// ordered by day then period.
func (r *TemplateRepository) ListByClassWeek(classLevel string, weekNumber int) ([]models.WeeklyScheduleTemplate, error) {
	query := "SELECT " + templateColumns + ` FROM weekly_schedule_templates
		WHERE class_level = ? AND week_number = ?
		ORDER BY day_of_week ASC, period_number ASC`
	return r.list(query, classLevel, weekNumber)
}

// FindByTopicAndDay retrieves a template matching a lesson topic on a
// given weekday. Used by the window repair path.
func (r *TemplateRepository) FindByTopicAndDay(lessonTopicID int64, day time.Weekday) (*models.WeeklyScheduleTemplate, error) {
	query := "SELECT " + templateColumns + ` FROM weekly_schedule_templates
		WHERE lesson_topic_id = ? AND day_of_week = ?
		ORDER BY period_number ASC LIMIT 1`
	return r.scanTemplate(r.db.QueryRow(query, lessonTopicID, int(day)))
}

// Update modifies an existing template's editable fields. Already
// materialized instances are not touched.
func (r *TemplateRepository) Update(t *models.WeeklyScheduleTemplate) error {
	query := `
		UPDATE weekly_schedule_templates
		SET subject_id = ?, lesson_topic_id = ?, teacher_name = ?,
		    start_time = ?, end_time = ?, assessment_id = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query,
		t.SubjectID, t.LessonTopicID, t.TeacherName,
		t.StartTime, t.EndTime, t.AssessmentID, time.Now(), t.ID,
	)
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

// Delete removes a template
func (r *TemplateRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM weekly_schedule_templates WHERE id = ?", id)
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

func (r *TemplateRepository) list(query string, args ...interface{}) ([]models.WeeklyScheduleTemplate, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.WeeklyScheduleTemplate
	for rows.Next() {
		t, err := r.scanTemplateRows(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) scanTemplate(row *sql.Row) (*models.WeeklyScheduleTemplate, error) {
	t := &models.WeeklyScheduleTemplate{}
	var day int
	var assessmentID sql.NullInt64
	err := row.Scan(
		&t.ID, &t.ClassLevel, &t.WeekNumber, &day, &t.PeriodNumber,
		&t.SubjectID, &t.LessonTopicID, &t.TeacherName, &t.StartTime, &t.EndTime,
		&assessmentID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.DayOfWeek = time.Weekday(day)
	if assessmentID.Valid {
		t.AssessmentID = &assessmentID.Int64
	}
	return t, nil
}

func (r *TemplateRepository) scanTemplateRows(rows *sql.Rows) (*models.WeeklyScheduleTemplate, error) {
	t := &models.WeeklyScheduleTemplate{}
	var day int
	var assessmentID sql.NullInt64
	err := rows.Scan(
		&t.ID, &t.ClassLevel, &t.WeekNumber, &day, &t.PeriodNumber,
		&t.SubjectID, &t.LessonTopicID, &t.TeacherName, &t.StartTime, &t.EndTime,
		&assessmentID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.DayOfWeek = time.Weekday(day)
	if assessmentID.Valid {
		t.AssessmentID = &assessmentID.Int64
	}
	return t, nil
}
