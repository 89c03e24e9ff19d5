package repository

import (
	"database/sql"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/database"
	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

// ScheduleRepository handles database operations for daily schedule instances
type ScheduleRepository struct {
	db *database.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const instanceColumns = `id, student_id, template_id, subject_id, lesson_topic_id,
	assessment_id, scheduled_date, period_number, start_time, end_time,
	window_start, window_end, source, period_sequence, total_periods_for_topic, created_at`

// Create inserts a new daily schedule instance
func (r *ScheduleRepository) Create(i *models.DailyScheduleInstance) (*models.DailyScheduleInstance, error) {
	query := `
		INSERT INTO daily_schedule_instances
			(student_id, template_id, subject_id, lesson_topic_id, assessment_id,
			 scheduled_date, period_number, start_time, end_time,
			 window_start, window_end, source, period_sequence, total_periods_for_topic)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		i.StudentID, i.TemplateID, i.SubjectID, i.LessonTopicID, i.AssessmentID,
		models.DateOnly(i.ScheduledDate), i.PeriodNumber, i.StartTime, i.EndTime,
		i.AssessmentWindowStart, i.AssessmentWindowEnd, string(i.Source),
		i.PeriodSequence, i.TotalPeriodsForTopic,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves an instance by ID
func (r *ScheduleRepository) GetByID(id int64) (*models.DailyScheduleInstance, error) {
	query := "SELECT " + instanceColumns + " FROM daily_schedule_instances WHERE id = ?"
	row := r.db.QueryRow(query, id)
	i, err := scanInstance(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return i, err
}

// Exists reports whether an instance exists for (student, date, period)
func (r *ScheduleRepository) Exists(studentID int64, date time.Time, periodNumber int) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM daily_schedule_instances
		WHERE student_id = ? AND scheduled_date = ? AND period_number = ?
	`
	err := r.db.QueryRow(query, studentID, models.DateOnly(date), periodNumber).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByStudentAndDate retrieves a student's instances for one date,
// ordered by period number.
func (r *ScheduleRepository) ListByStudentAndDate(studentID int64, date time.Time) ([]models.DailyScheduleInstance, error) {
	query := "SELECT " + instanceColumns + ` FROM daily_schedule_instances
		WHERE student_id = ? AND scheduled_date = ?
		ORDER BY period_number ASC`
	return r.list(query, studentID, models.DateOnly(date))
}

// ListByStudentAndDateRange retrieves a student's instances within
// [from, to], ordered chronologically.
func (r *ScheduleRepository) ListByStudentAndDateRange(studentID int64, from, to time.Time) ([]models.DailyScheduleInstance, error) {
	query := "SELECT " + instanceColumns + ` FROM daily_schedule_instances
		WHERE student_id = ? AND scheduled_date >= ? AND scheduled_date <= ?
		ORDER BY scheduled_date ASC, start_time ASC, period_number ASC`
	return r.list(query, studentID, models.DateOnly(from), models.DateOnly(to))
}

// UpdateSequence stores the computed multi-period sequence metadata
func (r *ScheduleRepository) UpdateSequence(id int64, sequence, totalPeriods *int) error {
	query := `
		UPDATE daily_schedule_instances
		SET period_sequence = ?, total_periods_for_topic = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, sequence, totalPeriods, id)
	return err
}

func (r *ScheduleRepository) list(query string, args ...interface{}) ([]models.DailyScheduleInstance, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []models.DailyScheduleInstance
	for rows.Next() {
		i, err := scanInstance(rows.Scan)
		if err != nil {
			return nil, err
		}
		instances = append(instances, *i)
	}
	return instances, rows.Err()
}

// scanInstance reads one instance row through any Scan-shaped function
func scanInstance(scan func(dest ...interface{}) error) (*models.DailyScheduleInstance, error) {
	i := &models.DailyScheduleInstance{}
	var templateID, topicID, assessmentID sql.NullInt64
	var windowStart, windowEnd sql.NullTime
	var sequence, total sql.NullInt64
	var source string

	err := scan(
		&i.ID, &i.StudentID, &templateID, &i.SubjectID, &topicID,
		&assessmentID, &i.ScheduledDate, &i.PeriodNumber, &i.StartTime, &i.EndTime,
		&windowStart, &windowEnd, &source, &sequence, &total, &i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	i.Source = models.ScheduleSource(source)
	if templateID.Valid {
		i.TemplateID = &templateID.Int64
	}
	if topicID.Valid {
		i.LessonTopicID = &topicID.Int64
	}
	if assessmentID.Valid {
		i.AssessmentID = &assessmentID.Int64
	}
	if windowStart.Valid {
		i.AssessmentWindowStart = &windowStart.Time
	}
	if windowEnd.Valid {
		i.AssessmentWindowEnd = &windowEnd.Time
	}
	if sequence.Valid {
		v := int(sequence.Int64)
		i.PeriodSequence = &v
	}
	if total.Valid {
		v := int(total.Int64)
		i.TotalPeriodsForTopic = &v
	}
	return i, nil
}
