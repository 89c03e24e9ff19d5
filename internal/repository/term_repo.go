package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/forhay123/haybee-edu-sub005/internal/database"
	"github.com/forhay123/haybee-edu-sub005/internal/models"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// TermRepository handles database operations for academic terms
type TermRepository struct {
	db *database.DB
}

// NewTermRepository creates a new term repository
func NewTermRepository(db *database.DB) *TermRepository {
	return &TermRepository{db: db}
}

const termColumns = "id, name, academic_year, start_date, end_date, is_active, created_at, updated_at"

// Create inserts a new term
func (r *TermRepository) Create(name, academicYear string, startDate, endDate time.Time) (*models.Term, error) {
	query := `
		INSERT INTO terms (name, academic_year, start_date, end_date, is_active)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, name, academicYear, startDate, endDate, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create term: %w", err)
	}
	return r.GetByID(id)
}

// GetByID retrieves a term by ID
func (r *TermRepository) GetByID(id int64) (*models.Term, error) {
	query := "SELECT " + termColumns + " FROM terms WHERE id = ?"
	return r.scanTerm(r.db.QueryRow(query, id))
}

// GetActive retrieves the single active term, or ErrNotFound when none is active
func (r *TermRepository) GetActive() (*models.Term, error) {
	query := "SELECT " + termColumns + " FROM terms WHERE is_active = ? LIMIT 1"
	return r.scanTerm(r.db.QueryRow(query, true))
}

// List retrieves all terms, newest first
func (r *TermRepository) List() ([]models.Term, error) {
	query := "SELECT " + termColumns + " FROM terms ORDER BY start_date DESC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []models.Term
	for rows.Next() {
		var t models.Term
		if err := rows.Scan(&t.ID, &t.Name, &t.AcademicYear, &t.StartDate, &t.EndDate, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// Activate marks one term active and deactivates every other term in a
// single transaction.
func (r *TermRepository) Activate(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE terms SET is_active = ?, updated_at = ? WHERE is_active = ?", false, time.Now(), true); err != nil {
		return fmt.Errorf("failed to deactivate terms: %w", err)
	}

	result, err := tx.Exec("UPDATE terms SET is_active = ?, updated_at = ? WHERE id = ?", true, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to activate term: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// Delete removes a term. Callers must ensure the term is not active.
func (r *TermRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM terms WHERE id = ?", id)
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

func (r *TermRepository) scanTerm(row *sql.Row) (*models.Term, error) {
	t := &models.Term{}
	err := row.Scan(&t.ID, &t.Name, &t.AcademicYear, &t.StartDate, &t.EndDate, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}
