package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akshayk/labledger/internal/app/models"
	"github.com/akshayk/labledger/internal/db"
	"github.com/akshayk/labledger/internal/pkg/apperrors"
)

// AssignmentRepository handles database operations for lab assignments
type AssignmentRepository struct {
	db *pgxpool.Pool
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{
		db: db,
	}
}

// Create inserts a new lab assignment and fills in its generated ID
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.LabAssignment) error {
	query := `
		INSERT INTO lab_assignments (lab_id, semester, section, cohort_years, academic_year, semester_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		assignment.LabID, assignment.Semester, assignment.Section,
		assignment.CohortYears, assignment.AcademicYear, assignment.SemesterType,
	).Scan(&assignment.ID)
	if err != nil {
		return fmt.Errorf("error creating lab assignment: %w", err)
	}
	return nil
}

// GetByID retrieves an assignment by ID with its lab joined
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*models.LabAssignment, error) {
	query := `
		SELECT a.id, a.lab_id, a.semester, a.section, a.cohort_years, a.academic_year, a.semester_type,
		       l.id, l.lab_code, l.lab_name, l.semester, l.department
		FROM lab_assignments a
		JOIN labs l ON l.id = a.lab_id
		WHERE a.id = $1
	`

	var assignment models.LabAssignment
	var lab models.Lab
	err := r.db.QueryRow(ctx, query, id).Scan(
		&assignment.ID, &assignment.LabID, &assignment.Semester, &assignment.Section,
		&assignment.CohortYears, &assignment.AcademicYear, &assignment.SemesterType,
		&lab.ID, &lab.LabCode, &lab.LabName, &lab.Semester, &lab.Department,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("error retrieving lab assignment: %w", err)
	}

	assignment.Lab = &lab
	return &assignment, nil
}

// GetAll retrieves every assignment with its lab joined
func (r *AssignmentRepository) GetAll(ctx context.Context) ([]*models.LabAssignment, error) {
	query := `
		SELECT a.id, a.lab_id, a.semester, a.section, a.cohort_years, a.academic_year, a.semester_type,
		       l.id, l.lab_code, l.lab_name, l.semester, l.department
		FROM lab_assignments a
		JOIN labs l ON l.id = a.lab_id
		ORDER BY a.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*models.LabAssignment
	for rows.Next() {
		var assignment models.LabAssignment
		var lab models.Lab
		if err := rows.Scan(
			&assignment.ID, &assignment.LabID, &assignment.Semester, &assignment.Section,
			&assignment.CohortYears, &assignment.AcademicYear, &assignment.SemesterType,
			&lab.ID, &lab.LabCode, &lab.LabName, &lab.Semester, &lab.Department,
		); err != nil {
			return nil, err
		}
		assignment.Lab = &lab
		assignments = append(assignments, &assignment)
	}
	return assignments, rows.Err()
}

// DeleteCascading removes an assignment together with its batches in a single
// transaction. Marks referencing the deleted batches are deliberately left in
// place.
func (r *AssignmentRepository) DeleteCascading(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM lab_batches WHERE lab_assignment_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting batches for assignment: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM lab_assignments WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting assignment: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrAssignmentNotFound
		}
		return nil
	})
}
