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

// LabRepository handles database operations for the lab catalog
type LabRepository struct {
	db *pgxpool.Pool
}

// NewLabRepository creates a new lab repository
func NewLabRepository(db *pgxpool.Pool) *LabRepository {
	return &LabRepository{
		db: db,
	}
}

// Create inserts a new lab and fills in its generated ID
func (r *LabRepository) Create(ctx context.Context, lab *models.Lab) error {
	query := `
		INSERT INTO labs (lab_code, lab_name, semester, department)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, lab.LabCode, lab.LabName, lab.Semester, lab.Department).Scan(&lab.ID)
	if err != nil {
		return fmt.Errorf("error creating lab: %w", err)
	}
	return nil
}

// CreateMany inserts a set of labs in one transaction
func (r *LabRepository) CreateMany(ctx context.Context, labs []*models.Lab) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO labs (lab_code, lab_name, semester, department)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		for _, lab := range labs {
			if err := tx.QueryRow(ctx, query, lab.LabCode, lab.LabName, lab.Semester, lab.Department).Scan(&lab.ID); err != nil {
				return fmt.Errorf("error inserting lab %q: %w", lab.LabCode, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a lab by ID
func (r *LabRepository) GetByID(ctx context.Context, id int64) (*models.Lab, error) {
	query := `SELECT id, lab_code, lab_name, semester, department FROM labs WHERE id = $1`

	var lab models.Lab
	err := r.db.QueryRow(ctx, query, id).Scan(&lab.ID, &lab.LabCode, &lab.LabName, &lab.Semester, &lab.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLabNotFound
		}
		return nil, fmt.Errorf("error retrieving lab: %w", err)
	}
	return &lab, nil
}

// GetAll retrieves labs, optionally filtered by semester
func (r *LabRepository) GetAll(ctx context.Context, semester *int) ([]*models.Lab, error) {
	query := `SELECT id, lab_code, lab_name, semester, department FROM labs`
	args := []interface{}{}
	if semester != nil {
		query += ` WHERE semester = $1`
		args = append(args, *semester)
	}
	query += ` ORDER BY lab_code`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labs []*models.Lab
	for rows.Next() {
		var lab models.Lab
		if err := rows.Scan(&lab.ID, &lab.LabCode, &lab.LabName, &lab.Semester, &lab.Department); err != nil {
			return nil, err
		}
		labs = append(labs, &lab)
	}
	return labs, rows.Err()
}

// Update persists lab field changes
func (r *LabRepository) Update(ctx context.Context, lab *models.Lab) error {
	query := `
		UPDATE labs
		SET lab_code = $1, lab_name = $2, semester = $3, department = $4
		WHERE id = $5
	`

	cmdTag, err := r.db.Exec(ctx, query, lab.LabCode, lab.LabName, lab.Semester, lab.Department, lab.ID)
	if err != nil {
		return fmt.Errorf("error updating lab: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLabNotFound
	}
	return nil
}

// Delete removes a lab by ID
func (r *LabRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM labs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting lab: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLabNotFound
	}
	return nil
}
