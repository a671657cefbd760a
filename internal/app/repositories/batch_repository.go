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
	"github.com/akshayk/labledger/internal/pkg/dberrors"
)

// BatchSummaryRow is the per-batch aggregate used by the assignments listing
type BatchSummaryRow struct {
	ID              int64
	LabAssignmentID int64
	BatchName       string
	FacultyName     string
	FacultyUsername string
	StudentCount    int
}

// BatchRepository handles database operations for lab batches
type BatchRepository struct {
	db *pgxpool.Pool
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *pgxpool.Pool) *BatchRepository {
	return &BatchRepository{
		db: db,
	}
}

// CreateAll inserts every batch in one transaction so a failure leaves no
// partial batch set behind.
func (r *BatchRepository) CreateAll(ctx context.Context, batches []*models.LabBatch) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO lab_batches (lab_assignment_id, batch_name, faculty_id, start_date, end_date, day_of_week, generated_dates)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		for _, batch := range batches {
			err := tx.QueryRow(ctx, query,
				batch.LabAssignmentID, batch.BatchName, batch.FacultyID,
				batch.StartDate, batch.EndDate, batch.DayOfWeek, batch.GeneratedDates,
			).Scan(&batch.ID)
			if err != nil {
				if dberrors.IsUniqueViolation(err) {
					return apperrors.NewConflictError(fmt.Sprintf("batch %s already exists for this assignment", batch.BatchName))
				}
				return fmt.Errorf("error creating batch %s: %w", batch.BatchName, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a batch by ID
func (r *BatchRepository) GetByID(ctx context.Context, id int64) (*models.LabBatch, error) {
	query := `
		SELECT id, lab_assignment_id, batch_name, faculty_id, start_date, end_date, day_of_week, generated_dates
		FROM lab_batches
		WHERE id = $1
	`

	var batch models.LabBatch
	err := r.db.QueryRow(ctx, query, id).Scan(
		&batch.ID, &batch.LabAssignmentID, &batch.BatchName, &batch.FacultyID,
		&batch.StartDate, &batch.EndDate, &batch.DayOfWeek, &batch.GeneratedDates,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBatchNotFound
		}
		return nil, fmt.Errorf("error retrieving batch: %w", err)
	}
	return &batch, nil
}

// GetByAssignmentID retrieves an assignment's batches with faculty and
// student lists joined.
func (r *BatchRepository) GetByAssignmentID(ctx context.Context, assignmentID int64) ([]*models.LabBatch, error) {
	query := `
		SELECT b.id, b.lab_assignment_id, b.batch_name, b.faculty_id, b.start_date, b.end_date, b.day_of_week, b.generated_dates,
		       f.id, f.name, f.username, f.role
		FROM lab_batches b
		JOIN users f ON f.id = b.faculty_id
		WHERE b.lab_assignment_id = $1
		ORDER BY b.batch_name
	`

	rows, err := r.db.Query(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*models.LabBatch
	for rows.Next() {
		var batch models.LabBatch
		var faculty models.User
		if err := rows.Scan(
			&batch.ID, &batch.LabAssignmentID, &batch.BatchName, &batch.FacultyID,
			&batch.StartDate, &batch.EndDate, &batch.DayOfWeek, &batch.GeneratedDates,
			&faculty.ID, &faculty.Name, &faculty.Username, &faculty.Role,
		); err != nil {
			return nil, err
		}
		batch.Faculty = &faculty
		batches = append(batches, &batch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, batch := range batches {
		students, err := r.GetStudents(ctx, batch.ID)
		if err != nil {
			return nil, err
		}
		batch.Students = students
	}
	return batches, nil
}

// GetByFacultyID retrieves a faculty member's batches with the assignment and
// lab chain joined for display.
func (r *BatchRepository) GetByFacultyID(ctx context.Context, facultyID int64) ([]*models.LabBatch, error) {
	query := `
		SELECT b.id, b.lab_assignment_id, b.batch_name, b.faculty_id, b.start_date, b.end_date, b.day_of_week, b.generated_dates,
		       a.id, a.lab_id, a.semester, a.section, a.cohort_years, a.academic_year, a.semester_type,
		       l.id, l.lab_code, l.lab_name, l.semester, l.department
		FROM lab_batches b
		JOIN lab_assignments a ON a.id = b.lab_assignment_id
		JOIN labs l ON l.id = a.lab_id
		WHERE b.faculty_id = $1
		ORDER BY b.id
	`

	rows, err := r.db.Query(ctx, query, facultyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*models.LabBatch
	for rows.Next() {
		var batch models.LabBatch
		var assignment models.LabAssignment
		var lab models.Lab
		if err := rows.Scan(
			&batch.ID, &batch.LabAssignmentID, &batch.BatchName, &batch.FacultyID,
			&batch.StartDate, &batch.EndDate, &batch.DayOfWeek, &batch.GeneratedDates,
			&assignment.ID, &assignment.LabID, &assignment.Semester, &assignment.Section,
			&assignment.CohortYears, &assignment.AcademicYear, &assignment.SemesterType,
			&lab.ID, &lab.LabCode, &lab.LabName, &lab.Semester, &lab.Department,
		); err != nil {
			return nil, err
		}
		assignment.Lab = &lab
		batch.Assignment = &assignment
		batches = append(batches, &batch)
	}
	return batches, rows.Err()
}

// GetSummaries returns batch name, faculty and student count per batch for
// the given assignments.
func (r *BatchRepository) GetSummaries(ctx context.Context, assignmentIDs []int64) ([]BatchSummaryRow, error) {
	query := `
		SELECT b.id, b.lab_assignment_id, b.batch_name, f.name, f.username,
		       (SELECT COUNT(*) FROM lab_batch_students s WHERE s.lab_batch_id = b.id)
		FROM lab_batches b
		JOIN users f ON f.id = b.faculty_id
		WHERE b.lab_assignment_id = ANY($1)
		ORDER BY b.lab_assignment_id, b.batch_name
	`

	rows, err := r.db.Query(ctx, query, assignmentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []BatchSummaryRow
	for rows.Next() {
		var row BatchSummaryRow
		if err := rows.Scan(&row.ID, &row.LabAssignmentID, &row.BatchName, &row.FacultyName, &row.FacultyUsername, &row.StudentCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, row)
	}
	return summaries, rows.Err()
}

// ReplaceStudents replaces the batch's student set in one transaction.
// The operation is an idempotent replace, not a merge.
func (r *BatchRepository) ReplaceStudents(ctx context.Context, batchID int64, studentIDs []int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM lab_batches WHERE id = $1)`, batchID).Scan(&exists); err != nil {
			return fmt.Errorf("error checking batch existence: %w", err)
		}
		if !exists {
			return apperrors.ErrBatchNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM lab_batch_students WHERE lab_batch_id = $1`, batchID); err != nil {
			return fmt.Errorf("error clearing batch students: %w", err)
		}

		for _, studentID := range studentIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO lab_batch_students (lab_batch_id, student_id) VALUES ($1, $2)`,
				batchID, studentID,
			); err != nil {
				return fmt.Errorf("error assigning student %d: %w", studentID, err)
			}
		}
		return nil
	})
}

// GetStudents lists the students assigned to a batch, username ascending
func (r *BatchRepository) GetStudents(ctx context.Context, batchID int64) ([]*models.User, error) {
	query := `
		SELECT u.id, u.name, u.username, u.role
		FROM lab_batch_students s
		JOIN users u ON u.id = s.student_id
		WHERE s.lab_batch_id = $1
		ORDER BY u.username
	`

	rows, err := r.db.Query(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Username, &user.Role); err != nil {
			return nil, err
		}
		students = append(students, &user)
	}
	return students, rows.Err()
}
