package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akshayk/labledger/internal/app/models"
	"github.com/akshayk/labledger/internal/db"
)

// BatchMarkRow is one flat (student, date) row of a batch's marks history,
// ordered date ascending.
type BatchMarkRow struct {
	StudentID       int64
	StudentName     string
	StudentUsername string
	Week            models.WeeklyMark
}

// StudentMarkRow is one weekly entry of a student joined through the
// batch→assignment→lab chain for the student's own view.
type StudentMarkRow struct {
	LabID         int64
	LabName       string
	FacultyName   string
	DayOfWeek     string
	EnteredByName string
	Week          models.WeeklyMark
}

// MarksRepository handles database operations for the marks ledger
type MarksRepository struct {
	db *pgxpool.Pool
}

// NewMarksRepository creates a new marks repository
func NewMarksRepository(db *pgxpool.Pool) *MarksRepository {
	return &MarksRepository{
		db: db,
	}
}

// UpsertWeekly locates or creates the per-student record for the batch and
// writes the weekly entry for the given date, overwriting an existing entry
// on the same calendar date.
func (r *MarksRepository) UpsertWeekly(ctx context.Context, studentID, labBatchID, enteredBy int64, week *models.WeeklyMark) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var marksID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO marks (student_id, lab_batch_id, entered_by)
			VALUES ($1, $2, $3)
			ON CONFLICT (student_id, lab_batch_id) DO UPDATE SET entered_by = EXCLUDED.entered_by
			RETURNING id
		`, studentID, labBatchID, enteredBy).Scan(&marksID)
		if err != nil {
			return fmt.Errorf("error locating marks record: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO weekly_marks (marks_id, entry_date, pr, pe, p, r, c, t)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (marks_id, entry_date) DO UPDATE
			SET pr = EXCLUDED.pr, pe = EXCLUDED.pe, p = EXCLUDED.p,
			    r = EXCLUDED.r, c = EXCLUDED.c, t = EXCLUDED.t
		`, marksID, week.Date, week.Pr, week.PE, week.P, week.R, week.C, week.T)
		if err != nil {
			return fmt.Errorf("error upserting weekly entry: %w", err)
		}
		return nil
	})
}

// GetHistoryByBatch returns the flat, date-ascending marks history across all
// students of a batch.
func (r *MarksRepository) GetHistoryByBatch(ctx context.Context, labBatchID int64) ([]BatchMarkRow, error) {
	query := `
		SELECT m.student_id, u.name, u.username,
		       w.id, w.marks_id, w.entry_date, w.pr, w.pe, w.p, w.r, w.c, w.t
		FROM marks m
		JOIN users u ON u.id = m.student_id
		JOIN weekly_marks w ON w.marks_id = m.id
		WHERE m.lab_batch_id = $1
		ORDER BY w.entry_date ASC, u.username ASC
	`

	rows, err := r.db.Query(ctx, query, labBatchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []BatchMarkRow
	for rows.Next() {
		var row BatchMarkRow
		if err := rows.Scan(
			&row.StudentID, &row.StudentName, &row.StudentUsername,
			&row.Week.ID, &row.Week.MarksID, &row.Week.Date,
			&row.Week.Pr, &row.Week.PE, &row.Week.P, &row.Week.R, &row.Week.C, &row.Week.T,
		); err != nil {
			return nil, err
		}
		history = append(history, row)
	}
	return history, rows.Err()
}

// GetByStudent returns every weekly entry of a student joined with the lab,
// owning faculty and recording user. Entries whose batch has been deleted by
// an assignment cascade drop out of the join.
func (r *MarksRepository) GetByStudent(ctx context.Context, studentID int64) ([]StudentMarkRow, error) {
	query := `
		SELECT l.id, l.lab_name, f.name, b.day_of_week, e.name,
		       w.id, w.marks_id, w.entry_date, w.pr, w.pe, w.p, w.r, w.c, w.t
		FROM marks m
		JOIN weekly_marks w ON w.marks_id = m.id
		JOIN lab_batches b ON b.id = m.lab_batch_id
		JOIN lab_assignments a ON a.id = b.lab_assignment_id
		JOIN labs l ON l.id = a.lab_id
		JOIN users f ON f.id = b.faculty_id
		JOIN users e ON e.id = m.entered_by
		WHERE m.student_id = $1
		ORDER BY l.id, w.entry_date ASC
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []StudentMarkRow
	for rows.Next() {
		var row StudentMarkRow
		if err := rows.Scan(
			&row.LabID, &row.LabName, &row.FacultyName, &row.DayOfWeek, &row.EnteredByName,
			&row.Week.ID, &row.Week.MarksID, &row.Week.Date,
			&row.Week.Pr, &row.Week.PE, &row.Week.P, &row.Week.R, &row.Week.C, &row.Week.T,
		); err != nil {
			return nil, err
		}
		entries = append(entries, row)
	}
	return entries, rows.Err()
}
