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

const userColumns = `id, name, username, password, role, department, email, semester, section, admission_year, graduation_year, status`

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.Password,
		&user.Role,
		&user.Department,
		&user.Email,
		&user.Semester,
		&user.Section,
		&user.AdmissionYear,
		&user.GraduationYear,
		&user.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &user, nil
}

// Create inserts a new user and fills in its generated ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, username, password, role, department, email, semester, section, admission_year, graduation_year, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		user.Name, user.Username, user.Password, user.Role, user.Department,
		user.Email, user.Semester, user.Section, user.AdmissionYear, user.GraduationYear, user.Status,
	).Scan(&user.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrUsernameExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// CreateMany inserts a set of users in one transaction
func (r *UserRepository) CreateMany(ctx context.Context, users []*models.User) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO users (name, username, password, role, department, email, semester, section, admission_year, graduation_year, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id
		`
		for _, user := range users {
			err := tx.QueryRow(ctx, query,
				user.Name, user.Username, user.Password, user.Role, user.Department,
				user.Email, user.Semester, user.Section, user.AdmissionYear, user.GraduationYear, user.Status,
			).Scan(&user.ID)
			if err != nil {
				if dberrors.IsUniqueViolation(err) {
					return apperrors.ErrUsernameExists
				}
				return fmt.Errorf("error inserting user %q: %w", user.Username, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRow(ctx, query, username))
}

// GetFacultyByID retrieves a user by ID only if it has the faculty role
func (r *UserRepository) GetFacultyByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND role = $2`
	user, err := scanUser(r.db.QueryRow(ctx, query, id, models.RoleFaculty))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrFacultyNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetAll retrieves every user, ordered by id
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

// FindOneActiveStudent returns the active student with the lowest id matching
// (semester, section), used to snapshot cohort years deterministically.
func (r *UserRepository) FindOneActiveStudent(ctx context.Context, semester int, section string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1 AND status = $2 AND semester = $3 AND section = $4
		ORDER BY id ASC
		LIMIT 1
	`
	return scanUser(r.db.QueryRow(ctx, query, models.RoleStudent, models.StatusActive, semester, section))
}

// GetActiveStudents lists the active students of a semester/section, username ascending
func (r *UserRepository) GetActiveStudents(ctx context.Context, semester int, section string) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1 AND status = $2 AND semester = $3 AND section = $4
		ORDER BY username ASC
	`

	rows, err := r.db.Query(ctx, query, models.RoleStudent, models.StatusActive, semester, section)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

// ExistingUsernames returns which of the given usernames are already taken
func (r *UserRepository) ExistingUsernames(ctx context.Context, usernames []string) (map[string]bool, error) {
	query := `SELECT username FROM users WHERE username = ANY($1)`

	rows, err := r.db.Query(ctx, query, usernames)
	if err != nil {
		return nil, fmt.Errorf("error checking usernames: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, err
		}
		existing[username] = true
	}
	return existing, rows.Err()
}

// Update persists user field changes
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, password = $2, role = $3, department = $4, email = $5,
		    semester = $6, section = $7, admission_year = $8, graduation_year = $9, status = $10
		WHERE id = $11
	`

	cmdTag, err := r.db.Exec(ctx, query,
		user.Name, user.Password, user.Role, user.Department, user.Email,
		user.Semester, user.Section, user.AdmissionYear, user.GraduationYear, user.Status, user.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePassword stores a new hashed credential for a user
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET password = $1 WHERE id = $2`, hashedPassword, id)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete removes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GraduateFinalSemester marks every active semester-8 student as passed out.
// Phase 1 of the semester rollover; must run before the increment.
func (r *UserRepository) GraduateFinalSemester(ctx context.Context) (int64, error) {
	query := `
		UPDATE users
		SET status = $1
		WHERE role = $2 AND status = $3 AND semester = $4
	`
	cmdTag, err := r.db.Exec(ctx, query, models.StatusPassedOut, models.RoleStudent, models.StatusActive, models.MaxSemester)
	if err != nil {
		return 0, fmt.Errorf("error graduating students: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// IncrementActiveSemesters advances every remaining active student below
// semester 8 by one semester. Phase 2 of the rollover.
func (r *UserRepository) IncrementActiveSemesters(ctx context.Context) (int64, error) {
	query := `
		UPDATE users
		SET semester = semester + 1
		WHERE role = $1 AND status = $2 AND semester < $3
	`
	cmdTag, err := r.db.Exec(ctx, query, models.RoleStudent, models.StatusActive, models.MaxSemester)
	if err != nil {
		return 0, fmt.Errorf("error incrementing semesters: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func collectUsers(rows pgx.Rows) ([]*models.User, error) {
	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Username,
			&user.Password,
			&user.Role,
			&user.Department,
			&user.Email,
			&user.Semester,
			&user.Section,
			&user.AdmissionYear,
			&user.GraduationYear,
			&user.Status,
		); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}
