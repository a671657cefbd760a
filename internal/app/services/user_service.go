package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/akshayk/labledger/internal/app/models"
	"github.com/akshayk/labledger/internal/app/models/dto"
	"github.com/akshayk/labledger/internal/pkg/apperrors"
	"github.com/akshayk/labledger/internal/pkg/auth"
)

// defaultImportPassword is used for bulk-imported rows without a password column.
const defaultImportPassword = "password"

// userStore is the slice of the user repository the user service needs.
type userStore interface {
	Create(ctx context.Context, user *models.User) error
	CreateMany(ctx context.Context, users []*models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	ExistingUsernames(ctx context.Context, usernames []string) (map[string]bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	GraduateFinalSemester(ctx context.Context) (int64, error)
	IncrementActiveSemesters(ctx context.Context) (int64, error)
}

// UserService handles admin-side user management and the semester rollover
type UserService struct {
	users  userStore
	logger zerolog.Logger
}

// NewUserService creates a new user service
func NewUserService(users userStore, logger zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// AddUser creates a single user with a hashed password. Students start active.
func (s *UserService) AddUser(ctx context.Context, req *dto.AddUserRequest) (*models.User, error) {
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if role == models.RoleStudent {
		if err := validateSemester(req.Semester); err != nil {
			return nil, err
		}
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := newUserFromImport(req.Name, req.Username, hashed, role, req.Department,
		req.Email, req.Semester, req.Section, req.AdmissionYear, req.GraduationYear)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(role)).Msg("User created")
	return user, nil
}

// UpdateUser applies a partial update; student-only academic fields are
// touched only when the target is (or becomes) a student. A supplied password
// is rehashed, an absent one is kept.
func (s *UserService) UpdateUser(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		role, err := models.ParseRole(*req.Role)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		user.Role = role
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Email != nil {
		user.Email = req.Email
	}

	if user.Role == models.RoleStudent {
		if req.Semester != nil {
			if err := validateSemester(req.Semester); err != nil {
				return nil, err
			}
			user.Semester = req.Semester
		}
		if req.Section != nil {
			user.Section = req.Section
		}
		if req.AdmissionYear != nil {
			user.AdmissionYear = req.AdmissionYear
		}
		if req.GraduationYear != nil {
			user.GraduationYear = req.GraduationYear
		}
	}

	if req.Password != nil && *req.Password != "" {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.Password = hashed
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user; admins cannot delete their own account.
func (s *UserService) DeleteUser(ctx context.Context, id, callerID int64) error {
	if id == callerID {
		return apperrors.NewValidationError("cannot delete your own account")
	}
	return s.users.Delete(ctx, id)
}

// GetUsers lists every user
func (s *UserService) GetUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.GetAll(ctx)
}

// GetUser retrieves a single user
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// BulkImportUsers creates the non-duplicate rows of a client-parsed CSV
// import. Existing usernames are skipped and reported, not treated as a
// hard failure.
func (s *UserService) BulkImportUsers(ctx context.Context, req *dto.BulkImportUsersRequest) (*dto.BulkImportUsersResponse, error) {
	usernames := make([]string, 0, len(req.Users))
	for _, rec := range req.Users {
		usernames = append(usernames, rec.Username)
	}

	existing, err := s.users.ExistingUsernames(ctx, usernames)
	if err != nil {
		return nil, err
	}

	var toCreate []*models.User
	var skipped []string
	seen := make(map[string]bool)
	for _, rec := range req.Users {
		if existing[rec.Username] || seen[rec.Username] {
			skipped = append(skipped, rec.Username)
			continue
		}
		seen[rec.Username] = true

		role, err := models.ParseRole(rec.Role)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("row %q: %s", rec.Username, err))
		}

		password := rec.Password
		if password == "" {
			password = defaultImportPassword
		}
		hashed, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}

		toCreate = append(toCreate, newUserFromImport(rec.Name, rec.Username, hashed, role,
			rec.Department, rec.Email, rec.Semester, rec.Section, rec.AdmissionYear, rec.GraduationYear))
	}

	if len(toCreate) == 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("all %d users already exist: %s", len(req.Users), strings.Join(skipped, ", ")))
	}

	if err := s.users.CreateMany(ctx, toCreate); err != nil {
		return nil, err
	}

	s.logger.Info().Int("imported", len(toCreate)).Int("skipped", len(skipped)).Msg("Bulk user import finished")

	return &dto.BulkImportUsersResponse{
		Imported:         len(toCreate),
		Skipped:          len(skipped),
		SkippedUsernames: skipped,
	}, nil
}

// IncrementSemester runs the two-phase rollover: graduate active semester-8
// students first, then advance every remaining active student. The phase
// order matters; a semester-8 student must graduate, not advance past 8.
// The phases are separate statements and are not compensated on partial
// failure.
func (s *UserService) IncrementSemester(ctx context.Context) (*dto.SemesterRolloverResponse, error) {
	graduated, err := s.users.GraduateFinalSemester(ctx)
	if err != nil {
		return nil, err
	}

	incremented, err := s.users.IncrementActiveSemesters(ctx)
	if err != nil {
		return nil, fmt.Errorf("increment phase failed after graduating %d students: %w", graduated, err)
	}

	s.logger.Info().Int64("graduated", graduated).Int64("incremented", incremented).Msg("Semester rollover completed")

	return &dto.SemesterRolloverResponse{
		GraduatedCount:   graduated,
		IncrementedCount: incremented,
	}, nil
}

func validateSemester(semester *int) error {
	if semester == nil {
		return nil
	}
	if *semester < models.MinSemester || *semester > models.MaxSemester {
		return apperrors.NewValidationError(fmt.Sprintf("semester must be between %d and %d", models.MinSemester, models.MaxSemester))
	}
	return nil
}

func newUserFromImport(name, username, hashedPassword string, role models.Role, department string,
	email *string, semester *int, section *string, admissionYear, graduationYear *int) *models.User {

	user := &models.User{
		Name:           name,
		Username:       username,
		Password:       hashedPassword,
		Role:           role,
		Department:     department,
		Email:          email,
		Semester:       semester,
		Section:        section,
		AdmissionYear:  admissionYear,
		GraduationYear: graduationYear,
	}
	if role == models.RoleStudent {
		status := models.StatusActive
		user.Status = &status
	}
	return user
}
