package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/akshayk/labledger/internal/app/models"
	"github.com/akshayk/labledger/internal/app/models/dto"
	"github.com/akshayk/labledger/internal/app/repositories"
	"github.com/akshayk/labledger/internal/pkg/apperrors"
	"github.com/akshayk/labledger/internal/pkg/schedule"
)

// assignmentStore is the slice of the assignment repository this service needs.
type assignmentStore interface {
	Create(ctx context.Context, assignment *models.LabAssignment) error
	GetByID(ctx context.Context, id int64) (*models.LabAssignment, error)
	GetAll(ctx context.Context) ([]*models.LabAssignment, error)
	DeleteCascading(ctx context.Context, id int64) error
}

// batchStore is the slice of the batch repository this service needs.
type batchStore interface {
	CreateAll(ctx context.Context, batches []*models.LabBatch) error
	GetByID(ctx context.Context, id int64) (*models.LabBatch, error)
	GetByAssignmentID(ctx context.Context, assignmentID int64) ([]*models.LabBatch, error)
	GetByFacultyID(ctx context.Context, facultyID int64) ([]*models.LabBatch, error)
	GetSummaries(ctx context.Context, assignmentIDs []int64) ([]repositories.BatchSummaryRow, error)
	ReplaceStudents(ctx context.Context, batchID int64, studentIDs []int64) error
	GetStudents(ctx context.Context, batchID int64) ([]*models.User, error)
}

// studentDirectory resolves users for cohort snapshots, rosters and faculty checks.
type studentDirectory interface {
	FindOneActiveStudent(ctx context.Context, semester int, section string) (*models.User, error)
	GetActiveStudents(ctx context.Context, semester int, section string) ([]*models.User, error)
	GetFacultyByID(ctx context.Context, id int64) (*models.User, error)
}

// labStore resolves labs for assignment creation.
type labStore interface {
	GetByID(ctx context.Context, id int64) (*models.Lab, error)
}

// AssignmentService manages lab assignments and their batches
type AssignmentService struct {
	assignments assignmentStore
	batches     batchStore
	users       studentDirectory
	labs        labStore
	logger      zerolog.Logger
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(assignments assignmentStore, batches batchStore, users studentDirectory, labs labStore, logger zerolog.Logger) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		batches:     batches,
		users:       users,
		labs:        labs,
		logger:      logger,
	}
}

// CreateAssignment creates a lab assignment for a semester/section offering.
// The cohort years string is snapshotted from the current roster at creation
// time and never recomputed afterwards.
func (s *AssignmentService) CreateAssignment(ctx context.Context, req *dto.AssignLabRequest) (*models.LabAssignment, error) {
	if req.Semester < models.MinSemester || req.Semester > models.MaxSemester {
		return nil, apperrors.NewValidationError(fmt.Sprintf("semester must be between %d and %d", models.MinSemester, models.MaxSemester))
	}

	lab, err := s.labs.GetByID(ctx, req.LabID)
	if err != nil {
		return nil, err
	}

	cohort, err := s.cohortYears(ctx, req.Semester, req.Section)
	if err != nil {
		return nil, err
	}

	assignment := &models.LabAssignment{
		LabID:        lab.ID,
		Semester:     req.Semester,
		Section:      req.Section,
		CohortYears:  cohort,
		AcademicYear: req.AcademicYear,
		SemesterType: models.SemesterType(req.SemesterType),
		Lab:          lab,
	}

	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("assignmentID", assignment.ID).Int64("labID", lab.ID).
		Str("section", req.Section).Msg("Lab assignment created")
	return assignment, nil
}

// cohortYears derives the "admission-graduation" label from the lowest-id
// active student of the semester/section, or "N/A" when there is no such
// student or the years are missing.
func (s *AssignmentService) cohortYears(ctx context.Context, semester int, section string) (string, error) {
	student, err := s.users.FindOneActiveStudent(ctx, semester, section)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "N/A", nil
		}
		return "", err
	}
	return cohortString(student), nil
}

func cohortString(student *models.User) string {
	if student == nil || student.AdmissionYear == nil || student.GraduationYear == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d-%d", *student.AdmissionYear, *student.GraduationYear)
}

// GenerateBatches validates the whole batch set up front and creates it in one
// transaction, then returns the created batches alongside the section's active
// student roster so the caller can assign students manually.
func (s *AssignmentService) GenerateBatches(ctx context.Context, req *dto.GenerateBatchesRequest) (*dto.GenerateBatchesResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, req.LabAssignmentID)
	if err != nil {
		return nil, err
	}

	batches, err := s.buildBatches(ctx, assignment.ID, req)
	if err != nil {
		return nil, err
	}

	if err := s.batches.CreateAll(ctx, batches); err != nil {
		return nil, err
	}

	students, err := s.users.GetActiveStudents(ctx, assignment.Semester, assignment.Section)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("assignmentID", assignment.ID).Int("batches", len(batches)).Msg("Batches generated")

	return &dto.GenerateBatchesResponse{
		Batches:  batches,
		Students: toStudentSummaries(students),
	}, nil
}

// buildBatches performs the all-or-nothing validation of a batch set; no batch
// is persisted unless every spec line passes.
func (s *AssignmentService) buildBatches(ctx context.Context, assignmentID int64, req *dto.GenerateBatchesRequest) ([]*models.LabBatch, error) {
	if req.NumberOfBatches < 2 || req.NumberOfBatches > 3 {
		return nil, apperrors.NewValidationError("numberOfBatches must be 2 or 3")
	}
	if len(req.Batches) != req.NumberOfBatches {
		return nil, apperrors.NewValidationError(fmt.Sprintf("expected %d batch specs, got %d", req.NumberOfBatches, len(req.Batches)))
	}

	valid := make(map[string]bool, len(models.ValidBatchNames))
	for _, name := range models.ValidBatchNames {
		valid[name] = true
	}

	seen := make(map[string]bool)
	batches := make([]*models.LabBatch, 0, len(req.Batches))
	for _, spec := range req.Batches {
		if !valid[spec.BatchName] {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid batch name %q", spec.BatchName))
		}
		if seen[spec.BatchName] {
			return nil, apperrors.NewValidationError(fmt.Sprintf("duplicate batch name %q", spec.BatchName))
		}
		seen[spec.BatchName] = true

		faculty, err := s.users.GetFacultyByID(ctx, spec.FacultyID)
		if err != nil {
			if errors.Is(err, apperrors.ErrFacultyNotFound) || errors.Is(err, apperrors.ErrUserNotFound) {
				return nil, apperrors.NewValidationError(fmt.Sprintf("faculty not found for batch %s", spec.BatchName))
			}
			return nil, err
		}

		start, err := parseDate(spec.StartDate)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("batch %s: invalid startDate %q", spec.BatchName, spec.StartDate))
		}
		end, err := parseDate(spec.EndDate)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("batch %s: invalid endDate %q", spec.BatchName, spec.EndDate))
		}

		batches = append(batches, &models.LabBatch{
			LabAssignmentID: assignmentID,
			BatchName:       spec.BatchName,
			FacultyID:       faculty.ID,
			StartDate:       start,
			EndDate:         end,
			DayOfWeek:       spec.DayOfWeek,
			GeneratedDates:  schedule.GenerateDates(start, end, spec.DayOfWeek),
			Faculty:         faculty,
		})
	}
	return batches, nil
}

// AssignStudents replaces a batch's student set
func (s *AssignmentService) AssignStudents(ctx context.Context, batchID int64, req *dto.UpdateBatchStudentsRequest) error {
	return s.batches.ReplaceStudents(ctx, batchID, req.StudentIDs)
}

// GetAssignments lists every assignment with its batch summaries nested
func (s *AssignmentService) GetAssignments(ctx context.Context) ([]*dto.AssignmentWithBatches, error) {
	assignments, err := s.assignments.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return []*dto.AssignmentWithBatches{}, nil
	}

	ids := make([]int64, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}

	summaries, err := s.batches.GetSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	byAssignment := make(map[int64][]dto.BatchSummary)
	for _, row := range summaries {
		byAssignment[row.LabAssignmentID] = append(byAssignment[row.LabAssignmentID], dto.BatchSummary{
			ID:           row.ID,
			BatchName:    row.BatchName,
			FacultyName:  row.FacultyName,
			FacultyUser:  row.FacultyUsername,
			StudentCount: row.StudentCount,
		})
	}

	result := make([]*dto.AssignmentWithBatches, 0, len(assignments))
	for _, a := range assignments {
		batches := byAssignment[a.ID]
		if batches == nil {
			batches = []dto.BatchSummary{}
		}
		result = append(result, &dto.AssignmentWithBatches{
			LabAssignment: *a,
			Batches:       batches,
		})
	}
	return result, nil
}

// GetBatchesForAssignment returns an assignment's batches with faculty and
// students joined.
func (s *AssignmentService) GetBatchesForAssignment(ctx context.Context, assignmentID int64) ([]*models.LabBatch, error) {
	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		return nil, err
	}
	return s.batches.GetByAssignmentID(ctx, assignmentID)
}

// DeleteAssignment removes an assignment and its batches. Marks recorded
// against the deleted batches stay in the database and simply stop appearing
// in joined views.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, id int64) error {
	if err := s.assignments.DeleteCascading(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("assignmentID", id).Msg("Lab assignment deleted")
	return nil
}

// GetFacultyBatches lists the caller's own batches with the lab and schedule joined
func (s *AssignmentService) GetFacultyBatches(ctx context.Context, facultyID int64) ([]*dto.FacultyBatchResponse, error) {
	batches, err := s.batches.GetByFacultyID(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.FacultyBatchResponse, 0, len(batches))
	for _, b := range batches {
		result = append(result, &dto.FacultyBatchResponse{
			ID:              b.ID,
			BatchName:       b.BatchName,
			LabAssignmentID: b.LabAssignmentID,
			LabID:           b.Assignment.Lab.ID,
			LabName:         b.Assignment.Lab.LabName,
			LabCode:         b.Assignment.Lab.LabCode,
			Semester:        b.Assignment.Semester,
			Section:         b.Assignment.Section,
			CohortYears:     b.Assignment.CohortYears,
			DayOfWeek:       b.DayOfWeek,
			StartDate:       b.StartDate,
			EndDate:         b.EndDate,
			GeneratedDates:  b.GeneratedDates,
		})
	}
	return result, nil
}

// GetBatchStudents lists a batch's students for the owning faculty member only
func (s *AssignmentService) GetBatchStudents(ctx context.Context, batchID, facultyID int64) ([]*models.User, error) {
	batch, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.FacultyID != facultyID {
		return nil, apperrors.NewForbiddenError("batch belongs to another faculty member")
	}
	return s.batches.GetStudents(ctx, batchID)
}

func toStudentSummaries(students []*models.User) []dto.StudentSummary {
	result := make([]dto.StudentSummary, 0, len(students))
	for _, student := range students {
		result = append(result, dto.StudentSummary{
			ID:       student.ID,
			Name:     student.Name,
			Username: student.Username,
		})
	}
	return result
}

// parseDate accepts a plain calendar date and falls back to RFC 3339 for
// clients that send full timestamps.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
