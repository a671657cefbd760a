package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akshayk/labledger/internal/app/models"
	"github.com/akshayk/labledger/internal/app/models/dto"
	"github.com/akshayk/labledger/internal/app/repositories"
	"github.com/akshayk/labledger/internal/pkg/apperrors"
)

type fakeAssignmentStore struct {
	assignments map[int64]*models.LabAssignment
	created     []*models.LabAssignment
}

func (f *fakeAssignmentStore) Create(_ context.Context, a *models.LabAssignment) error {
	a.ID = int64(len(f.created) + 1)
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAssignmentStore) GetByID(_ context.Context, id int64) (*models.LabAssignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return nil, apperrors.ErrAssignmentNotFound
	}
	return a, nil
}

func (f *fakeAssignmentStore) GetAll(_ context.Context) ([]*models.LabAssignment, error) {
	var all []*models.LabAssignment
	for _, a := range f.assignments {
		all = append(all, a)
	}
	return all, nil
}

func (f *fakeAssignmentStore) DeleteCascading(_ context.Context, id int64) error {
	if _, ok := f.assignments[id]; !ok {
		return apperrors.ErrAssignmentNotFound
	}
	delete(f.assignments, id)
	return nil
}

type fakeBatchStore struct {
	created  []*models.LabBatch
	students map[int64][]*models.User
	batches  map[int64]*models.LabBatch
}

func (f *fakeBatchStore) CreateAll(_ context.Context, batches []*models.LabBatch) error {
	f.created = append(f.created, batches...)
	return nil
}

func (f *fakeBatchStore) GetByID(_ context.Context, id int64) (*models.LabBatch, error) {
	b, ok := f.batches[id]
	if !ok {
		return nil, apperrors.ErrBatchNotFound
	}
	return b, nil
}

func (f *fakeBatchStore) GetByAssignmentID(_ context.Context, _ int64) ([]*models.LabBatch, error) {
	return nil, nil
}

func (f *fakeBatchStore) GetByFacultyID(_ context.Context, _ int64) ([]*models.LabBatch, error) {
	return nil, nil
}

func (f *fakeBatchStore) GetSummaries(_ context.Context, _ []int64) ([]repositories.BatchSummaryRow, error) {
	return nil, nil
}

func (f *fakeBatchStore) ReplaceStudents(_ context.Context, _ int64, _ []int64) error {
	return nil
}

func (f *fakeBatchStore) GetStudents(_ context.Context, batchID int64) ([]*models.User, error) {
	return f.students[batchID], nil
}

type fakeStudentDirectory struct {
	oneActive *models.User
	active    []*models.User
	faculty   map[int64]*models.User
}

func (f *fakeStudentDirectory) FindOneActiveStudent(_ context.Context, _ int, _ string) (*models.User, error) {
	if f.oneActive == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return f.oneActive, nil
}

func (f *fakeStudentDirectory) GetActiveStudents(_ context.Context, _ int, _ string) ([]*models.User, error) {
	return f.active, nil
}

func (f *fakeStudentDirectory) GetFacultyByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.faculty[id]
	if !ok {
		return nil, apperrors.ErrFacultyNotFound
	}
	return u, nil
}

type fakeLabStore struct {
	labs map[int64]*models.Lab
}

func (f *fakeLabStore) GetByID(_ context.Context, id int64) (*models.Lab, error) {
	l, ok := f.labs[id]
	if !ok {
		return nil, apperrors.ErrLabNotFound
	}
	return l, nil
}

func intPtr(v int) *int { return &v }

func newAssignmentService(as *fakeAssignmentStore, bs *fakeBatchStore, dir *fakeStudentDirectory, ls *fakeLabStore) *AssignmentService {
	if as.assignments == nil {
		as.assignments = map[int64]*models.LabAssignment{}
	}
	return NewAssignmentService(as, bs, dir, ls, zerolog.Nop())
}

func TestCreateAssignmentSnapshotsCohort(t *testing.T) {
	as := &fakeAssignmentStore{}
	svc := newAssignmentService(as, &fakeBatchStore{}, &fakeStudentDirectory{
		oneActive: &models.User{ID: 3, AdmissionYear: intPtr(2022), GraduationYear: intPtr(2026)},
	}, &fakeLabStore{labs: map[int64]*models.Lab{1: {ID: 1, LabName: "Physics Lab"}}})

	a, err := svc.CreateAssignment(context.Background(), &dto.AssignLabRequest{
		LabID: 1, Semester: 4, Section: "A", AcademicYear: "2024-25", SemesterType: "Even",
	})
	require.NoError(t, err)
	assert.Equal(t, "2022-2026", a.CohortYears)
}

func TestCreateAssignmentCohortFallsBackToNA(t *testing.T) {
	labs := &fakeLabStore{labs: map[int64]*models.Lab{1: {ID: 1}}}

	// No active student in the section
	svc := newAssignmentService(&fakeAssignmentStore{}, &fakeBatchStore{}, &fakeStudentDirectory{}, labs)
	a, err := svc.CreateAssignment(context.Background(), &dto.AssignLabRequest{
		LabID: 1, Semester: 4, Section: "A", AcademicYear: "2024-25", SemesterType: "Odd",
	})
	require.NoError(t, err)
	assert.Equal(t, "N/A", a.CohortYears)

	// Student found but years missing
	svc = newAssignmentService(&fakeAssignmentStore{}, &fakeBatchStore{}, &fakeStudentDirectory{
		oneActive: &models.User{ID: 3},
	}, labs)
	a, err = svc.CreateAssignment(context.Background(), &dto.AssignLabRequest{
		LabID: 1, Semester: 4, Section: "A", AcademicYear: "2024-25", SemesterType: "Odd",
	})
	require.NoError(t, err)
	assert.Equal(t, "N/A", a.CohortYears)
}

func TestCreateAssignmentRejectsBadSemester(t *testing.T) {
	svc := newAssignmentService(&fakeAssignmentStore{}, &fakeBatchStore{}, &fakeStudentDirectory{}, &fakeLabStore{})

	_, err := svc.CreateAssignment(context.Background(), &dto.AssignLabRequest{
		LabID: 1, Semester: 9, Section: "A", AcademicYear: "2024-25", SemesterType: "Odd",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateAssignmentUnknownLab(t *testing.T) {
	svc := newAssignmentService(&fakeAssignmentStore{}, &fakeBatchStore{}, &fakeStudentDirectory{}, &fakeLabStore{})

	_, err := svc.CreateAssignment(context.Background(), &dto.AssignLabRequest{
		LabID: 99, Semester: 4, Section: "A", AcademicYear: "2024-25", SemesterType: "Odd",
	})
	assert.ErrorIs(t, err, apperrors.ErrLabNotFound)
}

func validBatchSpecs() []dto.BatchSpec {
	return []dto.BatchSpec{
		{BatchName: "B1", FacultyID: 10, StartDate: "2024-01-01", EndDate: "2024-01-31", DayOfWeek: "Monday"},
		{BatchName: "B2", FacultyID: 11, StartDate: "2024-01-01", EndDate: "2024-01-31", DayOfWeek: "Tuesday"},
	}
}

func generateBatchesFixture() (*AssignmentService, *fakeBatchStore) {
	bs := &fakeBatchStore{}
	svc := newAssignmentService(
		&fakeAssignmentStore{assignments: map[int64]*models.LabAssignment{
			1: {ID: 1, Semester: 4, Section: "A"},
		}},
		bs,
		&fakeStudentDirectory{
			faculty: map[int64]*models.User{
				10: {ID: 10, Role: models.RoleFaculty},
				11: {ID: 11, Role: models.RoleFaculty},
			},
			active: []*models.User{
				{ID: 20, Name: "Asha", Username: "asha"},
				{ID: 21, Name: "Ravi", Username: "ravi"},
			},
		},
		&fakeLabStore{},
	)
	return svc, bs
}

func TestGenerateBatchesHappyPath(t *testing.T) {
	svc, bs := generateBatchesFixture()

	resp, err := svc.GenerateBatches(context.Background(), &dto.GenerateBatchesRequest{
		LabAssignmentID: 1,
		NumberOfBatches: 2,
		Batches:         validBatchSpecs(),
	})
	require.NoError(t, err)
	require.Len(t, bs.created, 2)
	require.Len(t, resp.Batches, 2)
	assert.Len(t, resp.Students, 2)

	// January 2024 has five Mondays
	b1 := resp.Batches[0]
	assert.Equal(t, "B1", b1.BatchName)
	assert.Len(t, b1.GeneratedDates, 5)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), b1.GeneratedDates[0])
}

func TestGenerateBatchesEmptyScheduleStoresEmptySlice(t *testing.T) {
	svc, bs := generateBatchesFixture()

	// End before start produces no session dates, but the batch is still
	// created and its schedule must be a real empty slice, not nil, or the
	// insert would write NULL into a NOT NULL array column.
	_, err := svc.GenerateBatches(context.Background(), &dto.GenerateBatchesRequest{
		LabAssignmentID: 1,
		NumberOfBatches: 2,
		Batches: []dto.BatchSpec{
			{BatchName: "B1", FacultyID: 10, StartDate: "2024-01-31", EndDate: "2024-01-01", DayOfWeek: "Monday"},
			{BatchName: "B2", FacultyID: 11, StartDate: "2024-01-01", EndDate: "2024-01-31", DayOfWeek: "Someday"},
		},
	})
	require.NoError(t, err)
	require.Len(t, bs.created, 2)

	for _, batch := range bs.created {
		assert.NotNil(t, batch.GeneratedDates)
		assert.Empty(t, batch.GeneratedDates)
	}
}

func TestGenerateBatchesUnknownFacultyIsValidationError(t *testing.T) {
	svc, bs := generateBatchesFixture()

	req := &dto.GenerateBatchesRequest{
		LabAssignmentID: 1,
		NumberOfBatches: 2,
		Batches:         validBatchSpecs(),
	}
	req.Batches[1].FacultyID = 99

	_, err := svc.GenerateBatches(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Contains(t, err.Error(), "batch B2")
	assert.Empty(t, bs.created)
}

func TestGenerateBatchesValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *dto.GenerateBatchesRequest)
		wantErr error
	}{
		{
			name:    "too few batches",
			mutate:  func(req *dto.GenerateBatchesRequest) { req.NumberOfBatches = 1; req.Batches = req.Batches[:1] },
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "too many batches",
			mutate:  func(req *dto.GenerateBatchesRequest) { req.NumberOfBatches = 4 },
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "count mismatch",
			mutate:  func(req *dto.GenerateBatchesRequest) { req.NumberOfBatches = 3 },
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "invalid batch name",
			mutate:  func(req *dto.GenerateBatchesRequest) { req.Batches[1].BatchName = "B9" },
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "duplicate batch name",
			mutate:  func(req *dto.GenerateBatchesRequest) { req.Batches[1].BatchName = "B1" },
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "unknown faculty",
			mutate:  func(req *dto.GenerateBatchesRequest) { req.Batches[0].FacultyID = 99 },
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "bad start date",
			mutate:  func(req *dto.GenerateBatchesRequest) { req.Batches[0].StartDate = "01/01/2024" },
			wantErr: apperrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, bs := generateBatchesFixture()
			req := &dto.GenerateBatchesRequest{
				LabAssignmentID: 1,
				NumberOfBatches: 2,
				Batches:         validBatchSpecs(),
			}
			tt.mutate(req)

			_, err := svc.GenerateBatches(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			// Nothing is persisted when any spec line fails
			assert.Empty(t, bs.created)
		})
	}
}

func TestGenerateBatchesUnknownAssignment(t *testing.T) {
	svc, _ := generateBatchesFixture()

	_, err := svc.GenerateBatches(context.Background(), &dto.GenerateBatchesRequest{
		LabAssignmentID: 42,
		NumberOfBatches: 2,
		Batches:         validBatchSpecs(),
	})
	assert.ErrorIs(t, err, apperrors.ErrAssignmentNotFound)
}

func TestGetBatchStudentsOwnership(t *testing.T) {
	bs := &fakeBatchStore{
		batches:  map[int64]*models.LabBatch{5: {ID: 5, FacultyID: 10}},
		students: map[int64][]*models.User{5: {{ID: 20, Username: "asha"}}},
	}
	svc := newAssignmentService(&fakeAssignmentStore{}, bs, &fakeStudentDirectory{}, &fakeLabStore{})

	_, err := svc.GetBatchStudents(context.Background(), 5, 11)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	students, err := svc.GetBatchStudents(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestCohortString(t *testing.T) {
	assert.Equal(t, "N/A", cohortString(nil))
	assert.Equal(t, "N/A", cohortString(&models.User{AdmissionYear: intPtr(2022)}))
	assert.Equal(t, "2022-2026", cohortString(&models.User{AdmissionYear: intPtr(2022), GraduationYear: intPtr(2026)}))
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("2024-01-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 15, d.Day())

	_, err = parseDate("15/01/2024")
	assert.Error(t, err)
}
