package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akshayk/labledger/internal/app/models"
	"github.com/akshayk/labledger/internal/app/models/dto"
	"github.com/akshayk/labledger/internal/pkg/apperrors"
	"github.com/akshayk/labledger/internal/pkg/auth"
)

type fakeUserStore struct {
	users     map[int64]*models.User
	existing  map[string]bool
	created   []*models.User
	graduated int64
	advanced  int64
	calls     []string
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	user.ID = int64(len(f.created) + 1)
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserStore) CreateMany(_ context.Context, users []*models.User) error {
	f.created = append(f.created, users...)
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetAll(_ context.Context) ([]*models.User, error) {
	var all []*models.User
	for _, u := range f.users {
		all = append(all, u)
	}
	return all, nil
}

func (f *fakeUserStore) ExistingUsernames(_ context.Context, _ []string) (map[string]bool, error) {
	if f.existing == nil {
		return map[string]bool{}, nil
	}
	return f.existing, nil
}

func (f *fakeUserStore) Update(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) GraduateFinalSemester(_ context.Context) (int64, error) {
	f.calls = append(f.calls, "graduate")
	return f.graduated, nil
}

func (f *fakeUserStore) IncrementActiveSemesters(_ context.Context) (int64, error) {
	f.calls = append(f.calls, "increment")
	return f.advanced, nil
}

func newUserService(store *fakeUserStore) *UserService {
	if store.users == nil {
		store.users = map[int64]*models.User{}
	}
	return NewUserService(store, zerolog.Nop())
}

func TestAddUserHashesPasswordAndActivatesStudent(t *testing.T) {
	store := &fakeUserStore{}
	svc := newUserService(store)

	user, err := svc.AddUser(context.Background(), &dto.AddUserRequest{
		Name:     "Asha",
		Username: "asha",
		Password: "s3cret",
		Role:     "student",
		Semester: intPtr(3),
	})
	require.NoError(t, err)

	assert.True(t, auth.IsHashed(user.Password))
	assert.True(t, auth.CheckPassword(user.Password, "s3cret"))
	require.NotNil(t, user.Status)
	assert.Equal(t, models.StatusActive, *user.Status)
}

func TestAddUserRejectsUnknownRole(t *testing.T) {
	svc := newUserService(&fakeUserStore{})

	_, err := svc.AddUser(context.Background(), &dto.AddUserRequest{
		Name: "X", Username: "x", Password: "p", Role: "registrar",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestAddUserRejectsOutOfRangeSemester(t *testing.T) {
	svc := newUserService(&fakeUserStore{})

	_, err := svc.AddUser(context.Background(), &dto.AddUserRequest{
		Name: "X", Username: "x", Password: "p", Role: "student", Semester: intPtr(9),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	store := &fakeUserStore{users: map[int64]*models.User{1: {ID: 1}}}
	svc := newUserService(store)

	err := svc.DeleteUser(context.Background(), 1, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	require.NoError(t, svc.DeleteUser(context.Background(), 1, 2))
}

func TestBulkImportSkipsExistingAndDuplicates(t *testing.T) {
	store := &fakeUserStore{existing: map[string]bool{"taken": true}}
	svc := newUserService(store)

	resp, err := svc.BulkImportUsers(context.Background(), &dto.BulkImportUsersRequest{
		Users: []dto.ImportUserRecord{
			{Name: "A", Username: "taken", Role: "student"},
			{Name: "B", Username: "fresh", Role: "student"},
			{Name: "C", Username: "fresh", Role: "student"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, 2, resp.Skipped)
	assert.ElementsMatch(t, []string{"taken", "fresh"}, resp.SkippedUsernames)
	require.Len(t, store.created, 1)

	// Rows without a password get the shared default, hashed
	assert.True(t, auth.CheckPassword(store.created[0].Password, defaultImportPassword))
}

func TestBulkImportAllExistingRejected(t *testing.T) {
	store := &fakeUserStore{existing: map[string]bool{"a": true, "b": true}}
	svc := newUserService(store)

	_, err := svc.BulkImportUsers(context.Background(), &dto.BulkImportUsersRequest{
		Users: []dto.ImportUserRecord{
			{Name: "A", Username: "a", Role: "student"},
			{Name: "B", Username: "b", Role: "student"},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	// The rejection names the rows that were skipped
	assert.Contains(t, err.Error(), "a, b")
	assert.Empty(t, store.created)
}

func TestIncrementSemesterGraduatesBeforeAdvancing(t *testing.T) {
	store := &fakeUserStore{graduated: 12, advanced: 87}
	svc := newUserService(store)

	resp, err := svc.IncrementSemester(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(12), resp.GraduatedCount)
	assert.Equal(t, int64(87), resp.IncrementedCount)
	// Graduation must run first or semester-8 students would advance past 8
	assert.Equal(t, []string{"graduate", "increment"}, store.calls)
}

func TestUpdateUserKeepsPasswordWhenAbsent(t *testing.T) {
	hashed, err := auth.HashPassword("original")
	require.NoError(t, err)
	store := &fakeUserStore{users: map[int64]*models.User{
		1: {ID: 1, Name: "Old", Password: hashed, Role: models.RoleFaculty},
	}}
	svc := newUserService(store)

	name := "New"
	user, err := svc.UpdateUser(context.Background(), 1, &dto.UpdateUserRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "New", user.Name)
	assert.True(t, auth.CheckPassword(user.Password, "original"))
}
