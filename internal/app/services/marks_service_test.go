package services

import (
	"context"
	"errors"
	"fmt"
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

type fakeMarksStore struct {
	upserts   []models.WeeklyMark
	failFor   map[int64]error
	history   []repositories.BatchMarkRow
	byStudent []repositories.StudentMarkRow
}

func (f *fakeMarksStore) UpsertWeekly(_ context.Context, studentID, _, _ int64, week *models.WeeklyMark) error {
	if err := f.failFor[studentID]; err != nil {
		return err
	}
	f.upserts = append(f.upserts, *week)
	return nil
}

func (f *fakeMarksStore) GetHistoryByBatch(_ context.Context, _ int64) ([]repositories.BatchMarkRow, error) {
	return f.history, nil
}

func (f *fakeMarksStore) GetByStudent(_ context.Context, _ int64) ([]repositories.StudentMarkRow, error) {
	return f.byStudent, nil
}

// keyedMarksStore keys entries the way the database does, on
// (student, batch, calendar date), so repeated writes overwrite.
type keyedMarksStore struct {
	entries map[string]models.WeeklyMark
}

func (f *keyedMarksStore) UpsertWeekly(_ context.Context, studentID, labBatchID, _ int64, week *models.WeeklyMark) error {
	key := fmt.Sprintf("%d|%d|%s", studentID, labBatchID, week.Date.Format("2006-01-02"))
	f.entries[key] = *week
	return nil
}

func (f *keyedMarksStore) GetHistoryByBatch(_ context.Context, _ int64) ([]repositories.BatchMarkRow, error) {
	return nil, nil
}

func (f *keyedMarksStore) GetByStudent(_ context.Context, _ int64) ([]repositories.StudentMarkRow, error) {
	return nil, nil
}

type fakeBatchOwnership struct {
	batch *models.LabBatch
}

func (f *fakeBatchOwnership) GetByID(_ context.Context, id int64) (*models.LabBatch, error) {
	if f.batch == nil || f.batch.ID != id {
		return nil, apperrors.ErrBatchNotFound
	}
	return f.batch, nil
}

func ptr(v float64) *float64 { return &v }

func defined(v float64) dto.OptionalNumber {
	return dto.OptionalNumber{Defined: true, Value: &v}
}

func definedNull() dto.OptionalNumber {
	return dto.OptionalNumber{Defined: true}
}

func TestBuildWeeklyMarkDerivesTotal(t *testing.T) {
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	week := buildWeeklyMark(date, &dto.MarkEntryRequest{
		StudentID: 1,
		Pr:        defined(8),
		PE:        defined(7),
		R:         defined(5),
	})

	require.NotNil(t, week.T)
	assert.Equal(t, 20.0, *week.T)
	assert.Nil(t, week.P)
	assert.Nil(t, week.C)
}

func TestBuildWeeklyMarkExplicitTotalWins(t *testing.T) {
	week := buildWeeklyMark(time.Now(), &dto.MarkEntryRequest{
		StudentID: 1,
		Pr:        defined(8),
		PE:        defined(7),
		T:         defined(50),
	})

	require.NotNil(t, week.T)
	assert.Equal(t, 50.0, *week.T)
}

func TestBuildWeeklyMarkExplicitNullClearsTotal(t *testing.T) {
	week := buildWeeklyMark(time.Now(), &dto.MarkEntryRequest{
		StudentID: 1,
		Pr:        defined(8),
		T:         definedNull(),
	})

	assert.Nil(t, week.T)
}

func TestBuildWeeklyMarkAllAbsent(t *testing.T) {
	week := buildWeeklyMark(time.Now(), &dto.MarkEntryRequest{StudentID: 1})

	assert.Nil(t, week.Pr)
	assert.Nil(t, week.T)
}

func TestEnterMarksRejectsForeignBatch(t *testing.T) {
	svc := NewMarksService(
		&fakeMarksStore{},
		&fakeBatchOwnership{batch: &models.LabBatch{ID: 10, FacultyID: 7}},
		zerolog.Nop(),
	)

	_, err := svc.EnterMarks(context.Background(), 99, &dto.EnterMarksRequest{
		LabBatchID: 10,
		Date:       "2024-03-04",
		Marks:      []dto.MarkEntryRequest{{StudentID: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestEnterMarksPerEntryResults(t *testing.T) {
	store := &fakeMarksStore{
		failFor: map[int64]error{2: errors.New("boom")},
	}
	svc := NewMarksService(
		store,
		&fakeBatchOwnership{batch: &models.LabBatch{ID: 10, FacultyID: 7}},
		zerolog.Nop(),
	)

	resp, err := svc.EnterMarks(context.Background(), 7, &dto.EnterMarksRequest{
		LabBatchID: 10,
		Date:       "2024-03-04",
		Marks: []dto.MarkEntryRequest{
			{StudentID: 1, Pr: defined(8)},
			{StudentID: 2, Pr: defined(9)},
			{StudentID: 3, Pr: defined(6)},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)

	assert.True(t, resp.Results[0].Ok)
	assert.False(t, resp.Results[1].Ok)
	assert.Equal(t, "boom", resp.Results[1].Error)
	// A failed entry does not stop the ones after it
	assert.True(t, resp.Results[2].Ok)
	assert.Len(t, store.upserts, 2)
}

func TestEnterMarksSameDateOverwrites(t *testing.T) {
	store := &keyedMarksStore{entries: map[string]models.WeeklyMark{}}
	svc := NewMarksService(
		store,
		&fakeBatchOwnership{batch: &models.LabBatch{ID: 10, FacultyID: 7}},
		zerolog.Nop(),
	)

	enter := func(date string, pr float64) {
		t.Helper()
		resp, err := svc.EnterMarks(context.Background(), 7, &dto.EnterMarksRequest{
			LabBatchID: 10,
			Date:       date,
			Marks:      []dto.MarkEntryRequest{{StudentID: 1, Pr: defined(pr)}},
		})
		require.NoError(t, err)
		require.True(t, resp.Results[0].Ok)
	}

	enter("2024-03-04", 6)
	// Re-entering the same calendar date, even as a full timestamp,
	// replaces the existing entry instead of adding a second one
	enter("2024-03-04T15:30:00Z", 9)

	require.Len(t, store.entries, 1)
	for _, week := range store.entries {
		require.NotNil(t, week.Pr)
		assert.Equal(t, 9.0, *week.Pr)
	}

	enter("2024-03-11", 7)
	assert.Len(t, store.entries, 2)
}

func TestEnterMarksRejectsBadDate(t *testing.T) {
	svc := NewMarksService(
		&fakeMarksStore{},
		&fakeBatchOwnership{batch: &models.LabBatch{ID: 10, FacultyID: 7}},
		zerolog.Nop(),
	)

	_, err := svc.EnterMarks(context.Background(), 7, &dto.EnterMarksRequest{
		LabBatchID: 10,
		Date:       "04-03-2024",
		Marks:      []dto.MarkEntryRequest{{StudentID: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGetStudentMarksGroupsAndAverages(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	store := &fakeMarksStore{
		byStudent: []repositories.StudentMarkRow{
			{LabID: 1, LabName: "Physics Lab", FacultyName: "Dr. Rao", DayOfWeek: "Monday", EnteredByName: "Dr. Rao",
				Week: models.WeeklyMark{Date: day(4), Pr: ptr(8), T: ptr(8)}},
			{LabID: 1, LabName: "Physics Lab", FacultyName: "Dr. Rao", DayOfWeek: "Monday", EnteredByName: "Dr. Rao",
				Week: models.WeeklyMark{Date: day(11), Pr: ptr(6), T: ptr(6)}},
			{LabID: 2, LabName: "Chemistry Lab", FacultyName: "Dr. Iyer", DayOfWeek: "Friday", EnteredByName: "Dr. Iyer",
				Week: models.WeeklyMark{Date: day(8), C: ptr(4), T: ptr(4)}},
		},
	}
	svc := NewMarksService(store, &fakeBatchOwnership{}, zerolog.Nop())

	result, err := svc.GetStudentMarks(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, result, 2)

	physics := result[0]
	assert.Equal(t, "Physics Lab", physics.LabName)
	require.Len(t, physics.Sessions, 2)
	assert.Equal(t, "7.00", physics.AverageMarks.Pr)
	assert.Equal(t, "7.00", physics.AverageMarks.T)
	// No values at all in a column averages to N/A, not zero
	assert.Equal(t, "N/A", physics.AverageMarks.C)

	chemistry := result[1]
	assert.Equal(t, "4.00", chemistry.AverageMarks.C)
	assert.Equal(t, "N/A", chemistry.AverageMarks.Pr)
}

func TestGetMarksHistoryRequiresOwnership(t *testing.T) {
	svc := NewMarksService(
		&fakeMarksStore{},
		&fakeBatchOwnership{batch: &models.LabBatch{ID: 3, FacultyID: 1}},
		zerolog.Nop(),
	)

	_, err := svc.GetMarksHistory(context.Background(), 2, 3)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	rows, err := svc.GetMarksHistory(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFormatAverage(t *testing.T) {
	assert.Equal(t, "N/A", formatAverage(0, 0))
	assert.Equal(t, "7.50", formatAverage(15, 2))
	assert.Equal(t, "6.67", formatAverage(20, 3))
}
