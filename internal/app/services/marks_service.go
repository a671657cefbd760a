package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/akshayk/labledger/internal/app/models"
	"github.com/akshayk/labledger/internal/app/models/dto"
	"github.com/akshayk/labledger/internal/app/repositories"
	"github.com/akshayk/labledger/internal/pkg/apperrors"
	"github.com/akshayk/labledger/internal/pkg/helpers"
)

// marksStore is the slice of the marks repository this service needs.
type marksStore interface {
	UpsertWeekly(ctx context.Context, studentID, labBatchID, enteredBy int64, week *models.WeeklyMark) error
	GetHistoryByBatch(ctx context.Context, labBatchID int64) ([]repositories.BatchMarkRow, error)
	GetByStudent(ctx context.Context, studentID int64) ([]repositories.StudentMarkRow, error)
}

// batchOwnership resolves batches for faculty ownership checks.
type batchOwnership interface {
	GetByID(ctx context.Context, id int64) (*models.LabBatch, error)
}

// MarksService records and aggregates weekly rubric marks
type MarksService struct {
	marks   marksStore
	batches batchOwnership
	logger  zerolog.Logger
}

// NewMarksService creates a new marks service
func NewMarksService(marks marksStore, batches batchOwnership, logger zerolog.Logger) *MarksService {
	return &MarksService{
		marks:   marks,
		batches: batches,
		logger:  logger,
	}
}

// EnterMarks upserts one weekly entry per student for the given date. Entries
// are processed independently and each gets its own result line; a failed
// entry does not roll back the ones before it.
func (s *MarksService) EnterMarks(ctx context.Context, facultyID int64, req *dto.EnterMarksRequest) (*dto.EnterMarksResponse, error) {
	batch, err := s.batches.GetByID(ctx, req.LabBatchID)
	if err != nil {
		return nil, err
	}
	if batch.FacultyID != facultyID {
		return nil, apperrors.NewForbiddenError("batch belongs to another faculty member")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid date %q", req.Date))
	}
	date = helpers.TruncateToDay(date)

	results := make([]dto.MarkEntryResult, 0, len(req.Marks))
	for _, entry := range req.Marks {
		week := buildWeeklyMark(date, &entry)
		if err := s.marks.UpsertWeekly(ctx, entry.StudentID, batch.ID, facultyID, week); err != nil {
			s.logger.Warn().Err(err).Int64("studentID", entry.StudentID).Int64("batchID", batch.ID).Msg("Mark entry failed")
			results = append(results, dto.MarkEntryResult{StudentID: entry.StudentID, Ok: false, Error: err.Error()})
			continue
		}
		results = append(results, dto.MarkEntryResult{StudentID: entry.StudentID, Ok: true})
	}

	return &dto.EnterMarksResponse{Results: results}, nil
}

// buildWeeklyMark converts a request entry into a storable weekly entry.
// A sent T is stored as given, explicit null included; an omitted T is
// derived as the sum of the non-null component scores.
func buildWeeklyMark(date time.Time, entry *dto.MarkEntryRequest) *models.WeeklyMark {
	week := &models.WeeklyMark{
		Date: date,
		Pr:   entry.Pr.Value,
		PE:   entry.PE.Value,
		P:    entry.P.Value,
		R:    entry.R.Value,
		C:    entry.C.Value,
	}

	if entry.T.Defined {
		week.T = entry.T.Value
		return week
	}

	var total float64
	var any bool
	for _, v := range []*float64{week.Pr, week.PE, week.P, week.R, week.C} {
		if v != nil {
			total += *v
			any = true
		}
	}
	if any {
		week.T = &total
	}
	return week
}

// GetMarksHistory returns the flat, date-ascending marks history of a batch
// owned by the caller.
func (s *MarksService) GetMarksHistory(ctx context.Context, facultyID, labBatchID int64) ([]*dto.MarksHistoryRow, error) {
	batch, err := s.batches.GetByID(ctx, labBatchID)
	if err != nil {
		return nil, err
	}
	if batch.FacultyID != facultyID {
		return nil, apperrors.NewForbiddenError("batch belongs to another faculty member")
	}

	rows, err := s.marks.GetHistoryByBatch(ctx, labBatchID)
	if err != nil {
		return nil, err
	}

	history := make([]*dto.MarksHistoryRow, 0, len(rows))
	for _, row := range rows {
		history = append(history, &dto.MarksHistoryRow{
			StudentID: row.StudentID,
			Student: dto.StudentSummary{
				ID:       row.StudentID,
				Name:     row.StudentName,
				Username: row.StudentUsername,
			},
			Date: row.Week.Date,
			Pr:   row.Week.Pr,
			PE:   row.Week.PE,
			P:    row.Week.P,
			R:    row.Week.R,
			C:    row.Week.C,
			T:    row.Week.T,
		})
	}
	return history, nil
}

// GetStudentMarks groups a student's weekly entries by lab, each group
// carrying its dated sessions and per-column averages.
func (s *MarksService) GetStudentMarks(ctx context.Context, studentID int64) ([]*dto.StudentLabMarks, error) {
	rows, err := s.marks.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var result []*dto.StudentLabMarks
	byLab := make(map[int64]*dto.StudentLabMarks)
	for _, row := range rows {
		group, ok := byLab[row.LabID]
		if !ok {
			group = &dto.StudentLabMarks{
				LabID:     row.LabID,
				LabName:   row.LabName,
				Faculty:   row.FacultyName,
				DayOfWeek: row.DayOfWeek,
			}
			byLab[row.LabID] = group
			result = append(result, group)
		}
		group.Sessions = append(group.Sessions, dto.MarkSession{
			Date:      row.Week.Date,
			Pr:        row.Week.Pr,
			PE:        row.Week.PE,
			P:         row.Week.P,
			R:         row.Week.R,
			C:         row.Week.C,
			T:         row.Week.T,
			EnteredBy: row.EnteredByName,
		})
	}

	for _, group := range result {
		group.AverageMarks = averageMarks(group.Sessions)
	}
	return result, nil
}

// averageMarks computes the per-column mean over non-null values only; a
// column with no values at all averages to "N/A".
func averageMarks(sessions []dto.MarkSession) dto.AverageMarks {
	pick := func(get func(dto.MarkSession) *float64) string {
		var total float64
		var count int
		for _, s := range sessions {
			if v := get(s); v != nil {
				total += *v
				count++
			}
		}
		return formatAverage(total, count)
	}

	return dto.AverageMarks{
		Pr: pick(func(s dto.MarkSession) *float64 { return s.Pr }),
		PE: pick(func(s dto.MarkSession) *float64 { return s.PE }),
		P:  pick(func(s dto.MarkSession) *float64 { return s.P }),
		R:  pick(func(s dto.MarkSession) *float64 { return s.R }),
		C:  pick(func(s dto.MarkSession) *float64 { return s.C }),
		T:  pick(func(s dto.MarkSession) *float64 { return s.T }),
	}
}

func formatAverage(total float64, count int) string {
	if count == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", total/float64(count))
}
