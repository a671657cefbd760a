package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/akshayk/labledger/internal/app/models"
	"github.com/akshayk/labledger/internal/app/models/dto"
)

// labCatalog is the slice of the lab repository the lab service needs.
type labCatalog interface {
	Create(ctx context.Context, lab *models.Lab) error
	CreateMany(ctx context.Context, labs []*models.Lab) error
	GetByID(ctx context.Context, id int64) (*models.Lab, error)
	GetAll(ctx context.Context, semester *int) ([]*models.Lab, error)
	Update(ctx context.Context, lab *models.Lab) error
	Delete(ctx context.Context, id int64) error
}

// LabService manages the lab catalog
type LabService struct {
	labs   labCatalog
	logger zerolog.Logger
}

// NewLabService creates a new lab service
func NewLabService(labs labCatalog, logger zerolog.Logger) *LabService {
	return &LabService{
		labs:   labs,
		logger: logger,
	}
}

// AddLab creates a lab catalog entry
func (s *LabService) AddLab(ctx context.Context, req *dto.AddLabRequest) (*models.Lab, error) {
	lab := &models.Lab{
		LabCode:    req.LabCode,
		LabName:    req.LabName,
		Semester:   req.Semester,
		Department: req.Department,
	}

	if err := s.labs.Create(ctx, lab); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("labID", lab.ID).Str("labCode", lab.LabCode).Msg("Lab created")
	return lab, nil
}

// BulkImportLabs creates every row of a client-parsed CSV import in one
// transaction.
func (s *LabService) BulkImportLabs(ctx context.Context, req *dto.BulkImportLabsRequest) ([]*models.Lab, error) {
	labs := make([]*models.Lab, 0, len(req.Labs))
	for _, rec := range req.Labs {
		labs = append(labs, &models.Lab{
			LabCode:    rec.LabCode,
			LabName:    rec.LabName,
			Semester:   rec.Semester,
			Department: rec.Department,
		})
	}

	if err := s.labs.CreateMany(ctx, labs); err != nil {
		return nil, err
	}

	s.logger.Info().Int("imported", len(labs)).Msg("Bulk lab import finished")
	return labs, nil
}

// GetLabs lists labs, optionally filtered by semester
func (s *LabService) GetLabs(ctx context.Context, semester *int) ([]*models.Lab, error) {
	return s.labs.GetAll(ctx, semester)
}

// GetLab retrieves a single lab
func (s *LabService) GetLab(ctx context.Context, id int64) (*models.Lab, error) {
	return s.labs.GetByID(ctx, id)
}

// UpdateLab applies a partial update to a lab
func (s *LabService) UpdateLab(ctx context.Context, id int64, req *dto.UpdateLabRequest) (*models.Lab, error) {
	lab, err := s.labs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.LabCode != nil {
		lab.LabCode = *req.LabCode
	}
	if req.LabName != nil {
		lab.LabName = *req.LabName
	}
	if req.Semester != nil {
		lab.Semester = *req.Semester
	}
	if req.Department != nil {
		lab.Department = *req.Department
	}

	if err := s.labs.Update(ctx, lab); err != nil {
		return nil, err
	}
	return lab, nil
}

// DeleteLab removes a lab from the catalog
func (s *LabService) DeleteLab(ctx context.Context, id int64) error {
	return s.labs.Delete(ctx, id)
}
