package dto

import (
	"time"

	"github.com/akshayk/labledger/internal/app/models"
)

// AssignLabRequest creates a LabAssignment (step 1 of the assign flow)
type AssignLabRequest struct {
	LabID        int64  `json:"labId" binding:"required"`
	Semester     int    `json:"semester" binding:"required"`
	Section      string `json:"section" binding:"required"`
	AcademicYear string `json:"academicYear" binding:"required"`
	SemesterType string `json:"semesterType" binding:"required,oneof=Odd Even"`
}

// BatchSpec describes one batch to generate (step 2 of the assign flow)
type BatchSpec struct {
	BatchName string `json:"batchName" binding:"required"`
	FacultyID int64  `json:"facultyId" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	DayOfWeek string `json:"dayOfWeek" binding:"required"`
}

// GenerateBatchesRequest creates the batches for an assignment
type GenerateBatchesRequest struct {
	LabAssignmentID int64       `json:"labAssignmentId" binding:"required"`
	NumberOfBatches int         `json:"numberOfBatches" binding:"required"`
	Batches         []BatchSpec `json:"batches" binding:"required,dive"`
}

// StudentSummary is the roster entry returned for manual batch assignment
type StudentSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// GenerateBatchesResponse returns the created batches plus the candidate roster
type GenerateBatchesResponse struct {
	Batches  []*models.LabBatch `json:"batches"`
	Students []StudentSummary   `json:"students"`
}

// UpdateBatchStudentsRequest replaces a batch's student set
type UpdateBatchStudentsRequest struct {
	StudentIDs []int64 `json:"studentIds" binding:"required"`
}

// BatchSummary is the nested batch view in the assignments listing
type BatchSummary struct {
	ID           int64  `json:"id"`
	BatchName    string `json:"batchName"`
	FacultyName  string `json:"facultyName"`
	FacultyUser  string `json:"facultyUsername"`
	StudentCount int    `json:"studentCount"`
}

// AssignmentWithBatches is an assignment with its lab joined and batch summaries nested
type AssignmentWithBatches struct {
	models.LabAssignment
	Batches []BatchSummary `json:"batches"`
}

// FacultyBatchResponse is one of the caller's own batches with lab and schedule joined
type FacultyBatchResponse struct {
	ID              int64       `json:"id"`
	BatchName       string      `json:"batchName"`
	LabAssignmentID int64       `json:"labAssignmentId"`
	LabID           int64       `json:"labId"`
	LabName         string      `json:"labName"`
	LabCode         string      `json:"labCode"`
	Semester        int         `json:"semester"`
	Section         string      `json:"section"`
	CohortYears     string      `json:"cohortYears"`
	DayOfWeek       string      `json:"dayOfWeek"`
	StartDate       time.Time   `json:"startDate"`
	EndDate         time.Time   `json:"endDate"`
	GeneratedDates  []time.Time `json:"generatedDates"`
}
