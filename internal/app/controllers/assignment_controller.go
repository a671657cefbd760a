package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akshayk/labledger/internal/app/models/dto"
	"github.com/akshayk/labledger/internal/app/services"
	"github.com/akshayk/labledger/internal/middleware"
)

// AssignmentController handles lab assignments and batch generation
type AssignmentController struct {
	assignmentService *services.AssignmentService
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(assignmentService *services.AssignmentService) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
	}
}

// CreateAssignment assigns a lab to a semester/section
// @Summary Assign a lab
// @Description Creates a lab assignment and snapshots the section's cohort years
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignLabRequest true "Assignment information"
// @Success 201 {object} dto.APIResponse{data=models.LabAssignment} "Assignment created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Lab not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/assignLab [post]
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	var req dto.AssignLabRequest
	if !bindJSON(ctx, &req, "assignment data") {
		return
	}

	assignment, err := c.assignmentService.CreateAssignment(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      assignment,
		Timestamp: time.Now(),
	})
}

// GetAssignments lists assignments with their batch summaries
// @Summary List assignments
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.AssignmentWithBatches} "Assignments retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/assignments [get]
func (c *AssignmentController) GetAssignments(ctx *gin.Context) {
	assignments, err := c.assignmentService.GetAssignments(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      assignments,
		Timestamp: time.Now(),
	})
}

// GetAssignmentBatches lists an assignment's batches with students joined
// @Summary List an assignment's batches
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=[]models.LabBatch} "Batches retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid assignment ID"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/assignments/{id}/batches [get]
func (c *AssignmentController) GetAssignmentBatches(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	batches, err := c.assignmentService.GetBatchesForAssignment(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      batches,
		Timestamp: time.Now(),
	})
}

// DeleteAssignment removes an assignment and its batches
// @Summary Delete an assignment
// @Description Removes the assignment and its batches; recorded marks stay in the database
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse "Assignment deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid assignment ID"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/assignments/{id} [delete]
func (c *AssignmentController) DeleteAssignment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.assignmentService.DeleteAssignment(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Assignment deleted successfully"))
}

// GenerateBatches creates an assignment's batch set
// @Summary Generate batches
// @Description Validates the whole batch set, creates it atomically and returns the candidate roster
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GenerateBatchesRequest true "Batch specs"
// @Success 201 {object} dto.APIResponse{data=dto.GenerateBatchesResponse} "Batches created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid batch specs"
// @Failure 404 {object} dto.ErrorResponse "Assignment or faculty not found"
// @Failure 409 {object} dto.ErrorResponse "Batch already exists for this assignment"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/generateBatches [post]
func (c *AssignmentController) GenerateBatches(ctx *gin.Context) {
	var req dto.GenerateBatchesRequest
	if !bindJSON(ctx, &req, "batch data") {
		return
	}

	resp, err := c.assignmentService.GenerateBatches(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// UpdateBatchStudents replaces a batch's student set
// @Summary Set batch students
// @Description Replaces the batch's student list with the given set
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Param request body dto.UpdateBatchStudentsRequest true "Student IDs"
// @Success 200 {object} dto.APIResponse "Students assigned successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/batches/{id}/students [put]
func (c *AssignmentController) UpdateBatchStudents(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateBatchStudentsRequest
	if !bindJSON(ctx, &req, "student data") {
		return
	}

	if err := c.assignmentService.AssignStudents(ctx, id, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Students assigned successfully"))
}
