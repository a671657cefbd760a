package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akshayk/labledger/internal/app/models/dto"
	"github.com/akshayk/labledger/internal/app/services"
	"github.com/akshayk/labledger/internal/middleware"
)

// FacultyController handles the faculty member's own batches and mark entry
type FacultyController struct {
	assignmentService *services.AssignmentService
	marksService      *services.MarksService
}

// NewFacultyController creates a new FacultyController
func NewFacultyController(assignmentService *services.AssignmentService, marksService *services.MarksService) *FacultyController {
	return &FacultyController{
		assignmentService: assignmentService,
		marksService:      marksService,
	}
}

// GetMyBatches lists the caller's batches
// @Summary List my batches
// @Description Lists the caller's batches with lab and schedule details
// @Tags faculty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.FacultyBatchResponse} "Batches retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculty/batches [get]
func (c *FacultyController) GetMyBatches(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	batches, err := c.assignmentService.GetFacultyBatches(ctx, callerID)
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

// GetBatchStudents lists the students of one of the caller's batches
// @Summary List batch students
// @Tags faculty
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Success 200 {object} dto.APIResponse{data=[]models.User} "Students retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid batch ID"
// @Failure 403 {object} dto.ErrorResponse "Batch belongs to another faculty member"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculty/batches/{id}/students [get]
func (c *FacultyController) GetBatchStudents(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	students, err := c.assignmentService.GetBatchStudents(ctx, id, callerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      students,
		Timestamp: time.Now(),
	})
}

// EnterMarks records a dated set of weekly entries for a batch
// @Summary Enter weekly marks
// @Description Upserts one weekly entry per student; each entry gets its own result line
// @Tags faculty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnterMarksRequest true "Batch, date and per-student scores"
// @Success 200 {object} dto.APIResponse{data=dto.EnterMarksResponse} "Entries processed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Batch belongs to another faculty member"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculty/batches/enter-marks [post]
func (c *FacultyController) EnterMarks(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.EnterMarksRequest
	if !bindJSON(ctx, &req, "marks data") {
		return
	}

	resp, err := c.marksService.EnterMarks(ctx, callerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetMarksHistory returns the marks history of one of the caller's batches
// @Summary Get batch marks history
// @Description Returns the flat, date-ascending history across the batch's students
// @Tags faculty
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.MarksHistoryRow} "History retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid batch ID"
// @Failure 403 {object} dto.ErrorResponse "Batch belongs to another faculty member"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculty/batches/{id}/marks [get]
func (c *FacultyController) GetMarksHistory(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	history, err := c.marksService.GetMarksHistory(ctx, callerID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      history,
		Timestamp: time.Now(),
	})
}
