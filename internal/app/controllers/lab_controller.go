package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akshayk/labledger/internal/app/models/dto"
	"github.com/akshayk/labledger/internal/app/services"
	"github.com/akshayk/labledger/internal/middleware"
)

// LabController handles the lab catalog
type LabController struct {
	labService *services.LabService
}

// NewLabController creates a new LabController
func NewLabController(labService *services.LabService) *LabController {
	return &LabController{
		labService: labService,
	}
}

// AddLab creates a lab
// @Summary Create a lab
// @Tags labs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddLabRequest true "Lab information"
// @Success 201 {object} dto.APIResponse{data=models.Lab} "Lab created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/addLab [post]
func (c *LabController) AddLab(ctx *gin.Context) {
	var req dto.AddLabRequest
	if !bindJSON(ctx, &req, "lab data") {
		return
	}

	lab, err := c.labService.AddLab(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      lab,
		Timestamp: time.Now(),
	})
}

// GetLabs lists labs
// @Summary List labs
// @Description Lists the lab catalog, optionally filtered by semester
// @Tags labs
// @Produce json
// @Security BearerAuth
// @Param semester query int false "Filter by semester"
// @Success 200 {object} dto.APIResponse{data=[]models.Lab} "Labs retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid semester filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/labs [get]
func (c *LabController) GetLabs(ctx *gin.Context) {
	var semester *int
	if raw := ctx.Query("semester"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid semester")
			errorDetail = errorDetail.WithDetails("semester must be a valid number")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		semester = &value
	}

	labs, err := c.labService.GetLabs(ctx, semester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      labs,
		Timestamp: time.Now(),
	})
}

// GetLab retrieves a lab by ID
// @Summary Get lab by ID
// @Tags labs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lab ID"
// @Success 200 {object} dto.APIResponse{data=models.Lab} "Lab retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lab ID"
// @Failure 404 {object} dto.ErrorResponse "Lab not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/labs/{id} [get]
func (c *LabController) GetLab(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	lab, err := c.labService.GetLab(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      lab,
		Timestamp: time.Now(),
	})
}

// UpdateLab applies a partial update to a lab
// @Summary Update a lab
// @Tags labs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lab ID"
// @Param request body dto.UpdateLabRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Lab} "Lab updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Lab not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/labs/{id} [put]
func (c *LabController) UpdateLab(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLabRequest
	if !bindJSON(ctx, &req, "lab data") {
		return
	}

	lab, err := c.labService.UpdateLab(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      lab,
		Timestamp: time.Now(),
	})
}

// DeleteLab removes a lab
// @Summary Delete a lab
// @Tags labs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lab ID"
// @Success 200 {object} dto.APIResponse "Lab deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lab ID"
// @Failure 404 {object} dto.ErrorResponse "Lab not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/labs/{id} [delete]
func (c *LabController) DeleteLab(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.labService.DeleteLab(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Lab deleted successfully"))
}

// ImportLabs bulk-creates labs from client-parsed CSV rows
// @Summary Bulk import labs
// @Tags labs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkImportLabsRequest true "Parsed rows"
// @Success 201 {object} dto.APIResponse{data=[]models.Lab} "Labs imported successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/bulk-import-labs [post]
func (c *LabController) ImportLabs(ctx *gin.Context) {
	var req dto.BulkImportLabsRequest
	if !bindJSON(ctx, &req, "import data") {
		return
	}

	labs, err := c.labService.BulkImportLabs(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      labs,
		Timestamp: time.Now(),
	})
}
