package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akshayk/labledger/internal/app/models/dto"
	"github.com/akshayk/labledger/internal/app/services"
	"github.com/akshayk/labledger/internal/middleware"
)

// StudentController handles the student's own marks and profile views
type StudentController struct {
	marksService *services.MarksService
	userService  *services.UserService
}

// NewStudentController creates a new StudentController
func NewStudentController(marksService *services.MarksService, userService *services.UserService) *StudentController {
	return &StudentController{
		marksService: marksService,
		userService:  userService,
	}
}

// GetMyMarks returns the caller's marks grouped by lab
// @Summary Get my marks
// @Description Returns the caller's weekly entries grouped by lab with per-column averages
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentLabMarks} "Marks retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/me/marks [get]
func (c *StudentController) GetMyMarks(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	marks, err := c.marksService.GetStudentMarks(ctx, callerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      marks,
		Timestamp: time.Now(),
	})
}

// GetMyProfile returns the caller's own account
// @Summary Get my profile
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.User} "Profile retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/me/profile [get]
func (c *StudentController) GetMyProfile(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.userService.GetUser(ctx, callerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      user,
		Timestamp: time.Now(),
	})
}
