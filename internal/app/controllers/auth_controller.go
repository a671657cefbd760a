package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akshayk/labledger/internal/app/models/dto"
	"github.com/akshayk/labledger/internal/app/services"
	"github.com/akshayk/labledger/internal/middleware"
)

// AuthController handles login and credential changes
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Login authenticates a user
// @Summary Log in
// @Description Verifies a username/password pair and returns a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Logged in successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(ctx, &req, "login data") {
		return
	}

	resp, err := c.authService.Login(ctx, &req)
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

// UpdatePassword changes the caller's password
// @Summary Change password
// @Description Re-validates the current password and stores a new one
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse "Password updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or wrong current password"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/password [put]
func (c *AuthController) UpdatePassword(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdatePasswordRequest
	if !bindJSON(ctx, &req, "password data") {
		return
	}

	if err := c.authService.UpdatePassword(ctx, callerID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Password updated successfully"))
}
