package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akshayk/labledger/internal/app/models/dto"
	"github.com/akshayk/labledger/internal/pkg/apperrors"
)

// HandleAPIError maps service-layer errors onto the standard error envelope.
// Wrapped messages from CustomError pass through as the response message.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrLabNotFound),
		errors.Is(err, apperrors.ErrAssignmentNotFound),
		errors.Is(err, apperrors.ErrBatchNotFound),
		errors.Is(err, apperrors.ErrFacultyNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, err)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, err)
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, err)
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, err)
	case errors.Is(err, apperrors.ErrValidationFailed):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err)
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrUsernameExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err)
	default:
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.JSON(http.StatusInternalServerError, dto.APIResponse{Error: detail})
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, err error) {
	c.JSON(status, dto.APIResponse{
		Error: dto.NewErrorDetail(code, err.Error()),
	})
}
