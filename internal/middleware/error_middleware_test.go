package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/akshayk/labledger/internal/pkg/apperrors"
)

func handleError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	HandleAPIError(c, err)
	return w
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"user not found", apperrors.ErrUserNotFound, http.StatusNotFound},
		{"batch not found", apperrors.ErrBatchNotFound, http.StatusNotFound},
		{"wrapped not found", apperrors.NewNotFoundError("lab 9 missing"), http.StatusNotFound},
		{"forbidden", apperrors.NewForbiddenError("not yours"), http.StatusForbidden},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{"validation", apperrors.NewValidationError("bad semester"), http.StatusBadRequest},
		{"conflict", apperrors.NewConflictError("batch B1 exists"), http.StatusConflict},
		{"username exists", apperrors.ErrUsernameExists, http.StatusConflict},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := handleError(tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandleAPIErrorCarriesMessage(t *testing.T) {
	w := handleError(apperrors.NewValidationError("numberOfBatches must be 2 or 3"))
	assert.Contains(t, w.Body.String(), "numberOfBatches must be 2 or 3")
}

func TestHandleAPIErrorHidesInternalDetails(t *testing.T) {
	w := handleError(assert.AnError)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	assert.Contains(t, w.Body.String(), "Internal server error")
}
