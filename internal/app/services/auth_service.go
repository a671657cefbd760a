package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/akshayk/labledger/internal/app/models"
	"github.com/akshayk/labledger/internal/app/models/dto"
	"github.com/akshayk/labledger/internal/pkg/apperrors"
	"github.com/akshayk/labledger/internal/pkg/auth"
)

// credentialStore is the slice of the user repository the auth service needs.
type credentialStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
}

// AuthService verifies credentials and issues session tokens
type AuthService struct {
	users  credentialStore
	jwt    *auth.JWTService
	logger zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users credentialStore, jwt *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		jwt:    jwt,
		logger: logger,
	}
}

// Login verifies a username/password pair and issues a role-carrying token.
// Stored credentials may still be legacy plain text; CheckPassword inspects
// the stored format and compares accordingly.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User logged in")

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		User: dto.UserSummary{
			ID:       user.ID,
			Name:     user.Name,
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}

// UpdatePassword re-validates the current credential with the same dual
// legacy/hashed comparison before storing the new hash.
func (s *AuthService) UpdatePassword(ctx context.Context, userID int64, req *dto.UpdatePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.NewValidationError("current password is incorrect")
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return s.users.UpdatePassword(ctx, userID, hashed)
}
