package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/akshayk/labledger/internal/app/models"
	"github.com/akshayk/labledger/internal/app/repositories"
	"github.com/akshayk/labledger/internal/config"
	"github.com/akshayk/labledger/internal/pkg/apperrors"
	"github.com/akshayk/labledger/internal/pkg/auth"
)

// CreateDefaultAdmin creates the configured admin account on first startup.
// Without it a fresh deployment has no way to log in.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Admin.Password == "" {
		lgr.Warn().Msg("No admin password configured, skipping default admin creation")
		return nil
	}

	userRepo := repositories.NewUserRepository(dbPool)

	_, err := userRepo.GetByUsername(ctx, cfg.Admin.Username)
	if err == nil {
		lgr.Info().Str("username", cfg.Admin.Username).Msg("Admin user already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hashed, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     cfg.Admin.Name,
		Username: cfg.Admin.Username,
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	lgr.Info().Int64("adminID", admin.ID).Str("username", admin.Username).Msg("Default admin user created")
	return nil
}
