package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cadence/internal/domain"
	"cadence/internal/domain/models"
	"cadence/internal/domain/repositories"
	"cadence/internal/domain/services"
)

type userService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, logger *slog.Logger) services.UserService {
	return &userService{userRepo: userRepo, logger: logger}
}

// EnsureProfile creates the profile row from verified JWT claims on
// first sight and returns the stored profile. A display name the user
// set themselves survives later claim values.
func (s *userService) EnsureProfile(ctx context.Context, id, email, name string) (*models.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrUnauthorized)
	}
	if name == "" {
		name = email
	}

	now := time.Now()
	user := &models.User{
		ID:          id,
		Email:       email,
		DisplayName: name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, id string, req *services.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("%w: display name cannot be empty", domain.ErrValidation)
		}
		user.DisplayName = name
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "id", user.ID)
	return user, nil
}
