package services

import (
	"context"

	"cadence/internal/domain/models"
)

// UserService manages local profile rows for authenticated principals.
type UserService interface {
	// EnsureProfile creates the profile row from verified JWT claims on
	// first sight and returns the stored profile; a user-set display
	// name is never overwritten by claim values.
	EnsureProfile(ctx context.Context, id, email, name string) (*models.User, error)
	GetProfile(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*models.User, error)
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
}
