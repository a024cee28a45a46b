package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"cadence/internal/domain"
	"cadence/internal/domain/models"
	"cadence/internal/domain/services"
)

// fakeUserRepo mirrors the insert-if-absent upsert: on conflict only the
// email and updated_at move, and the stored row is copied back into the
// argument.
type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) Upsert(_ context.Context, user *models.User) error {
	if existing, ok := r.users[user.ID]; ok {
		existing.Email = user.Email
		existing.UpdatedAt = user.UpdatedAt
		*user = *existing
		return nil
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID, domain.ErrNotFound)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func newUserService(t *testing.T) (services.UserService, *fakeUserRepo) {
	t.Helper()
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserService(repo, logger), repo
}

func TestEnsureProfileCreatesFromClaims(t *testing.T) {
	svc, _ := newUserService(t)

	user, err := svc.EnsureProfile(context.Background(), "sub-1", "a@example.com", "Ada")
	if err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	if user.DisplayName != "Ada" || user.Email != "a@example.com" {
		t.Errorf("profile = %+v, want the claim values on first sight", user)
	}

	// Missing name claim falls back to the email.
	user, err = svc.EnsureProfile(context.Background(), "sub-2", "b@example.com", "")
	if err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	if user.DisplayName != "b@example.com" {
		t.Errorf("display name = %q, want the email fallback", user.DisplayName)
	}

	if _, err := svc.EnsureProfile(context.Background(), "", "x@example.com", "X"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("empty subject: err = %v, want ErrUnauthorized", err)
	}
}

func TestEnsureProfileKeepsUserSetDisplayName(t *testing.T) {
	svc, _ := newUserService(t)

	if _, err := svc.EnsureProfile(context.Background(), "sub-1", "a@example.com", "Claims Name"); err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}

	custom := "Custom Name"
	if _, err := svc.UpdateProfile(context.Background(), "sub-1", &services.UpdateProfileRequest{DisplayName: &custom}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	// The next authenticated request re-ensures the profile with the
	// original claim values; the user's own name must survive, and the
	// returned profile must be the stored one.
	user, err := svc.EnsureProfile(context.Background(), "sub-1", "new@example.com", "Claims Name")
	if err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	if user.DisplayName != "Custom Name" {
		t.Errorf("display name = %q, want the user-set Custom Name", user.DisplayName)
	}
	if user.Email != "new@example.com" {
		t.Errorf("email = %q, want refreshed from claims", user.Email)
	}
}

func TestUpdateProfileValidatesName(t *testing.T) {
	svc, _ := newUserService(t)
	if _, err := svc.EnsureProfile(context.Background(), "sub-1", "a@example.com", "Ada"); err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}

	empty := "   "
	if _, err := svc.UpdateProfile(context.Background(), "sub-1", &services.UpdateProfileRequest{DisplayName: &empty}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank name: err = %v, want ErrValidation", err)
	}
}
