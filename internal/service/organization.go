package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"cadence/internal/config"
	"cadence/internal/domain"
	"cadence/internal/domain/models"
	"cadence/internal/domain/repositories"
	"cadence/internal/domain/services"

	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var orgSlugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type organizationService struct {
	orgRepo     repositories.OrganizationRepository
	projectRepo repositories.ProjectRepository
	logger      *slog.Logger
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(
	orgRepo repositories.OrganizationRepository,
	projectRepo repositories.ProjectRepository,
	logger *slog.Logger,
) services.OrganizationService {
	return &organizationService{
		orgRepo:     orgRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

func (s *organizationService) CreateOrganization(ctx context.Context, req *services.CreateOrgRequest) (*models.Organization, error) {
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validateOpaqueMap("settings", req.Settings); err != nil {
		return nil, err
	}

	if existing, err := s.orgRepo.GetBySlug(ctx, req.Slug); err == nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("an organization with slug %q already exists", req.Slug),
			ResourceType: "organization",
			ResourceID:   existing.ID,
			Field:        "slug",
		}
	}

	now := time.Now()
	org := &models.Organization{
		ID:          uuid.NewString(),
		Slug:        req.Slug,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Settings:    req.Settings,
		CreatedBy:   req.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, err
	}

	s.logger.Info("organization created", "id", org.ID, "slug", org.Slug)
	return org, nil
}

func (s *organizationService) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	return s.orgRepo.GetByID(ctx, id)
}

func (s *organizationService) UpdateOrganization(ctx context.Context, id string, req *services.UpdateOrgRequest) (*models.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil {
		newSlug := strings.ToLower(strings.TrimSpace(*req.Slug))
		if !orgSlugPattern.MatchString(newSlug) || len(newSlug) > config.MaxOrgSlugLength {
			return nil, fmt.Errorf("%w: invalid slug %q", domain.ErrValidation, newSlug)
		}
		// Uniqueness recheck only when the slug actually changes
		if newSlug != org.Slug {
			if existing, err := s.orgRepo.GetBySlug(ctx, newSlug); err == nil && existing.ID != id {
				return nil, &domain.ConflictError{
					Message:      fmt.Sprintf("an organization with slug %q already exists", newSlug),
					ResourceType: "organization",
					ResourceID:   existing.ID,
					Field:        "slug",
				}
			}
			org.Slug = newSlug
		}
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > config.MaxOrgNameLength {
			return nil, fmt.Errorf("%w: invalid name", domain.ErrValidation)
		}
		org.Name = name
	}
	if req.Description != nil {
		org.Description = *req.Description
	}
	if req.Settings != nil {
		if err := validateOpaqueMap("settings", req.Settings); err != nil {
			return nil, err
		}
		org.Settings = req.Settings
	}

	org.UpdatedAt = time.Now()

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, err
	}

	s.logger.Info("organization updated", "id", org.ID, "slug", org.Slug)
	return org, nil
}

func (s *organizationService) DeleteOrganization(ctx context.Context, id string) error {
	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	projects, err := s.projectRepo.List(ctx, &id)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	if len(projects) > 0 {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("cannot delete organization %q: %d project(s) still attached", org.Slug, len(projects)),
			ResourceType: "organization",
			ResourceID:   id,
		}
	}

	if err := s.orgRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("organization deleted", "id", id, "slug", org.Slug)
	return nil
}

func (s *organizationService) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	return s.orgRepo.List(ctx)
}

func (s *organizationService) validateCreateRequest(req *services.CreateOrgRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Slug,
			validation.Required,
			validation.Length(2, config.MaxOrgSlugLength),
			validation.Match(orgSlugPattern).Error("slug must be lowercase letters, digits, and hyphens"),
		),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxOrgNameLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
	)
}
