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

// project keys are short uppercase codes used as issue prefixes
var projectKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*$`)

type projectService struct {
	projectRepo repositories.ProjectRepository
	itemRepo    repositories.WorkItemRepository
	sprintRepo  repositories.SprintRepository
	fileRepo    repositories.FileRepository
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	itemRepo repositories.WorkItemRepository,
	sprintRepo repositories.SprintRepository,
	fileRepo repositories.FileRepository,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		itemRepo:    itemRepo,
		sprintRepo:  sprintRepo,
		fileRepo:    fileRepo,
		logger:      logger,
	}
}

// CreateProject creates a project with a unique key
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	req.Key = strings.ToUpper(strings.TrimSpace(req.Key))
	if req.Visibility == "" {
		req.Visibility = models.VisibilityPrivate
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validateOpaqueMap("settings", req.Settings); err != nil {
		return nil, err
	}

	if existing, err := s.projectRepo.GetByKey(ctx, req.Key); err == nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("a project with key %q already exists", req.Key),
			ResourceType: "project",
			ResourceID:   existing.ID,
			Field:        "key",
		}
	}

	now := time.Now()
	project := &models.Project{
		ID:          uuid.NewString(),
		OrgID:       req.OrgID,
		Key:         req.Key,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      models.StatusActive,
		Visibility:  req.Visibility,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Settings:    req.Settings,
		CreatedBy:   req.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created", "id", project.ID, "key", project.Key)
	return project, nil
}

// GetProject retrieves a project with sub-collection counts
func (s *projectService) GetProject(ctx context.Context, id string) (*services.ProjectDetail, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	itemCount, err := s.itemRepo.CountByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	sprints, err := s.sprintRepo.ListByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list sprints: %w", err)
	}
	fileCount, err := s.fileRepo.CountByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}

	return &services.ProjectDetail{
		Project:     *project,
		ItemCount:   itemCount,
		SprintCount: len(sprints),
		FileCount:   fileCount,
	}, nil
}

// UpdateProject applies a partial update; the key uniqueness check
// reruns only when the key actually changes
func (s *projectService) UpdateProject(ctx context.Context, id string, req *services.UpdateProjectRequest) (*models.Project, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Key != nil {
		newKey := strings.ToUpper(strings.TrimSpace(*req.Key))
		if newKey != project.Key {
			if existing, err := s.projectRepo.GetByKey(ctx, newKey); err == nil && existing.ID != id {
				return nil, &domain.ConflictError{
					Message:      fmt.Sprintf("a project with key %q already exists", newKey),
					ResourceType: "project",
					ResourceID:   existing.ID,
					Field:        "key",
				}
			}
			project.Key = newKey
		}
	}
	if req.Name != nil {
		project.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Visibility != nil {
		project.Visibility = *req.Visibility
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if req.Settings != nil {
		if err := validateOpaqueMap("settings", req.Settings); err != nil {
			return nil, err
		}
		project.Settings = req.Settings
	}

	// Cross-field: dates must stay ordered after the merge
	if project.StartDate != nil && project.EndDate != nil && !project.StartDate.Before(*project.EndDate) {
		return nil, fmt.Errorf("%w: start_date must be before end_date", domain.ErrValidation)
	}

	project.UpdatedAt = time.Now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project updated", "id", project.ID, "key", project.Key)
	return project, nil
}

// DeleteProject deletes a project; blocked while any sub-collection is
// non-empty
func (s *projectService) DeleteProject(ctx context.Context, id string) error {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	itemCount, err := s.itemRepo.CountByProject(ctx, id)
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	sprints, err := s.sprintRepo.ListByProject(ctx, id)
	if err != nil {
		return fmt.Errorf("list sprints: %w", err)
	}
	fileCount, err := s.fileRepo.CountByProject(ctx, id)
	if err != nil {
		return fmt.Errorf("count files: %w", err)
	}

	if itemCount > 0 || len(sprints) > 0 || fileCount > 0 {
		return &domain.ConflictError{
			Message: fmt.Sprintf("cannot delete project %q: %d item(s), %d sprint(s), %d file(s) still attached",
				project.Key, itemCount, len(sprints), fileCount),
			ResourceType: "project",
			ResourceID:   id,
		}
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("project deleted", "id", id, "key", project.Key)
	return nil
}

// ListProjects lists projects, optionally scoped to an organization
func (s *projectService) ListProjects(ctx context.Context, orgID *string) ([]models.Project, error) {
	return s.projectRepo.List(ctx, orgID)
}

func (s *projectService) validateCreateRequest(req *services.CreateProjectRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Key,
			validation.Required,
			validation.Length(2, config.MaxProjectKeyLength),
			validation.Match(projectKeyPattern).Error("key must be uppercase letters and digits, starting with a letter"),
		),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxProjectNameLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.Visibility, validation.By(validVisibility)),
	); err != nil {
		return err
	}

	if req.StartDate != nil && req.EndDate != nil && !req.StartDate.Before(*req.EndDate) {
		return fmt.Errorf("start_date must be before end_date")
	}
	return nil
}

func (s *projectService) validateUpdateRequest(req *services.UpdateProjectRequest) error {
	var rules []*validation.FieldRules
	if req.Key != nil {
		rules = append(rules, validation.Field(&req.Key,
			validation.Required,
			validation.Length(2, config.MaxProjectKeyLength),
		))
	}
	if req.Name != nil {
		rules = append(rules, validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxProjectNameLength)))
	}
	if req.Description != nil {
		rules = append(rules, validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)))
	}
	if req.Status != nil {
		rules = append(rules, validation.Field(&req.Status, validation.By(validStatusPtr)))
	}
	if req.Visibility != nil {
		rules = append(rules, validation.Field(&req.Visibility, validation.By(validVisibilityPtr)))
	}
	if len(rules) == 0 && req.StartDate == nil && req.EndDate == nil && req.Settings == nil {
		return fmt.Errorf("at least one field must be provided")
	}
	return validation.ValidateStruct(req, rules...)
}

func validVisibility(value interface{}) error {
	v, _ := value.(models.ProjectVisibility)
	return checkVisibility(v)
}

func validVisibilityPtr(value interface{}) error {
	v, _ := value.(*models.ProjectVisibility)
	if v == nil {
		return nil
	}
	return checkVisibility(*v)
}

func checkVisibility(v models.ProjectVisibility) error {
	for _, known := range models.Visibilities {
		if known == v {
			return nil
		}
	}
	return fmt.Errorf("invalid visibility %q", v)
}
