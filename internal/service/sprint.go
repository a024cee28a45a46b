package service

import (
	"context"
	"fmt"
	"log/slog"
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

type sprintService struct {
	sprintRepo  repositories.SprintRepository
	itemRepo    repositories.WorkItemRepository
	projectRepo repositories.ProjectRepository
	logger      *slog.Logger
}

// NewSprintService creates a new sprint service
func NewSprintService(
	sprintRepo repositories.SprintRepository,
	itemRepo repositories.WorkItemRepository,
	projectRepo repositories.ProjectRepository,
	logger *slog.Logger,
) services.SprintService {
	return &sprintService{
		sprintRepo:  sprintRepo,
		itemRepo:    itemRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

func (s *sprintService) CreateSprint(ctx context.Context, req *services.CreateSprintRequest) (*models.Sprint, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	now := time.Now()
	sprint := &models.Sprint{
		ID:        uuid.NewString(),
		ProjectID: req.ProjectID,
		Name:      strings.TrimSpace(req.Name),
		Goal:      req.Goal,
		Status:    models.SprintPlanned,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sprintRepo.Create(ctx, sprint); err != nil {
		return nil, err
	}

	s.logger.Info("sprint created", "id", sprint.ID, "project_id", sprint.ProjectID)
	return sprint, nil
}

// GetSprint retrieves a sprint with its assigned items embedded
func (s *sprintService) GetSprint(ctx context.Context, id string) (*services.SprintDetail, error) {
	sprint, err := s.sprintRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByProject(ctx, sprint.ProjectID, repositories.WorkItemFilter{SprintID: &id})
	if err != nil {
		return nil, fmt.Errorf("list sprint items: %w", err)
	}

	return &services.SprintDetail{Sprint: *sprint, Items: items}, nil
}

func (s *sprintService) UpdateSprint(ctx context.Context, id string, req *services.UpdateSprintRequest) (*models.Sprint, error) {
	sprint, err := s.sprintRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > config.MaxSprintNameLength {
			return nil, fmt.Errorf("%w: invalid sprint name", domain.ErrValidation)
		}
		sprint.Name = name
	}
	if req.Goal != nil {
		sprint.Goal = *req.Goal
	}
	if req.Status != nil {
		if err := checkSprintStatus(*req.Status); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		sprint.Status = *req.Status
	}
	if req.StartDate != nil {
		sprint.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		sprint.EndDate = *req.EndDate
	}

	// Cross-field: dates must stay ordered after the merge
	if !sprint.StartDate.Before(sprint.EndDate) {
		return nil, fmt.Errorf("%w: start_date must be before end_date", domain.ErrValidation)
	}

	sprint.UpdatedAt = time.Now()

	if err := s.sprintRepo.Update(ctx, sprint); err != nil {
		return nil, err
	}

	s.logger.Info("sprint updated", "id", sprint.ID)
	return sprint, nil
}

func (s *sprintService) DeleteSprint(ctx context.Context, id string) error {
	sprint, err := s.sprintRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	itemCount, err := s.sprintRepo.CountItems(ctx, id)
	if err != nil {
		return fmt.Errorf("count sprint items: %w", err)
	}
	if itemCount > 0 {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("cannot delete sprint %q: %d item(s) still assigned", sprint.Name, itemCount),
			ResourceType: "sprint",
			ResourceID:   id,
		}
	}

	if err := s.sprintRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("sprint deleted", "id", id)
	return nil
}

func (s *sprintService) ListSprints(ctx context.Context, projectID string) ([]models.Sprint, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.sprintRepo.ListByProject(ctx, projectID)
}

func (s *sprintService) validateCreateRequest(req *services.CreateSprintRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxSprintNameLength)),
		validation.Field(&req.Goal, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.StartDate, validation.Required),
		validation.Field(&req.EndDate, validation.Required),
	); err != nil {
		return err
	}

	if !req.StartDate.Before(req.EndDate) {
		return fmt.Errorf("start_date must be before end_date")
	}
	return nil
}

func checkSprintStatus(status models.SprintStatus) error {
	for _, s := range models.SprintStatuses {
		if s == status {
			return nil
		}
	}
	return fmt.Errorf("invalid sprint status %q", status)
}
