package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"cadence/internal/config"
	"cadence/internal/domain"
	"cadence/internal/domain/models"
	"cadence/internal/domain/repositories"
	"cadence/internal/domain/services"
	"cadence/internal/hierarchy"
	"cadence/internal/itemtype"

	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type workItemService struct {
	itemRepo    repositories.WorkItemRepository
	projectRepo repositories.ProjectRepository
	commentRepo repositories.CommentRepository
	types       *itemtype.Registry
	notifier    services.NotificationService
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewWorkItemService creates a new work item service
func NewWorkItemService(
	itemRepo repositories.WorkItemRepository,
	projectRepo repositories.ProjectRepository,
	commentRepo repositories.CommentRepository,
	types *itemtype.Registry,
	notifier services.NotificationService,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.WorkItemService {
	return &workItemService{
		itemRepo:    itemRepo,
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		types:       types,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateItem creates a work item at the end of its sibling group
func (s *workItemService) CreateItem(ctx context.Context, req *services.CreateItemRequest) (*models.WorkItem, error) {
	if req.Status == "" {
		req.Status = models.StatusActive
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validateOpaqueMap("metadata", req.Metadata); err != nil {
		return nil, err
	}

	// Project must exist
	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	// Parent must exist in the same project and be a compatible type
	if req.ParentID != nil {
		if err := s.checkParent(ctx, req.ProjectID, *req.ParentID, req.Type); err != nil {
			return nil, err
		}
	}

	maxPos, err := s.itemRepo.MaxPosition(ctx, req.ProjectID, req.ParentID)
	if err != nil {
		return nil, fmt.Errorf("compute position: %w", err)
	}

	now := time.Now()
	item := &models.WorkItem{
		ID:            uuid.NewString(),
		ProjectID:     req.ProjectID,
		ParentID:      req.ParentID,
		Type:          req.Type,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		Position:      maxPos + 1,
		SprintID:      req.SprintID,
		AssigneeID:    req.AssigneeID,
		BusinessValue: req.BusinessValue,
		TechnicalRisk: req.TechnicalRisk,
		Effort:        req.Effort,
		Metadata:      req.Metadata,
		CreatedBy:     req.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Progress != nil {
		item.Progress = *req.Progress
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("work item created",
		"id", item.ID,
		"type", item.Type,
		"project_id", item.ProjectID,
		"parent_id", item.ParentID,
		"position", item.Position,
	)

	s.notifyAssignment(ctx, item, req.CreatedBy)

	return item, nil
}

// GetItem retrieves an item with its ordered children and comments
func (s *workItemService) GetItem(ctx context.Context, id string) (*services.ItemDetail, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	siblingsOfChildren, err := s.itemRepo.ListSiblings(ctx, item.ProjectID, &item.ID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	children := hierarchy.BuildChildren(siblingsOfChildren, &item.ID)

	comments, err := s.commentRepo.ListByEntity(ctx, models.CommentOnWorkItem, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return &services.ItemDetail{
		WorkItem: *item,
		Children: children,
		Comments: comments,
	}, nil
}

// UpdateItem applies a partial update
func (s *workItemService) UpdateItem(ctx context.Context, id string, req *services.UpdateItemRequest) (*models.WorkItem, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousAssignee := item.AssigneeID

	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.Priority != nil {
		item.Priority = *req.Priority
	}
	if req.BusinessValue != nil {
		item.BusinessValue = req.BusinessValue
	}
	if req.TechnicalRisk != nil {
		item.TechnicalRisk = req.TechnicalRisk
	}
	if req.Effort != nil {
		item.Effort = req.Effort
	}
	if req.Progress != nil {
		item.Progress = *req.Progress
	}
	if req.Metadata != nil {
		if err := validateOpaqueMap("metadata", req.Metadata); err != nil {
			return nil, err
		}
		item.Metadata = req.Metadata
	}
	if req.SprintID.Present {
		item.SprintID = req.SprintID.Value
	}
	if req.AssigneeID.Present {
		item.AssigneeID = req.AssigneeID.Value
	}

	// Tri-state: only re-parent when the field was present
	if req.ParentID.Present {
		if req.ParentID.Value != nil {
			if err := s.checkParent(ctx, item.ProjectID, *req.ParentID.Value, item.Type); err != nil {
				return nil, err
			}
			if err := s.checkNoCycle(ctx, id, *req.ParentID.Value); err != nil {
				return nil, err
			}
		}
		if !sameParent(item.ParentID, req.ParentID.Value) {
			item.ParentID = req.ParentID.Value
			// New sibling group: append at the end
			maxPos, err := s.itemRepo.MaxPosition(ctx, item.ProjectID, item.ParentID)
			if err != nil {
				return nil, fmt.Errorf("compute position: %w", err)
			}
			item.Position = maxPos + 1
		}
	}

	item.UpdatedAt = time.Now()

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("work item updated", "id", item.ID, "type", item.Type)

	if req.AssigneeID.Present && !sameParent(previousAssignee, item.AssigneeID) {
		s.notifyAssignment(ctx, item, req.ActingUser)
	}

	return item, nil
}

// DeleteItem deletes an item; blocked while children reference it
func (s *workItemService) DeleteItem(ctx context.Context, id string) error {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	childCount, err := s.itemRepo.CountChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("count children: %w", err)
	}
	if childCount > 0 {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("cannot delete %s %q: %d child item(s) still attached", strings.ToLower(string(item.Type)), item.Title, childCount),
			ResourceType: "work_item",
			ResourceID:   id,
		}
	}

	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("work item deleted", "id", id, "type", item.Type, "project_id", item.ProjectID)
	return nil
}

// ListItems returns the project's items flat, optionally filtered
func (s *workItemService) ListItems(ctx context.Context, projectID string, filter services.ItemFilter) ([]models.WorkItem, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.itemRepo.ListByProject(ctx, projectID, repositories.WorkItemFilter{
		Type:     filter.Type,
		Status:   filter.Status,
		SprintID: filter.SprintID,
		Assignee: filter.Assignee,
	})
}

// MoveItem swaps positions with the adjacent sibling. The sibling
// ordering is computed over the full unfiltered group, so a move issued
// from a filtered view still lands next to the true neighbor.
func (s *workItemService) MoveItem(ctx context.Context, id string, dir hierarchy.Direction) error {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	siblings, err := s.itemRepo.ListSiblings(ctx, item.ProjectID, item.ParentID)
	if err != nil {
		return fmt.Errorf("list siblings: %w", err)
	}

	self, neighbor, ok, err := hierarchy.Neighbor(siblings, id, dir)
	if err != nil {
		return err
	}
	if !ok {
		// Already first (up) or last (down): silent no-op
		s.logger.Debug("move is a no-op at boundary", "id", id, "direction", dir)
		return nil
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.itemRepo.SwapPositions(txCtx, &self, &neighbor)
	})
	if err != nil {
		return fmt.Errorf("swap positions: %w", err)
	}

	s.logger.Info("work item moved",
		"id", id,
		"direction", dir,
		"swapped_with", neighbor.ID,
	)
	return nil
}

// AvailableParents lists the project's items whose type may parent
// childType. A TASK is offered only USER_STORY parents; nothing offers
// another TASK.
func (s *workItemService) AvailableParents(ctx context.Context, projectID string, childType models.ItemType) ([]models.WorkItem, error) {
	if !s.types.Known(childType) {
		return nil, fmt.Errorf("%w: unknown item type %q", domain.ErrValidation, childType)
	}

	allowed := s.types.AllowedParents(childType)
	if len(allowed) == 0 {
		return []models.WorkItem{}, nil
	}
	allowedSet := make(map[models.ItemType]bool, len(allowed))
	for _, t := range allowed {
		allowedSet[t] = true
	}

	all, err := s.itemRepo.ListByProject(ctx, projectID, repositories.WorkItemFilter{})
	if err != nil {
		return nil, err
	}

	candidates := make([]models.WorkItem, 0)
	for _, item := range all {
		if allowedSet[item.Type] {
			candidates = append(candidates, item)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return hierarchy.Compare(candidates[i], candidates[j]) < 0
	})
	return candidates, nil
}

// checkParent verifies the parent exists, shares the project, and is a
// type the compatibility table allows for childType.
func (s *workItemService) checkParent(ctx context.Context, projectID, parentID string, childType models.ItemType) error {
	parent, err := s.itemRepo.GetByID(ctx, parentID)
	if err != nil {
		return fmt.Errorf("parent item: %w", err)
	}
	if parent.ProjectID != projectID {
		return fmt.Errorf("%w: parent item belongs to a different project", domain.ErrValidation)
	}
	if !s.types.CanParent(parent.Type, childType) {
		return fmt.Errorf("%w: a %s cannot be a child of a %s", domain.ErrValidation, childType, parent.Type)
	}
	return nil
}

// checkNoCycle walks up from the proposed parent to make sure itemID is
// not among its ancestors.
func (s *workItemService) checkNoCycle(ctx context.Context, itemID, newParentID string) error {
	if itemID == newParentID {
		return fmt.Errorf("%w: an item cannot be its own parent", domain.ErrValidation)
	}

	seen := map[string]bool{}
	currentID := newParentID
	for {
		if seen[currentID] {
			return fmt.Errorf("%w: parent chain contains a cycle", domain.ErrValidation)
		}
		seen[currentID] = true
		current, err := s.itemRepo.GetByID(ctx, currentID)
		if err != nil {
			return err
		}
		if current.ParentID == nil {
			return nil
		}
		if *current.ParentID == itemID {
			return fmt.Errorf("%w: cannot move an item under its own descendant", domain.ErrValidation)
		}
		currentID = *current.ParentID
	}
}

// notifyAssignment tells the assignee about the assignment. Failures
// are logged, never surfaced: notification delivery must not fail the
// triggering write.
func (s *workItemService) notifyAssignment(ctx context.Context, item *models.WorkItem, actor string) {
	if item.AssigneeID == nil || *item.AssigneeID == actor {
		return
	}
	err := s.notifier.Notify(ctx, &models.Notification{
		UserID:     *item.AssigneeID,
		Kind:       models.NotifyAssigned,
		Title:      fmt.Sprintf("Assigned: %s", item.Title),
		Body:       fmt.Sprintf("You were assigned a %s", strings.ToLower(string(item.Type))),
		EntityType: "work_item",
		EntityID:   item.ID,
	})
	if err != nil {
		s.logger.Warn("assignment notification failed", "item_id", item.ID, "error", err)
	}
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *workItemService) validateCreateRequest(req *services.CreateItemRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Type, validation.Required, validation.By(s.knownType)),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxItemTitleLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.Status, validation.By(validStatus)),
		validation.Field(&req.Priority, validation.By(validPriority)),
		validation.Field(&req.BusinessValue, validation.By(validRating)),
		validation.Field(&req.TechnicalRisk, validation.By(validRating)),
		validation.Field(&req.Effort, validation.By(validRating)),
		validation.Field(&req.Progress, validation.By(validProgress)),
	)
}

func (s *workItemService) validateUpdateRequest(req *services.UpdateItemRequest) error {
	var rules []*validation.FieldRules
	if req.Title != nil {
		rules = append(rules, validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxItemTitleLength)))
	}
	if req.Description != nil {
		rules = append(rules, validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)))
	}
	if req.Status != nil {
		rules = append(rules, validation.Field(&req.Status, validation.By(validStatusPtr)))
	}
	if req.Priority != nil {
		rules = append(rules, validation.Field(&req.Priority, validation.By(validPriorityPtr)))
	}
	rules = append(rules,
		validation.Field(&req.BusinessValue, validation.By(validRating)),
		validation.Field(&req.TechnicalRisk, validation.By(validRating)),
		validation.Field(&req.Effort, validation.By(validRating)),
		validation.Field(&req.Progress, validation.By(validProgress)),
	)
	return validation.ValidateStruct(req, rules...)
}

func (s *workItemService) knownType(value interface{}) error {
	t, _ := value.(models.ItemType)
	if !s.types.Known(t) {
		return fmt.Errorf("unknown item type %q", t)
	}
	return nil
}

// validRating checks a 1..10 score field. Checked by hand because the
// threshold rules treat a dereferenced 0 as absent and skip it.
func validRating(value interface{}) error {
	n, _ := value.(*int)
	if n == nil {
		return nil
	}
	if *n < 1 || *n > 10 {
		return fmt.Errorf("must be between 1 and 10")
	}
	return nil
}

func validProgress(value interface{}) error {
	n, _ := value.(*int)
	if n == nil {
		return nil
	}
	if *n < 0 || *n > 100 {
		return fmt.Errorf("must be between 0 and 100")
	}
	return nil
}

func validStatus(value interface{}) error {
	status, _ := value.(models.ItemStatus)
	return checkStatus(status)
}

func validStatusPtr(value interface{}) error {
	status, _ := value.(*models.ItemStatus)
	if status == nil {
		return nil
	}
	return checkStatus(*status)
}

func checkStatus(status models.ItemStatus) error {
	for _, s := range models.Statuses {
		if s == status {
			return nil
		}
	}
	return fmt.Errorf("invalid status %q", status)
}

func validPriority(value interface{}) error {
	priority, _ := value.(models.ItemPriority)
	return checkPriority(priority)
}

func validPriorityPtr(value interface{}) error {
	priority, _ := value.(*models.ItemPriority)
	if priority == nil {
		return nil
	}
	return checkPriority(*priority)
}

func checkPriority(priority models.ItemPriority) error {
	for _, p := range models.Priorities {
		if p == priority {
			return nil
		}
	}
	return fmt.Errorf("invalid priority %q", priority)
}
