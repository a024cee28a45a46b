package service

import (
	"context"
	"log/slog"

	"cadence/internal/domain/models"
	"cadence/internal/domain/repositories"
	"cadence/internal/domain/services"
	"cadence/internal/hierarchy"
	"cadence/internal/view"
)

type treeService struct {
	itemRepo    repositories.WorkItemRepository
	fileRepo    repositories.FileRepository
	projectRepo repositories.ProjectRepository
	logger      *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	itemRepo repositories.WorkItemRepository,
	fileRepo repositories.FileRepository,
	projectRepo repositories.ProjectRepository,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		itemRepo:    itemRepo,
		fileRepo:    fileRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// GetItemTree rebuilds the nested work-item tree from the flat records.
// The walk visits parents before children in sibling order, so nesting
// falls out of a single pass; orphans surface as roots and cycles as
// marked roots.
func (s *treeService) GetItemTree(ctx context.Context, projectID string) ([]*models.ItemTreeNode, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByProject(ctx, projectID, repositories.WorkItemFilter{})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.ItemTreeNode, len(items))
	roots := make([]*models.ItemTreeNode, 0)

	hierarchy.Walk(items, func(item models.WorkItem, depth int, cycle bool) {
		node := &models.ItemTreeNode{
			ID:       item.ID,
			ParentID: item.ParentID,
			Type:     item.Type,
			Title:    item.Title,
			Status:   item.Status,
			Priority: item.Priority,
			Position: item.Position,
			Progress: item.Progress,
			Cycle:    cycle,
			Children: []*models.ItemTreeNode{},
		}
		byID[item.ID] = node

		if cycle || item.ParentID == nil {
			roots = append(roots, node)
			return
		}
		if parent, ok := byID[*item.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			// parent paginated away or missing: promote, don't drop
			roots = append(roots, node)
		}
	})

	s.logger.Info("item tree built", "project_id", projectID, "item_count", len(items))
	return roots, nil
}

// GetFileTree rebuilds the nested folder/file tree, folders first
// within every sibling group.
func (s *treeService) GetFileTree(ctx context.Context, projectID string) ([]*models.FileTreeNode, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	files, err := s.fileRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.FileTreeNode, len(files))
	roots := make([]*models.FileTreeNode, 0)

	hierarchy.Walk(files, func(file models.File, depth int, cycle bool) {
		node := &models.FileTreeNode{
			ID:        file.ID,
			ParentID:  file.ParentID,
			Name:      file.Name,
			IsFolder:  file.IsFolder,
			Position:  file.Position,
			Size:      file.Size,
			UpdatedAt: file.UpdatedAt,
			Cycle:     cycle,
			Children:  []*models.FileTreeNode{},
		}
		byID[file.ID] = node

		if cycle || file.ParentID == nil {
			roots = append(roots, node)
			return
		}
		if parent, ok := byID[*file.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
	})

	s.logger.Info("file tree built", "project_id", projectID, "file_count", len(files))
	return roots, nil
}

// GetBoard partitions the project's items into the fixed kanban columns
func (s *treeService) GetBoard(ctx context.Context, projectID string) ([]view.BoardColumn, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByProject(ctx, projectID, repositories.WorkItemFilter{})
	if err != nil {
		return nil, err
	}

	return view.Board(items), nil
}
