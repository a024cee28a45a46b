package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"cadence/internal/config"
	"cadence/internal/domain"
	"cadence/internal/domain/models"
	"cadence/internal/domain/repositories"
	"cadence/internal/domain/services"
	"cadence/internal/hierarchy"

	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var fileNamePattern = regexp.MustCompile(`^[^/]+$`)

type fileService struct {
	fileRepo    repositories.FileRepository
	projectRepo repositories.ProjectRepository
	storageDir  string
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewFileService creates a new file service. Blobs are stored on local
// disk under storageDir; the database rows carry only the paths.
func NewFileService(
	fileRepo repositories.FileRepository,
	projectRepo repositories.ProjectRepository,
	storageDir string,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FileService {
	return &fileService{
		fileRepo:    fileRepo,
		projectRepo: projectRepo,
		storageDir:  storageDir,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateFolder creates a folder node
func (s *fileService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.File, error) {
	req.Name = strings.TrimSpace(req.Name)

	if err := validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFileNameLength),
			validation.Match(fileNamePattern).Error("name cannot contain slashes"),
		),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validateOpaqueMap("metadata", req.Metadata); err != nil {
		return nil, err
	}

	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	if err := s.checkParentFolder(ctx, req.ProjectID, req.ParentID); err != nil {
		return nil, err
	}
	if err := s.checkSiblingName(ctx, req.ProjectID, req.ParentID, req.Name, ""); err != nil {
		return nil, err
	}

	maxPos, err := s.fileRepo.MaxPosition(ctx, req.ProjectID, req.ParentID)
	if err != nil {
		return nil, fmt.Errorf("compute position: %w", err)
	}

	now := time.Now()
	folder := &models.File{
		ID:         uuid.NewString(),
		ProjectID:  req.ProjectID,
		ParentID:   req.ParentID,
		IsFolder:   true,
		Name:       req.Name,
		Position:   maxPos + 1,
		Metadata:   req.Metadata,
		UploadedBy: req.CreatedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.fileRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created", "id", folder.ID, "name", folder.Name, "project_id", req.ProjectID)
	return folder, nil
}

// Upload stores a new file and its first version
func (s *fileService) Upload(ctx context.Context, req *services.UploadRequest) (*models.File, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validateUpload(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	if err := s.checkParentFolder(ctx, req.ProjectID, req.ParentID); err != nil {
		return nil, err
	}
	if err := s.checkSiblingName(ctx, req.ProjectID, req.ParentID, req.Name, ""); err != nil {
		return nil, err
	}

	storagePath, size, err := s.storeBlob(req.Content)
	if err != nil {
		return nil, err
	}

	maxPos, err := s.fileRepo.MaxPosition(ctx, req.ProjectID, req.ParentID)
	if err != nil {
		return nil, fmt.Errorf("compute position: %w", err)
	}

	now := time.Now()
	file := &models.File{
		ID:          uuid.NewString(),
		ProjectID:   req.ProjectID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Position:    maxPos + 1,
		Size:        size,
		ContentType: req.ContentType,
		StoragePath: storagePath,
		Description: req.Description,
		UploadedBy:  req.UploadedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	version := &models.FileVersion{
		ID:          uuid.NewString(),
		FileID:      file.ID,
		Version:     1,
		Size:        size,
		StoragePath: storagePath,
		UploadedBy:  req.UploadedBy,
		CreatedAt:   now,
	}

	// File row and version row land together or not at all
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.fileRepo.Create(txCtx, file); err != nil {
			return err
		}
		return s.fileRepo.CreateVersion(txCtx, version)
	})
	if err != nil {
		s.discardBlob(storagePath)
		return nil, err
	}

	s.logger.Info("file uploaded",
		"id", file.ID,
		"name", file.Name,
		"size", size,
		"project_id", req.ProjectID,
	)
	return file, nil
}

// UploadVersion stores the next version of an existing file
func (s *fileService) UploadVersion(ctx context.Context, fileID string, req *services.UploadRequest) (*models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.IsFolder {
		return nil, fmt.Errorf("%w: folders have no versions", domain.ErrValidation)
	}

	storagePath, size, err := s.storeBlob(req.Content)
	if err != nil {
		return nil, err
	}

	latest, err := s.fileRepo.LatestVersion(ctx, fileID)
	if err != nil {
		s.discardBlob(storagePath)
		return nil, fmt.Errorf("latest version: %w", err)
	}

	now := time.Now()
	version := &models.FileVersion{
		ID:          uuid.NewString(),
		FileID:      fileID,
		Version:     latest + 1,
		Size:        size,
		StoragePath: storagePath,
		UploadedBy:  req.UploadedBy,
		CreatedAt:   now,
	}

	file.Size = size
	file.StoragePath = storagePath
	if req.ContentType != "" {
		file.ContentType = req.ContentType
	}
	file.UpdatedAt = now

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.fileRepo.CreateVersion(txCtx, version); err != nil {
			return err
		}
		return s.fileRepo.Update(txCtx, file)
	})
	if err != nil {
		s.discardBlob(storagePath)
		return nil, err
	}

	s.logger.Info("file version uploaded", "id", fileID, "version", version.Version, "size", size)
	return file, nil
}

// GetFile retrieves a file with its version history
func (s *fileService) GetFile(ctx context.Context, id string) (*services.FileDetail, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var versions []models.FileVersion
	if !file.IsFolder {
		versions, err = s.fileRepo.ListVersions(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("list versions: %w", err)
		}
	}

	return &services.FileDetail{File: *file, Versions: versions}, nil
}

// UpdateFile renames, moves, or re-describes a node
func (s *fileService) UpdateFile(ctx context.Context, id string, req *services.UpdateFileRequest) (*models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > config.MaxFileNameLength || !fileNamePattern.MatchString(name) {
			return nil, fmt.Errorf("%w: invalid name %q", domain.ErrValidation, name)
		}
		file.Name = name
	}
	if req.Description != nil {
		file.Description = *req.Description
	}
	if req.Metadata != nil {
		if err := validateOpaqueMap("metadata", req.Metadata); err != nil {
			return nil, err
		}
		file.Metadata = req.Metadata
	}

	// Tri-state: only move when the field was present
	if req.ParentID.Present {
		if req.ParentID.Value != nil {
			if err := s.checkParentFolder(ctx, file.ProjectID, req.ParentID.Value); err != nil {
				return nil, err
			}
			if err := s.checkNoFolderCycle(ctx, id, *req.ParentID.Value); err != nil {
				return nil, err
			}
		}
		if !sameParent(file.ParentID, req.ParentID.Value) {
			file.ParentID = req.ParentID.Value
			maxPos, err := s.fileRepo.MaxPosition(ctx, file.ProjectID, file.ParentID)
			if err != nil {
				return nil, fmt.Errorf("compute position: %w", err)
			}
			file.Position = maxPos + 1
		}
	}

	if req.Name != nil || req.ParentID.Present {
		if err := s.checkSiblingName(ctx, file.ProjectID, file.ParentID, file.Name, file.ID); err != nil {
			return nil, err
		}
	}

	file.UpdatedAt = time.Now()

	if err := s.fileRepo.Update(ctx, file); err != nil {
		return nil, err
	}

	s.logger.Info("file updated", "id", file.ID, "name", file.Name)
	return file, nil
}

// DeleteFile deletes a node; folders are blocked while children remain
func (s *fileService) DeleteFile(ctx context.Context, id string) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if file.IsFolder {
		childCount, err := s.fileRepo.CountChildren(ctx, id)
		if err != nil {
			return fmt.Errorf("count children: %w", err)
		}
		if childCount > 0 {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("cannot delete folder %q: %d item(s) still inside", file.Name, childCount),
				ResourceType: "file",
				ResourceID:   id,
			}
		}
	}

	versions, err := s.fileRepo.ListVersions(ctx, id)
	if err != nil {
		return fmt.Errorf("list versions: %w", err)
	}

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Blobs go after the row; a leaked blob is recoverable, a dangling
	// row is not
	for _, v := range versions {
		s.discardBlob(v.StoragePath)
	}

	s.logger.Info("file deleted", "id", id, "name", file.Name, "is_folder", file.IsFolder)
	return nil
}

// ListChildren returns the ordered immediate children of a folder
func (s *fileService) ListChildren(ctx context.Context, projectID string, parentID *string) ([]models.File, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.checkParentFolder(ctx, projectID, parentID); err != nil {
		return nil, err
	}

	children, err := s.fileRepo.ListChildren(ctx, projectID, parentID)
	if err != nil {
		return nil, err
	}
	return hierarchy.BuildChildren(children, parentID), nil
}

// MoveFile swaps positions with the adjacent sibling
func (s *fileService) MoveFile(ctx context.Context, id string, dir hierarchy.Direction) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	siblings, err := s.fileRepo.ListChildren(ctx, file.ProjectID, file.ParentID)
	if err != nil {
		return fmt.Errorf("list siblings: %w", err)
	}

	self, neighbor, ok, err := hierarchy.Neighbor(siblings, id, dir)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Debug("move is a no-op at boundary", "id", id, "direction", dir)
		return nil
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.fileRepo.SwapPositions(txCtx, &self, &neighbor)
	})
	if err != nil {
		return fmt.Errorf("swap positions: %w", err)
	}

	s.logger.Info("file moved", "id", id, "direction", dir, "swapped_with", neighbor.ID)
	return nil
}

// Download opens a version (0 = latest) for streaming
func (s *fileService) Download(ctx context.Context, id string, versionNum int) (*services.DownloadResult, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if file.IsFolder {
		return nil, fmt.Errorf("%w: folders cannot be downloaded", domain.ErrValidation)
	}

	storagePath := file.StoragePath
	size := file.Size
	if versionNum > 0 {
		version, err := s.fileRepo.GetVersion(ctx, id, versionNum)
		if err != nil {
			return nil, err
		}
		storagePath = version.StoragePath
		size = version.Size
	}

	reader, err := os.Open(storagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file blob %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &services.DownloadResult{
		Name:        file.Name,
		ContentType: contentType,
		Size:        size,
		Reader:      reader,
	}, nil
}

// storeBlob streams content to a fresh file under the storage dir,
// enforcing the upload size cap.
func (s *fileService) storeBlob(content io.Reader) (string, int64, error) {
	if err := os.MkdirAll(s.storageDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create storage dir: %w", err)
	}

	path := filepath.Join(s.storageDir, uuid.NewString())
	out, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create blob: %w", err)
	}
	defer out.Close()

	size, err := io.Copy(out, io.LimitReader(content, config.MaxUploadBytes+1))
	if err != nil {
		s.discardBlob(path)
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	if size > config.MaxUploadBytes {
		s.discardBlob(path)
		return "", 0, fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrValidation, config.MaxUploadBytes)
	}

	return path, size, nil
}

func (s *fileService) discardBlob(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove blob", "path", path, "error", err)
	}
}

// checkParentFolder verifies the parent exists, shares the project, and
// is a folder. Non-folders cannot have children.
func (s *fileService) checkParentFolder(ctx context.Context, projectID string, parentID *string) error {
	if parentID == nil {
		return nil
	}
	parent, err := s.fileRepo.GetByID(ctx, *parentID)
	if err != nil {
		return fmt.Errorf("parent folder: %w", err)
	}
	if parent.ProjectID != projectID {
		return fmt.Errorf("%w: parent folder belongs to a different project", domain.ErrValidation)
	}
	if !parent.IsFolder {
		return fmt.Errorf("%w: %q is not a folder", domain.ErrValidation, parent.Name)
	}
	return nil
}

// checkSiblingName enforces name uniqueness within a sibling group.
// selfID excludes the node being renamed.
func (s *fileService) checkSiblingName(ctx context.Context, projectID string, parentID *string, name, selfID string) error {
	siblings, err := s.fileRepo.ListChildren(ctx, projectID, parentID)
	if err != nil {
		return fmt.Errorf("check sibling names: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.ID != selfID && strings.EqualFold(sibling.Name, name) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("an entry named %q already exists in this location", name),
				ResourceType: "file",
				ResourceID:   sibling.ID,
				Field:        "name",
			}
		}
	}
	return nil
}

// checkNoFolderCycle ensures moving a folder cannot place it under its
// own descendant.
func (s *fileService) checkNoFolderCycle(ctx context.Context, fileID, newParentID string) error {
	if fileID == newParentID {
		return fmt.Errorf("%w: cannot move a folder into itself", domain.ErrValidation)
	}

	seen := map[string]bool{}
	currentID := newParentID
	for {
		if seen[currentID] {
			return fmt.Errorf("%w: parent chain contains a cycle", domain.ErrValidation)
		}
		seen[currentID] = true
		current, err := s.fileRepo.GetByID(ctx, currentID)
		if err != nil {
			return err
		}
		if current.ParentID == nil {
			return nil
		}
		if *current.ParentID == fileID {
			return fmt.Errorf("%w: cannot move a folder under its own descendant", domain.ErrValidation)
		}
		currentID = *current.ParentID
	}
}

func (s *fileService) validateUpload(req *services.UploadRequest) error {
	if req.Name == "" || len(req.Name) > config.MaxFileNameLength {
		return fmt.Errorf("invalid file name")
	}
	if !fileNamePattern.MatchString(req.Name) {
		return fmt.Errorf("file name cannot contain slashes")
	}
	if req.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if req.Content == nil {
		return fmt.Errorf("file content is required")
	}
	return nil
}
