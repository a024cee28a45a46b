package services

import (
	"context"
	"io"

	"cadence/internal/domain/models"
	"cadence/internal/hierarchy"
	"cadence/internal/httputil"
)

// FileService handles the file/folder hierarchy, blob storage, and
// version history.
type FileService interface {
	// CreateFolder creates a folder node. Sibling names must be unique
	// within the parent.
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.File, error)

	// Upload stores a new file's bytes and its first version row.
	Upload(ctx context.Context, req *UploadRequest) (*models.File, error)

	// UploadVersion stores the next version of an existing file and
	// points the file row at it.
	UploadVersion(ctx context.Context, fileID string, req *UploadRequest) (*models.File, error)

	// GetFile retrieves a file with its version history embedded.
	GetFile(ctx context.Context, id string) (*FileDetail, error)

	// UpdateFile renames, moves (tri-state parent_id), or re-describes
	// a node.
	UpdateFile(ctx context.Context, id string, req *UpdateFileRequest) (*models.File, error)

	// DeleteFile deletes a node. Folders are blocked with a conflict
	// while children remain.
	DeleteFile(ctx context.Context, id string) error

	// ListChildren returns the ordered immediate children of a folder
	// (nil = project root).
	ListChildren(ctx context.Context, projectID string, parentID *string) ([]models.File, error)

	// MoveFile swaps the node's position with its adjacent sibling;
	// boundary moves are silent no-ops.
	MoveFile(ctx context.Context, id string, dir hierarchy.Direction) error

	// Download opens version (0 = latest) of a file for streaming.
	// The caller closes the reader.
	Download(ctx context.Context, id string, version int) (*DownloadResult, error)
}

// FileDetail is a file with its version history embedded.
type FileDetail struct {
	models.File
	Versions []models.FileVersion `json:"versions"`
}

// DownloadResult carries the stream plus the headers' worth of
// metadata: filename hint, content type, and length.
type DownloadResult struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.ReadCloser
}

type CreateFolderRequest struct {
	ProjectID string                 `json:"project_id"`
	ParentID  *string                `json:"parent_id,omitempty"`
	Name      string                 `json:"name"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`

	CreatedBy string `json:"-"`
}

// UploadRequest carries one file upload. Content is streamed to
// storage, never buffered whole.
type UploadRequest struct {
	ProjectID   string
	ParentID    *string
	Name        string
	ContentType string
	Description string
	Content     io.Reader
	UploadedBy  string
}

type UpdateFileRequest struct {
	Name        *string                 `json:"name,omitempty"`
	ParentID    httputil.OptionalString `json:"parent_id,omitzero"`
	Description *string                 `json:"description,omitempty"`
	Metadata    map[string]interface{}  `json:"metadata,omitempty"`
}
