package models

import (
	"time"
)

// File is one node of the per-project file hierarchy. Folders and files
// share the table; IsFolder discriminates. Only folders may have children.
type File struct {
	ID        string  `json:"id" db:"id"`
	ProjectID string  `json:"project_id" db:"project_id"`
	ParentID  *string `json:"parent_id" db:"parent_id"` // NULL = root level
	IsFolder  bool    `json:"is_folder" db:"is_folder"`
	Name      string  `json:"name" db:"name"`
	// Position orders siblings. Folders sort before files regardless of
	// position; within each group position ascends, name breaks ties.
	Position    int                    `json:"position" db:"position"`
	Size        int64                  `json:"size" db:"size"`
	ContentType string                 `json:"content_type" db:"content_type"`
	StoragePath string                 `json:"-" db:"storage_path"` // backend path, never exposed
	Description string                 `json:"description" db:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	UploadedBy  string                 `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt   time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at" db:"updated_at"`
}

// FileVersion is one stored revision of a non-folder file. Version numbers
// start at 1 and increase by one per upload; the File row always mirrors
// the newest version's size and storage path.
type FileVersion struct {
	ID          string    `json:"id" db:"id"`
	FileID      string    `json:"file_id" db:"file_id"`
	Version     int       `json:"version" db:"version"`
	Size        int64     `json:"size" db:"size"`
	StoragePath string    `json:"-" db:"storage_path"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
