package models

import "time"

// ItemTreeNode is one work item in the nested project tree.
// Children carry the sibling ordering computed by the materializer.
type ItemTreeNode struct {
	ID       string       `json:"id"`
	ParentID *string      `json:"parent_id"`
	Type     ItemType     `json:"type"`
	Title    string       `json:"title"`
	Status   ItemStatus   `json:"status"`
	Priority ItemPriority `json:"priority"`
	Position int          `json:"position"`
	Progress int          `json:"progress"`
	// Cycle marks a node whose ancestry loops back on itself. The
	// subtree below it is not expanded; the renderer shows an error
	// marker instead of recursing forever.
	Cycle    bool            `json:"cycle,omitempty"`
	Children []*ItemTreeNode `json:"children"`
}

// FileTreeNode is one folder or file in the nested project file tree.
type FileTreeNode struct {
	ID        string          `json:"id"`
	ParentID  *string         `json:"parent_id"`
	Name      string          `json:"name"`
	IsFolder  bool            `json:"is_folder"`
	Position  int             `json:"position"`
	Size      int64           `json:"size"`
	UpdatedAt time.Time       `json:"updated_at"`
	Cycle     bool            `json:"cycle,omitempty"`
	Children  []*FileTreeNode `json:"children"`
}
