package models

// Hierarchy node accessors. WorkItem and File both satisfy the
// materializer's Node interface; the methods keep the flat storage
// shape (id + parent_id + position) behind a uniform surface.

func (w WorkItem) NodeID() string        { return w.ID }
func (w WorkItem) NodeParentID() *string { return w.ParentID }
func (w WorkItem) OrderKey() int         { return w.Position }
func (w WorkItem) DisplayName() string   { return w.Title }

// Container is always false for work items: every type may own children
// per the compatibility table, so ordering is position-only.
func (w WorkItem) Container() bool { return false }

func (f File) NodeID() string        { return f.ID }
func (f File) NodeParentID() *string { return f.ParentID }
func (f File) OrderKey() int         { return f.Position }
func (f File) DisplayName() string   { return f.Name }

// Container reports folders, which sort before files among siblings.
func (f File) Container() bool { return f.IsFolder }
