package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"

	"cadence/internal/domain"
	"cadence/internal/domain/models"
	"cadence/internal/domain/repositories"
	"cadence/internal/domain/services"
	"cadence/internal/hierarchy"
	"cadence/internal/httputil"
	"cadence/internal/itemtype"
)

// fakeItemRepo is an in-memory WorkItemRepository that records the
// position swaps issued against it.
type fakeItemRepo struct {
	items map[string]*models.WorkItem
	order []string // insertion order, stands in for storage order
	swaps [][2]string
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]*models.WorkItem)}
}

func (r *fakeItemRepo) Create(_ context.Context, item *models.WorkItem) error {
	copied := *item
	r.items[item.ID] = &copied
	r.order = append(r.order, item.ID)
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*models.WorkItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("work item %s: %w", id, domain.ErrNotFound)
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *models.WorkItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("work item %s: %w", item.ID, domain.ErrNotFound)
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("work item %s: %w", id, domain.ErrNotFound)
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeItemRepo) ListByProject(_ context.Context, projectID string, filter repositories.WorkItemFilter) ([]models.WorkItem, error) {
	var out []models.WorkItem
	for _, id := range r.order {
		item := r.items[id]
		if item.ProjectID != projectID {
			continue
		}
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.SprintID != nil && !sameParent(item.SprintID, filter.SprintID) {
			continue
		}
		if filter.Assignee != nil && !sameParent(item.AssigneeID, filter.Assignee) {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeItemRepo) ListSiblings(_ context.Context, projectID string, parentID *string) ([]models.WorkItem, error) {
	var out []models.WorkItem
	for _, id := range r.order {
		item := r.items[id]
		if item.ProjectID == projectID && sameParent(item.ParentID, parentID) {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) CountChildren(_ context.Context, id string) (int, error) {
	count := 0
	for _, item := range r.items {
		if item.ParentID != nil && *item.ParentID == id {
			count++
		}
	}
	return count, nil
}

func (r *fakeItemRepo) MaxPosition(_ context.Context, projectID string, parentID *string) (int, error) {
	max := -1
	for _, item := range r.items {
		if item.ProjectID == projectID && sameParent(item.ParentID, parentID) && item.Position > max {
			max = item.Position
		}
	}
	return max, nil
}

func (r *fakeItemRepo) SwapPositions(_ context.Context, a, b *models.WorkItem) error {
	r.swaps = append(r.swaps, [2]string{a.ID, b.ID})
	r.items[a.ID].Position, r.items[b.ID].Position = b.Position, a.Position
	a.Position, b.Position = b.Position, a.Position
	return nil
}

func (r *fakeItemRepo) CountByProject(_ context.Context, projectID string) (int, error) {
	count := 0
	for _, item := range r.items {
		if item.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

type fakeProjectRepo struct {
	projects map[string]*models.Project
}

func (r *fakeProjectRepo) Create(_ context.Context, p *models.Project) error {
	r.projects[p.ID] = p
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id string) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (r *fakeProjectRepo) GetByKey(_ context.Context, key string) (*models.Project, error) {
	for _, p := range r.projects {
		if p.Key == key {
			return p, nil
		}
	}
	return nil, fmt.Errorf("project key %s: %w", key, domain.ErrNotFound)
}

func (r *fakeProjectRepo) Update(_ context.Context, p *models.Project) error { return nil }
func (r *fakeProjectRepo) Delete(_ context.Context, id string) error         { return nil }
func (r *fakeProjectRepo) List(_ context.Context, _ *string) ([]models.Project, error) {
	return nil, nil
}

type fakeCommentRepo struct {
	comments []models.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, c *models.Comment) error {
	r.comments = append(r.comments, *c)
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	for _, c := range r.comments {
		if c.ID == id {
			copied := c
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
}

func (r *fakeCommentRepo) Update(_ context.Context, c *models.Comment) error {
	for i := range r.comments {
		if r.comments[i].ID == c.ID {
			r.comments[i] = *c
			return nil
		}
	}
	return fmt.Errorf("comment %s: %w", c.ID, domain.ErrNotFound)
}

func (r *fakeCommentRepo) Delete(_ context.Context, id string) error {
	for i := range r.comments {
		if r.comments[i].ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
}

func (r *fakeCommentRepo) ListByEntity(_ context.Context, entityType models.CommentEntityType, entityID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.EntityType == entityType && c.EntityID == entityID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	sent []models.Notification
}

func (n *fakeNotifier) Notify(_ context.Context, notif *models.Notification) error {
	n.sent = append(n.sent, *notif)
	return nil
}
func (n *fakeNotifier) ListNotifications(_ context.Context, _ string, _ bool) ([]models.Notification, error) {
	return nil, nil
}
func (n *fakeNotifier) MarkRead(_ context.Context, _, _ string) error  { return nil }
func (n *fakeNotifier) MarkAllRead(_ context.Context, _ string) error { return nil }

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error { return fn(ctx) }

type itemFixture struct {
	svc      services.WorkItemService
	itemRepo *fakeItemRepo
	notifier *fakeNotifier
}

func newItemFixture(t *testing.T) *itemFixture {
	t.Helper()
	registry, err := itemtype.NewRegistry()
	if err != nil {
		t.Fatalf("load type registry: %v", err)
	}
	itemRepo := newFakeItemRepo()
	projectRepo := &fakeProjectRepo{projects: map[string]*models.Project{
		"p1": {ID: "p1", Key: "DEMO", Name: "Demo"},
		"p2": {ID: "p2", Key: "OTHER", Name: "Other"},
	}}
	notifier := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewWorkItemService(itemRepo, projectRepo, &fakeCommentRepo{}, registry, notifier, fakeTxManager{}, logger)
	return &itemFixture{svc: svc, itemRepo: itemRepo, notifier: notifier}
}

// seed inserts an item directly into the repo, bypassing service
// validation, so tests can lay out arbitrary starting states.
func (f *itemFixture) seed(t *testing.T, item models.WorkItem) models.WorkItem {
	t.Helper()
	if item.Status == "" {
		item.Status = models.StatusActive
	}
	if item.Priority == "" {
		item.Priority = models.PriorityMedium
	}
	if err := f.itemRepo.Create(context.Background(), &item); err != nil {
		t.Fatalf("seed %s: %v", item.ID, err)
	}
	return item
}

func strPtr(s string) *string { return &s }
func numPtr(n int) *int       { return &n }

func TestCreateItemDefaultsAndPosition(t *testing.T) {
	f := newItemFixture(t)
	f.seed(t, models.WorkItem{ID: "r0", ProjectID: "p1", Type: models.ItemTypeInitiative, Title: "First", Position: 0})
	f.seed(t, models.WorkItem{ID: "r1", ProjectID: "p1", Type: models.ItemTypeInitiative, Title: "Second", Position: 1})

	item, err := f.svc.CreateItem(context.Background(), &services.CreateItemRequest{
		ProjectID: "p1",
		Type:      models.ItemTypeInitiative,
		Title:     "  Platform rebuild  ",
		CreatedBy: "user-1",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Status != models.StatusActive {
		t.Errorf("status = %q, want %q", item.Status, models.StatusActive)
	}
	if item.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want %q", item.Priority, models.PriorityMedium)
	}
	if item.Title != "Platform rebuild" {
		t.Errorf("title = %q, want trimmed", item.Title)
	}
	if item.Position != 2 {
		t.Errorf("position = %d, want 2 (appended after existing siblings)", item.Position)
	}
	if item.ID == "" {
		t.Error("expected a generated id")
	}
}

func TestCreateItemValidation(t *testing.T) {
	f := newItemFixture(t)

	tests := []struct {
		name string
		req  services.CreateItemRequest
	}{
		{"missing title", services.CreateItemRequest{ProjectID: "p1", Type: models.ItemTypeTask}},
		{"unknown type", services.CreateItemRequest{ProjectID: "p1", Type: "WIDGET", Title: "x"}},
		{"invalid status", services.CreateItemRequest{ProjectID: "p1", Type: models.ItemTypeTask, Title: "x", Status: "DONE"}},
		{"invalid priority", services.CreateItemRequest{ProjectID: "p1", Type: models.ItemTypeTask, Title: "x", Priority: "URGENT"}},
		{"effort below range", services.CreateItemRequest{ProjectID: "p1", Type: models.ItemTypeTask, Title: "x", Effort: numPtr(0)}},
		{"effort above range", services.CreateItemRequest{ProjectID: "p1", Type: models.ItemTypeTask, Title: "x", Effort: numPtr(11)}},
		{"business value above range", services.CreateItemRequest{ProjectID: "p1", Type: models.ItemTypeTask, Title: "x", BusinessValue: numPtr(12)}},
		{"progress above range", services.CreateItemRequest{ProjectID: "p1", Type: models.ItemTypeTask, Title: "x", Progress: numPtr(101)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.CreateItem(context.Background(), &req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateItemParentCompatibility(t *testing.T) {
	f := newItemFixture(t)
	story := f.seed(t, models.WorkItem{ID: "story", ProjectID: "p1", Type: models.ItemTypeUserStory, Title: "Story"})
	task := f.seed(t, models.WorkItem{ID: "task", ProjectID: "p1", ParentID: strPtr(story.ID), Type: models.ItemTypeTask, Title: "Task"})
	otherProject := f.seed(t, models.WorkItem{ID: "foreign", ProjectID: "p2", Type: models.ItemTypeUserStory, Title: "Elsewhere"})

	created, err := f.svc.CreateItem(context.Background(), &services.CreateItemRequest{
		ProjectID: "p1", Type: models.ItemTypeTask, Title: "Under story", ParentID: strPtr(story.ID),
	})
	if err != nil {
		t.Fatalf("task under user story: %v", err)
	}
	if created.ParentID == nil || *created.ParentID != story.ID {
		t.Errorf("parent = %v, want %s", created.ParentID, story.ID)
	}

	_, err = f.svc.CreateItem(context.Background(), &services.CreateItemRequest{
		ProjectID: "p1", Type: models.ItemTypeTask, Title: "Under task", ParentID: strPtr(task.ID),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("task under task: err = %v, want ErrValidation", err)
	}

	_, err = f.svc.CreateItem(context.Background(), &services.CreateItemRequest{
		ProjectID: "p1", Type: models.ItemTypeTask, Title: "Cross project", ParentID: strPtr(otherProject.ID),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("parent in other project: err = %v, want ErrValidation", err)
	}

	_, err = f.svc.CreateItem(context.Background(), &services.CreateItemRequest{
		ProjectID: "p1", Type: models.ItemTypeTask, Title: "Ghost parent", ParentID: strPtr("missing"),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing parent: err = %v, want ErrNotFound", err)
	}
}

func TestCreateItemAssignmentNotification(t *testing.T) {
	f := newItemFixture(t)

	_, err := f.svc.CreateItem(context.Background(), &services.CreateItemRequest{
		ProjectID:  "p1",
		Type:       models.ItemTypeTask,
		Title:      "Assigned out",
		AssigneeID: strPtr("user-2"),
		CreatedBy:  "user-1",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("notifications sent = %d, want 1", len(f.notifier.sent))
	}
	sent := f.notifier.sent[0]
	if sent.UserID != "user-2" || sent.Kind != models.NotifyAssigned {
		t.Errorf("notification = %+v, want ASSIGNED for user-2", sent)
	}

	// Self-assignment is not notified.
	_, err = f.svc.CreateItem(context.Background(), &services.CreateItemRequest{
		ProjectID:  "p1",
		Type:       models.ItemTypeTask,
		Title:      "Self assigned",
		AssigneeID: strPtr("user-1"),
		CreatedBy:  "user-1",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if len(f.notifier.sent) != 1 {
		t.Errorf("notifications sent = %d, want still 1", len(f.notifier.sent))
	}
}

func TestMoveItemSwapsWithNeighbor(t *testing.T) {
	f := newItemFixture(t)
	f.seed(t, models.WorkItem{ID: "a", ProjectID: "p1", Type: models.ItemTypeTask, Title: "a", Position: 0})
	f.seed(t, models.WorkItem{ID: "b", ProjectID: "p1", Type: models.ItemTypeTask, Title: "b", Position: 1})
	f.seed(t, models.WorkItem{ID: "c", ProjectID: "p1", Type: models.ItemTypeTask, Title: "c", Position: 2})

	if err := f.svc.MoveItem(context.Background(), "b", hierarchy.DirectionUp); err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if len(f.itemRepo.swaps) != 1 {
		t.Fatalf("swaps = %d, want 1", len(f.itemRepo.swaps))
	}
	if got := f.itemRepo.swaps[0]; got != [2]string{"b", "a"} {
		t.Errorf("swap pair = %v, want [b a]", got)
	}
	if pos := f.itemRepo.items["b"].Position; pos != 0 {
		t.Errorf("b position = %d, want 0 after moving up", pos)
	}
	if pos := f.itemRepo.items["a"].Position; pos != 1 {
		t.Errorf("a position = %d, want 1 after being displaced", pos)
	}
	if pos := f.itemRepo.items["c"].Position; pos != 2 {
		t.Errorf("c position = %d, want untouched", pos)
	}
}

func TestMoveItemBoundaryNoOp(t *testing.T) {
	f := newItemFixture(t)
	f.seed(t, models.WorkItem{ID: "a", ProjectID: "p1", Type: models.ItemTypeTask, Title: "a", Position: 0})
	f.seed(t, models.WorkItem{ID: "b", ProjectID: "p1", Type: models.ItemTypeTask, Title: "b", Position: 1})

	if err := f.svc.MoveItem(context.Background(), "a", hierarchy.DirectionUp); err != nil {
		t.Fatalf("first item up: %v", err)
	}
	if err := f.svc.MoveItem(context.Background(), "b", hierarchy.DirectionDown); err != nil {
		t.Fatalf("last item down: %v", err)
	}
	if len(f.itemRepo.swaps) != 0 {
		t.Errorf("swaps = %d, want 0 for boundary moves", len(f.itemRepo.swaps))
	}
}

func TestMoveItemScopedToSiblingGroup(t *testing.T) {
	f := newItemFixture(t)
	story := f.seed(t, models.WorkItem{ID: "story", ProjectID: "p1", Type: models.ItemTypeUserStory, Title: "Story", Position: 0})
	f.seed(t, models.WorkItem{ID: "root2", ProjectID: "p1", Type: models.ItemTypeUserStory, Title: "Other", Position: 1})
	f.seed(t, models.WorkItem{ID: "child", ProjectID: "p1", ParentID: strPtr(story.ID), Type: models.ItemTypeTask, Title: "Only child", Position: 0})

	// The only member of its group has no neighbor in either direction.
	if err := f.svc.MoveItem(context.Background(), "child", hierarchy.DirectionDown); err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if len(f.itemRepo.swaps) != 0 {
		t.Errorf("swaps = %d, want 0; move must not cross into the root group", len(f.itemRepo.swaps))
	}
}

func TestMoveItemUnknown(t *testing.T) {
	f := newItemFixture(t)
	if err := f.svc.MoveItem(context.Background(), "nope", hierarchy.DirectionUp); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteItemBlockedByChildren(t *testing.T) {
	f := newItemFixture(t)
	epic := f.seed(t, models.WorkItem{ID: "epic", ProjectID: "p1", Type: models.ItemTypeEpic, Title: "Epic"})
	f.seed(t, models.WorkItem{ID: "feat", ProjectID: "p1", ParentID: strPtr(epic.ID), Type: models.ItemTypeFeature, Title: "Feature"})

	var conflict *domain.ConflictError
	err := f.svc.DeleteItem(context.Background(), "epic")
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
	if conflict.ResourceID != "epic" {
		t.Errorf("conflict resource id = %q, want epic", conflict.ResourceID)
	}

	// Retrying without removing the child conflicts again, identically.
	if err := f.svc.DeleteItem(context.Background(), "epic"); !errors.As(err, &conflict) {
		t.Errorf("second delete: err = %v, want ConflictError", err)
	}

	if err := f.svc.DeleteItem(context.Background(), "feat"); err != nil {
		t.Fatalf("delete leaf: %v", err)
	}
	if err := f.svc.DeleteItem(context.Background(), "epic"); err != nil {
		t.Fatalf("delete emptied parent: %v", err)
	}
	if err := f.svc.DeleteItem(context.Background(), "epic"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("delete gone item: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateItemReparent(t *testing.T) {
	f := newItemFixture(t)
	storyA := f.seed(t, models.WorkItem{ID: "storyA", ProjectID: "p1", Type: models.ItemTypeUserStory, Title: "Story A", Position: 0})
	storyB := f.seed(t, models.WorkItem{ID: "storyB", ProjectID: "p1", Type: models.ItemTypeUserStory, Title: "Story B", Position: 1})
	f.seed(t, models.WorkItem{ID: "t1", ProjectID: "p1", ParentID: strPtr(storyA.ID), Type: models.ItemTypeTask, Title: "Task 1", Position: 0})
	f.seed(t, models.WorkItem{ID: "t2", ProjectID: "p1", ParentID: strPtr(storyB.ID), Type: models.ItemTypeTask, Title: "Task 2", Position: 0})
	f.seed(t, models.WorkItem{ID: "t3", ProjectID: "p1", ParentID: strPtr(storyB.ID), Type: models.ItemTypeTask, Title: "Task 3", Position: 1})

	// Move t1 under storyB: it lands at the end of the new group.
	updated, err := f.svc.UpdateItem(context.Background(), "t1", &services.UpdateItemRequest{
		ParentID: httputil.OptionalString{Present: true, Value: strPtr(storyB.ID)},
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.ParentID == nil || *updated.ParentID != storyB.ID {
		t.Errorf("parent = %v, want %s", updated.ParentID, storyB.ID)
	}
	if updated.Position != 2 {
		t.Errorf("position = %d, want 2 (appended after t2, t3)", updated.Position)
	}

	// Absent parent field leaves the parent alone.
	updated, err = f.svc.UpdateItem(context.Background(), "t1", &services.UpdateItemRequest{
		Title: strPtr("Task 1 renamed"),
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.ParentID == nil || *updated.ParentID != storyB.ID {
		t.Errorf("parent changed by unrelated update: %v", updated.ParentID)
	}
	if updated.Position != 2 {
		t.Errorf("position changed by unrelated update: %d", updated.Position)
	}
}

func TestUpdateItemRejectsSelfParent(t *testing.T) {
	f := newItemFixture(t)
	f.seed(t, models.WorkItem{ID: "top", ProjectID: "p1", Type: models.ItemTypeFeature, Title: "Feature"})

	_, err := f.svc.UpdateItem(context.Background(), "top", &services.UpdateItemRequest{
		ParentID: httputil.OptionalString{Present: true, Value: strPtr("top")},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("self parent: err = %v, want ErrValidation", err)
	}
}

func TestUpdateItemRejectsCorruptParentChain(t *testing.T) {
	f := newItemFixture(t)
	// Two rows pointing at each other can only come from bad data, but
	// the ancestor walk must still terminate and refuse the move.
	f.seed(t, models.WorkItem{ID: "fa", ProjectID: "p1", Type: models.ItemTypeFeature, Title: "A", ParentID: strPtr("fb")})
	f.seed(t, models.WorkItem{ID: "fb", ProjectID: "p1", Type: models.ItemTypeFeature, Title: "B", ParentID: strPtr("fa")})
	f.seed(t, models.WorkItem{ID: "bug", ProjectID: "p1", Type: models.ItemTypeBug, Title: "Crash"})

	_, err := f.svc.UpdateItem(context.Background(), "bug", &services.UpdateItemRequest{
		ParentID: httputil.OptionalString{Present: true, Value: strPtr("fa")},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("move under cyclic chain: err = %v, want ErrValidation", err)
	}
}

func TestUpdateItemTriStateClears(t *testing.T) {
	f := newItemFixture(t)
	f.seed(t, models.WorkItem{
		ID: "task", ProjectID: "p1", Type: models.ItemTypeTask, Title: "Task",
		SprintID: strPtr("sprint-1"), AssigneeID: strPtr("user-2"),
	})

	updated, err := f.svc.UpdateItem(context.Background(), "task", &services.UpdateItemRequest{
		SprintID:   httputil.OptionalString{Present: true, Value: nil},
		AssigneeID: httputil.OptionalString{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.SprintID != nil {
		t.Errorf("sprint = %v, want cleared", *updated.SprintID)
	}
	if updated.AssigneeID != nil {
		t.Errorf("assignee = %v, want cleared", *updated.AssigneeID)
	}
}

func TestUpdateItemValidation(t *testing.T) {
	f := newItemFixture(t)
	f.seed(t, models.WorkItem{ID: "task", ProjectID: "p1", Type: models.ItemTypeTask, Title: "Task"})

	empty := ""
	badStatus := models.ItemStatus("DONE")
	tests := []struct {
		name string
		req  services.UpdateItemRequest
	}{
		{"empty title", services.UpdateItemRequest{Title: &empty}},
		{"invalid status", services.UpdateItemRequest{Status: &badStatus}},
		{"progress above range", services.UpdateItemRequest{Progress: numPtr(150)}},
		{"risk below range", services.UpdateItemRequest{TechnicalRisk: numPtr(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.UpdateItem(context.Background(), "task", &req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestAvailableParents(t *testing.T) {
	f := newItemFixture(t)
	f.seed(t, models.WorkItem{ID: "init", ProjectID: "p1", Type: models.ItemTypeInitiative, Title: "Init", Position: 0})
	f.seed(t, models.WorkItem{ID: "epic", ProjectID: "p1", Type: models.ItemTypeEpic, Title: "Epic", Position: 1})
	f.seed(t, models.WorkItem{ID: "story1", ProjectID: "p1", Type: models.ItemTypeUserStory, Title: "Beta story", Position: 2})
	f.seed(t, models.WorkItem{ID: "story2", ProjectID: "p1", Type: models.ItemTypeUserStory, Title: "Alpha story", Position: 3})
	f.seed(t, models.WorkItem{ID: "task", ProjectID: "p1", Type: models.ItemTypeTask, Title: "Task", Position: 4})

	parents, err := f.svc.AvailableParents(context.Background(), "p1", models.ItemTypeTask)
	if err != nil {
		t.Fatalf("AvailableParents: %v", err)
	}
	if len(parents) != 2 {
		t.Fatalf("parents = %d, want the 2 user stories", len(parents))
	}
	for _, p := range parents {
		if p.Type != models.ItemTypeUserStory {
			t.Errorf("candidate %s has type %s, want USER_STORY", p.ID, p.Type)
		}
	}

	// Top of the hierarchy takes no parent.
	parents, err = f.svc.AvailableParents(context.Background(), "p1", models.ItemTypeInitiative)
	if err != nil {
		t.Fatalf("AvailableParents: %v", err)
	}
	if len(parents) != 0 {
		t.Errorf("initiative parents = %d, want 0", len(parents))
	}

	if _, err := f.svc.AvailableParents(context.Background(), "p1", "WIDGET"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown type: err = %v, want ErrValidation", err)
	}
}

func TestGetItemIncludesOrderedChildren(t *testing.T) {
	f := newItemFixture(t)
	story := f.seed(t, models.WorkItem{ID: "story", ProjectID: "p1", Type: models.ItemTypeUserStory, Title: "Story"})
	f.seed(t, models.WorkItem{ID: "t2", ProjectID: "p1", ParentID: strPtr(story.ID), Type: models.ItemTypeTask, Title: "Second", Position: 1})
	f.seed(t, models.WorkItem{ID: "t1", ProjectID: "p1", ParentID: strPtr(story.ID), Type: models.ItemTypeTask, Title: "First", Position: 0})

	detail, err := f.svc.GetItem(context.Background(), "story")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if len(detail.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(detail.Children))
	}
	if detail.Children[0].ID != "t1" || detail.Children[1].ID != "t2" {
		t.Errorf("children order = [%s %s], want [t1 t2]", detail.Children[0].ID, detail.Children[1].ID)
	}
}
