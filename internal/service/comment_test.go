package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"cadence/internal/domain"
	"cadence/internal/domain/models"
	"cadence/internal/domain/services"
)

type commentFixture struct {
	svc      services.CommentService
	itemRepo *fakeItemRepo
	notifier *fakeNotifier
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	itemRepo := newFakeItemRepo()
	fileRepo := newFakeFileRepo()
	projectRepo := &fakeProjectRepo{projects: map[string]*models.Project{
		"p1": {ID: "p1", Key: "DEMO", Name: "Demo", CreatedBy: "owner-1"},
	}}
	notifier := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewCommentService(&fakeCommentRepo{}, itemRepo, fileRepo, projectRepo, notifier, logger)
	return &commentFixture{svc: svc, itemRepo: itemRepo, notifier: notifier}
}

func TestCreateCommentNotifiesItemAssignee(t *testing.T) {
	f := newCommentFixture(t)
	item := models.WorkItem{
		ID: "task", ProjectID: "p1", Type: models.ItemTypeTask, Title: "Fix login",
		Status: models.StatusActive, Priority: models.PriorityMedium,
		AssigneeID: strPtr("user-2"), CreatedBy: "user-1",
	}
	if err := f.itemRepo.Create(context.Background(), &item); err != nil {
		t.Fatalf("seed item: %v", err)
	}

	comment, err := f.svc.CreateComment(context.Background(), &services.CreateCommentRequest{
		EntityType: models.CommentOnWorkItem,
		EntityID:   "task",
		Body:       "  looks good  ",
		AuthorID:   "user-3",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if comment.Body != "looks good" {
		t.Errorf("body = %q, want trimmed", comment.Body)
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("notifications = %d, want 1", len(f.notifier.sent))
	}
	sent := f.notifier.sent[0]
	if sent.UserID != "user-2" || sent.Kind != models.NotifyCommented {
		t.Errorf("notification = %+v, want COMMENTED for the assignee", sent)
	}
}

func TestCreateCommentSkipsSelfNotification(t *testing.T) {
	f := newCommentFixture(t)
	item := models.WorkItem{
		ID: "task", ProjectID: "p1", Type: models.ItemTypeTask, Title: "Fix login",
		Status: models.StatusActive, Priority: models.PriorityMedium,
		AssigneeID: strPtr("user-2"), CreatedBy: "user-1",
	}
	if err := f.itemRepo.Create(context.Background(), &item); err != nil {
		t.Fatalf("seed item: %v", err)
	}

	_, err := f.svc.CreateComment(context.Background(), &services.CreateCommentRequest{
		EntityType: models.CommentOnWorkItem,
		EntityID:   "task",
		Body:       "note to self",
		AuthorID:   "user-2",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if len(f.notifier.sent) != 0 {
		t.Errorf("notifications = %d, want 0 when the author owns the entity", len(f.notifier.sent))
	}
}

func TestCreateCommentValidation(t *testing.T) {
	f := newCommentFixture(t)

	tests := []struct {
		name    string
		req     services.CreateCommentRequest
		wantErr error
	}{
		{"unknown entity type", services.CreateCommentRequest{EntityType: "wiki", EntityID: "x", Body: "b"}, domain.ErrValidation},
		{"missing body", services.CreateCommentRequest{EntityType: models.CommentOnWorkItem, EntityID: "x"}, domain.ErrValidation},
		{"missing target", services.CreateCommentRequest{EntityType: models.CommentOnWorkItem, EntityID: "ghost", Body: "b"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.CreateComment(context.Background(), &req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCommentAuthorOnlyEdits(t *testing.T) {
	f := newCommentFixture(t)

	comment, err := f.svc.CreateComment(context.Background(), &services.CreateCommentRequest{
		EntityType: models.CommentOnProject,
		EntityID:   "p1",
		Body:       "kickoff notes",
		AuthorID:   "user-1",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	_, err = f.svc.UpdateComment(context.Background(), comment.ID, &services.UpdateCommentRequest{
		Body:       "hijacked",
		ActingUser: "user-2",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-author edit: err = %v, want ErrForbidden", err)
	}

	if err := f.svc.DeleteComment(context.Background(), comment.ID, "user-2"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-author delete: err = %v, want ErrForbidden", err)
	}

	updated, err := f.svc.UpdateComment(context.Background(), comment.ID, &services.UpdateCommentRequest{
		Body:       "kickoff notes, revised",
		ActingUser: "user-1",
	})
	if err != nil {
		t.Fatalf("author edit: %v", err)
	}
	if updated.Body != "kickoff notes, revised" {
		t.Errorf("body = %q, want the revision", updated.Body)
	}
	if err := f.svc.DeleteComment(context.Background(), comment.ID, "user-1"); err != nil {
		t.Fatalf("author delete: %v", err)
	}
}
