package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"cadence/internal/domain"
	"cadence/internal/domain/models"
	"cadence/internal/domain/services"
	"cadence/internal/hierarchy"
	"cadence/internal/httputil"
)

// fakeFileRepo is an in-memory FileRepository covering both the node
// rows and the version rows.
type fakeFileRepo struct {
	files    map[string]*models.File
	order    []string
	versions []models.FileVersion
	swaps    [][2]string
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]*models.File)}
}

func (r *fakeFileRepo) Create(_ context.Context, file *models.File) error {
	copied := *file
	r.files[file.ID] = &copied
	r.order = append(r.order, file.ID)
	return nil
}

func (r *fakeFileRepo) GetByID(_ context.Context, id string) (*models.File, error) {
	file, ok := r.files[id]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	copied := *file
	return &copied, nil
}

func (r *fakeFileRepo) Update(_ context.Context, file *models.File) error {
	if _, ok := r.files[file.ID]; !ok {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}
	copied := *file
	r.files[file.ID] = &copied
	return nil
}

func (r *fakeFileRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.files[id]; !ok {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	delete(r.files, id)
	return nil
}

func (r *fakeFileRepo) ListByProject(_ context.Context, projectID string) ([]models.File, error) {
	var out []models.File
	for _, id := range r.order {
		file, ok := r.files[id]
		if ok && file.ProjectID == projectID {
			out = append(out, *file)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) ListChildren(_ context.Context, projectID string, parentID *string) ([]models.File, error) {
	var out []models.File
	for _, id := range r.order {
		file, ok := r.files[id]
		if ok && file.ProjectID == projectID && sameParent(file.ParentID, parentID) {
			out = append(out, *file)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) CountChildren(_ context.Context, id string) (int, error) {
	count := 0
	for _, file := range r.files {
		if file.ParentID != nil && *file.ParentID == id {
			count++
		}
	}
	return count, nil
}

func (r *fakeFileRepo) MaxPosition(_ context.Context, projectID string, parentID *string) (int, error) {
	max := -1
	for _, file := range r.files {
		if file.ProjectID == projectID && sameParent(file.ParentID, parentID) && file.Position > max {
			max = file.Position
		}
	}
	return max, nil
}

func (r *fakeFileRepo) SwapPositions(_ context.Context, a, b *models.File) error {
	r.swaps = append(r.swaps, [2]string{a.ID, b.ID})
	r.files[a.ID].Position, r.files[b.ID].Position = b.Position, a.Position
	a.Position, b.Position = b.Position, a.Position
	return nil
}

func (r *fakeFileRepo) CountByProject(_ context.Context, projectID string) (int, error) {
	count := 0
	for _, file := range r.files {
		if file.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFileRepo) CreateVersion(_ context.Context, version *models.FileVersion) error {
	for _, v := range r.versions {
		if v.FileID == version.FileID && v.Version == version.Version {
			return fmt.Errorf("version %d of file %s: %w", version.Version, version.FileID, domain.ErrConflict)
		}
	}
	r.versions = append(r.versions, *version)
	return nil
}

func (r *fakeFileRepo) ListVersions(_ context.Context, fileID string) ([]models.FileVersion, error) {
	var out []models.FileVersion
	for i := len(r.versions) - 1; i >= 0; i-- {
		if r.versions[i].FileID == fileID {
			out = append(out, r.versions[i])
		}
	}
	return out, nil
}

func (r *fakeFileRepo) GetVersion(_ context.Context, fileID string, version int) (*models.FileVersion, error) {
	for _, v := range r.versions {
		if v.FileID == fileID && v.Version == version {
			copied := v
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("version %d of file %s: %w", version, fileID, domain.ErrNotFound)
}

func (r *fakeFileRepo) LatestVersion(_ context.Context, fileID string) (int, error) {
	latest := 0
	for _, v := range r.versions {
		if v.FileID == fileID && v.Version > latest {
			latest = v.Version
		}
	}
	return latest, nil
}

type fileFixture struct {
	svc      services.FileService
	fileRepo *fakeFileRepo
}

func newFileFixture(t *testing.T) *fileFixture {
	t.Helper()
	fileRepo := newFakeFileRepo()
	projectRepo := &fakeProjectRepo{projects: map[string]*models.Project{
		"p1": {ID: "p1", Key: "DEMO", Name: "Demo"},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewFileService(fileRepo, projectRepo, t.TempDir(), fakeTxManager{}, logger)
	return &fileFixture{svc: svc, fileRepo: fileRepo}
}

func (f *fileFixture) upload(t *testing.T, name string, parentID *string, content string) *models.File {
	t.Helper()
	file, err := f.svc.Upload(context.Background(), &services.UploadRequest{
		ProjectID:  "p1",
		ParentID:   parentID,
		Name:       name,
		Content:    strings.NewReader(content),
		UploadedBy: "user-1",
	})
	if err != nil {
		t.Fatalf("upload %s: %v", name, err)
	}
	return file
}

func (f *fileFixture) mkdir(t *testing.T, name string, parentID *string) *models.File {
	t.Helper()
	folder, err := f.svc.CreateFolder(context.Background(), &services.CreateFolderRequest{
		ProjectID: "p1",
		ParentID:  parentID,
		Name:      name,
		CreatedBy: "user-1",
	})
	if err != nil {
		t.Fatalf("mkdir %s: %v", name, err)
	}
	return folder
}

func readAll(t *testing.T, result *services.DownloadResult) string {
	t.Helper()
	defer result.Reader.Close()
	data, err := io.ReadAll(result.Reader)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	return string(data)
}

func TestUploadCreatesFirstVersion(t *testing.T) {
	f := newFileFixture(t)
	file := f.upload(t, "notes.txt", nil, "hello")

	if file.Size != 5 {
		t.Errorf("size = %d, want 5", file.Size)
	}
	if file.IsFolder {
		t.Error("uploaded file marked as folder")
	}

	versions, err := f.fileRepo.ListVersions(context.Background(), file.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != 1 || versions[0].Version != 1 {
		t.Fatalf("versions = %+v, want single version 1", versions)
	}

	result, err := f.svc.Download(context.Background(), file.ID, 0)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if got := readAll(t, result); got != "hello" {
		t.Errorf("content = %q, want hello", got)
	}
}

func TestUploadSiblingNameConflict(t *testing.T) {
	f := newFileFixture(t)
	f.upload(t, "report.pdf", nil, "v1")

	// Same name in the same location conflicts, case-insensitively.
	var conflict *domain.ConflictError
	_, err := f.svc.Upload(context.Background(), &services.UploadRequest{
		ProjectID: "p1", Name: "Report.PDF", Content: strings.NewReader("x"), UploadedBy: "user-1",
	})
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
	if conflict.Field != "name" {
		t.Errorf("conflict field = %q, want name", conflict.Field)
	}

	// The same name under a different folder is fine.
	folder := f.mkdir(t, "archive", nil)
	f.upload(t, "report.pdf", &folder.ID, "v1")
}

func TestUploadRejectsSlashInName(t *testing.T) {
	f := newFileFixture(t)
	_, err := f.svc.Upload(context.Background(), &services.UploadRequest{
		ProjectID: "p1", Name: "a/b.txt", Content: strings.NewReader("x"), UploadedBy: "user-1",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestUploadUnderPlainFileRejected(t *testing.T) {
	f := newFileFixture(t)
	plain := f.upload(t, "notes.txt", nil, "hello")

	_, err := f.svc.Upload(context.Background(), &services.UploadRequest{
		ProjectID: "p1", ParentID: &plain.ID, Name: "child.txt",
		Content: strings.NewReader("x"), UploadedBy: "user-1",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation (only folders take children)", err)
	}
}

func TestUploadVersionIncrements(t *testing.T) {
	f := newFileFixture(t)
	file := f.upload(t, "spec.doc", nil, "one")

	updated, err := f.svc.UploadVersion(context.Background(), file.ID, &services.UploadRequest{
		Content: strings.NewReader("twotwo"), UploadedBy: "user-1",
	})
	if err != nil {
		t.Fatalf("UploadVersion: %v", err)
	}
	if updated.Size != 6 {
		t.Errorf("file size = %d, want the new version's 6", updated.Size)
	}

	latest, err := f.fileRepo.LatestVersion(context.Background(), file.ID)
	if err != nil {
		t.Fatalf("LatestVersion: %v", err)
	}
	if latest != 2 {
		t.Errorf("latest = %d, want 2", latest)
	}

	// Old versions stay downloadable; 0 means latest.
	v1, err := f.svc.Download(context.Background(), file.ID, 1)
	if err != nil {
		t.Fatalf("Download v1: %v", err)
	}
	if got := readAll(t, v1); got != "one" {
		t.Errorf("v1 content = %q, want one", got)
	}
	latestResult, err := f.svc.Download(context.Background(), file.ID, 0)
	if err != nil {
		t.Fatalf("Download latest: %v", err)
	}
	if got := readAll(t, latestResult); got != "twotwo" {
		t.Errorf("latest content = %q, want twotwo", got)
	}
}

func TestUploadVersionOnFolderRejected(t *testing.T) {
	f := newFileFixture(t)
	folder := f.mkdir(t, "docs", nil)

	_, err := f.svc.UploadVersion(context.Background(), folder.ID, &services.UploadRequest{
		Content: strings.NewReader("x"), UploadedBy: "user-1",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	if _, err := f.svc.Download(context.Background(), folder.ID, 0); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("folder download: err = %v, want ErrValidation", err)
	}
}

func TestDeleteFolderBlockedWhileNonEmpty(t *testing.T) {
	f := newFileFixture(t)
	folder := f.mkdir(t, "docs", nil)
	inner := f.upload(t, "readme.md", &folder.ID, "hi")

	var conflict *domain.ConflictError
	if err := f.svc.DeleteFile(context.Background(), folder.ID); !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}

	if err := f.svc.DeleteFile(context.Background(), inner.ID); err != nil {
		t.Fatalf("delete inner file: %v", err)
	}
	if err := f.svc.DeleteFile(context.Background(), folder.ID); err != nil {
		t.Fatalf("delete emptied folder: %v", err)
	}
}

func TestMoveFileSwapsAndStopsAtBoundary(t *testing.T) {
	f := newFileFixture(t)
	a := f.upload(t, "a.txt", nil, "a")
	b := f.upload(t, "b.txt", nil, "b")

	if err := f.svc.MoveFile(context.Background(), b.ID, hierarchy.DirectionUp); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if len(f.fileRepo.swaps) != 1 {
		t.Fatalf("swaps = %d, want 1", len(f.fileRepo.swaps))
	}
	if got := f.fileRepo.swaps[0]; got != [2]string{b.ID, a.ID} {
		t.Errorf("swap pair = %v, want [b a]", got)
	}

	// b is now first: moving it up again does nothing.
	if err := f.svc.MoveFile(context.Background(), b.ID, hierarchy.DirectionUp); err != nil {
		t.Fatalf("boundary move: %v", err)
	}
	if len(f.fileRepo.swaps) != 1 {
		t.Errorf("swaps = %d, want still 1", len(f.fileRepo.swaps))
	}
}

func TestUpdateFileMoveRejectsCycle(t *testing.T) {
	f := newFileFixture(t)
	outer := f.mkdir(t, "outer", nil)
	inner := f.mkdir(t, "inner", &outer.ID)

	_, err := f.svc.UpdateFile(context.Background(), outer.ID, &services.UpdateFileRequest{
		ParentID: httputil.OptionalString{Present: true, Value: &inner.ID},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("move under own child: err = %v, want ErrValidation", err)
	}

	_, err = f.svc.UpdateFile(context.Background(), outer.ID, &services.UpdateFileRequest{
		ParentID: httputil.OptionalString{Present: true, Value: &outer.ID},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("move into itself: err = %v, want ErrValidation", err)
	}
}

func TestUpdateFileMoveRejectsCorruptParentChain(t *testing.T) {
	f := newFileFixture(t)
	doc := f.upload(t, "notes.txt", nil, "x")
	// Mutually-parented folders can only come from bad data, but the
	// ancestor walk must still terminate and refuse the move.
	da := "da"
	db := "db"
	f.fileRepo.files["da"] = &models.File{ID: "da", ProjectID: "p1", Name: "a", IsFolder: true, ParentID: &db}
	f.fileRepo.files["db"] = &models.File{ID: "db", ProjectID: "p1", Name: "b", IsFolder: true, ParentID: &da}

	_, err := f.svc.UpdateFile(context.Background(), doc.ID, &services.UpdateFileRequest{
		ParentID: httputil.OptionalString{Present: true, Value: &da},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("move under cyclic chain: err = %v, want ErrValidation", err)
	}
}

func TestUpdateFileMoveToRootAppends(t *testing.T) {
	f := newFileFixture(t)
	folder := f.mkdir(t, "docs", nil) // root position 0
	f.upload(t, "top.txt", nil, "x")  // root position 1
	nested := f.upload(t, "deep.txt", &folder.ID, "y")

	moved, err := f.svc.UpdateFile(context.Background(), nested.ID, &services.UpdateFileRequest{
		ParentID: httputil.OptionalString{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("UpdateFile: %v", err)
	}
	if moved.ParentID != nil {
		t.Errorf("parent = %v, want root", *moved.ParentID)
	}
	if moved.Position != 2 {
		t.Errorf("position = %d, want 2 (appended after root entries)", moved.Position)
	}
}

func TestUpdateFileRenameConflictsWithSibling(t *testing.T) {
	f := newFileFixture(t)
	f.upload(t, "a.txt", nil, "a")
	b := f.upload(t, "b.txt", nil, "b")

	newName := "A.TXT"
	var conflict *domain.ConflictError
	_, err := f.svc.UpdateFile(context.Background(), b.ID, &services.UpdateFileRequest{Name: &newName})
	if !errors.As(err, &conflict) {
		t.Errorf("err = %v, want ConflictError", err)
	}

	// Renaming to its own name (case change only) is allowed.
	selfName := "B.txt"
	renamed, err := f.svc.UpdateFile(context.Background(), b.ID, &services.UpdateFileRequest{Name: &selfName})
	if err != nil {
		t.Fatalf("self rename: %v", err)
	}
	if renamed.Name != "B.txt" {
		t.Errorf("name = %q, want B.txt", renamed.Name)
	}
}

func TestListChildrenFoldersFirst(t *testing.T) {
	f := newFileFixture(t)
	f.upload(t, "zz.txt", nil, "z") // position 0
	f.mkdir(t, "aa", nil)           // position 1, but folders sort first

	children, err := f.svc.ListChildren(context.Background(), "p1", nil)
	if err != nil {
		t.Fatalf("ListChildren: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("children = %d, want 2", len(children))
	}
	if !children[0].IsFolder || children[1].IsFolder {
		t.Errorf("order = [%s %s], want the folder first", children[0].Name, children[1].Name)
	}
}
