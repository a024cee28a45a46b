package view

import (
	"testing"

	"cadence/internal/domain/models"
	"cadence/internal/hierarchy"
)

func ptr(s string) *string { return &s }

func item(id string, parent *string, position int, status models.ItemStatus) models.WorkItem {
	return models.WorkItem{
		ID:       id,
		ParentID: parent,
		Position: position,
		Title:    id,
		Status:   status,
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeList},
		{in: "list", want: ModeList},
		{in: "cards", want: ModeCards},
		{in: "kanban", want: ModeKanban},
		{in: "branch", want: ModeBranch},
		{in: "grid", wantErr: true},
		{in: "List", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseMode(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRowsDepthFirst(t *testing.T) {
	items := []models.WorkItem{
		item("root", nil, 0, models.StatusActive),
		item("child-b", ptr("root"), 1, models.StatusActive),
		item("child-a", ptr("root"), 0, models.StatusActive),
	}

	rows := Rows(items)
	wantOrder := []string{"root", "child-a", "child-b"}
	wantDepth := []int{0, 1, 1}
	if len(rows) != len(wantOrder) {
		t.Fatalf("got %d rows, want %d", len(rows), len(wantOrder))
	}
	for i, row := range rows {
		if row.Node.ID != wantOrder[i] || row.Depth != wantDepth[i] {
			t.Errorf("row %d = (%s, %d), want (%s, %d)", i, row.Node.ID, row.Depth, wantOrder[i], wantDepth[i])
		}
	}
}

func TestBranchCollapsedByDefault(t *testing.T) {
	files := []models.File{
		{ID: "dir", IsFolder: true, Name: "dir"},
		{ID: "nested", ParentID: ptr("dir"), Name: "nested"},
		{ID: "top", Name: "top", Position: 1},
	}

	rows := Branch(files, hierarchy.ExpandedSet{})
	want := []string{"dir", "top"}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows %v, want %v", len(rows), rowIDs(rows), want)
	}
	for i, row := range rows {
		if row.Node.ID != want[i] {
			t.Errorf("row %d = %s, want %s", i, row.Node.ID, want[i])
		}
	}
}

func TestBranchExpandReveals(t *testing.T) {
	files := []models.File{
		{ID: "dir", IsFolder: true, Name: "dir"},
		{ID: "sub", ParentID: ptr("dir"), IsFolder: true, Name: "sub"},
		{ID: "deep", ParentID: ptr("sub"), Name: "deep"},
	}

	// Expanding dir shows sub but not deep: sub itself stays collapsed
	rows := Branch(files, hierarchy.ExpandedSet{}.Toggle("dir"))
	want := []string{"dir", "sub"}
	if got := rowIDs(rows); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expanded dir shows %v, want %v", got, want)
	}

	// Expanding both reaches the leaf
	rows = Branch(files, hierarchy.ExpandedSet{}.Toggle("dir").Toggle("sub"))
	if got := rowIDs(rows); len(got) != 3 || got[2] != "deep" {
		t.Fatalf("fully expanded shows %v, want [dir sub deep]", got)
	}
}

func TestBranchFoldersFirst(t *testing.T) {
	files := []models.File{
		{ID: "zeta", IsFolder: true, Name: "zeta", Position: 5},
		{ID: "alpha", Name: "alpha", Position: 0},
	}

	rows := Branch(files, hierarchy.ExpandedSet{})
	if rows[0].Node.ID != "zeta" {
		t.Errorf("folder sorted after file: %v", rowIDs(rows))
	}
}

func TestBoardColumns(t *testing.T) {
	items := []models.WorkItem{
		item("a", nil, 0, models.StatusActive),
		item("b", nil, 1, models.StatusCompleted),
		item("c", nil, 2, models.StatusActive),
		item("d", nil, 3, models.StatusCancelled),
	}

	board := Board(items)
	if len(board) != len(models.Statuses) {
		t.Fatalf("got %d columns, want %d", len(board), len(models.Statuses))
	}

	byStatus := map[models.ItemStatus][]models.WorkItem{}
	for _, col := range board {
		byStatus[col.Status] = col.Items
	}

	active := byStatus[models.StatusActive]
	if len(active) != 2 || active[0].ID != "a" || active[1].ID != "c" {
		t.Errorf("ACTIVE column = %v, want [a c] in materialized order", ids(active))
	}
	if len(byStatus[models.StatusCompleted]) != 1 {
		t.Errorf("COMPLETED column wrong: %v", ids(byStatus[models.StatusCompleted]))
	}
	// Empty column still present, as an empty slice not nil
	if byStatus[models.StatusOnHold] == nil {
		t.Error("ON_HOLD column missing or nil")
	}
}

func TestBoardKeepsHierarchicalOrderWithinColumn(t *testing.T) {
	items := []models.WorkItem{
		item("parent", nil, 0, models.StatusActive),
		item("child", ptr("parent"), 0, models.StatusActive),
		item("other-root", nil, 1, models.StatusActive),
	}

	board := Board(items)
	var active []models.WorkItem
	for _, col := range board {
		if col.Status == models.StatusActive {
			active = col.Items
		}
	}

	want := []string{"parent", "child", "other-root"}
	for i, it := range active {
		if it.ID != want[i] {
			t.Fatalf("column order = %v, want %v", ids(active), want)
		}
	}
}

func rowIDs(rows []Row[models.File]) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Node.ID
	}
	return out
}

func ids(items []models.WorkItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
