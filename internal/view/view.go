// Package view maps materialized node collections to presentation
// layouts. Everything here is a pure function of its input: no
// mutation, no I/O, no persistent state beyond the caller-held
// expanded set and mode selector.
package view

import (
	"fmt"

	"cadence/internal/domain/models"
	"cadence/internal/hierarchy"
)

// Mode selects one of the fixed layout strategies.
type Mode string

const (
	ModeList   Mode = "list"
	ModeCards  Mode = "cards"
	ModeKanban Mode = "kanban"
	ModeBranch Mode = "branch"
)

// ParseMode validates a wire-level view mode. An empty string defaults
// to the list view.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeList, ModeCards, ModeKanban, ModeBranch:
		return Mode(s), nil
	case "":
		return ModeList, nil
	default:
		return "", fmt.Errorf("invalid view mode %q", s)
	}
}

// Row is one rendered node. Depth is 0 for roots and increases per
// tree level; list and card layouts ignore it.
type Row[N hierarchy.Node] struct {
	Node  N    `json:"node"`
	Depth int  `json:"depth"`
	Cycle bool `json:"cycle,omitempty"`
}

// Rows returns every node in materialized depth-first order. The list
// and card views render exactly this sequence.
func Rows[N hierarchy.Node](nodes []N) []Row[N] {
	rows := make([]Row[N], 0, len(nodes))
	hierarchy.Walk(nodes, func(n N, depth int, cycle bool) {
		rows = append(rows, Row[N]{Node: n, Depth: depth, Cycle: cycle})
	})
	return rows
}

// Branch returns the rows a branch/tree view shows: roots always, and a
// container's children only while its id is in expanded. Collapsed
// subtrees are omitted entirely, matching lazy reveal on expand.
func Branch[N hierarchy.Node](nodes []N, expanded hierarchy.ExpandedSet) []Row[N] {
	rows := make([]Row[N], 0, len(nodes))
	hierarchy.Walk(nodes, func(n N, depth int, cycle bool) {
		rows = append(rows, Row[N]{Node: n, Depth: depth, Cycle: cycle})
	})

	// Walk already ordered and cycle-guarded everything; filter out
	// rows beneath a collapsed ancestor by tracking the visible depth.
	visible := rows[:0:0]
	hidden := -1 // depth at which the nearest collapsed ancestor sits
	for _, row := range rows {
		if hidden >= 0 {
			if row.Depth > hidden {
				continue
			}
			hidden = -1
		}
		visible = append(visible, row)
		if row.Node.Container() && !expanded.Contains(row.Node.NodeID()) {
			hidden = row.Depth
		}
	}
	return visible
}

// BoardColumn is one fixed kanban column.
type BoardColumn struct {
	Status models.ItemStatus `json:"status"`
	Items  []models.WorkItem `json:"items"`
}

// Board partitions work items into the fixed status columns. Within a
// column items keep the materializer's ordering. Cross-column movement
// is a status change and goes through the edit path, not the board.
func Board(items []models.WorkItem) []BoardColumn {
	ordered := Rows(items)

	columns := make([]BoardColumn, len(models.Statuses))
	index := make(map[models.ItemStatus]int, len(models.Statuses))
	for i, status := range models.Statuses {
		columns[i] = BoardColumn{Status: status, Items: []models.WorkItem{}}
		index[status] = i
	}

	for _, row := range ordered {
		if i, ok := index[row.Node.Status]; ok {
			columns[i].Items = append(columns[i].Items, row.Node)
		}
	}
	return columns
}
