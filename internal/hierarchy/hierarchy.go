// Package hierarchy materializes flat parent-referencing records into
// ordered sibling groups and trees. Both the work-item hierarchy and the
// file hierarchy store nodes flat (id + parent_id + position) and derive
// structure at read time; nothing here caches or mutates its input.
package hierarchy

import (
	"fmt"
	"strings"
)

// Node is the flat record shape shared by work items and files.
type Node interface {
	// NodeID returns the opaque unique identifier.
	NodeID() string
	// NodeParentID returns the parent reference, nil for root.
	NodeParentID() *string
	// Container reports whether the node may own children. Containers
	// sort before non-containers within a sibling group. Work items
	// report false across the board (position-only ordering).
	Container() bool
	// OrderKey is the explicit sibling order position.
	OrderKey() int
	// DisplayName is the lexicographic fallback for ordering ties.
	DisplayName() string
}

// Compare is the fixed sibling comparator:
//  1. containers before non-containers,
//  2. ascending position,
//  3. case-insensitive name on position ties,
//  4. ID as the final tiebreak so ordering is total.
func Compare(a, b Node) int {
	if a.Container() != b.Container() {
		if a.Container() {
			return -1
		}
		return 1
	}
	if a.OrderKey() != b.OrderKey() {
		if a.OrderKey() < b.OrderKey() {
			return -1
		}
		return 1
	}
	an, bn := strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName())
	if an != bn {
		return strings.Compare(an, bn)
	}
	return strings.Compare(a.NodeID(), b.NodeID())
}

// BuildChildren filters nodes to those whose parent reference strictly
// equals parentID (nil selects roots) and returns them sorted by Compare.
// The result is recomputed fresh on every call.
func BuildChildren[N Node](nodes []N, parentID *string) []N {
	children := make([]N, 0)
	for _, n := range nodes {
		p := n.NodeParentID()
		switch {
		case parentID == nil && p == nil:
			children = append(children, n)
		case parentID != nil && p != nil && *p == *parentID:
			children = append(children, n)
		}
	}
	sortNodes(children)
	return children
}

// insertion sort keeps the comparator stable without pulling in
// sort.Slice closures for every call site
func sortNodes[N Node](nodes []N) {
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && Compare(nodes[j], nodes[j-1]) < 0; j-- {
			nodes[j], nodes[j-1] = nodes[j-1], nodes[j]
		}
	}
}

// Roots returns the top-level nodes of the working set: nodes with no
// parent reference plus orphans whose parent is absent from nodes (for
// example paginated away). Orphans are promoted, never dropped.
func Roots[N Node](nodes []N) []N {
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.NodeID()] = true
	}

	roots := make([]N, 0)
	for _, n := range nodes {
		p := n.NodeParentID()
		if p == nil || !present[*p] {
			roots = append(roots, n)
		}
	}
	sortNodes(roots)
	return roots
}

// Visit receives each node with its depth. Cycle is true when the node's
// ancestry loops back on itself; its children are not visited.
type Visit[N Node] func(node N, depth int, cycle bool)

// Walk traverses nodes depth-first in materialized order, starting from
// Roots. The data model assumes a DAG, but malformed data (a manual DB
// edit) could introduce a cycle; a visited set guards the recursion and
// cycle members are surfaced as roots with cycle set instead of hanging
// the traversal.
func Walk[N Node](nodes []N, visit Visit[N]) {
	index := make(map[string][]N, len(nodes))
	for _, n := range nodes {
		if p := n.NodeParentID(); p != nil {
			index[*p] = append(index[*p], n)
		}
	}
	for _, group := range index {
		sortNodes(group)
	}

	visited := make(map[string]bool, len(nodes))

	var walk func(n N, depth int)
	walk = func(n N, depth int) {
		if visited[n.NodeID()] {
			return
		}
		visited[n.NodeID()] = true
		visit(n, depth, false)
		for _, child := range index[n.NodeID()] {
			walk(child, depth+1)
		}
	}

	for _, root := range Roots(nodes) {
		walk(root, 0)
	}

	// Anything left is only reachable through a cycle. Surface each
	// member once, marked, without expanding its children.
	remaining := make([]N, 0)
	for _, n := range nodes {
		if !visited[n.NodeID()] {
			remaining = append(remaining, n)
		}
	}
	sortNodes(remaining)
	for _, n := range remaining {
		visited[n.NodeID()] = true
		visit(n, 0, true)
	}
}

// Direction selects the adjacent sibling for a relative move.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection validates a wire-level direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("invalid direction %q (want \"up\" or \"down\")", s)
	}
}

// Neighbor locates id within its full sibling ordering and returns the
// node together with the adjacent sibling in the given direction.
// ok is false when id is already first (up) or last (down) among its
// siblings; callers treat that as a silent no-op. The error is reserved
// for id not being present in nodes at all.
func Neighbor[N Node](nodes []N, id string, dir Direction) (node, neighbor N, ok bool, err error) {
	var zero N

	var found bool
	for _, n := range nodes {
		if n.NodeID() == id {
			node = n
			found = true
			break
		}
	}
	if !found {
		return zero, zero, false, fmt.Errorf("node %s not found", id)
	}

	siblings := BuildChildren(nodes, node.NodeParentID())
	idx := -1
	for i, s := range siblings {
		if s.NodeID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		// unreachable given the filter above, kept as a guard
		return zero, zero, false, fmt.Errorf("node %s not among its siblings", id)
	}

	switch dir {
	case DirectionUp:
		if idx == 0 {
			return node, zero, false, nil
		}
		return node, siblings[idx-1], true, nil
	default:
		if idx == len(siblings)-1 {
			return node, zero, false, nil
		}
		return node, siblings[idx+1], true, nil
	}
}
