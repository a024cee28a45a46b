package hierarchy

// ExpandedSet tracks which container nodes are expanded in a branch
// view. The state lives only in the presentation layer and is never
// persisted.
type ExpandedSet map[string]struct{}

// Toggle returns a new set with id added if absent or removed if
// present. The receiver is not modified.
func (s ExpandedSet) Toggle(id string) ExpandedSet {
	next := make(ExpandedSet, len(s)+1)
	for k := range s {
		next[k] = struct{}{}
	}
	if _, ok := next[id]; ok {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	return next
}

// Contains reports whether id is expanded.
func (s ExpandedSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}
