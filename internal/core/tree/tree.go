// Package tree turns flat, self-referential record lists (menus,
// departments) into the nested shape the front-end renders, and guards
// parent reassignments against cycles.
package tree

// Build nests items under the given parent id, preserving the input order
// among siblings. The caller supplies accessors and a node constructor so
// each domain keeps its own response type. The input is assumed acyclic;
// write paths enforce that with WouldCycle before anything is persisted.
func Build[T any, N any](items []T, parentID int64, id func(T) int64, parent func(T) int64, node func(T, []N) N) []N {
	children := make([]N, 0)
	for _, item := range items {
		if parent(item) != parentID {
			continue
		}
		children = append(children, node(item, Build(items, id(item), id, parent, node)))
	}
	return children
}

// WouldCycle reports whether re-parenting the record id under newParentID
// would create a cycle. It walks the ancestor chain from the proposed parent
// toward the root, bounded by the map size, and trips if it reaches the
// record itself.
func WouldCycle(parents map[int64]int64, id, newParentID int64) bool {
	if newParentID == id {
		return true
	}
	current := newParentID
	for i := 0; i < len(parents); i++ {
		next, ok := parents[current]
		if !ok || next == 0 {
			return false
		}
		if next == id {
			return true
		}
		current = next
	}
	// Chain longer than the node count means the stored data already cycles.
	return true
}
