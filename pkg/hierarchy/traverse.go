package hierarchy

import "github.com/alutov/hirecs/pkg/clusteritem"

// TraverseCallback is invoked once per cluster during TraverseNextLevel; the
// first call for each level carries isFirstInLevel true. state is threaded
// through unchanged so callers can accumulate results without a closure.
type TraverseCallback func(c *clusteritem.Cluster, isFirstInLevel bool, state any)

// TraverseNextLevel advances the cyclic, stateful iterator of spec.md §4.4
// by one level: the first call after construction or ResetTraversing visits
// the bottom (just-above-leaves) level, each subsequent call the next level
// toward the root. It returns false once every level has been visited and
// rewinds to the bottom, so the call after that starts a new cycle.
func (h *Hierarchy) TraverseNextLevel(cb TraverseCallback, state any) bool {
	if h.traverseLevel >= len(h.levels)-1 {
		h.traverseLevel = 0
		return false
	}
	h.traverseLevel++
	lvl := h.levels[h.traverseLevel]
	first := true
	for _, it := range lvl {
		c, ok := it.(*clusteritem.Cluster)
		if !ok {
			continue
		}
		cb(c, first, state)
		first = false
	}
	return true
}

// ResetTraversing returns the iterator to the bottom level.
func (h *Hierarchy) ResetTraversing() { h.traverseLevel = 0 }
