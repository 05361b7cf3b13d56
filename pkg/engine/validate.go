package engine

import (
	"github.com/alutov/hirecs/pkg/clusteritem"
	"github.com/alutov/hirecs/pkg/weight"
)

// Validate checks invariants I1 and I5 on the given level before the first
// folding iteration (spec.md §4.3.7), repairing missing back-links in place
// by inserting zero-weight companions. It only operates on clusteritem.Node,
// since I1 is a link-level invariant and clusters never own raw Links; it
// silently ignores Cluster items in the slice (they only ever appear on
// levels above the leaves, where I1 no longer applies).
func Validate(level []clusteritem.Item) {
	nodes := make(map[weight.ID]*clusteritem.Node, len(level))
	for _, it := range level {
		if n, ok := it.(*clusteritem.Node); ok {
			nodes[n.ID()] = n
		}
	}
	if len(nodes) == 0 {
		return
	}
	checkIDUniqueness(level)
	repairBackLinks(nodes)
}

// checkIDUniqueness is invariant I5: ids must be unique within the level.
// A violation here indicates a caller bug in the graph builder or hierarchy
// bookkeeping; it panics rather than silently producing a corrupt hierarchy,
// matching the "caller's responsibility" contract of §4.3.7.
func checkIDUniqueness(level []clusteritem.Item) {
	seen := make(map[weight.ID]bool, len(level))
	for _, it := range level {
		if seen[it.ID()] {
			panic("engine: duplicate item id in level, invariant I5 violated")
		}
		seen[it.ID()] = true
	}
}

func repairBackLinks(nodes map[weight.ID]*clusteritem.Node) {
	for _, n := range nodes {
		for _, l := range n.Links {
			dst := l.Dest
			if dst == n {
				continue
			}
			if !hasLinkTo(dst, n.ID()) {
				dst.Links = append(dst.Links, clusteritem.Link{Dest: n, Weight: 0})
			}
		}
	}
}

func hasLinkTo(n *clusteritem.Node, id weight.ID) bool {
	for _, l := range n.Links {
		if l.Dest.ID() == id {
			return true
		}
	}
	return false
}
