package engine

import (
	"github.com/alutov/hirecs/pkg/clusteritem"
	"github.com/alutov/hirecs/pkg/weight"
)

// IDAllocator hands out fresh, globally-unique cluster ids. §5 requires the
// counter to be process- or hierarchy-wide and shared across concurrent
// clustering calls; pkg/hierarchy supplies an atomic-backed implementation.
type IDAllocator interface {
	Next() weight.ID
}

// materialize implements spec.md §4.3.4: allocate a cluster for each group,
// accumulate its self-weight from members plus internal links, and build
// sorted accumulating outbound links to whichever new cluster each external
// neighbour landed in. The returned memberOf maps a level index to every new
// cluster it was placed into (several for an overlapping item; no entry if
// the item was not part of any group).
func (s *iterState) materialize(groups []group, alloc IDAllocator) ([]*clusteritem.Cluster, map[int][]*clusteritem.Cluster) {
	clusters := make([]*clusteritem.Cluster, len(groups))
	memberOf := make(map[int][]*clusteritem.Cluster, len(s.level))

	for gi, g := range groups {
		c := clusteritem.NewCluster(alloc.Next())
		descendants := make([]clusteritem.Item, len(g.members))
		inGroup := make(map[int]bool, len(g.members))
		for k, m := range g.members {
			descendants[k] = s.level[m]
			inGroup[m] = true
		}
		c.SetDescendants(descendants)

		var self weight.AccWeight
		for _, m := range g.members {
			self += s.level[m].SelfWeight()
		}
		for _, m := range g.members {
			for _, nb := range s.level[m].AggregatedNeighbors() {
				j, ok := s.index[nb.Item.ID()]
				if !ok || !inGroup[j] {
					continue
				}
				self += nb.Weight
			}
		}
		c.SetSelfWeight(self)

		c.SetCore(pickCore(s, g.members))

		for _, m := range g.members {
			s.level[m].AddOwner(c)
			memberOf[m] = append(memberOf[m], c)
		}
		clusters[gi] = c
	}

	// Second pass: outbound accumulating links, once every member's parent
	// cluster (possibly several, for overlapping members) is known.
	for gi, g := range groups {
		c := clusters[gi]
		members := make(map[int]bool, len(g.members))
		for _, m := range g.members {
			members[m] = true
		}
		for _, m := range g.members {
			for _, nb := range s.level[m].AggregatedNeighbors() {
				j, ok := s.index[nb.Item.ID()]
				if !ok || members[j] {
					continue
				}
				for _, dest := range memberOf[j] {
					if dest == c {
						continue
					}
					c.AccumulateLink(dest, nb.Weight)
				}
			}
		}
	}
	return clusters, memberOf
}

// pickCore selects the descendant that initiated the cluster (per
// SPEC_FULL.md §10's Open Question resolution): the heaviest member by
// self-weight, ties broken by ascending id.
func pickCore(s *iterState, members []int) clusteritem.Item {
	best := members[0]
	bestWeight := s.level[best].SelfWeight()
	for _, m := range members[1:] {
		w := s.level[m].SelfWeight()
		if w > bestWeight || (w == bestWeight && s.level[m].ID() < s.level[best].ID()) {
			best, bestWeight = m, w
		}
	}
	return s.level[best]
}
