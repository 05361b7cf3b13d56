package engine

import "github.com/alutov/hirecs/pkg/clusteritem"

// propagate implements spec.md §4.3.5: every unattached item is assigned
// into the neighbour-cluster its gain is maximal against, provided that gain
// is still positive; otherwise it is promoted to the next level unchanged.
// PASSIVE items are only eligible for propagation in fast mode.
func (s *iterState) propagate(placed []bool, memberOf map[int][]*clusteritem.Cluster, fast bool) (nextLevel []clusteritem.Item) {
	for i, it := range s.level {
		if placed[i] {
			continue
		}
		flag := s.cls[i].flag
		eligible := flag == clusteritem.ClusterableNonmutual || (fast && flag == clusteritem.ClusterablePassive)
		if !eligible {
			nextLevel = append(nextLevel, it)
			continue
		}

		var best *clusteritem.Cluster
		var bestGain float64
		for _, nb := range it.AggregatedNeighbors() {
			j, ok := s.index[nb.Item.ID()]
			if !ok {
				continue
			}
			for _, dest := range memberOf[j] {
				g := float64(gain(nb.Weight, it, dest, s.idx, s.w))
				if best == nil || g > bestGain {
					best, bestGain = dest, g
				}
			}
		}
		if best != nil && bestGain > 0 {
			it.AddOwner(best)
			best.SetDescendants(append(best.Descendants(), it))
			best.SetSelfWeight(best.SelfWeight() + it.SelfWeight())
		} else {
			nextLevel = append(nextLevel, it)
		}
	}
	return nextLevel
}
