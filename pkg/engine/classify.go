package engine

import (
	"sort"

	"github.com/alutov/hirecs/pkg/clusteritem"
	"github.com/alutov/hirecs/pkg/weight"
)

// classification is the per-item transient state of one folding iteration
// (spec.md §3's Context / §9's "parallel vector" redesign note). It is never
// attached to a Node or Cluster; iterState below owns the whole slice and
// discards it at the end of RunIteration.
type classification struct {
	flag       clusteritem.Clusterable
	gmax       weight.AccWeight
	candidates []int // indices into the level, neighbours achieving gmax
	mutual     []int // subset of candidates that reciprocate
}

// iterState is the per-iteration working set: the level being folded plus
// every item's classification, indexed in parallel.
type iterState struct {
	level []clusteritem.Item
	index map[weight.ID]int
	idx   *degreeIndex
	w     weight.AccWeight
	cls   []classification
}

func newIterState(level []clusteritem.Item) *iterState {
	s := &iterState{
		level: level,
		index: make(map[weight.ID]int, len(level)),
		idx:   buildDegreeIndex(level),
	}
	for i, it := range level {
		s.index[it.ID()] = i
	}
	s.w = totalWeight(level, s.idx)
	s.cls = make([]classification, len(level))
	return s
}

// classify computes gmax and the tied-candidate set for every item, per
// spec.md §4.3.3 step 1. Ties are recorded in ascending level-index order
// for deterministic downstream tie-breaking.
func (s *iterState) classify() {
	for i, it := range s.level {
		var gmax weight.AccWeight
		var candidates []int
		for _, nb := range it.AggregatedNeighbors() {
			j, ok := s.index[nb.Item.ID()]
			if !ok || j == i {
				continue
			}
			g := gain(nb.Weight, it, s.level[j], s.idx, s.w)
			switch {
			case g > gmax:
				gmax = g
				candidates = []int{j}
			case g == gmax && g > 0:
				candidates = append(candidates, j)
			}
		}
		sort.Ints(candidates)
		s.cls[i] = classification{gmax: gmax, candidates: candidates}
	}

	// Second pass: mutuality needs every candidate list already computed.
	for i := range s.level {
		c := &s.cls[i]
		if c.gmax <= 0 {
			c.flag = clusteritem.ClusterableNone
			continue
		}
		for _, j := range c.candidates {
			if containsInt(s.cls[j].candidates, i) {
				c.mutual = append(c.mutual, j)
			}
		}
		switch {
		case len(c.mutual) == 1:
			c.flag = clusteritem.ClusterableSingle
		case len(c.mutual) > 1:
			c.flag = clusteritem.ClusterableMultiple
		case isHeavier(s.level[i], c.candidates, s.level, s.idx):
			c.flag = clusteritem.ClusterablePassive
		default:
			c.flag = clusteritem.ClusterableNonmutual
		}
	}
}

// isHeavier implements the PASSIVE test of spec.md §4.3.3: the item outweighs
// every neighbour achieving its own gmax, so it should only ever be absorbed,
// never initiate a merge.
func isHeavier(it clusteritem.Item, candidates []int, level []clusteritem.Item, idx *degreeIndex) bool {
	if len(candidates) == 0 {
		return false
	}
	d := idx.outDegree(it)
	for _, j := range candidates {
		if d <= idx.outDegree(level[j]) {
			return false
		}
	}
	return true
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
