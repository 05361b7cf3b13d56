package engine

import (
	"github.com/alutov/hirecs/pkg/clusteritem"
	"github.com/alutov/hirecs/pkg/weight"
)

// degreeIndex is computed once per iteration: out-going link-weight sum
// (the item's own link list, per spec.md §4.1 halving convention for
// undirected graphs) and in-coming link-weight sum (needed only for the
// asymmetric formula, where a directed graph's out/in strengths differ).
type degreeIndex struct {
	out map[weight.ID]weight.AccWeight
	in  map[weight.ID]weight.AccWeight
}

func buildDegreeIndex(level []clusteritem.Item) *degreeIndex {
	idx := &degreeIndex{
		out: make(map[weight.ID]weight.AccWeight, len(level)),
		in:  make(map[weight.ID]weight.AccWeight, len(level)),
	}
	for _, it := range level {
		var sum weight.AccWeight
		for _, nb := range it.AggregatedNeighbors() {
			sum += nb.Weight
			idx.in[nb.Item.ID()] += nb.Weight
		}
		idx.out[it.ID()] = sum
	}
	return idx
}

// outDegree is d(item) of spec.md §4.3.1: its own outbound link-weight sum
// plus twice its self-weight.
func (idx *degreeIndex) outDegree(it clusteritem.Item) weight.AccWeight {
	return idx.out[it.ID()] + 2*it.SelfWeight()
}

// inDegree mirrors outDegree using accumulated inbound weight; for an
// undirected (mirrored-link) graph this equals outDegree exactly.
func (idx *degreeIndex) inDegree(it clusteritem.Item) weight.AccWeight {
	return idx.in[it.ID()] + 2*it.SelfWeight()
}

// totalWeight implements W = (1/2)*Sum(d(item)) over the level.
func totalWeight(level []clusteritem.Item, idx *degreeIndex) weight.AccWeight {
	var sum weight.AccWeight
	for _, it := range level {
		sum += idx.outDegree(it)
	}
	return sum / 2
}

// Modularity computes Q for the given level using the symmetric formula
// (unsigned, undirected graphs) when symmetric is true, and the asymmetric
// out/in-strength formula otherwise, per spec.md §4.3.1.
func Modularity(level []clusteritem.Item, symmetric bool) float64 {
	idx := buildDegreeIndex(level)
	w := totalWeight(level, idx)
	if w == 0 {
		return 0
	}
	var q weight.AccWeight
	if symmetric {
		for _, it := range level {
			d := idx.outDegree(it)
			q += it.SelfWeight()/w - (d/(2*w))*(d/(2*w))
		}
	} else {
		for _, it := range level {
			dOut := idx.outDegree(it)
			dIn := idx.inDegree(it)
			q += it.SelfWeight()/w - (dOut*dIn)/(w*w)
		}
	}
	return float64(q)
}

// gain approximates the modularity gain of merging a and b, per spec.md
// §4.3.2: proportional to observed weight minus the null-model expectation.
// G(a,b) == G(b,a) whenever the degree index is symmetric (the undirected
// case, where idx.out == idx.in by construction); G(a,a) is never invoked
// since candidate generation always excludes self.
func gain(linkWeight weight.AccWeight, a, b clusteritem.Item, idx *degreeIndex, w weight.AccWeight) weight.AccWeight {
	if w == 0 {
		return 0
	}
	return linkWeight - (idx.outDegree(a)*idx.outDegree(b))/(2*w)
}
