package engine

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/alutov/hirecs/pkg/clusteritem"
)

// CrossCheckModularity rebuilds level as a gonum
// graph/simple.WeightedUndirectedGraph and computes its modularity with
// gonum/graph/community.Q — a wholly independent implementation available
// to sanity-check the hand-rolled symmetric formula. Only
// meaningful for undirected, unsigned levels; callers should not use it to
// validate the asymmetric formula.
func CrossCheckModularity(level []clusteritem.Item) (float64, error) {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	nodeOf := make(map[int64]bool, len(level))
	idOf := func(it clusteritem.Item) int64 { return int64(it.ID()) }

	for _, it := range level {
		id := idOf(it)
		if !nodeOf[id] {
			g.AddNode(simple.Node(id))
			nodeOf[id] = true
		}
	}
	for _, it := range level {
		for _, nb := range it.AggregatedNeighbors() {
			u, v := idOf(it), int64(nb.Item.ID())
			if u == v || g.HasEdgeBetween(u, v) {
				continue
			}
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(u), simple.Node(v), float64(nb.Weight)))
		}
	}

	communities := make([][]graph.Node, len(level))
	for i, it := range level {
		communities[i] = []graph.Node{simple.Node(idOf(it))}
	}
	q := community.Q(g, communities, 1)
	return q, nil
}
