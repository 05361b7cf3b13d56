package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alutov/hirecs/pkg/clusteritem"
	"github.com/alutov/hirecs/pkg/engine"
	"github.com/alutov/hirecs/pkg/graphbuild"
	"github.com/alutov/hirecs/pkg/hierarchy"
	"github.com/alutov/hirecs/pkg/weight"
)

func buildUndirected(t *testing.T, n int, edges [][2]weight.ID) []*clusteritem.Node {
	t.Helper()
	b := graphbuild.New(weight.LinkPolicy{Weighted: false}, n, false)
	ids := make([]weight.ID, n)
	for i := 0; i < n; i++ {
		ids[i] = weight.ID(i)
	}
	require.NoError(t, b.AddNodes(ids))
	for _, e := range edges {
		require.NoError(t, b.AddNodeLinks(false, e[0], []graphbuild.InputLink{{Dest: e[1]}}))
	}
	nodes, err := b.Finalize()
	require.NoError(t, err)
	return nodes
}

// S2: a simple triangle folds into a single clique cluster with modularity 0.
func TestTriangleFoldsIntoOneCluster(t *testing.T) {
	nodes := buildUndirected(t, 3, [][2]weight.ID{{0, 1}, {0, 2}, {1, 2}})
	h, err := hierarchy.Build(nodes, hierarchy.Options{Symmetric: true, Margin: 0.01})
	require.NoError(t, err)

	root := h.Root()
	require.Len(t, root, 1)
	c, ok := root[0].(*clusteritem.Cluster)
	require.True(t, ok)
	require.Len(t, c.Descendants(), 3)
	require.InDelta(t, 0.0, h.Score(), 1e-6)
}

// S4: two disconnected triangles each fold independently; root has two
// clusters and the combined modularity matches the doubled single-triangle
// term.
func TestDisjointTrianglesFoldIndependently(t *testing.T) {
	nodes := buildUndirected(t, 6, [][2]weight.ID{
		{0, 1}, {0, 2}, {1, 2},
		{3, 4}, {3, 5}, {4, 5},
	})
	h, err := hierarchy.Build(nodes, hierarchy.Options{Symmetric: true, Margin: 0.01})
	require.NoError(t, err)

	root := h.Root()
	require.Len(t, root, 2)
	for _, it := range root {
		c, ok := it.(*clusteritem.Cluster)
		require.True(t, ok)
		require.Len(t, c.Descendants(), 3)
	}
	require.InDelta(t, 0.5, h.Score(), 1e-6)
}

// S5: an isolated node with no links never folds; the hierarchy has the
// single leaf as its own root and no clusters.
func TestIsolatedNodeNeverFolds(t *testing.T) {
	b := graphbuild.New(weight.LinkPolicy{Weighted: false}, 1, false)
	require.NoError(t, b.AddNodes([]weight.ID{0}))
	nodes, err := b.Finalize()
	require.NoError(t, err)

	h, err := hierarchy.Build(nodes, hierarchy.Options{Symmetric: true, Margin: 0.01})
	require.NoError(t, err)

	require.Len(t, h.Root(), 1)
	require.Empty(t, h.Clusters())
	require.InDelta(t, 0.0, h.Score(), 1e-9)
}

// S6: a very permissive-looking but numerically forbidding margin of +1
// suppresses all folding; root equals the leaves unchanged.
func TestHighMarginSuppressesFolding(t *testing.T) {
	nodes := buildUndirected(t, 3, [][2]weight.ID{{0, 1}, {0, 2}, {1, 2}})
	h, err := hierarchy.Build(nodes, hierarchy.Options{Symmetric: true, Margin: 1})
	require.NoError(t, err)

	require.Len(t, h.Root(), 3)
	require.Empty(t, h.Clusters())
	for _, n := range h.Root() {
		require.Empty(t, n.Owners())
	}
}

// Pentagon (S1 topology): every node ties between its two neighbours, so
// strict-mutual mode materializes one cluster per edge rather than
// collapsing the whole cycle into a single clique.
func TestPentagonFoldsIntoFiveOverlappingEdgeClusters(t *testing.T) {
	nodes := buildUndirected(t, 5, [][2]weight.ID{
		{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0},
	})
	alloc := testAllocator{}
	levels := engine.Levels(toItems(nodes), &alloc, engine.Options{Symmetric: true, Margin: 0.01})
	require.True(t, len(levels) >= 2)

	level1 := levels[1]
	var edgeClusters int
	for _, it := range level1 {
		if c, ok := it.(*clusteritem.Cluster); ok && len(c.Descendants()) == 2 {
			edgeClusters++
		}
	}
	require.Equal(t, 5, edgeClusters)
	for _, n := range nodes {
		require.Len(t, n.Owners(), 2)
	}
}

func toItems(nodes []*clusteritem.Node) []clusteritem.Item {
	items := make([]clusteritem.Item, len(nodes))
	for i, n := range nodes {
		items[i] = n
	}
	return items
}

type testAllocator struct{ n weight.ID }

func (a *testAllocator) Next() weight.ID { a.n++; return a.n }
