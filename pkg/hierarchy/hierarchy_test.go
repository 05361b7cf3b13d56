package hierarchy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alutov/hirecs/pkg/clusteritem"
	"github.com/alutov/hirecs/pkg/graphbuild"
	"github.com/alutov/hirecs/pkg/hierarchy"
	"github.com/alutov/hirecs/pkg/weight"
)

func triangle(t *testing.T) []*clusteritem.Node {
	t.Helper()
	b := graphbuild.New(weight.LinkPolicy{Weighted: false}, 3, false)
	require.NoError(t, b.AddNodes([]weight.ID{0, 1, 2}))
	require.NoError(t, b.AddNodeLinks(false, 0, []graphbuild.InputLink{{Dest: 1}}))
	require.NoError(t, b.AddNodeLinks(false, 0, []graphbuild.InputLink{{Dest: 2}}))
	require.NoError(t, b.AddNodeLinks(false, 1, []graphbuild.InputLink{{Dest: 2}}))
	nodes, err := b.Finalize()
	require.NoError(t, err)
	return nodes
}

// P2/P3: the root cluster has no owners, and since it is the only root
// cluster, unwrapping it gives each of the three leaves its whole unit of
// membership share (each leaf's shares over all root clusters sum to one).
func TestUnwrapRootSharesSumToOne(t *testing.T) {
	h, err := hierarchy.Build(triangle(t), hierarchy.Options{Symmetric: true, Margin: 0.01})
	require.NoError(t, err)

	root := h.Root()
	require.Len(t, root, 1)
	c := root[0].(*clusteritem.Cluster)
	require.Empty(t, c.Owners())

	shares := hierarchy.Unwrap(c)
	require.Len(t, shares, 3)
	for _, s := range shares {
		require.InDelta(t, 1.0, float64(s), 1e-6)
	}
}

// P1: every cluster's descendants list this cluster among their owners.
func TestOwnerDescendantSymmetry(t *testing.T) {
	h, err := hierarchy.Build(triangle(t), hierarchy.Options{Symmetric: true, Margin: 0.01})
	require.NoError(t, err)

	for _, c := range h.Clusters() {
		for _, d := range c.Descendants() {
			var found bool
			for _, o := range d.Owners() {
				if o == c {
					found = true
					break
				}
			}
			require.True(t, found, "descendant does not list cluster as owner")
		}
	}
}

func TestTraverseNextLevelVisitsBottomUp(t *testing.T) {
	h, err := hierarchy.Build(triangle(t), hierarchy.Options{Symmetric: true, Margin: 0.01})
	require.NoError(t, err)

	var visited int
	ok := h.TraverseNextLevel(func(c *clusteritem.Cluster, first bool, state any) {
		visited++
	}, nil)
	require.True(t, ok)
	require.Equal(t, 1, visited)

	ok = h.TraverseNextLevel(func(c *clusteritem.Cluster, first bool, state any) {}, nil)
	require.False(t, ok)

	h.ResetTraversing()
	visited = 0
	ok = h.TraverseNextLevel(func(c *clusteritem.Cluster, first bool, state any) {
		visited++
	}, nil)
	require.True(t, ok)
	require.Equal(t, 1, visited)
}
