package hig_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alutov/hirecs/pkg/hig"
	"github.com/alutov/hirecs/pkg/hirecserr"
)

func TestLoadTriangle(t *testing.T) {
	src := `# a triangle
/Graph weighted:1
/Nodes 3 0
/Edges
0 > 1:1 2:1
1 > 2:1
`
	nodes, directed, signed, err := hig.Load(strings.NewReader(src), false)
	require.NoError(t, err)
	require.False(t, directed)
	require.False(t, signed)
	require.Len(t, nodes, 3)

	var total int
	for _, n := range nodes {
		total += len(n.Links)
	}
	require.Equal(t, 6, total) // 3 undirected edges, mirrored
}

func TestLoadDirectedArcs(t *testing.T) {
	src := `/Nodes 2
/Arcs
0 > 1:5
`
	nodes, directed, _, err := hig.Load(strings.NewReader(src), false)
	require.NoError(t, err)
	require.True(t, directed)
	require.Len(t, nodes, 2)
}

func TestLoadDetectsSignedWeight(t *testing.T) {
	src := `/Graph weighted:1
/Nodes 2 0
/Edges
0 > 1:-3
`
	_, _, signed, err := hig.Load(strings.NewReader(src), false)
	require.NoError(t, err)
	require.True(t, signed)
}

func TestLoadRejectsWeightOnUnweightedGraph(t *testing.T) {
	src := `/Graph weighted:0
/Nodes 2
/Edges
0 > 1:3
`
	_, _, _, err := hig.Load(strings.NewReader(src), false)
	require.Error(t, err)
	require.Equal(t, hirecserr.InvalidInput, hirecserr.KindOf(err))
}

func TestLoadRejectsDuplicateSelfLoopAcrossSections(t *testing.T) {
	src := `/Nodes 1
/Edges
0 > 0:1
/Arcs
0 > 0:1
`
	_, _, _, err := hig.Load(strings.NewReader(src), false)
	require.Error(t, err)
}

func TestLoadRejectsUnknownDestination(t *testing.T) {
	src := `/Nodes 2 0
/Edges
0 > 5:1
`
	_, _, _, err := hig.Load(strings.NewReader(src), false)
	require.Error(t, err)
	require.Equal(t, hirecserr.UnknownNode, hirecserr.KindOf(err))
}
