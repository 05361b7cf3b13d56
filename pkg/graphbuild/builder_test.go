package graphbuild

import (
	"testing"

	"github.com/alutov/hirecs/pkg/hirecserr"
	"github.com/alutov/hirecs/pkg/weight"
	"github.com/stretchr/testify/require"
)

func TestAddNodeAndLinksUndirectedWeighted(t *testing.T) {
	b := New(weight.LinkPolicy{Weighted: true}, 4, false)

	require.NoError(t, b.AddNodeAndLinks(false, 1, []InputLink{{Dest: 2, Weight: 4}}))
	require.NoError(t, b.AddNodeAndLinks(false, 3, []InputLink{{Dest: 2, Weight: 2}}))

	nodes, err := b.Finalize()
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	byID := map[weight.ID]int{}
	for i, n := range nodes {
		byID[n.ID()] = i
	}
	n2 := nodes[byID[2]]
	require.Len(t, n2.Links, 2)
	var total weight.Weight
	for _, l := range n2.Links {
		total += l.Weight
	}
	require.InDelta(t, float64(3), float64(total), 1e-6)
	require.False(t, b.IsDirected())
}

func TestAddNodeLinksUnknownDestination(t *testing.T) {
	b := New(weight.LinkPolicy{Weighted: false}, 2, false)
	require.NoError(t, b.AddNodes([]weight.ID{1}))
	err := b.AddNodeLinks(false, 1, []InputLink{{Dest: 99}})
	require.Error(t, err)
	require.Equal(t, hirecserr.UnknownNode, hirecserr.KindOf(err))
}

func TestDuplicateSelfLoopRejected(t *testing.T) {
	b := New(weight.LinkPolicy{Weighted: true}, 1, false)
	require.NoError(t, b.AddNodes([]weight.ID{1}))
	require.NoError(t, b.AddNodeLinks(false, 1, []InputLink{{Dest: 1, Weight: 2}}))
	err := b.AddNodeLinks(false, 1, []InputLink{{Dest: 1, Weight: 2}})
	require.Error(t, err)
	require.Equal(t, hirecserr.InvalidInput, hirecserr.KindOf(err))
}

func TestSelfWeightDoublingUnweightedUndirected(t *testing.T) {
	b := New(weight.LinkPolicy{Weighted: false}, 1, false)
	require.NoError(t, b.AddNodes([]weight.ID{1}))
	require.NoError(t, b.AddNodeLinks(false, 1, []InputLink{{Dest: 1}}))
	nodes, err := b.Finalize()
	require.NoError(t, err)
	require.InDelta(t, 2.0, float64(nodes[0].SelfWeight()), 1e-6)
}

func TestEmptyGraphRejected(t *testing.T) {
	b := New(weight.LinkPolicy{Weighted: true}, 0, false)
	_, err := b.Finalize()
	require.Error(t, err)
	require.Equal(t, hirecserr.EmptyInput, hirecserr.KindOf(err))
}

func TestFinalizeTwiceFails(t *testing.T) {
	b := New(weight.LinkPolicy{Weighted: true}, 1, false)
	require.NoError(t, b.AddNodes([]weight.ID{1}))
	_, err := b.Finalize()
	require.NoError(t, err)
	_, err = b.Finalize()
	require.Error(t, err)
}

func TestReset(t *testing.T) {
	b := New(weight.LinkPolicy{Weighted: true}, 1, false)
	require.NoError(t, b.AddNodes([]weight.ID{1}))
	b.Reset(2, false)
	require.NoError(t, b.AddNodes([]weight.ID{5, 6}))
	nodes, err := b.Finalize()
	require.NoError(t, err)
	require.Len(t, nodes, 2)
}

func TestDirectedLinkNotMirrored(t *testing.T) {
	b := New(weight.LinkPolicy{Weighted: true}, 2, false)
	require.NoError(t, b.AddNodeAndLinks(true, 1, []InputLink{{Dest: 2, Weight: 5}}))
	nodes, err := b.Finalize()
	require.NoError(t, err)
	require.True(t, b.IsDirected())

	var n1, n2 int
	for i, n := range nodes {
		if n.ID() == 1 {
			n1 = i
		} else {
			n2 = i
		}
	}
	require.Len(t, nodes[n1].Links, 1)
	require.Len(t, nodes[n2].Links, 0)
}
