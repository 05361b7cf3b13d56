package format_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alutov/hirecs/pkg/clusteritem"
	"github.com/alutov/hirecs/pkg/format"
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

func TestWriteJSONMatchesSpecShape(t *testing.T) {
	h, err := hierarchy.Build(triangle(t), hierarchy.Options{Symmetric: true, Margin: 0.01})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, format.WriteJSON(&buf, h, format.Options{Unwrap: true, Levels: true}))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Contains(t, doc, "root")
	require.Contains(t, doc, "clusters")
	require.Contains(t, doc, "communities")
	require.Contains(t, doc, "levels")
	require.Contains(t, doc, "nodes")
	require.Contains(t, doc, "mod")
	require.EqualValues(t, 3, doc["nodes"])
}

func TestWriteJSONWithoutExtrasOmitsThem(t *testing.T) {
	h, err := hierarchy.Build(triangle(t), hierarchy.Options{Symmetric: true, Margin: 0.01})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, format.WriteJSON(&buf, h, format.Options{}))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.NotContains(t, doc, "communities")
	require.NotContains(t, doc, "levels")
}

func TestWriteTextProducesOneLinePerCluster(t *testing.T) {
	h, err := hierarchy.Build(triangle(t), hierarchy.Options{Symmetric: true, Margin: 0.01})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, format.WriteText(&buf, h, format.Options{}))
	require.Contains(t, buf.String(), "cluster ")
	require.Contains(t, buf.String(), "nodes=3")
}

func TestWriteCSVHasHeaderRow(t *testing.T) {
	h, err := hierarchy.Build(triangle(t), hierarchy.Options{Symmetric: true, Margin: 0.01})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, format.WriteCSV(&buf, h, format.Options{}))
	require.Contains(t, buf.String(), "cluster_id,descendants,leafs,core")
}
