// Package format serializes a finished hierarchy.Hierarchy to the text,
// CSV-like, and JSON shapes named in spec.md §6.
package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/alutov/hirecs/pkg/clusteritem"
	"github.com/alutov/hirecs/pkg/hierarchy"
	"github.com/alutov/hirecs/pkg/weight"
)

// Options controls the optional CLI-facing extras: Unwrap ('e') expands
// root clusters into node-share maps, and Levels ('d') includes
// inter-cluster links at every level.
type Options struct {
	Unwrap bool
	Levels bool
}

// clusterView is the JSON shape of one entry in the top-level "clusters" map.
type clusterView struct {
	Descendants []weight.ID  `json:"des"`
	Owners      []weight.ID  `json:"owners,omitempty"`
	Leafs       bool         `json:"leafs,omitempty"`
	Core        *weight.ID   `json:"core,omitempty"`
}

// document is the root JSON object named in spec.md §6.
type document struct {
	Root        []weight.ID                        `json:"root"`
	Clusters    map[string]clusterView              `json:"clusters"`
	Communities map[string]map[string]float32       `json:"communities,omitempty"`
	Levels      []map[string]map[string]float64     `json:"levels,omitempty"`
	Nodes       int                                 `json:"nodes"`
	Mod         float64                             `json:"mod"`
}

func idString(id weight.ID) string { return fmt.Sprintf("%d", id) }

func buildDocument(h *hierarchy.Hierarchy, opts Options) document {
	doc := document{
		Clusters: make(map[string]clusterView),
		Nodes:    len(h.Nodes()),
		Mod:      h.Score(),
	}
	for _, it := range h.Root() {
		doc.Root = append(doc.Root, it.ID())
	}
	sort.Slice(doc.Root, func(i, j int) bool { return doc.Root[i] < doc.Root[j] })

	for _, c := range h.Clusters() {
		v := clusterView{}
		leafs := true
		for _, d := range c.Descendants() {
			v.Descendants = append(v.Descendants, d.ID())
			if d.Descendants() != nil {
				leafs = false
			}
		}
		sort.Slice(v.Descendants, func(i, j int) bool { return v.Descendants[i] < v.Descendants[j] })
		for _, o := range c.Owners() {
			v.Owners = append(v.Owners, o.ID())
		}
		sort.Slice(v.Owners, func(i, j int) bool { return v.Owners[i] < v.Owners[j] })
		v.Leafs = leafs
		if core := c.Core(); core != nil {
			id := core.ID()
			v.Core = &id
		}
		doc.Clusters[idString(c.ID())] = v
	}

	if opts.Unwrap {
		doc.Communities = make(map[string]map[string]float32)
		for _, it := range h.Root() {
			c, ok := it.(*clusteritem.Cluster)
			if !ok {
				continue
			}
			shares := hierarchy.Unwrap(c)
			m := make(map[string]float32, len(shares))
			for n, s := range shares {
				m[idString(n.ID())] = s
			}
			doc.Communities[idString(c.ID())] = m
		}
	}

	if opts.Levels {
		for _, lvl := range h.Levels() {
			lvlLinks := make(map[string]map[string]float64)
			for _, it := range lvl {
				c, ok := it.(*clusteritem.Cluster)
				if !ok {
					continue
				}
				links := make(map[string]float64)
				for _, nb := range c.AggregatedNeighbors() {
					links[idString(nb.Item.ID())] = nb.Weight
				}
				if len(links) > 0 {
					lvlLinks[idString(c.ID())] = links
				}
			}
			doc.Levels = append(doc.Levels, lvlLinks)
		}
	}

	return doc
}

// WriteJSON encodes the hierarchy per spec.md §6's JSON output shape.
func WriteJSON(w io.Writer, h *hierarchy.Hierarchy, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildDocument(h, opts))
}

// WriteText writes a human-readable listing: one line per cluster with its
// descendants, and a trailing summary line with node count and modularity.
func WriteText(w io.Writer, h *hierarchy.Hierarchy, opts Options) error {
	doc := buildDocument(h, opts)
	ids := make([]string, 0, len(doc.Clusters))
	for id := range doc.Clusters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := doc.Clusters[id]
		if _, err := fmt.Fprintf(w, "cluster %s: %v\n", id, c.Descendants); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "nodes=%d modularity=%.6f\n", doc.Nodes, doc.Mod)
	return err
}

// WriteCSV writes a header row and then one row per cluster: its id, its
// descendant ids (space-separated inside brackets), whether every
// descendant is a leaf, and the core id (empty when there is none).
func WriteCSV(w io.Writer, h *hierarchy.Hierarchy, opts Options) error {
	doc := buildDocument(h, opts)
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"cluster_id", "descendants", "leafs", "core"}); err != nil {
		return err
	}
	ids := make([]string, 0, len(doc.Clusters))
	for id := range doc.Clusters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := doc.Clusters[id]
		core := ""
		if c.Core != nil {
			core = idString(*c.Core)
		}
		desc := make([]string, len(c.Descendants))
		for i, d := range c.Descendants {
			desc[i] = idString(d)
		}
		row := []string{id, fmt.Sprintf("%v", desc), fmt.Sprintf("%t", c.Leafs), core}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}
