// Package clusteritem holds the entities the clustering engine operates on:
// Node (a graph leaf) and Cluster (a non-leaf hierarchy level), unified
// through the Item interface so the engine can treat both polymorphically.
package clusteritem

import (
	"sort"

	"github.com/alutov/hirecs/pkg/weight"
)

// Neighbor pairs a linked item with the accumulated weight of the link(s)
// reaching it, aggregated and sorted by destination id for determinism.
type Neighbor struct {
	Item   Item
	Weight weight.AccWeight
}

// Item is satisfied by both Node and Cluster. Only Cluster has descendants
// and a core; Node reports both as nil. The clustering engine never type
// switches on the concrete type in its hot path — it dispatches on
// Descendants() == nil instead (the "tagged variant" of spec.md §9).
type Item interface {
	ID() weight.ID
	Owners() []*Cluster
	AddOwner(c *Cluster)
	SelfWeight() weight.AccWeight
	SetSelfWeight(w weight.AccWeight)
	// Descendants returns this item's children one level down, or nil for a Node.
	Descendants() []Item
	// Core returns the descendant that initiated this cluster's formation, or nil.
	Core() Item
	// AggregatedNeighbors returns, sorted by destination id, the outbound
	// links of this item with duplicate destinations summed.
	AggregatedNeighbors() []Neighbor
}

// Link is a single directed arc from a Node to another Node.
type Link struct {
	Dest   *Node
	Weight weight.Weight
}

// Node is a leaf of the hierarchy: one vertex of the input graph.
type Node struct {
	id         weight.ID
	selfWeight weight.AccWeight
	Links      []Link
	owners     []*Cluster
}

// NewNode constructs a node with the given id and no links.
func NewNode(id weight.ID) *Node {
	return &Node{id: id}
}

func (n *Node) ID() weight.ID                          { return n.id }
func (n *Node) Owners() []*Cluster                      { return n.owners }
func (n *Node) AddOwner(c *Cluster)                     { n.owners = append(n.owners, c) }
func (n *Node) SelfWeight() weight.AccWeight             { return n.selfWeight }
func (n *Node) SetSelfWeight(w weight.AccWeight)         { n.selfWeight = w }
func (n *Node) Descendants() []Item                      { return nil }
func (n *Node) Core() Item                               { return nil }

// AggregatedNeighbors sums weights per distinct destination and sorts by id.
func (n *Node) AggregatedNeighbors() []Neighbor {
	byDest := make(map[weight.ID]*Neighbor, len(n.Links))
	order := make([]weight.ID, 0, len(n.Links))
	for _, l := range n.Links {
		if existing, ok := byDest[l.Dest.id]; ok {
			existing.Weight += weight.AccWeight(l.Weight)
			continue
		}
		byDest[l.Dest.id] = &Neighbor{Item: l.Dest, Weight: weight.AccWeight(l.Weight)}
		order = append(order, l.Dest.id)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]Neighbor, len(order))
	for i, id := range order {
		out[i] = *byDest[id]
	}
	return out
}

// AccLink is an accumulating directed arc between two clusters.
type AccLink struct {
	Dest   *Cluster
	Weight weight.AccWeight
}

// Cluster is a non-leaf hierarchy node formed from one folding iteration.
type Cluster struct {
	id          weight.ID
	owners      []*Cluster
	descendants []Item
	core        Item
	selfWeight  weight.AccWeight
	Links       []AccLink // accumulated outbound links, kept sorted by dest id
}

// NewCluster constructs an empty cluster with the given id.
func NewCluster(id weight.ID) *Cluster {
	return &Cluster{id: id}
}

func (c *Cluster) ID() weight.ID                  { return c.id }
func (c *Cluster) Owners() []*Cluster             { return c.owners }
func (c *Cluster) AddOwner(o *Cluster)             { c.owners = append(c.owners, o) }
func (c *Cluster) SelfWeight() weight.AccWeight     { return c.selfWeight }
func (c *Cluster) SetSelfWeight(w weight.AccWeight) { c.selfWeight = w }
func (c *Cluster) Descendants() []Item              { return c.descendants }
func (c *Cluster) Core() Item                       { return c.core }
func (c *Cluster) SetCore(i Item)                   { c.core = i }
func (c *Cluster) SetDescendants(items []Item)      { c.descendants = items }

// AggregatedNeighbors returns the accumulated links as-is: they are already
// merged and kept sorted by destination id by AccumulateLink.
func (c *Cluster) AggregatedNeighbors() []Neighbor {
	out := make([]Neighbor, len(c.Links))
	for i, l := range c.Links {
		out[i] = Neighbor{Item: l.Dest, Weight: l.Weight}
	}
	return out
}

// AccumulateLink adds w to the accumulating link from c to dest, creating it
// if absent, preserving the sort-by-dest-id invariant required by §4.3.4.
func (c *Cluster) AccumulateLink(dest *Cluster, w weight.AccWeight) {
	i := sort.Search(len(c.Links), func(i int) bool { return c.Links[i].Dest.id >= dest.id })
	if i < len(c.Links) && c.Links[i].Dest.id == dest.id {
		c.Links[i].Weight += w
		return
	}
	c.Links = append(c.Links, AccLink{})
	copy(c.Links[i+1:], c.Links[i:])
	c.Links[i] = AccLink{Dest: dest, Weight: w}
}

var (
	_ Item = (*Node)(nil)
	_ Item = (*Cluster)(nil)
)
