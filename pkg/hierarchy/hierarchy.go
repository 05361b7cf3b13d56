// Package hierarchy stores every level a clustering run produced and
// implements the read-side operations spec.md §4.4 names: nodes, clusters,
// root, score, unwrap and the stateful level-by-level traversal iterator.
package hierarchy

import (
	"sync/atomic"

	"github.com/alutov/hirecs/pkg/clusteritem"
	"github.com/alutov/hirecs/pkg/engine"
	"github.com/alutov/hirecs/pkg/hirecserr"
	"github.com/alutov/hirecs/pkg/weight"
)

// idAllocator is an atomic-backed engine.IDAllocator, one per Hierarchy, per
// SPEC_FULL.md §9's resolution of the "shared vs. per-hierarchy counter"
// Open Question: a hierarchy-scoped counter is enough to guarantee ids are
// unique within that hierarchy (I5), and avoids a package-level global that
// would make two independent test hierarchies interfere with each other.
type idAllocator struct{ next atomic.Uint32 }

func (a *idAllocator) Next() weight.ID { return a.next.Add(1) }

// Hierarchy is the immutable result of clustering nodes to convergence.
type Hierarchy struct {
	leaves    []*clusteritem.Node
	levels    [][]clusteritem.Item
	clusters  []*clusteritem.Cluster
	score     float64
	symmetric bool

	traverseLevel int
}

// Options mirrors engine.Options; it is re-exported here so callers only
// import pkg/hierarchy to run a full clustering pass.
type Options = engine.Options

// Build runs the folding loop to convergence (spec.md §4.3.6) starting from
// leaves and returns the resulting Hierarchy.
func Build(leaves []*clusteritem.Node, opts Options) (*Hierarchy, error) {
	if len(leaves) == 0 {
		return nil, hirecserr.New(hirecserr.EmptyInput, "cannot build a hierarchy with no leaves")
	}
	items := make([]clusteritem.Item, len(leaves))
	for i, n := range leaves {
		items[i] = n
	}

	alloc := &idAllocator{}
	levels := engine.Levels(items, alloc, opts)

	h := &Hierarchy{leaves: leaves, levels: levels, symmetric: opts.Symmetric}
	seen := make(map[*clusteritem.Cluster]bool)
	for _, lvl := range levels[1:] {
		for _, it := range lvl {
			if c, ok := it.(*clusteritem.Cluster); ok && !seen[c] {
				seen[c] = true
				h.clusters = append(h.clusters, c)
			}
		}
	}
	h.score = engine.Modularity(h.Root(), opts.Symmetric)
	return h, nil
}

// Nodes returns the initial leaf set.
func (h *Hierarchy) Nodes() []*clusteritem.Node { return h.leaves }

// Clusters returns every cluster ever allocated, in allocation order.
func (h *Hierarchy) Clusters() []*clusteritem.Cluster { return h.clusters }

// Root returns the topmost level.
func (h *Hierarchy) Root() []clusteritem.Item { return h.levels[len(h.levels)-1] }

// Levels returns every level, leaves first and root last.
func (h *Hierarchy) Levels() [][]clusteritem.Item { return h.levels }

// Score returns the final modularity.
func (h *Hierarchy) Score() float64 { return h.score }

// CrossCheckModularity recomputes the root level's modularity with an
// independent gonum implementation (see engine.CrossCheckModularity); it is
// only meaningful when the hierarchy was built with Symmetric: true.
func (h *Hierarchy) CrossCheckModularity() (float64, error) {
	return engine.CrossCheckModularity(h.Root())
}

// Unwrap computes, for the given cluster, the membership share of every
// underlying leaf node, per spec.md §4.4: a share propagates to each
// descendant divided by that descendant's owner count, and accumulates into
// the result once a leaf is reached.
func Unwrap(cl *clusteritem.Cluster) map[*clusteritem.Node]float32 {
	result := make(map[*clusteritem.Node]float32)
	var walk func(it clusteritem.Item, share float32)
	walk = func(it clusteritem.Item, share float32) {
		if n, ok := it.(*clusteritem.Node); ok {
			result[n] += share
			return
		}
		c := it.(*clusteritem.Cluster)
		for _, d := range c.Descendants() {
			owners := len(d.Owners())
			if owners == 0 {
				owners = 1
			}
			walk(d, share/float32(owners))
		}
	}
	walk(cl, 1.0)
	return result
}
