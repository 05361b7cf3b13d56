// Package graphbuild turns parser output (node ids and directed/undirected
// links) into the initial []clusteritem.Item the clustering engine consumes.
// It is the Go re-expression of the original HiReCS Graph<WEIGHTED,UNSIGNED>
// class (original_source/export/cluster.h / cluster.hpp): the two template
// booleans become a runtime weight.LinkPolicy, and the per-insert coin-flip
// shuffle becomes a single permutation applied at Finalize.
package graphbuild

import (
	"math/rand"
	"sort"

	"github.com/alutov/hirecs/pkg/clusteritem"
	"github.com/alutov/hirecs/pkg/hirecserr"
	"github.com/alutov/hirecs/pkg/weight"
)

// InputLink describes one link as given to the builder by a parser.
type InputLink struct {
	Dest   weight.ID
	Weight weight.Weight
}

// Builder accumulates nodes and links before producing the node slice the
// engine consumes. It must be used by a single goroutine at a time.
type Builder struct {
	policy    weight.LinkPolicy
	shuffle   bool
	rng       *rand.Rand
	finalized bool
	directed  bool
	signed    bool

	idNodes map[weight.ID]*clusteritem.Node
	nodes   []*clusteritem.Node

	rangeLo, rangeHi weight.ID
	rangeSet         bool
}

// New creates a builder for the given link policy. expectedNodes only
// preallocates; shuffle randomizes insertion order (and per-node link
// order) at Finalize time without changing the multiset of links.
func New(policy weight.LinkPolicy, expectedNodes int, shuffle bool) *Builder {
	return NewWithSeed(policy, expectedNodes, shuffle, 0)
}

// NewWithSeed is like New but with a caller-supplied permutation seed, so
// that shuffled runs remain reproducible in tests.
func NewWithSeed(policy weight.LinkPolicy, expectedNodes int, shuffle bool, seed int64) *Builder {
	b := &Builder{
		policy:  policy,
		shuffle: shuffle,
		rng:     rand.New(rand.NewSource(seed)),
		idNodes: make(map[weight.ID]*clusteritem.Node, expectedNodes),
		nodes:   make([]*clusteritem.Node, 0, expectedNodes),
	}
	return b
}

// Reset reinitializes the builder for reuse, as the original Graph::reinit
// did, discarding all nodes and links accumulated so far.
func (b *Builder) Reset(expectedNodes int, shuffle bool) {
	b.shuffle = shuffle
	b.finalized = false
	b.directed = false
	b.signed = false
	b.rangeSet = false
	b.idNodes = make(map[weight.ID]*clusteritem.Node, expectedNodes)
	b.nodes = make([]*clusteritem.Node, 0, expectedNodes)
}

// SetExpectedRange declares the valid node id range [lo, hi); AddNodeLinks
// and AddNodeAndLinks then reject out-of-range endpoints eagerly. Without a
// declared range, only existence in idNodes is checked (spec.md §9 Open
// Question #2: range validation is merely downgraded, not disabled).
func (b *Builder) SetExpectedRange(lo, hi weight.ID) {
	b.rangeLo, b.rangeHi = lo, hi
	b.rangeSet = true
}

func (b *Builder) validateExtension() error {
	if b.finalized {
		return hirecserr.New(hirecserr.InvalidInput, "builder already finalized")
	}
	return nil
}

func (b *Builder) inRange(id weight.ID) bool {
	if !b.rangeSet {
		return true
	}
	return id >= b.rangeLo && id < b.rangeHi
}

// AddNodes preallocates nodes with the given ids. Duplicate ids fail with
// InvalidInput.
func (b *Builder) AddNodes(ids []weight.ID) error {
	if err := b.validateExtension(); err != nil {
		return err
	}
	for _, id := range ids {
		if _, exists := b.idNodes[id]; exists {
			return hirecserr.Newf(hirecserr.InvalidInput, "duplicate node id %d", id)
		}
		if b.rangeSet && !b.inRange(id) {
			return hirecserr.Newf(hirecserr.InvalidInput, "node id %d out of declared range", id)
		}
		n := clusteritem.NewNode(id)
		b.nodes = append(b.nodes, n)
		b.idNodes[id] = n
	}
	return nil
}

func (b *Builder) node(id weight.ID) (*clusteritem.Node, error) {
	n, ok := b.idNodes[id]
	if !ok {
		return nil, hirecserr.Newf(hirecserr.UnknownNode, "unknown node id %d", id)
	}
	return n, nil
}

// selfWeightMultiplier implements the §4.1 rule: self-weight is doubled
// only in the undirected, unweighted case, to compensate for the edge to
// arc weight halving that an unweighted link cannot otherwise express.
func selfWeightMultiplier(policy weight.LinkPolicy, directed bool) weight.AccWeight {
	if policy.Weighted || directed {
		return 1
	}
	return 2
}

func (b *Builder) addLink(directed bool, src *clusteritem.Node, dst weight.ID, w weight.Weight) error {
	if !b.inRange(src.ID()) || !b.inRange(dst) {
		return hirecserr.Newf(hirecserr.UnknownNode, "link %d > %d has an endpoint outside the declared range", src.ID(), dst)
	}
	if w < 0 {
		b.signed = true
	}
	if dst == src.ID() {
		if src.SelfWeight() != 0 {
			return hirecserr.Newf(hirecserr.InvalidInput,
				"self-weight of node %d already initialized (duplicate self-loop)", src.ID())
		}
		src.SetSelfWeight(weight.AccWeight(w) * selfWeightMultiplier(b.policy, directed))
		return nil
	}
	dstNode, err := b.node(dst)
	if err != nil {
		return err
	}
	if !directed {
		w /= 2
		src.Links = append(src.Links, clusteritem.Link{Dest: dstNode, Weight: w})
		dstNode.Links = append(dstNode.Links, clusteritem.Link{Dest: src, Weight: w})
	} else {
		src.Links = append(src.Links, clusteritem.Link{Dest: dstNode, Weight: w})
	}
	b.directed = b.directed || directed
	return nil
}

// AddNodeLinks extends src's outbound links. src and every destination must
// already exist (AddNodes or a prior AddNodeAndLinks), else UnknownNode.
func (b *Builder) AddNodeLinks(directed bool, src weight.ID, links []InputLink) error {
	if err := b.validateExtension(); err != nil {
		return err
	}
	srcNode, err := b.node(src)
	if err != nil {
		return err
	}
	for _, l := range links {
		w := l.Weight
		if !b.policy.Weighted {
			w = b.policy.DefaultWeight()
		}
		if err := b.addLink(directed, srcNode, l.Dest, w); err != nil {
			return err
		}
	}
	return nil
}

// AddNodeAndLinks is like AddNodeLinks but creates src and/or missing
// destinations on demand.
func (b *Builder) AddNodeAndLinks(directed bool, src weight.ID, links []InputLink) error {
	if err := b.validateExtension(); err != nil {
		return err
	}
	srcNode, ok := b.idNodes[src]
	if !ok {
		srcNode = clusteritem.NewNode(src)
		b.nodes = append(b.nodes, srcNode)
		b.idNodes[src] = srcNode
	}
	for _, l := range links {
		if _, ok := b.idNodes[l.Dest]; !ok && l.Dest != src {
			n := clusteritem.NewNode(l.Dest)
			b.nodes = append(b.nodes, n)
			b.idNodes[l.Dest] = n
		}
		w := l.Weight
		if !b.policy.Weighted {
			w = b.policy.DefaultWeight()
		}
		if err := b.addLink(directed, srcNode, l.Dest, w); err != nil {
			return err
		}
	}
	return nil
}

// IsDirected reports whether any call used directed=true.
func (b *Builder) IsDirected() bool { return b.directed }

// Signed reports whether any link or self-weight added so far carried a
// negative weight. Per spec.md §3, signedness is a static property of the
// whole graph: once observed, a graph is signed for the purposes of
// selecting the modularity formula, even if only one link is negative.
func (b *Builder) Signed() bool { return b.signed }

// Finalize completes construction: applies the shuffle permutation if
// requested, disables further mutation, and releases the id->node map.
func (b *Builder) Finalize() ([]*clusteritem.Node, error) {
	if b.finalized {
		return nil, hirecserr.New(hirecserr.InvalidInput, "builder already finalized")
	}
	if len(b.nodes) == 0 {
		return nil, hirecserr.New(hirecserr.EmptyInput, "graph has no nodes")
	}
	if b.shuffle {
		b.rng.Shuffle(len(b.nodes), func(i, j int) { b.nodes[i], b.nodes[j] = b.nodes[j], b.nodes[i] })
		for _, n := range b.nodes {
			links := n.Links
			b.rng.Shuffle(len(links), func(i, j int) { links[i], links[j] = links[j], links[i] })
		}
	}
	nodes := b.nodes
	b.idNodes = nil
	b.finalized = true
	return nodes, nil
}

// SortedIDs is a convenience helper for callers that want a deterministic
// listing of the ids seen so far. It returns an empty slice after Finalize,
// which releases the id->node map.
func (b *Builder) SortedIDs() []weight.ID {
	ids := make([]weight.ID, 0, len(b.idNodes))
	for id := range b.idNodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
