// Package engine implements the folding loop that turns one level of
// clusteritem.Item into the next: modularity, gain, clusterability
// classification, strict/quasi-mutual matching, cluster materialization and
// propagation, grounded in the teacher's pkg/louvain/algorithm.go OneLevel /
// AggregateGraph pair but reworked around the tagged-item, overlap-aware
// model of this domain instead of Louvain's disjoint integer partition.
package engine

import (
	"github.com/rs/zerolog"

	"github.com/alutov/hirecs/pkg/clusteritem"
	"github.com/alutov/hirecs/pkg/weight"
)

// Options configures one clustering run. Margin and Symmetric are read
// verbatim from spec.md §4.3.1/§4.3.6; Fast and Validate select the
// quasi-mutual matching mode and the pre-iteration invariant check of
// §4.3.3/§4.3.7. Logger defaults to a disabled logger when zero-valued.
type Options struct {
	Symmetric bool
	Fast      bool
	Validate  bool
	Margin    float64
	Logger    zerolog.Logger
}

// IterationResult is the outcome of folding one level.
type IterationResult struct {
	NextLevel []clusteritem.Item
	Q         float64
	DQ        float64
}

// RunIteration performs exactly one folding pass over level, per spec.md
// §4.3.3-§4.3.5, and reports the resulting modularity and its delta over
// prevQ. alloc supplies fresh cluster ids for any clusters materialized this
// pass.
func RunIteration(level []clusteritem.Item, prevQ float64, alloc IDAllocator, opts Options) IterationResult {
	if opts.Validate {
		Validate(level)
	}

	s := newIterState(level)
	s.classify()

	groups, placed := s.buildGroups(opts.Fast)

	// Per spec.md §4.3.6, folding is only worth doing when the projected
	// improvement clears the profit margin; checking the projection before
	// materializing avoids mutating owners/links for a pass that would be
	// discarded anyway (margin = +1 means "never fold").
	if predictedGain(s, groups) <= weight.AccWeight(opts.Margin) {
		return IterationResult{NextLevel: level, Q: prevQ, DQ: 0}
	}

	clusters, memberOf := s.materialize(groups, alloc)

	next := s.propagate(placed, memberOf, opts.Fast)
	for _, c := range clusters {
		next = append(next, c)
	}

	q := Modularity(next, opts.Symmetric)
	dq := q - prevQ

	if opts.Logger.GetLevel() <= zerolog.DebugLevel {
		histogram := map[string]int{}
		for _, c := range s.cls {
			histogram[c.flag.String()]++
		}
		opts.Logger.Debug().
			Int("level_size", len(level)).
			Int("next_size", len(next)).
			Int("clusters_formed", len(clusters)).
			Float64("q", q).
			Float64("dq", dq).
			Interface("clusterability", histogram).
			Msg("folding iteration complete")
	}

	return IterationResult{NextLevel: next, Q: q, DQ: dq}
}

// predictedGain sums the per-item gmax of every item about to be folded, as
// a cheap surrogate for the modularity improvement a pass would realize,
// without requiring a full materialize+Modularity round trip to find out.
func predictedGain(s *iterState, groups []group) weight.AccWeight {
	var total weight.AccWeight
	for _, g := range groups {
		for _, m := range g.members {
			total += s.cls[m].gmax
		}
	}
	return total
}

// Levels drives RunIteration to convergence, per spec.md §4.3.6: iterate
// until dQ <= margin, or the level collapses to a single item. It returns
// every level produced, starting with the leaves themselves.
func Levels(leaves []clusteritem.Item, alloc IDAllocator, opts Options) [][]clusteritem.Item {
	levels := [][]clusteritem.Item{leaves}
	q := Modularity(leaves, opts.Symmetric)

	for {
		current := levels[len(levels)-1]
		if len(current) <= 1 {
			break
		}
		res := RunIteration(current, q, alloc, opts)
		q = res.Q
		folded := len(res.NextLevel) != len(current)
		for i := 0; !folded && i < len(current); i++ {
			folded = res.NextLevel[i] != current[i]
		}
		if folded {
			levels = append(levels, res.NextLevel)
		}
		if res.DQ <= opts.Margin || !folded {
			// Either this pass wasn't worth the margin (its folded level, if
			// any, is kept as the final one), or it made no progress at all
			// (NextLevel holds exactly the input level's items, e.g. per
			// RunIteration's margin short-circuit) — in that case current is
			// already the final level and is not appended again as a
			// duplicate trailing entry.
			break
		}
	}
	return levels
}
