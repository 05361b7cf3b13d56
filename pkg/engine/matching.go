package engine

import "sort"

// group is one about-to-be-materialized cluster: a set of member indices
// into the level. The same index may appear in more than one group — that
// is the overlap case of spec.md §4.3.4, produced whenever an item is a
// mutual-best candidate for more than one disjoint clique.
type group struct{ members []int }

// buildGroups implements spec.md §4.3.3 step 3.
//
// In strict-mutual mode a cluster forms from set S iff every pair in S is
// mutual-best for every other, so groups are exactly the maximal cliques of
// the mutual-candidate graph (Bron-Kerbosch below); an item tied at gmax
// between two unrelated neighbourhoods lands in two maximal cliques and
// therefore overlaps, matching the pentagon/5-cycle scenario where each edge
// becomes its own two-node cluster.
//
// In quasi-mutual ("fast") mode, chains are allowed — a,b mutual and b,c
// mutual pulls c into {a,b} — which is exactly the connected-components
// relaxation of the same graph; this trades away overlap fidelity for a
// cheaper, single linear pass.
//
// placed[i] reports whether item i ended up in at least one group.
func (s *iterState) buildGroups(fast bool) ([]group, []bool) {
	universe := make([]int, 0, len(s.level))
	for i := range s.level {
		if len(s.cls[i].mutual) > 0 {
			universe = append(universe, i)
		}
	}

	adj := make(map[int]map[int]bool, len(universe))
	for _, i := range universe {
		adj[i] = make(map[int]bool, len(s.cls[i].mutual))
		for _, j := range s.cls[i].mutual {
			adj[i][j] = true
		}
	}

	var cliqueSets [][]int
	if fast {
		cliqueSets = connectedComponents(universe, adj)
	} else {
		cliqueSets = maximalCliques(universe, adj)
	}

	groups := make([]group, 0, len(cliqueSets))
	placed := make([]bool, len(s.level))
	for _, members := range cliqueSets {
		if len(members) < 2 {
			continue
		}
		sort.Ints(members)
		groups = append(groups, group{members: members})
		for _, m := range members {
			placed[m] = true
		}
	}
	return groups, placed
}

func connectedComponents(universe []int, adj map[int]map[int]bool) [][]int {
	visited := make(map[int]bool, len(universe))
	var comps [][]int
	for _, start := range universe {
		if visited[start] {
			continue
		}
		var comp []int
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			comp = append(comp, v)
			for n := range adj[v] {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// maximalCliques runs Bron-Kerbosch without pivoting over the mutual graph
// restricted to universe. These graphs are gain-tie graphs on a single
// folding iteration and stay small in practice, so the unoptimized
// worst-case exponential algorithm is adequate.
func maximalCliques(universe []int, adj map[int]map[int]bool) [][]int {
	all := make(map[int]bool, len(universe))
	for _, v := range universe {
		all[v] = true
	}

	var cliques [][]int
	var recurse func(r, p, x map[int]bool)
	recurse = func(r, p, x map[int]bool) {
		if len(p) == 0 && len(x) == 0 {
			clique := make([]int, 0, len(r))
			for v := range r {
				clique = append(clique, v)
			}
			cliques = append(cliques, clique)
			return
		}
		for v := range cloneSet(p) {
			r2 := cloneSet(r)
			r2[v] = true
			p2 := intersect(p, adj[v])
			x2 := intersect(x, adj[v])
			recurse(r2, p2, x2)
			delete(p, v)
			x[v] = true
		}
	}
	recurse(map[int]bool{}, cloneSet(all), map[int]bool{})
	return cliques
}

func cloneSet(m map[int]bool) map[int]bool {
	out := make(map[int]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func intersect(a, b map[int]bool) map[int]bool {
	out := make(map[int]bool)
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}
