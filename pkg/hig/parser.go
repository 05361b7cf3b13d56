// Package hig parses the line-oriented .hig graph file format: a `/Graph`
// header, an optional `/Nodes` declaration, and one or more `/Edges`/`/Arcs`
// sections, feeding the result into a graphbuild.Builder.
package hig

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/alutov/hirecs/pkg/clusteritem"
	"github.com/alutov/hirecs/pkg/graphbuild"
	"github.com/alutov/hirecs/pkg/hirecserr"
	"github.com/alutov/hirecs/pkg/weight"
)

// Load is the top-level convenience entry point: parse r into a fresh
// builder and finalize it, returning the leaf nodes ready for
// hierarchy.Build plus whether any section used /Arcs (directed) and
// whether any link or self-weight was negative (signed, per spec.md §3).
// The /Graph header, which must be the file's first section if present, is
// peeked before the builder is constructed so its weighted flag can seed
// the builder's link policy correctly.
func Load(r io.Reader, shuffle bool) (nodes []*clusteritem.Node, directed bool, signed bool, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false, false, hirecserr.Wrap(hirecserr.InvalidInput, "reading .hig input", err)
	}
	weighted := peekWeighted(data)

	b := graphbuild.New(weight.LinkPolicy{Weighted: weighted}, 0, shuffle)
	if err := ParseInto(strings.NewReader(string(data)), b, weighted); err != nil {
		return nil, false, false, err
	}
	nodes, err = b.Finalize()
	if err != nil {
		return nil, false, false, err
	}
	return nodes, b.IsDirected(), b.Signed(), nil
}

func peekWeighted(data []byte) bool {
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			return true
		}
		sec, rest, err := parseHeader(line)
		if err != nil || sec != sectionGraph {
			return true
		}
		w := true
		if applyGraphHeader(rest, &w) != nil {
			return true
		}
		return w
	}
	return true
}

type section int

const (
	sectionNone section = iota
	sectionGraph
	sectionNodes
	sectionEdges
	sectionArcs
)

// ParseInto parses r and populates a
// graphbuild.Builder the caller owns (so CLI and HTTP callers can choose the
// shuffle seed and expected-range declarations before parsing begins).
func ParseInto(r io.Reader, b *graphbuild.Builder, weighted bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	cur := sectionNone
	sawSelfLoop := make(map[weight.ID]section)
	declaredNodes := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "/") {
			sec, rest, err := parseHeader(line)
			if err != nil {
				return wrapLine(lineNo, err)
			}
			cur = sec
			switch sec {
			case sectionGraph:
				if err := applyGraphHeader(rest, &weighted); err != nil {
					return wrapLine(lineNo, err)
				}
			case sectionNodes:
				n, lo, hasLo, err := parseNodesHeader(rest)
				if err != nil {
					return wrapLine(lineNo, err)
				}
				ids := make([]weight.ID, n)
				for i := range ids {
					ids[i] = lo + weight.ID(i)
				}
				if err := b.AddNodes(ids); err != nil {
					return wrapLine(lineNo, err)
				}
				if hasLo {
					b.SetExpectedRange(lo, lo+weight.ID(n))
				}
				declaredNodes = true
			}
			continue
		}

		switch cur {
		case sectionEdges, sectionArcs:
			directed := cur == sectionArcs
			src, links, err := parseLinkLine(line, weighted)
			if err != nil {
				return wrapLine(lineNo, err)
			}
			for _, l := range links {
				if l.Dest == src {
					if prev, ok := sawSelfLoop[src]; ok && prev != cur {
						return wrapLine(lineNo, hirecserr.Newf(hirecserr.InvalidInput,
							"node %d has a self-loop declared in both /Edges and /Arcs", src))
					}
					sawSelfLoop[src] = cur
				}
			}
			var err2 error
			if declaredNodes {
				err2 = b.AddNodeLinks(directed, src, links)
			} else {
				err2 = b.AddNodeAndLinks(directed, src, links)
			}
			if err2 != nil {
				return wrapLine(lineNo, err2)
			}
		default:
			return wrapLine(lineNo, hirecserr.New(hirecserr.InvalidInput, "link line outside /Edges or /Arcs"))
		}
	}
	if err := scanner.Err(); err != nil {
		return hirecserr.Wrap(hirecserr.InvalidInput, "reading .hig stream", err)
	}
	return nil
}

func wrapLine(line int, err error) error {
	return hirecserr.Wrap(hirecserr.KindOf(err), "line "+strconv.Itoa(line), err)
}

func parseHeader(line string) (section, string, error) {
	body := strings.TrimPrefix(line, "/")
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return sectionNone, "", hirecserr.New(hirecserr.InvalidInput, "empty section header")
	}
	name := strings.ToLower(fields[0])
	rest := strings.Join(fields[1:], " ")
	switch name {
	case "graph":
		return sectionGraph, rest, nil
	case "nodes":
		return sectionNodes, rest, nil
	case "edges":
		return sectionEdges, rest, nil
	case "arcs":
		return sectionArcs, rest, nil
	default:
		return sectionNone, "", hirecserr.Newf(hirecserr.InvalidInput, "unknown section /%s", fields[0])
	}
}

func applyGraphHeader(rest string, weighted *bool) error {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		*weighted = true
		return nil
	}
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 || strings.ToLower(strings.TrimSpace(parts[0])) != "weighted" {
		return hirecserr.Newf(hirecserr.InvalidInput, "malformed /Graph header %q", rest)
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || (v != 0 && v != 1) {
		return hirecserr.Newf(hirecserr.InvalidInput, "weighted flag must be 0 or 1, got %q", parts[1])
	}
	*weighted = v == 1
	return nil
}

func parseNodesHeader(rest string) (n int, startID weight.ID, hasStart bool, err error) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, 0, false, hirecserr.New(hirecserr.InvalidInput, "/Nodes requires a count")
	}
	count, convErr := strconv.Atoi(fields[0])
	if convErr != nil || count < 0 {
		return 0, 0, false, hirecserr.Newf(hirecserr.InvalidInput, "invalid /Nodes count %q", fields[0])
	}
	if len(fields) >= 2 {
		sid, convErr := strconv.ParseUint(fields[1], 10, 32)
		if convErr != nil {
			return 0, 0, false, hirecserr.Newf(hirecserr.InvalidInput, "invalid /Nodes start_id %q", fields[1])
		}
		return count, weight.ID(sid), true, nil
	}
	return count, 0, false, nil
}

// parseLinkLine parses `src > d1[:w1] d2[:w2] ...`.
func parseLinkLine(line string, weighted bool) (weight.ID, []graphbuild.InputLink, error) {
	parts := strings.SplitN(line, ">", 2)
	if len(parts) != 2 {
		return 0, nil, hirecserr.Newf(hirecserr.InvalidInput, "malformed link line %q, expected 'src > dst...'", line)
	}
	srcU, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 32)
	if err != nil {
		return 0, nil, hirecserr.Newf(hirecserr.InvalidInput, "invalid source id %q", parts[0])
	}
	src := weight.ID(srcU)

	fields := strings.Fields(parts[1])
	links := make([]graphbuild.InputLink, 0, len(fields))
	for _, f := range fields {
		tok := strings.SplitN(f, ":", 2)
		dstU, err := strconv.ParseUint(tok[0], 10, 32)
		if err != nil {
			return 0, nil, hirecserr.Newf(hirecserr.InvalidInput, "invalid destination id %q", tok[0])
		}
		l := graphbuild.InputLink{Dest: weight.ID(dstU)}
		switch {
		case len(tok) == 2 && !weighted:
			return 0, nil, hirecserr.Newf(hirecserr.InvalidInput, "weight given on unweighted graph: %q", f)
		case len(tok) == 2:
			w, err := strconv.ParseFloat(tok[1], 32)
			if err != nil {
				return 0, nil, hirecserr.Newf(hirecserr.InvalidInput, "invalid weight %q", tok[1])
			}
			l.Weight = weight.Weight(w)
		default:
			l.Weight = weight.LinkPolicy{Weighted: weighted}.DefaultWeight()
		}
		links = append(links, l)
	}
	return src, links, nil
}
